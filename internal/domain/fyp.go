package domain

// FYPCandidate is an immutable capstone-project catalog entry.
type FYPCandidate struct {
	ID             string
	Title          string
	Description    string
	Category       string // e.g. "AI", "Web", "Network"
	Complexity     string // "Easy", "Medium", "Hard"
	RequiredSkills []string
	Trending       bool
}

// SkillRating is one entry of the skill matrix: how strong the student is in
// an area, derived from a completed progress record.
type SkillRating struct {
	Stars    int // 1-5
	Grade    float64
	CourseID string
}

// Recommendation is a scored capstone suggestion. It is derived per request
// and never persisted.
type Recommendation struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Score          int      `json:"score"`       // 0-100
	MatchScore     float64  `json:"match_score"` // Score / 100
	Category       string   `json:"category"`
	MatchingSkills []string `json:"matching_skills"`
	Rationale      string   `json:"rationale"`
}
