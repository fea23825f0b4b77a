package domain

import "time"

// RoadmapTopic is one item of a roadmap phase.
type RoadmapTopic struct {
	Title  string `json:"title"`
	Status string `json:"status"` // pending, in_progress, completed
}

// RoadmapPhase groups topics with a project idea and a pace-adjusted duration.
type RoadmapPhase struct {
	Title    string         `json:"title"` // Beginner, Intermediate, Advanced, Mastery
	Topics   []RoadmapTopic `json:"topics"`
	Project  string         `json:"project,omitempty"`
	Duration string         `json:"duration,omitempty"`
}

// StudentRoadmap is a generated learning path for one interest.
type StudentRoadmap struct {
	ID        string
	StudentID string
	Interest  string
	Phases    []RoadmapPhase
	Resources []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PendingTopics lists the not-yet-completed topic titles across all phases,
// in roadmap order. The chat context uses this to steer "what next" answers.
func (r *StudentRoadmap) PendingTopics() []string {
	var pending []string
	for _, phase := range r.Phases {
		for _, topic := range phase.Topics {
			if topic.Status != TaskStatusCompleted {
				pending = append(pending, topic.Title)
			}
		}
	}
	return pending
}
