package dto

import "studymate/internal/domain"

// StudyPlanResponse is a free-text weekly study plan.
type StudyPlanResponse struct {
	StudyPlan string `json:"study_plan"`
}

// ProgressSummaryResponse is a free-text progress digest.
type ProgressSummaryResponse struct {
	Summary string `json:"summary"`
}

// RoadmapRequest asks for a learning roadmap toward an interest area.
type RoadmapRequest struct {
	Interest string `json:"interest"`
}

// RoadmapResponse is the structured roadmap returned to the client.
type RoadmapResponse struct {
	ID        string                `json:"id"`
	StudentID string                `json:"student_id"`
	Interest  string                `json:"interest"`
	Phases    []domain.RoadmapPhase `json:"phases"`
	Resources []string              `json:"resources"`
}

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
