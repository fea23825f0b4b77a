package dto

import "studymate/internal/domain"

// RecommendationsResponse carries scored project suggestions for a student.
// Message is set instead of Suggestions when recommendations are gated.
type RecommendationsResponse struct {
	Suggestions []domain.Recommendation `json:"suggestions"`
	Message     string                  `json:"message,omitempty"`
}
