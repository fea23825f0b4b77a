package repository

import (
	"context"
	"fmt"
	"time"

	"studymate/internal/domain"
	"studymate/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxFYPRepository implements domain.FYPRepository using sqlx.
type sqlxFYPRepository struct {
	db *sqlx.DB
}

// NewSQLXFYPRepository creates a new instance of sqlxFYPRepository.
func NewSQLXFYPRepository(db *sqlx.DB) domain.FYPRepository {
	return &sqlxFYPRepository{db: db}
}

// FindAll lists the whole capstone catalog. Ordering by ULID id preserves
// insertion order, which the recommendation tie-break relies on.
func (r *sqlxFYPRepository) FindAll(ctx context.Context) ([]*domain.FYPCandidate, error) {
	var projectModels []models.FYPProject
	query := `SELECT
		id "ID",
		title "TITLE",
		description "DESCRIPTION",
		category "CATEGORY",
		complexity "COMPLEXITY",
		required_skills "REQUIRED_SKILLS",
		trending "TRENDING",
		created_at "CREATED_AT"
	FROM fyp_projects
	ORDER BY id`

	if err := r.db.SelectContext(ctx, &projectModels, query); err != nil {
		return nil, fmt.Errorf("failed to list fyp projects: %w", err)
	}

	candidates := make([]*domain.FYPCandidate, 0, len(projectModels))
	for i := range projectModels {
		candidates = append(candidates, toDomainFYP(&projectModels[i]))
	}
	return candidates, nil
}

// Insert persists a new catalog entry.
func (r *sqlxFYPRepository) Insert(ctx context.Context, candidate *domain.FYPCandidate) error {
	model := &models.FYPProject{
		ID:             candidate.ID,
		Title:          candidate.Title,
		Description:    candidate.Description,
		Category:       candidate.Category,
		Complexity:     candidate.Complexity,
		RequiredSkills: candidate.RequiredSkills,
		Trending:       candidate.Trending,
		CreatedAt:      time.Now(),
	}

	query := `INSERT INTO fyp_projects (id, title, description, category, complexity, required_skills, trending, created_at)
	          VALUES (:id, :title, :description, :category, :complexity, :required_skills, :trending, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("failed to insert fyp project: %w", err)
	}
	return nil
}

func toDomainFYP(m *models.FYPProject) *domain.FYPCandidate {
	return &domain.FYPCandidate{
		ID:             m.ID,
		Title:          m.Title,
		Description:    m.Description,
		Category:       m.Category,
		Complexity:     m.Complexity,
		RequiredSkills: m.RequiredSkills,
		Trending:       m.Trending,
	}
}
