package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"studymate/internal/domain"
	"studymate/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxRoadmapRepository implements domain.RoadmapRepository using sqlx.
type sqlxRoadmapRepository struct {
	db *sqlx.DB
}

// NewSQLXRoadmapRepository creates a new instance of sqlxRoadmapRepository.
func NewSQLXRoadmapRepository(db *sqlx.DB) domain.RoadmapRepository {
	return &sqlxRoadmapRepository{db: db}
}

// GetLatestByStudent retrieves the most recently generated roadmap for a
// student. Returns (nil, nil) when the student has none.
func (r *sqlxRoadmapRepository) GetLatestByStudent(ctx context.Context, studentID string) (*domain.StudentRoadmap, error) {
	var roadmap models.StudentRoadmap
	query := `SELECT
		id "ID",
		student_id "STUDENT_ID",
		interest "INTEREST",
		phases "PHASES",
		resources "RESOURCES",
		created_at "CREATED_AT",
		updated_at "UPDATED_AT"
	FROM student_roadmaps
	WHERE student_id = :student_id
	ORDER BY created_at DESC
	FETCH FIRST 1 ROWS ONLY`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetLatestByStudent: %w", err)
	}
	defer stmt.Close()

	err = stmt.GetContext(ctx, &roadmap, map[string]interface{}{"student_id": studentID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest roadmap: %w", err)
	}
	return toDomainRoadmap(&roadmap)
}

// Insert persists a new roadmap.
func (r *sqlxRoadmapRepository) Insert(ctx context.Context, roadmap *domain.StudentRoadmap) error {
	phases, err := json.Marshal(roadmap.Phases)
	if err != nil {
		return fmt.Errorf("failed to marshal roadmap phases: %w", err)
	}

	now := time.Now()
	model := &models.StudentRoadmap{
		ID:        roadmap.ID,
		StudentID: roadmap.StudentID,
		Interest:  roadmap.Interest,
		Phases:    phases,
		Resources: roadmap.Resources,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `INSERT INTO student_roadmaps (id, student_id, interest, phases, resources, created_at, updated_at)
	          VALUES (:id, :student_id, :interest, :phases, :resources, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("failed to insert roadmap: %w", err)
	}
	return nil
}

func toDomainRoadmap(m *models.StudentRoadmap) (*domain.StudentRoadmap, error) {
	var phases []domain.RoadmapPhase
	if len(m.Phases) > 0 {
		if err := json.Unmarshal(m.Phases, &phases); err != nil {
			return nil, fmt.Errorf("failed to unmarshal roadmap phases: %w", err)
		}
	}
	return &domain.StudentRoadmap{
		ID:        m.ID,
		StudentID: m.StudentID,
		Interest:  m.Interest,
		Phases:    phases,
		Resources: m.Resources,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}
