package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studymate/internal/domain"
	"studymate/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const courseColumns = `
	id "ID",
	name "NAME",
	code "CODE",
	description "DESCRIPTION",
	semester "SEMESTER",
	topics "TOPICS",
	created_at "CREATED_AT",
	deleted_at "DELETED_AT"`

// sqlxCourseRepository implements domain.CourseRepository using sqlx.
type sqlxCourseRepository struct {
	db *sqlx.DB
}

// NewSQLXCourseRepository creates a new instance of sqlxCourseRepository.
func NewSQLXCourseRepository(db *sqlx.DB) domain.CourseRepository {
	return &sqlxCourseRepository{db: db}
}

// GetByID retrieves a catalog course. Returns (nil, nil) when absent.
func (r *sqlxCourseRepository) GetByID(ctx context.Context, id string) (*domain.CourseRef, error) {
	var course models.Course
	query := `SELECT` + courseColumns + `
	FROM courses
	WHERE id = :id AND deleted_at IS NULL`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetByID: %w", err)
	}
	defer stmt.Close()

	err = stmt.GetContext(ctx, &course, map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course by id: %w", err)
	}
	return toDomainCourse(&course), nil
}

// FindBySemester lists the catalog for one semester in catalog order.
func (r *sqlxCourseRepository) FindBySemester(ctx context.Context, semester int) ([]*domain.CourseRef, error) {
	var courseModels []models.Course
	query := `SELECT` + courseColumns + `
	FROM courses
	WHERE semester = :semester AND deleted_at IS NULL
	ORDER BY id`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for FindBySemester: %w", err)
	}
	defer stmt.Close()

	err = stmt.SelectContext(ctx, &courseModels, map[string]interface{}{"semester": semester})
	if err != nil {
		return nil, fmt.Errorf("failed to find courses by semester: %w", err)
	}

	courses := make([]*domain.CourseRef, 0, len(courseModels))
	for i := range courseModels {
		courses = append(courses, toDomainCourse(&courseModels[i]))
	}
	return courses, nil
}

func toDomainCourse(m *models.Course) *domain.CourseRef {
	if m == nil {
		return nil
	}
	return &domain.CourseRef{
		ID:       m.ID,
		Name:     m.Name,
		Code:     m.Code,
		Semester: m.Semester,
		Topics:   m.Topics,
	}
}
