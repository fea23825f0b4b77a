package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"studymate/internal/domain"
	"studymate/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const progressColumns = `
	id "ID",
	student_id "STUDENT_ID",
	course_id "COURSE_ID",
	course_name "COURSE_NAME",
	tasks_completed "TASKS_COMPLETED",
	total_tasks "TOTAL_TASKS",
	accuracy "ACCURACY",
	grade "GRADE",
	status "STATUS",
	created_at "CREATED_AT",
	updated_at "UPDATED_AT"`

// sqlxProgressRepository implements domain.ProgressRepository using sqlx.
type sqlxProgressRepository struct {
	db *sqlx.DB
}

// NewSQLXProgressRepository creates a new instance of sqlxProgressRepository.
func NewSQLXProgressRepository(db *sqlx.DB) domain.ProgressRepository {
	return &sqlxProgressRepository{db: db}
}

// FindByStudent lists a student's progress records in insertion order. The
// ORDER BY is load-bearing: first-match course resolution in the dispatcher
// must see a stable order across requests.
func (r *sqlxProgressRepository) FindByStudent(ctx context.Context, studentID string) ([]*domain.Progress, error) {
	query := `SELECT` + progressColumns + `
	FROM progress
	WHERE student_id = :student_id
	ORDER BY created_at, id`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for FindByStudent: %w", err)
	}
	defer stmt.Close()

	var progressModels []models.Progress
	err = stmt.SelectContext(ctx, &progressModels, map[string]interface{}{"student_id": studentID})
	if err != nil {
		return nil, fmt.Errorf("failed to find progress by student: %w", err)
	}

	records := make([]*domain.Progress, 0, len(progressModels))
	for i := range progressModels {
		records = append(records, toDomainProgress(&progressModels[i]))
	}
	return records, nil
}

// GetByStudentAndCourse retrieves one progress record. Returns (nil, nil)
// when absent.
func (r *sqlxProgressRepository) GetByStudentAndCourse(ctx context.Context, studentID, courseID string) (*domain.Progress, error) {
	var progress models.Progress
	query := `SELECT` + progressColumns + `
	FROM progress
	WHERE student_id = :student_id AND course_id = :course_id`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetByStudentAndCourse: %w", err)
	}
	defer stmt.Close()

	err = stmt.GetContext(ctx, &progress, map[string]interface{}{
		"student_id": studentID,
		"course_id":  courseID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return toDomainProgress(&progress), nil
}

// Insert persists a new progress record.
func (r *sqlxProgressRepository) Insert(ctx context.Context, progress *domain.Progress) error {
	model := fromDomainProgress(progress)
	model.CreatedAt = progress.CreatedAt
	model.UpdatedAt = time.Now()

	query := `INSERT INTO progress (id, student_id, course_id, course_name, tasks_completed, total_tasks, accuracy, grade, status, created_at, updated_at)
	          VALUES (:id, :student_id, :course_id, :course_name, :tasks_completed, :total_tasks, :accuracy, :grade, :status, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("failed to insert progress: %w", err)
	}
	return nil
}

// Save updates an existing progress record.
func (r *sqlxProgressRepository) Save(ctx context.Context, progress *domain.Progress) error {
	model := fromDomainProgress(progress)
	model.UpdatedAt = time.Now()

	query := `UPDATE progress SET
		course_name = :course_name,
		tasks_completed = :tasks_completed,
		total_tasks = :total_tasks,
		accuracy = :accuracy,
		grade = :grade,
		status = :status,
		updated_at = :updated_at
	WHERE id = :id`

	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

func toDomainProgress(m *models.Progress) *domain.Progress {
	if m == nil {
		return nil
	}
	progress := &domain.Progress{
		ID:             m.ID,
		StudentID:      m.StudentID,
		CourseID:       m.CourseID,
		TasksCompleted: m.TasksCompleted,
		TotalTasks:     m.TotalTasks,
		Accuracy:       m.Accuracy,
		Status:         m.Status,
		CreatedAt:      m.CreatedAt,
	}
	if m.CourseName.Valid {
		progress.CourseName = m.CourseName.String
	}
	if m.Grade.Valid {
		grade := m.Grade.Float64
		progress.Grade = &grade
	}
	return progress
}

func fromDomainProgress(p *domain.Progress) *models.Progress {
	model := &models.Progress{
		ID:             p.ID,
		StudentID:      p.StudentID,
		CourseID:       p.CourseID,
		TasksCompleted: p.TasksCompleted,
		TotalTasks:     p.TotalTasks,
		Accuracy:       p.Accuracy,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
	}
	if p.CourseName != "" {
		model.CourseName = sql.NullString{String: p.CourseName, Valid: true}
	}
	if p.Grade != nil {
		model.Grade = sql.NullFloat64{Float64: *p.Grade, Valid: true}
	}
	return model
}
