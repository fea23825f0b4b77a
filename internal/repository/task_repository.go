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

const taskColumns = `
	id "ID",
	student_id "STUDENT_ID",
	course_id "COURSE_ID",
	title "TITLE",
	description "DESCRIPTION",
	task_type "TASK_TYPE",
	difficulty "DIFFICULTY",
	status "STATUS",
	score "SCORE",
	verified "VERIFIED",
	ai_feedback "AI_FEEDBACK",
	submission "SUBMISSION",
	created_at "CREATED_AT",
	completed_at "COMPLETED_AT",
	updated_at "UPDATED_AT"`

// sqlxTaskRepository implements domain.TaskRepository using sqlx.
type sqlxTaskRepository struct {
	db *sqlx.DB
}

// NewSQLXTaskRepository creates a new instance of sqlxTaskRepository.
func NewSQLXTaskRepository(db *sqlx.DB) domain.TaskRepository {
	return &sqlxTaskRepository{db: db}
}

// GetByID retrieves a task. Returns (nil, nil) when absent.
func (r *sqlxTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var task models.Task
	query := `SELECT` + taskColumns + `
	FROM tasks
	WHERE id = :id`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetByID: %w", err)
	}
	defer stmt.Close()

	err = stmt.GetContext(ctx, &task, map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task by id: %w", err)
	}
	return toDomainTask(&task), nil
}

// Insert persists a new task.
func (r *sqlxTaskRepository) Insert(ctx context.Context, task *domain.Task) error {
	model := fromDomainTask(task)
	model.CreatedAt = task.CreatedAt
	model.UpdatedAt = time.Now()

	query := `INSERT INTO tasks (id, student_id, course_id, title, description, task_type, difficulty, status, score, verified, ai_feedback, submission, created_at, completed_at, updated_at)
	          VALUES (:ID, :STUDENT_ID, :COURSE_ID, :TITLE, :DESCRIPTION, :TASK_TYPE, :DIFFICULTY, :STATUS, :SCORE, :VERIFIED, :AI_FEEDBACK, :SUBMISSION, :CREATED_AT, :COMPLETED_AT, :UPDATED_AT)`

	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// Save updates an existing task.
func (r *sqlxTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	model := fromDomainTask(task)
	model.UpdatedAt = time.Now()

	query := `UPDATE tasks SET
		title = :TITLE,
		description = :DESCRIPTION,
		task_type = :TASK_TYPE,
		difficulty = :DIFFICULTY,
		status = :STATUS,
		score = :SCORE,
		verified = :VERIFIED,
		ai_feedback = :AI_FEEDBACK,
		submission = :SUBMISSION,
		completed_at = :COMPLETED_AT,
		updated_at = :UPDATED_AT
	WHERE id = :ID`

	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// FindByStudent lists all tasks of a student, oldest first.
func (r *sqlxTaskRepository) FindByStudent(ctx context.Context, studentID string) ([]*domain.Task, error) {
	query := `SELECT` + taskColumns + `
	FROM tasks
	WHERE student_id = :student_id
	ORDER BY created_at, id`
	return r.selectTasks(ctx, query, map[string]interface{}{"student_id": studentID})
}

// FindByStudentAndCourse lists a student's tasks for one course, oldest first.
func (r *sqlxTaskRepository) FindByStudentAndCourse(ctx context.Context, studentID, courseID string) ([]*domain.Task, error) {
	query := `SELECT` + taskColumns + `
	FROM tasks
	WHERE student_id = :student_id AND course_id = :course_id
	ORDER BY created_at, id`
	return r.selectTasks(ctx, query, map[string]interface{}{
		"student_id": studentID,
		"course_id":  courseID,
	})
}

// CountPending counts a student's pending tasks across all courses.
func (r *sqlxTaskRepository) CountPending(ctx context.Context, studentID string) (int, error) {
	query := `SELECT COUNT(*) FROM tasks WHERE student_id = :student_id AND status = :status`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare query for CountPending: %w", err)
	}
	defer stmt.Close()

	var count int
	err = stmt.GetContext(ctx, &count, map[string]interface{}{
		"student_id": studentID,
		"status":     domain.TaskStatusPending,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count pending tasks: %w", err)
	}
	return count, nil
}

func (r *sqlxTaskRepository) selectTasks(ctx context.Context, query string, args map[string]interface{}) ([]*domain.Task, error) {
	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare task select: %w", err)
	}
	defer stmt.Close()

	var taskModels []models.Task
	if err := stmt.SelectContext(ctx, &taskModels, args); err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(taskModels))
	for i := range taskModels {
		tasks = append(tasks, toDomainTask(&taskModels[i]))
	}
	return tasks, nil
}

func toDomainTask(m *models.Task) *domain.Task {
	if m == nil {
		return nil
	}
	task := &domain.Task{
		ID:          m.ID,
		StudentID:   m.StudentID,
		Title:       m.Title,
		Description: m.Description,
		Type:        m.TaskType,
		Difficulty:  m.Difficulty,
		Status:      m.Status,
		Score:       m.Score,
		CreatedAt:   m.CreatedAt,
	}
	if m.CourseID.Valid {
		task.CourseID = m.CourseID.String
	}
	if m.Verified.Valid {
		verified := m.Verified.Bool
		task.Verified = &verified
	}
	if m.AIFeedback.Valid {
		task.AIFeedback = m.AIFeedback.String
	}
	if m.Submission.Valid {
		task.Submission = m.Submission.String
	}
	if m.CompletedAt.Valid {
		completedAt := m.CompletedAt.Time
		task.CompletedAt = &completedAt
	}
	return task
}

func fromDomainTask(t *domain.Task) *models.Task {
	model := &models.Task{
		ID:          t.ID,
		StudentID:   t.StudentID,
		Title:       t.Title,
		Description: t.Description,
		TaskType:    t.Type,
		Difficulty:  t.Difficulty,
		Status:      t.Status,
		Score:       t.Score,
		CreatedAt:   t.CreatedAt,
	}
	if t.CourseID != "" {
		model.CourseID = sql.NullString{String: t.CourseID, Valid: true}
	}
	if t.Verified != nil {
		model.Verified = sql.NullBool{Bool: *t.Verified, Valid: true}
	}
	if t.AIFeedback != "" {
		model.AIFeedback = sql.NullString{String: t.AIFeedback, Valid: true}
	}
	if t.Submission != "" {
		model.Submission = sql.NullString{String: t.Submission, Valid: true}
	}
	if t.CompletedAt != nil {
		model.CompletedAt = sql.NullTime{Time: *t.CompletedAt, Valid: true}
	}
	return model
}
