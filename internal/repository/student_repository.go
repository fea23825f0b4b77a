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

// sqlxStudentRepository implements domain.StudentRepository using sqlx.
type sqlxStudentRepository struct {
	db *sqlx.DB
}

// NewSQLXStudentRepository creates a new instance of sqlxStudentRepository.
func NewSQLXStudentRepository(db *sqlx.DB) domain.StudentRepository {
	return &sqlxStudentRepository{db: db}
}

// GetByID retrieves a student profile by its internal ID.
// Returns (nil, nil) when no such student exists.
func (r *sqlxStudentRepository) GetByID(ctx context.Context, id string) (*domain.StudentProfile, error) {
	var student models.Student
	query := `SELECT
		id "ID",
		roll_number "ROLL_NUMBER",
		name "NAME",
		uni_name "UNI_NAME",
		current_semester "CURRENT_SEMESTER",
		interests "INTERESTS",
		weak_subjects "WEAK_SUBJECTS",
		study_pace "STUDY_PACE",
		learning_style "LEARNING_STYLE",
		created_at "CREATED_AT",
		updated_at "UPDATED_AT",
		deleted_at "DELETED_AT"
	FROM students
	WHERE id = :id AND deleted_at IS NULL`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetByID: %w", err)
	}
	defer stmt.Close()

	err = stmt.GetContext(ctx, &student, map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get student by id: %w", err)
	}
	return toDomainStudent(&student), nil
}

func toDomainStudent(m *models.Student) *domain.StudentProfile {
	if m == nil {
		return nil
	}
	return &domain.StudentProfile{
		ID:              m.ID,
		RollNumber:      m.RollNumber,
		Name:            m.Name,
		UniName:         m.UniName,
		CurrentSemester: m.CurrentSemester,
		Interests:       m.Interests,
		WeakSubjects:    m.WeakSubjects,
		StudyPace:       m.StudyPace,
		LearningStyle:   m.LearningStyle,
	}
}
