package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// StringSlice stores a string list as a JSON array column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(bytesToParse, s)
}

// Student mirrors the STUDENTS table. The engine never writes students.
type Student struct {
	ID              string       `db:"ID"` // ULID
	RollNumber      string       `db:"ROLL_NUMBER"`
	Name            string       `db:"NAME"`
	UniName         string       `db:"UNI_NAME"`
	CurrentSemester int          `db:"CURRENT_SEMESTER"`
	Interests       StringSlice  `db:"INTERESTS"`
	WeakSubjects    StringSlice  `db:"WEAK_SUBJECTS"`
	StudyPace       string       `db:"STUDY_PACE"`
	LearningStyle   string       `db:"LEARNING_STYLE"`
	CreatedAt       time.Time    `db:"CREATED_AT"`
	UpdatedAt       time.Time    `db:"UPDATED_AT"`
	DeletedAt       sql.NullTime `db:"DELETED_AT"`
}

// Course mirrors the COURSES catalog table.
type Course struct {
	ID          string         `db:"ID"` // ULID
	Name        string         `db:"NAME"`
	Code        string         `db:"CODE"`
	Description sql.NullString `db:"DESCRIPTION"`
	Semester    int            `db:"SEMESTER"`
	Topics      StringSlice    `db:"TOPICS"`
	CreatedAt   time.Time      `db:"CREATED_AT"`
	DeletedAt   sql.NullTime   `db:"DELETED_AT"`
}

// Task mirrors the TASKS table.
type Task struct {
	ID          string         `db:"ID"` // ULID
	StudentID   string         `db:"STUDENT_ID"`
	CourseID    sql.NullString `db:"COURSE_ID"`
	Title       string         `db:"TITLE"`
	Description string         `db:"DESCRIPTION"`
	TaskType    string         `db:"TASK_TYPE"`
	Difficulty  string         `db:"DIFFICULTY"`
	Status      string         `db:"STATUS"`
	Score       int            `db:"SCORE"`
	Verified    sql.NullBool   `db:"VERIFIED"`
	AIFeedback  sql.NullString `db:"AI_FEEDBACK"`
	Submission  sql.NullString `db:"SUBMISSION"`
	CreatedAt   time.Time      `db:"CREATED_AT"`
	CompletedAt sql.NullTime   `db:"COMPLETED_AT"`
	UpdatedAt   time.Time      `db:"UPDATED_AT"`
}

// Progress mirrors the PROGRESS table.
type Progress struct {
	ID             string          `db:"ID"` // ULID
	StudentID      string          `db:"STUDENT_ID"`
	CourseID       string          `db:"COURSE_ID"`
	CourseName     sql.NullString  `db:"COURSE_NAME"`
	TasksCompleted int             `db:"TASKS_COMPLETED"`
	TotalTasks     int             `db:"TOTAL_TASKS"`
	Accuracy       float64         `db:"ACCURACY"`
	Grade          sql.NullFloat64 `db:"GRADE"`
	Status         string          `db:"STATUS"`
	CreatedAt      time.Time       `db:"CREATED_AT"`
	UpdatedAt      time.Time       `db:"UPDATED_AT"`
}

// FYPProject mirrors the FYP_PROJECTS catalog table.
type FYPProject struct {
	ID             string      `db:"ID"` // ULID, doubles as catalog order
	Title          string      `db:"TITLE"`
	Description    string      `db:"DESCRIPTION"`
	Category       string      `db:"CATEGORY"`
	Complexity     string      `db:"COMPLEXITY"`
	RequiredSkills StringSlice `db:"REQUIRED_SKILLS"`
	Trending       bool        `db:"TRENDING"`
	CreatedAt      time.Time   `db:"CREATED_AT"`
}

// StudentRoadmap mirrors the STUDENT_ROADMAPS table. Phases are stored as a
// JSON document rather than normalized rows.
type StudentRoadmap struct {
	ID        string         `db:"ID"` // ULID
	StudentID string         `db:"STUDENT_ID"`
	Interest  string         `db:"INTEREST"`
	Phases    types.JSONText `db:"PHASES"`
	Resources StringSlice    `db:"RESOURCES"`
	CreatedAt time.Time      `db:"CREATED_AT"`
	UpdatedAt time.Time      `db:"UPDATED_AT"`
}
