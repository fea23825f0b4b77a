package domain

import "context"

// TextGenerator is the port to the external LLM service. Generate never fails:
// on an irrecoverable transport failure the implementation returns a
// deterministic offline payload or apology string instead of an error, so the
// pipelines above it always receive some text to interpret.
type TextGenerator interface {
	Generate(ctx context.Context, prompt, system string) string
}

// StudentRepository reads student profiles. Profiles are owned by the student
// store and read-only to the engine.
type StudentRepository interface {
	GetByID(ctx context.Context, id string) (*StudentProfile, error)
}

// CourseRepository reads the course catalog.
type CourseRepository interface {
	GetByID(ctx context.Context, id string) (*CourseRef, error)
	FindBySemester(ctx context.Context, semester int) ([]*CourseRef, error)
}

// TaskRepository persists tasks. Lookups that find nothing return (nil, nil).
type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*Task, error)
	Insert(ctx context.Context, task *Task) error
	Save(ctx context.Context, task *Task) error
	FindByStudent(ctx context.Context, studentID string) ([]*Task, error)
	FindByStudentAndCourse(ctx context.Context, studentID, courseID string) ([]*Task, error)
	CountPending(ctx context.Context, studentID string) (int, error)
}

// ProgressRepository persists progress aggregates. FindByStudent returns
// records in insertion order; the tool-call dispatcher's first-match course
// resolution depends on that order being stable.
type ProgressRepository interface {
	FindByStudent(ctx context.Context, studentID string) ([]*Progress, error)
	GetByStudentAndCourse(ctx context.Context, studentID, courseID string) (*Progress, error)
	Insert(ctx context.Context, progress *Progress) error
	Save(ctx context.Context, progress *Progress) error
}

// FYPRepository reads the capstone-project catalog in catalog order.
type FYPRepository interface {
	FindAll(ctx context.Context) ([]*FYPCandidate, error)
	Insert(ctx context.Context, candidate *FYPCandidate) error
}

// ChatSessionRepository stores per-student conversation histories.
type ChatSessionRepository interface {
	GetOrCreate(ctx context.Context, studentID string) (*ChatSession, error)
	Save(ctx context.Context, session *ChatSession) error
}

// RoadmapRepository persists generated interest roadmaps.
type RoadmapRepository interface {
	GetLatestByStudent(ctx context.Context, studentID string) (*StudentRoadmap, error)
	Insert(ctx context.Context, roadmap *StudentRoadmap) error
}
