package domain

import "time"

// Task status values. A task only ever moves pending -> completed; the
// completed state is terminal.
const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// Task type values assigned by the generator.
const (
	TaskTypeTheory = "theory"
	TaskTypeCoding = "coding"
	TaskTypeMCQ    = "mcq"
)

// Task difficulty values.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Task represents a single learning task assigned to a student. Tasks are
// created at enrollment (one per course topic), by the chat tool-call
// dispatcher, or by the remedial generator; they are never deleted.
type Task struct {
	ID          string
	StudentID   string
	CourseID    string // optional; empty for course-less tasks
	Title       string
	Description string
	Type        string
	Difficulty  string
	Status      string
	Score       int // 0-100
	Verified    *bool
	AIFeedback  string
	Submission  string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// NewTask creates a pending task.
func NewTask(id, studentID, courseID, title, description, taskType, difficulty string) *Task {
	return &Task{
		ID:          id,
		StudentID:   studentID,
		CourseID:    courseID,
		Title:       title,
		Description: description,
		Type:        taskType,
		Difficulty:  difficulty,
		Status:      TaskStatusPending,
		CreatedAt:   time.Now(),
	}
}

// IsCompleted reports whether the task has reached its terminal state.
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// Complete transitions the task to its terminal completed state.
func (t *Task) Complete(score int, feedback string, now time.Time) {
	verified := true
	t.Status = TaskStatusCompleted
	t.Score = score
	t.Verified = &verified
	t.AIFeedback = feedback
	t.CompletedAt = &now
}

// Progress status values.
const (
	ProgressOngoing   = "ongoing"
	ProgressCompleted = "completed"
)

// Progress is the per-student-per-course aggregate of completion count,
// accuracy and grade. It is always re-derivable from the task set; the task
// records remain the source of truth.
type Progress struct {
	ID             string
	StudentID      string
	CourseID       string
	CourseName     string
	TasksCompleted int
	TotalTasks     int
	Accuracy       float64
	Grade          *float64 // mean score over completed tasks, 0-100
	Status         string
	CreatedAt      time.Time
}

// NewProgress creates a fresh ongoing progress record.
func NewProgress(id, studentID, courseID, courseName string, totalTasks int) *Progress {
	return &Progress{
		ID:         id,
		StudentID:  studentID,
		CourseID:   courseID,
		CourseName: courseName,
		TotalTasks: totalTasks,
		Status:     ProgressOngoing,
		CreatedAt:  time.Now(),
	}
}

// Recalculate rederives every aggregate from the authoritative set of
// completed-task scores. Recounting from source instead of incrementing keeps
// the record correct under duplicate or overlapping verifications.
func (p *Progress) Recalculate(completedScores []int) {
	p.TasksCompleted = len(completedScores)
	if p.TasksCompleted > p.TotalTasks {
		p.TotalTasks = p.TasksCompleted
	}
	if len(completedScores) > 0 {
		sum := 0
		for _, s := range completedScores {
			sum += s
		}
		grade := float64(sum) / float64(len(completedScores))
		p.Grade = &grade
	}
	p.refresh()
}

// AddTask accounts for a newly inserted pending task. A progress record that
// had reached "completed" reverts to "ongoing" when its total grows past the
// completed count.
func (p *Progress) AddTask() {
	p.TotalTasks++
	p.refresh()
}

func (p *Progress) refresh() {
	if p.TotalTasks > 0 {
		p.Accuracy = float64(p.TasksCompleted) / float64(p.TotalTasks)
	} else {
		p.Accuracy = 0
	}
	if p.TasksCompleted == p.TotalTasks && p.TotalTasks > 0 {
		p.Status = ProgressCompleted
	} else {
		p.Status = ProgressOngoing
	}
}
