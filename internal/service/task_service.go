package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"studymate/internal/domain"
	"studymate/internal/dto"
	"studymate/internal/llm"
	"studymate/internal/logger"
	"studymate/internal/util"
)

// weakAccuracyThreshold marks a course as needing reinforcement.
const weakAccuracyThreshold = 0.6

// TopicTaskCreator creates one pending task on a topic and bumps the owning
// progress record. The chat dispatcher depends on this narrow surface.
type TopicTaskCreator interface {
	CreateTopicTask(ctx context.Context, student *domain.StudentProfile, progress *domain.Progress, topic string) (*domain.Task, error)
}

// TaskService owns the task lifecycle: enrollment generation, submission,
// verification, and follow-up task generation.
type TaskService interface {
	TopicTaskCreator
	ListCourseCatalog(ctx context.Context, semester int) ([]*dto.CourseResponse, error)
	EnrollCourses(ctx context.Context, studentID string, courseIDs []string) (*dto.EnrollResponse, error)
	SubmitTask(ctx context.Context, taskID, submission string) (*dto.SubmitTaskResponse, error)
	VerifyTask(ctx context.Context, taskID, submission string) (*dto.VerifyTaskResponse, error)
	GenerateTaskForTopic(ctx context.Context, studentID, courseID, topic string) (*dto.TaskResponse, error)
	PersonalizeTask(ctx context.Context, taskID string) (*dto.TaskResponse, error)
	ListTasks(ctx context.Context, studentID string) ([]*dto.TaskResponse, error)
}

// taskContent is the shape the model returns for a generated task.
type taskContent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TaskType    string `json:"task_type"`
}

type taskService struct {
	studentRepo  domain.StudentRepository
	courseRepo   domain.CourseRepository
	taskRepo     domain.TaskRepository
	progressRepo domain.ProgressRepository
	generator    domain.TextGenerator
}

func NewTaskService(
	studentRepo domain.StudentRepository,
	courseRepo domain.CourseRepository,
	taskRepo domain.TaskRepository,
	progressRepo domain.ProgressRepository,
	generator domain.TextGenerator,
) TaskService {
	return &taskService{
		studentRepo:  studentRepo,
		courseRepo:   courseRepo,
		taskRepo:     taskRepo,
		progressRepo: progressRepo,
		generator:    generator,
	}
}

// ListCourseCatalog lists the catalog courses offered in one semester, in
// catalog order.
func (s *taskService) ListCourseCatalog(ctx context.Context, semester int) ([]*dto.CourseResponse, error) {
	if semester <= 0 {
		return nil, domain.NewInvalidInputError("semester must be a positive number")
	}
	courses, err := s.courseRepo.FindBySemester(ctx, semester)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	out := make([]*dto.CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, &dto.CourseResponse{
			ID:       c.ID,
			Name:     c.Name,
			Code:     c.Code,
			Semester: c.Semester,
			Topics:   c.Topics,
		})
	}
	return out, nil
}

// EnrollCourses enrolls the student into each course, seeding one pending
// task per course topic. Courses the student is already enrolled in and
// topics that already have a task are skipped, so the call is idempotent.
func (s *taskService) EnrollCourses(ctx context.Context, studentID string, courseIDs []string) (*dto.EnrollResponse, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if student == nil {
		return nil, domain.NewStudentNotFoundError(studentID)
	}

	enrolled := 0
	generated := 0
	known := 0
	firstUnknown := ""
	for _, courseID := range courseIDs {
		course, err := s.courseRepo.GetByID(ctx, courseID)
		if err != nil {
			return nil, domain.NewInternalError(err)
		}
		if course == nil {
			if firstUnknown == "" {
				firstUnknown = courseID
			}
			logger.Get().Warn("skipping unknown course during enrollment",
				zap.String("course_id", courseID), zap.String("student_id", studentID))
			continue
		}
		known++

		existing, err := s.progressRepo.GetByStudentAndCourse(ctx, studentID, courseID)
		if err != nil {
			return nil, domain.NewInternalError(err)
		}
		if existing != nil {
			continue
		}

		tasks, err := s.taskRepo.FindByStudentAndCourse(ctx, studentID, courseID)
		if err != nil {
			return nil, domain.NewInternalError(err)
		}
		seen := make(map[string]bool, len(tasks))
		for _, t := range tasks {
			seen[t.Title] = true
		}

		for _, topic := range course.Topics {
			title := "Learn " + topic
			if seen[title] {
				continue
			}
			task := domain.NewTask(util.NewULID(), studentID, courseID, title,
				fmt.Sprintf("Study and master %s as part of %s.", topic, course.Name),
				domain.TaskTypeTheory, domain.DifficultyMedium)
			if err := s.taskRepo.Insert(ctx, task); err != nil {
				return nil, domain.NewInternalError(err)
			}
			tasks = append(tasks, task)
			generated++
		}

		progress := domain.NewProgress(util.NewULID(), studentID, courseID, course.Name, len(tasks))
		var scores []int
		for _, t := range tasks {
			if t.IsCompleted() {
				scores = append(scores, t.Score)
			}
		}
		if len(scores) > 0 {
			progress.Recalculate(scores)
		}
		if err := s.progressRepo.Insert(ctx, progress); err != nil {
			return nil, domain.NewInternalError(err)
		}
		enrolled++
	}

	// Individual unknown IDs are skipped, but a request that names no real
	// course at all is an error.
	if known == 0 && firstUnknown != "" {
		return nil, domain.NewCourseNotFoundError(firstUnknown)
	}

	return &dto.EnrollResponse{
		Status:         "success",
		EnrolledCount:  enrolled,
		TasksGenerated: generated,
		Message:        fmt.Sprintf("Enrolled in %d course(s) and generated %d task(s).", enrolled, generated),
	}, nil
}

// SubmitTask stores the student's work on a pending task. It never changes
// the task status; only verification can complete a task.
func (s *taskService) SubmitTask(ctx context.Context, taskID, submission string) (*dto.SubmitTaskResponse, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if task == nil {
		return nil, domain.NewTaskNotFoundError(taskID)
	}
	if task.IsCompleted() {
		return &dto.SubmitTaskResponse{
			Status:  "success",
			Message: "This task is already completed.",
		}, nil
	}

	task.Submission = submission
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &dto.SubmitTaskResponse{
		Status:  "success",
		Message: "Submission saved. Run verification to have it evaluated.",
	}, nil
}

// VerifyTask evaluates a submission and, on success, completes the task and
// refreshes the owning progress record. Verifying an already completed task
// is a no-op.
func (s *taskService) VerifyTask(ctx context.Context, taskID, submission string) (*dto.VerifyTaskResponse, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if task == nil {
		return nil, domain.NewTaskNotFoundError(taskID)
	}
	if task.IsCompleted() {
		return &dto.VerifyTaskResponse{
			Status:   "success",
			Verified: true,
			Score:    task.Score,
			Feedback: task.AIFeedback,
			Message:  "This task was already verified.",
		}, nil
	}

	if submission != "" {
		task.Submission = submission
	}
	if task.Submission == "" {
		return nil, domain.NewInvalidInputError("submission is required")
	}
	// The submission must be durable before the evaluator is consulted.
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, domain.NewInternalError(err)
	}

	raw := s.generator.Generate(ctx, buildVerifyPrompt(task, task.Submission), evaluatorSystem)
	outcome, ok := llm.TryExtractJSON[domain.VerificationOutcome](raw)
	if !ok {
		logger.Get().Warn("evaluator reply had no parsable verdict, task stays pending",
			zap.String("task_id", taskID))
		return &dto.VerifyTaskResponse{
			Status:   "unavailable",
			Verified: false,
			Message:  "The evaluation service is unavailable right now. Your work is saved and will be evaluated when you try again.",
		}, nil
	}

	verified, score := outcome.Resolve()
	task.AIFeedback = outcome.Feedback
	if !verified {
		task.Score = score
		verifiedFlag := false
		task.Verified = &verifiedFlag
		if err := s.taskRepo.Save(ctx, task); err != nil {
			return nil, domain.NewInternalError(err)
		}
		return &dto.VerifyTaskResponse{
			Status:   "success",
			Verified: false,
			Score:    score,
			Feedback: outcome.Feedback,
			Message:  "Your submission needs more work. Check the feedback and try again.",
		}, nil
	}

	task.Complete(score, outcome.Feedback, time.Now())
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, domain.NewInternalError(err)
	}

	s.recalculateProgress(ctx, task)
	s.maybeGenerateRemedial(ctx, task.StudentID)

	return &dto.VerifyTaskResponse{
		Status:   "success",
		Verified: true,
		Score:    score,
		Feedback: outcome.Feedback,
		Message:  "Great work! Your submission was verified.",
	}, nil
}

// recalculateProgress recounts the course aggregates from the stored task
// set. Failures are logged and swallowed; the task itself is already saved.
func (s *taskService) recalculateProgress(ctx context.Context, task *domain.Task) {
	if task.CourseID == "" {
		return
	}
	log := logger.Get()
	progress, err := s.progressRepo.GetByStudentAndCourse(ctx, task.StudentID, task.CourseID)
	if err != nil || progress == nil {
		if err != nil {
			log.Error("failed to load progress for recount", zap.Error(err),
				zap.String("course_id", task.CourseID))
		}
		return
	}
	tasks, err := s.taskRepo.FindByStudentAndCourse(ctx, task.StudentID, task.CourseID)
	if err != nil {
		log.Error("failed to list tasks for recount", zap.Error(err),
			zap.String("course_id", task.CourseID))
		return
	}

	var scores []int
	seen := false
	for _, t := range tasks {
		if t.ID == task.ID {
			seen = true
			scores = append(scores, task.Score)
			continue
		}
		if t.IsCompleted() {
			scores = append(scores, t.Score)
		}
	}
	if !seen {
		scores = append(scores, task.Score)
	}

	progress.Recalculate(scores)
	if err := s.progressRepo.Save(ctx, progress); err != nil {
		log.Error("failed to save recounted progress", zap.Error(err),
			zap.String("progress_id", progress.ID))
	}
}

// maybeGenerateRemedial adds one reinforcement task when the student has no
// pending tasks left and at least one course sits below the accuracy bar.
// Best effort; the verification that triggered it already succeeded.
func (s *taskService) maybeGenerateRemedial(ctx context.Context, studentID string) {
	log := logger.Get()
	pending, err := s.taskRepo.CountPending(ctx, studentID)
	if err != nil {
		log.Error("failed to count pending tasks", zap.Error(err), zap.String("student_id", studentID))
		return
	}
	if pending > 0 {
		return
	}

	records, err := s.progressRepo.FindByStudent(ctx, studentID)
	if err != nil {
		log.Error("failed to list progress for remedial check", zap.Error(err),
			zap.String("student_id", studentID))
		return
	}
	var weakest *domain.Progress
	for _, p := range records {
		if p.Accuracy >= weakAccuracyThreshold {
			continue
		}
		if weakest == nil || p.Accuracy < weakest.Accuracy {
			weakest = p
		}
	}
	if weakest == nil {
		return
	}

	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil || student == nil {
		log.Error("failed to load student for remedial task", zap.Error(err),
			zap.String("student_id", studentID))
		return
	}

	task, err := s.CreateTopicTask(ctx, student, weakest, weakest.CourseName+" fundamentals")
	if err != nil {
		log.Error("failed to create remedial task", zap.Error(err),
			zap.String("student_id", studentID))
		return
	}
	log.Info("generated remedial task",
		zap.String("student_id", studentID),
		zap.String("course", weakest.CourseName),
		zap.String("task_id", task.ID))
}

// CreateTopicTask generates one pending task on a topic via the model, with
// a deterministic fallback, then bumps the owning progress record.
func (s *taskService) CreateTopicTask(ctx context.Context, student *domain.StudentProfile, progress *domain.Progress, topic string) (*domain.Task, error) {
	fallback := taskContent{
		Title:       "Study " + topic,
		Description: fmt.Sprintf("Review and practice %s for %s.", topic, progress.CourseName),
		TaskType:    domain.TaskTypeTheory,
	}
	raw := s.generator.Generate(ctx, buildTaskPrompt(student, progress.CourseName, topic), jsonAssistantSystem)
	content := llm.ExtractJSON(raw, fallback)
	if content.Title == "" {
		content.Title = fallback.Title
	}
	if content.Description == "" {
		content.Description = fallback.Description
	}

	task := domain.NewTask(util.NewULID(), student.ID, progress.CourseID,
		content.Title, content.Description, normalizeTaskType(content.TaskType), domain.DifficultyMedium)
	if err := s.taskRepo.Insert(ctx, task); err != nil {
		return nil, domain.NewInternalError(err)
	}

	progress.AddTask()
	if err := s.progressRepo.Save(ctx, progress); err != nil {
		logger.Get().Error("failed to bump progress after task creation", zap.Error(err),
			zap.String("progress_id", progress.ID))
	}
	return task, nil
}

// GenerateTaskForTopic is the direct endpoint variant of CreateTopicTask.
func (s *taskService) GenerateTaskForTopic(ctx context.Context, studentID, courseID, topic string) (*dto.TaskResponse, error) {
	if topic == "" {
		return nil, domain.NewInvalidInputError("topic is required")
	}
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if student == nil {
		return nil, domain.NewStudentNotFoundError(studentID)
	}
	progress, err := s.progressRepo.GetByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if progress == nil {
		return nil, domain.NewInvalidInputError("student is not enrolled in this course")
	}
	task, err := s.CreateTopicTask(ctx, student, progress, topic)
	if err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

// PersonalizeTask rewrites a pending task's content for the student's
// learning style. Completed tasks are returned unchanged.
func (s *taskService) PersonalizeTask(ctx context.Context, taskID string) (*dto.TaskResponse, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if task == nil {
		return nil, domain.NewTaskNotFoundError(taskID)
	}
	if task.IsCompleted() {
		return toTaskResponse(task), nil
	}
	student, err := s.studentRepo.GetByID(ctx, task.StudentID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if student == nil {
		return nil, domain.NewStudentNotFoundError(task.StudentID)
	}

	courseName := "General Studies"
	if task.CourseID != "" {
		course, err := s.courseRepo.GetByID(ctx, task.CourseID)
		if err != nil {
			return nil, domain.NewInternalError(err)
		}
		if course != nil {
			courseName = course.Name
		}
	}

	fallback := taskContent{
		Title:       "Study " + task.Title,
		Description: task.Description,
		TaskType:    task.Type,
	}
	raw := s.generator.Generate(ctx, buildTaskPrompt(student, courseName, task.Title), jsonAssistantSystem)
	content := llm.ExtractJSON(raw, fallback)
	if content.Title != "" {
		task.Title = content.Title
	}
	if content.Description != "" {
		task.Description = content.Description
	}
	task.Type = normalizeTaskType(content.TaskType)
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, domain.NewInternalError(err)
	}
	return toTaskResponse(task), nil
}

func (s *taskService) ListTasks(ctx context.Context, studentID string) ([]*dto.TaskResponse, error) {
	tasks, err := s.taskRepo.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	out := make([]*dto.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out, nil
}

func normalizeTaskType(t string) string {
	switch t {
	case domain.TaskTypeTheory, domain.TaskTypeCoding, domain.TaskTypeMCQ:
		return t
	default:
		return domain.TaskTypeTheory
	}
}

func toTaskResponse(task *domain.Task) *dto.TaskResponse {
	return &dto.TaskResponse{
		ID:          task.ID,
		StudentID:   task.StudentID,
		CourseID:    task.CourseID,
		Title:       task.Title,
		Description: task.Description,
		TaskType:    task.Type,
		Difficulty:  task.Difficulty,
		Status:      task.Status,
		Score:       task.Score,
		AIFeedback:  task.AIFeedback,
	}
}
