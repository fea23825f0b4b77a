package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"studymate/internal/domain"
	"studymate/internal/dto"
	"studymate/internal/llm"
	"studymate/internal/logger"
)

const (
	chatHistoryWindow = 10
	chatTaskWindow    = 5

	notEnrolledMessage = "I couldn't create that task because you aren't enrolled in any courses yet. " +
		"Enroll in a course first and ask me again."
	toolFailureMessage = "Something went wrong while creating your task. Please try again in a moment."
	defaultTaskReason  = "to strengthen your understanding"
)

// ChatService runs a tutoring conversation turn, including tool dispatch
// when the model asks to create a task.
type ChatService interface {
	HandleChatTurn(ctx context.Context, studentID, message string) (*dto.ChatResponse, error)
}

type chatService struct {
	studentRepo  domain.StudentRepository
	progressRepo domain.ProgressRepository
	taskRepo     domain.TaskRepository
	roadmapRepo  domain.RoadmapRepository
	sessionRepo  domain.ChatSessionRepository
	generator    domain.TextGenerator
	tasks        TopicTaskCreator
}

func NewChatService(
	studentRepo domain.StudentRepository,
	progressRepo domain.ProgressRepository,
	taskRepo domain.TaskRepository,
	roadmapRepo domain.RoadmapRepository,
	sessionRepo domain.ChatSessionRepository,
	generator domain.TextGenerator,
	tasks TopicTaskCreator,
) ChatService {
	return &chatService{
		studentRepo:  studentRepo,
		progressRepo: progressRepo,
		taskRepo:     taskRepo,
		roadmapRepo:  roadmapRepo,
		sessionRepo:  sessionRepo,
		generator:    generator,
		tasks:        tasks,
	}
}

// HandleChatTurn builds the student's context, asks the model, dispatches a
// tool call if one comes back, and appends both turns to the session.
func (s *chatService) HandleChatTurn(ctx context.Context, studentID, message string) (*dto.ChatResponse, error) {
	if message == "" {
		return nil, domain.NewInvalidInputError("message is required")
	}
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if student == nil {
		return nil, domain.NewStudentNotFoundError(studentID)
	}

	var (
		records []*domain.Progress
		tasks   []*domain.Task
		session *domain.ChatSession
		roadmap *domain.StudentRoadmap
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.progressRepo.FindByStudent(gctx, studentID)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = s.taskRepo.FindByStudent(gctx, studentID)
		return err
	})
	g.Go(func() error {
		var err error
		session, err = s.sessionRepo.GetOrCreate(gctx, studentID)
		return err
	})
	g.Go(func() error {
		var err error
		roadmap, err = s.roadmapRepo.GetLatestByStudent(gctx, studentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domain.NewInternalError(err)
	}

	if len(tasks) > chatTaskWindow {
		tasks = tasks[len(tasks)-chatTaskWindow:]
	}

	system := buildChatContext(student, records, tasks, roadmap)
	prompt := buildChatPrompt(session.Recent(chatHistoryWindow), message)
	raw := s.generator.Generate(ctx, prompt, system)
	reply := llm.ParseReply(raw)

	visible := reply.Text
	var created *domain.Task
	if reply.Tool != nil {
		visible, created = s.dispatchToolCall(ctx, student, records, reply.Tool)
	}

	session.Append(domain.RoleUser, message)
	session.Append(domain.RoleModel, visible)
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		logger.Get().Error("failed to save chat session", zap.Error(err),
			zap.String("student_id", studentID))
	}

	resp := &dto.ChatResponse{Response: visible}
	if created != nil {
		resp.TaskCreated = toTaskResponse(created)
	}
	return resp, nil
}

// dispatchToolCall executes a create_task request against the progress
// record whose course name best matches the call's course hint. Any failure
// degrades to a plain message; the chat turn itself never errors here.
func (s *chatService) dispatchToolCall(ctx context.Context, student *domain.StudentProfile, records []*domain.Progress, call *llm.ToolCall) (string, *domain.Task) {
	log := logger.Get()
	progress := ResolveCourse(records, call.Course)
	if progress == nil {
		log.Warn("dropping tool call, student has no enrollments",
			zap.String("student_id", student.ID), zap.String("topic", call.Topic))
		return notEnrolledMessage, nil
	}

	task, err := s.tasks.CreateTopicTask(ctx, student, progress, call.Topic)
	if err != nil {
		log.Error("tool call failed", zap.Error(err),
			zap.String("student_id", student.ID), zap.String("topic", call.Topic))
		return toolFailureMessage, nil
	}

	reason := call.Reason
	if reason == "" {
		reason = defaultTaskReason
	}
	log.Info("created task from chat tool call",
		zap.String("student_id", student.ID),
		zap.String("task_id", task.ID),
		zap.String("course", progress.CourseName))
	return "I've added a new practice task on " + call.Topic + " to your list " +
		"(" + reason + "). Open your tasks to get started!", task
}
