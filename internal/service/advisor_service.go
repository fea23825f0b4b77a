package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"studymate/internal/domain"
	"studymate/internal/dto"
	"studymate/internal/llm"
	"studymate/internal/logger"
	"studymate/internal/util"
)

// AdvisorService produces free-text guidance and structured roadmaps.
type AdvisorService interface {
	GenerateStudyPlan(ctx context.Context, studentID string) (*dto.StudyPlanResponse, error)
	SummarizeProgress(ctx context.Context, studentID string) (*dto.ProgressSummaryResponse, error)
	GenerateRoadmap(ctx context.Context, studentID, interest string) (*dto.RoadmapResponse, error)
}

type advisorService struct {
	studentRepo  domain.StudentRepository
	progressRepo domain.ProgressRepository
	taskRepo     domain.TaskRepository
	roadmapRepo  domain.RoadmapRepository
	generator    domain.TextGenerator
}

func NewAdvisorService(
	studentRepo domain.StudentRepository,
	progressRepo domain.ProgressRepository,
	taskRepo domain.TaskRepository,
	roadmapRepo domain.RoadmapRepository,
	generator domain.TextGenerator,
) AdvisorService {
	return &advisorService{
		studentRepo:  studentRepo,
		progressRepo: progressRepo,
		taskRepo:     taskRepo,
		roadmapRepo:  roadmapRepo,
		generator:    generator,
	}
}

func (s *advisorService) GenerateStudyPlan(ctx context.Context, studentID string) (*dto.StudyPlanResponse, error) {
	student, records, err := s.loadStudentContext(ctx, studentID)
	if err != nil {
		return nil, err
	}
	plan := s.generator.Generate(ctx, buildStudyPlanPrompt(student, records), tutorSystemPreamble)
	return &dto.StudyPlanResponse{StudyPlan: plan}, nil
}

func (s *advisorService) SummarizeProgress(ctx context.Context, studentID string) (*dto.ProgressSummaryResponse, error) {
	student, records, err := s.loadStudentContext(ctx, studentID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	var completed []*domain.Task
	for _, t := range tasks {
		if t.IsCompleted() {
			completed = append(completed, t)
		}
	}
	summary := s.generator.Generate(ctx, buildSummaryPrompt(student, records, completed), tutorSystemPreamble)
	return &dto.ProgressSummaryResponse{Summary: summary}, nil
}

// roadmapPayload is the shape the model returns for a roadmap.
type roadmapPayload struct {
	Interest  string                `json:"interest"`
	Phases    []domain.RoadmapPhase `json:"phases"`
	Resources []string              `json:"resources"`
}

// GenerateRoadmap builds a phased learning roadmap toward an interest area
// and persists it as the student's latest roadmap. When the interest is
// omitted the student's first profile interest is used.
func (s *advisorService) GenerateRoadmap(ctx context.Context, studentID, interest string) (*dto.RoadmapResponse, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if student == nil {
		return nil, domain.NewStudentNotFoundError(studentID)
	}
	if interest == "" {
		if len(student.Interests) == 0 {
			return nil, domain.NewInvalidInputError("interest is required")
		}
		interest = student.Interests[0]
	}

	fallback := roadmapPayload{
		Interest: interest,
		Phases: []domain.RoadmapPhase{{
			Title:    "Beginner",
			Duration: "4 weeks",
			Project:  "A small hands-on project in " + interest,
			Topics: []domain.RoadmapTopic{
				{Title: "Core concepts of " + interest, Status: domain.TaskStatusPending},
				{Title: "Standard tools for " + interest, Status: domain.TaskStatusPending},
			},
		}},
		Resources: []string{"Official documentation", "An introductory online course"},
	}
	raw := s.generator.Generate(ctx, buildRoadmapPrompt(student, interest), jsonAssistantSystem)
	payload := llm.ExtractJSON(raw, fallback)
	if payload.Interest == "" {
		payload.Interest = interest
	}
	for i := range payload.Phases {
		for j := range payload.Phases[i].Topics {
			if payload.Phases[i].Topics[j].Status == "" {
				payload.Phases[i].Topics[j].Status = domain.TaskStatusPending
			}
		}
	}

	roadmap := &domain.StudentRoadmap{
		ID:        util.NewULID(),
		StudentID: studentID,
		Interest:  payload.Interest,
		Phases:    payload.Phases,
		Resources: payload.Resources,
		CreatedAt: time.Now(),
	}
	if err := s.roadmapRepo.Insert(ctx, roadmap); err != nil {
		logger.Get().Error("failed to persist roadmap", zap.Error(err),
			zap.String("student_id", studentID))
	}

	return &dto.RoadmapResponse{
		ID:        roadmap.ID,
		StudentID: roadmap.StudentID,
		Interest:  roadmap.Interest,
		Phases:    roadmap.Phases,
		Resources: roadmap.Resources,
	}, nil
}

func (s *advisorService) loadStudentContext(ctx context.Context, studentID string) (*domain.StudentProfile, []*domain.Progress, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, nil, domain.NewInternalError(err)
	}
	if student == nil {
		return nil, nil, domain.NewStudentNotFoundError(studentID)
	}
	records, err := s.progressRepo.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, nil, domain.NewInternalError(err)
	}
	return student, records, nil
}
