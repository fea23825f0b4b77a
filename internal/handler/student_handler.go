package handler

import (
	"studymate/internal/domain"
	"studymate/internal/dto"
	"studymate/internal/service"

	"github.com/gofiber/fiber/v2"
)

// StudentHandler handles the per-student endpoints: enrollment, tasks,
// recommendations, and advisory content.
type StudentHandler struct {
	tasks           service.TaskService
	recommendations service.RecommendationService
	advisor         service.AdvisorService
}

func NewStudentHandler(
	tasks service.TaskService,
	recommendations service.RecommendationService,
	advisor service.AdvisorService,
) *StudentHandler {
	return &StudentHandler{
		tasks:           tasks,
		recommendations: recommendations,
		advisor:         advisor,
	}
}

// CourseCatalog handles GET /api/courses?semester=N.
func (h *StudentHandler) CourseCatalog(c *fiber.Ctx) error {
	resp, err := h.tasks.ListCourseCatalog(c.Context(), c.QueryInt("semester"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Enroll handles POST /api/students/:id/enroll.
func (h *StudentHandler) Enroll(c *fiber.Ctx) error {
	var req dto.EnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if len(req.CourseIDs) == 0 {
		return domain.NewInvalidInputError("course_ids is required")
	}
	resp, err := h.tasks.EnrollCourses(c.Context(), c.Params("id"), req.CourseIDs)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListTasks handles GET /api/students/:id/tasks.
func (h *StudentHandler) ListTasks(c *fiber.Ctx) error {
	resp, err := h.tasks.ListTasks(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GenerateTask handles POST /api/students/:id/tasks.
func (h *StudentHandler) GenerateTask(c *fiber.Ctx) error {
	var req dto.GenerateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.tasks.GenerateTaskForTopic(c.Context(), c.Params("id"), req.CourseID, req.Topic)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// SubmitTask handles POST /api/tasks/:id/submit.
func (h *StudentHandler) SubmitTask(c *fiber.Ctx) error {
	var req dto.SubmitTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if req.Submission == "" {
		return domain.NewInvalidInputError("submission is required")
	}
	resp, err := h.tasks.SubmitTask(c.Context(), c.Params("id"), req.Submission)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// VerifyTask handles POST /api/tasks/:id/verify.
func (h *StudentHandler) VerifyTask(c *fiber.Ctx) error {
	var req dto.SubmitTaskRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.tasks.VerifyTask(c.Context(), c.Params("id"), req.Submission)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// PersonalizeTask handles POST /api/tasks/:id/generate.
func (h *StudentHandler) PersonalizeTask(c *fiber.Ctx) error {
	resp, err := h.tasks.PersonalizeTask(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Recommendations handles GET /api/students/:id/recommendations.
func (h *StudentHandler) Recommendations(c *fiber.Ctx) error {
	resp, err := h.recommendations.GetRecommendations(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// StudyPlan handles GET /api/students/:id/study-plan.
func (h *StudentHandler) StudyPlan(c *fiber.Ctx) error {
	resp, err := h.advisor.GenerateStudyPlan(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ProgressSummary handles GET /api/students/:id/progress-summary.
func (h *StudentHandler) ProgressSummary(c *fiber.Ctx) error {
	resp, err := h.advisor.SummarizeProgress(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Roadmap handles POST /api/students/:id/roadmap.
func (h *StudentHandler) Roadmap(c *fiber.Ctx) error {
	var req dto.RoadmapRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.advisor.GenerateRoadmap(c.Context(), c.Params("id"), req.Interest)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
