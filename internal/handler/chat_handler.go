package handler

import (
	"studymate/internal/domain"
	"studymate/internal/dto"
	"studymate/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ChatHandler handles tutoring chat requests.
type ChatHandler struct {
	service service.ChatService
}

func NewChatHandler(service service.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if req.StudentID == "" {
		return domain.NewInvalidInputError("student_id is required")
	}

	resp, err := h.service.HandleChatTurn(c.Context(), req.StudentID, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
