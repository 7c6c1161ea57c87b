package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/career-copilot/internal/services"
)

type StateHandler struct {
	orchestrator *services.Orchestrator
}

func NewStateHandler(orchestrator *services.Orchestrator) *StateHandler {
	return &StateHandler{
		orchestrator: orchestrator,
	}
}

// HandleGetState handles GET /state. Workflow state is reported even before
// login; only actions are gated.
func (h *StateHandler) HandleGetState(c *fiber.Ctx) error {
	return c.JSON(h.orchestrator.Snapshot())
}
