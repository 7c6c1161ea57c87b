package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything mounted under /api/v1.
type Handlers struct {
	Session  *SessionHandler
	Workflow *WorkflowHandler
	State    *StateHandler
	History  *HistoryHandler
	Resume   *ResumeHandler
}

func (h Handlers) Register(api fiber.Router) {
	// Session
	api.Post("/session/frame", h.Session.HandleFrame)
	api.Post("/session/login", h.Session.HandleLogin)

	// Workflows (routed to the active tab)
	api.Get("/state", h.State.HandleGetState)
	api.Put("/tab", h.Workflow.HandleSelectTab)
	api.Put("/fields", h.Workflow.HandleUpdateFields)
	api.Post("/file", h.Workflow.HandleSelectFile)
	api.Post("/submit", h.Workflow.HandleSubmit)
	api.Post("/resume/download", h.Resume.HandleDownload)

	api.Get("/history", h.History.HandleListHistory)
	api.Get("/history/:id", h.History.HandleGetSubmission)
}
