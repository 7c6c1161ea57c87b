package handlers

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/career-copilot/internal/models"
	"alfredoptarigan/career-copilot/internal/services"
)

type SessionHandler struct {
	orchestrator *services.Orchestrator
	frames       *services.FrameBuffer
}

func NewSessionHandler(orchestrator *services.Orchestrator, frames *services.FrameBuffer) *SessionHandler {
	return &SessionHandler{
		orchestrator: orchestrator,
		frames:       frames,
	}
}

// HandleFrame handles POST /session/frame. The browser pushes the live camera
// frame as a data URL; an empty image marks the camera as stopped.
func (h *SessionHandler) HandleFrame(c *fiber.Ctx) error {
	var req models.FrameRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	if strings.TrimSpace(req.Image) == "" {
		h.frames.Update(nil)
		return c.SendStatus(fiber.StatusNoContent)
	}

	mimeType, data, err := services.DecodeDataURL(req.Image)
	if err != nil {
		return badRequest(c, "image must be a base64 data URL")
	}

	h.frames.Update(&services.Image{MIMEType: mimeType, Data: data})
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleLogin handles POST /session/login. It answers once the backend has
// decided; the switch to the workflows follows after the transition delay.
func (h *SessionHandler) HandleLogin(c *fiber.Ctx) error {
	err := h.orchestrator.Login(c.UserContext())
	session := h.orchestrator.Gate().Session()

	switch {
	case err == nil:
		return c.JSON(models.LoginResponse{
			State:   string(session.State),
			Message: session.StatusMessage,
		})
	case statusFor(err) != fiber.StatusInternalServerError:
		return writeError(c, err)
	}

	code := fiber.StatusUnauthorized
	var reqErr *services.RequestError
	if errors.As(err, &reqErr) && reqErr.StatusCode == 0 {
		code = fiber.StatusBadGateway
	}
	return c.Status(code).JSON(models.LoginResponse{
		State:   string(session.State),
		Message: services.UserMessage(err),
	})
}
