package handlers

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/career-copilot/internal/models"
	"alfredoptarigan/career-copilot/internal/services"
)

// WorkflowHandler routes form actions to the active tab.
type WorkflowHandler struct {
	orchestrator *services.Orchestrator
	maxFileSize  int64
}

func NewWorkflowHandler(orchestrator *services.Orchestrator, maxFileSize int64) *WorkflowHandler {
	return &WorkflowHandler{
		orchestrator: orchestrator,
		maxFileSize:  maxFileSize,
	}
}

// HandleSelectTab handles PUT /tab
func (h *WorkflowHandler) HandleSelectTab(c *fiber.Ctx) error {
	var req models.TabRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	if err := h.orchestrator.SelectTab(models.Workflow(req.Tab)); err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"active_tab": h.orchestrator.ActiveTab()})
}

// HandleUpdateFields handles PUT /fields
func (h *WorkflowHandler) HandleUpdateFields(c *fiber.Ctx) error {
	var req models.FieldsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	if len(req.Fields) == 0 {
		return badRequest(c, "fields is required")
	}

	for name, value := range req.Fields {
		if err := h.orchestrator.UpdateField(name, value); err != nil {
			return writeError(c, err)
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSelectFile handles POST /file. The upload is read in full here so
// the later submission does not depend on the request's temporary files.
func (h *WorkflowHandler) HandleSelectFile(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}

	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		return badRequest(c, fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "failed to open uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return badRequest(c, "failed to read uploaded file")
	}

	file := services.MemoryFile{
		FileName: fileHeader.Filename,
		Type:     fileHeader.Header.Get("Content-Type"),
		Data:     data,
	}
	if err := h.orchestrator.SelectFile(file); err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"file_name": file.FileName,
		"size":      len(data),
	})
}

// HandleSubmit handles POST /submit. The request runs in the background and
// its result shows up in GET /state.
func (h *WorkflowHandler) HandleSubmit(c *fiber.Ctx) error {
	// Detached from the request: the submission outlives this handler.
	started, _, err := h.orchestrator.Submit(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(models.SubmitResponse{
		Workflow: string(started),
		Status:   string(services.ResultPending),
	})
}
