package handlers

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/career-copilot/internal/models"
	"alfredoptarigan/career-copilot/internal/repositories"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type HistoryHandler struct {
	submissionRepo repositories.SubmissionRepository
}

func NewHistoryHandler(submissionRepo repositories.SubmissionRepository) *HistoryHandler {
	return &HistoryHandler{
		submissionRepo: submissionRepo,
	}
}

// HandleListHistory handles GET /history?workflow=&limit=
func (h *HistoryHandler) HandleListHistory(c *fiber.Ctx) error {
	workflow := models.Workflow(c.Query("workflow"))
	if workflow != "" && !workflow.Valid() {
		return badRequest(c, "Invalid workflow")
	}

	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit <= 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}

	submissions, err := h.submissionRepo.ListRecent(workflow, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: "Failed to load history",
			Code:  fiber.StatusInternalServerError,
		})
	}

	return c.JSON(fiber.Map{
		"submissions": submissions,
	})
}

// HandleGetSubmission handles GET /history/:id
func (h *HistoryHandler) HandleGetSubmission(c *fiber.Ctx) error {
	// Parse ID from params
	submissionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid submission ID format")
	}

	submission, err := h.submissionRepo.FindByID(submissionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSubmissionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
				Error: "Submission not found",
				Code:  fiber.StatusNotFound,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: "Failed to load submission",
			Code:  fiber.StatusInternalServerError,
		})
	}

	return c.JSON(submission)
}
