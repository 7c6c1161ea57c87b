package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/career-copilot/internal/models"
	"alfredoptarigan/career-copilot/internal/services"
)

type ResumeHandler struct {
	orchestrator *services.Orchestrator
	fetcher      services.ResumeFetcher
}

func NewResumeHandler(orchestrator *services.Orchestrator, fetcher services.ResumeFetcher) *ResumeHandler {
	return &ResumeHandler{
		orchestrator: orchestrator,
		fetcher:      fetcher,
	}
}

// HandleDownload handles POST /resume/download. It saves the last generated
// resume locally and reports its page count.
func (h *ResumeHandler) HandleDownload(c *fiber.Ctx) error {
	if !h.orchestrator.Gate().Authenticated() {
		return writeError(c, services.ErrNotAuthenticated)
	}

	result := h.orchestrator.Resume().Result()
	if result.Status != services.ResultSuccess {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
			Error: "No generated resume to download",
			Code:  fiber.StatusNotFound,
		})
	}

	downloaded, err := h.fetcher.Fetch(c.UserContext(), result.Payload)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(models.ErrorResponse{
			Error: err.Error(),
			Code:  fiber.StatusBadGateway,
		})
	}

	return c.JSON(fiber.Map{
		"file_name":  downloaded.Filename,
		"path":       downloaded.Path,
		"page_count": downloaded.PageCount,
		"preview":    downloaded.Preview,
	})
}
