package services

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"alfredoptarigan/career-copilot/internal/models"
	"alfredoptarigan/career-copilot/internal/repositories"
)

// historyRecorder writes submit cycles to the session history. History is
// best effort: a storage error is logged and never fails a workflow.
type historyRecorder struct {
	repo   repositories.SubmissionRepository
	logger zerolog.Logger
}

func NewHistoryRecorder(repo repositories.SubmissionRepository, logger zerolog.Logger) SubmissionRecorder {
	return &historyRecorder{repo: repo, logger: logger}
}

// Queued implements SubmissionRecorder.
func (h *historyRecorder) Queued(workflow models.Workflow, endpoint Endpoint) uuid.UUID {
	submission := &models.Submission{
		ID:       uuid.New(),
		Workflow: workflow,
		Endpoint: string(endpoint),
		Status:   models.StatusQueued,
	}
	if err := h.repo.Create(submission); err != nil {
		h.logger.Warn().Err(err).Str("workflow", string(workflow)).Msg("⚠️  Failed to record submission")
	}
	return submission.ID
}

// Processing implements SubmissionRecorder.
func (h *historyRecorder) Processing(id uuid.UUID) {
	if err := h.repo.UpdateStatus(id, models.StatusProcessing); err != nil {
		h.logger.Warn().Err(err).Str("submission_id", id.String()).Msg("⚠️  Failed to update submission")
	}
}

// Completed implements SubmissionRecorder.
func (h *historyRecorder) Completed(id uuid.UUID) {
	if err := h.repo.MarkCompleted(id); err != nil {
		h.logger.Warn().Err(err).Str("submission_id", id.String()).Msg("⚠️  Failed to complete submission")
	}
}

// Failed implements SubmissionRecorder.
func (h *historyRecorder) Failed(id uuid.UUID, message string) {
	if err := h.repo.MarkFailed(id, message); err != nil {
		h.logger.Warn().Err(err).Str("submission_id", id.String()).Msg("⚠️  Failed to fail submission")
	}
}
