package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/career-copilot/internal/models"
)

var ErrSubmissionNotFound = errors.New("submission not found")

type SubmissionRepository interface {
	Create(submission *models.Submission) error
	FindByID(id uuid.UUID) (*models.Submission, error)
	UpdateStatus(id uuid.UUID, status models.SubmissionStatus) error
	MarkCompleted(id uuid.UUID) error
	MarkFailed(id uuid.UUID, errorMsg string) error
	ListRecent(workflow models.Workflow, limit int) ([]models.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(submission *models.Submission) error {
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	if submission.Status == "" {
		submission.Status = models.StatusQueued
	}
	if err := r.db.Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (r *submissionRepository) FindByID(id uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.Where("id = ?", id).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}
	return &submission, nil
}

func (r *submissionRepository) UpdateStatus(id uuid.UUID, status models.SubmissionStatus) error {
	return r.update(id, map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
}

func (r *submissionRepository) MarkCompleted(id uuid.UUID) error {
	now := time.Now()
	return r.update(id, map[string]interface{}{
		"status":       models.StatusCompleted,
		"updated_at":   now,
		"completed_at": now,
	})
}

func (r *submissionRepository) MarkFailed(id uuid.UUID, errorMsg string) error {
	now := time.Now()
	return r.update(id, map[string]interface{}{
		"status":        models.StatusFailed,
		"error_message": errorMsg,
		"updated_at":    now,
		"completed_at":  now,
	})
}

// ListRecent returns the newest submissions first. An empty workflow lists
// every workflow.
func (r *submissionRepository) ListRecent(workflow models.Workflow, limit int) ([]models.Submission, error) {
	var submissions []models.Submission
	query := r.db.Order("created_at DESC")
	if workflow != "" {
		query = query.Where("workflow = ?", workflow)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	return submissions, nil
}

func (r *submissionRepository) update(id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.Model(&models.Submission{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update submission: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrSubmissionNotFound
	}

	return nil
}
