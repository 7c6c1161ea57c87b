package models

import (
	"time"

	"github.com/google/uuid"
)

type SubmissionStatus string

const (
	StatusQueued     SubmissionStatus = "queued"
	StatusProcessing SubmissionStatus = "processing"
	StatusCompleted  SubmissionStatus = "completed"
	StatusFailed     SubmissionStatus = "failed"
)

// Submission records one submit cycle of a workflow for the lifetime of the
// process. Request payloads are never stored.
type Submission struct {
	ID           uuid.UUID        `gorm:"type:text;primaryKey" json:"id"`
	Workflow     Workflow         `gorm:"type:text;not null;index" json:"workflow"`
	Endpoint     string           `gorm:"type:text;not null" json:"endpoint"`
	Status       SubmissionStatus `gorm:"type:text;not null;default:'queued'" json:"status"`
	ErrorMessage *string          `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}
