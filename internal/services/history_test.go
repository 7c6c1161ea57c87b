package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/career-copilot/internal/models"
)

type mockSubmissionRepository struct {
	mock.Mock
}

func (m *mockSubmissionRepository) Create(submission *models.Submission) error {
	return m.Called(submission).Error(0)
}

func (m *mockSubmissionRepository) FindByID(id uuid.UUID) (*models.Submission, error) {
	args := m.Called(id)
	sub, _ := args.Get(0).(*models.Submission)
	return sub, args.Error(1)
}

func (m *mockSubmissionRepository) UpdateStatus(id uuid.UUID, status models.SubmissionStatus) error {
	return m.Called(id, status).Error(0)
}

func (m *mockSubmissionRepository) MarkCompleted(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func (m *mockSubmissionRepository) MarkFailed(id uuid.UUID, errorMsg string) error {
	return m.Called(id, errorMsg).Error(0)
}

func (m *mockSubmissionRepository) ListRecent(workflow models.Workflow, limit int) ([]models.Submission, error) {
	args := m.Called(workflow, limit)
	subs, _ := args.Get(0).([]models.Submission)
	return subs, args.Error(1)
}

func TestHistoryRecordsSuccessfulCycle(t *testing.T) {
	repo := new(mockSubmissionRepository)
	var created *models.Submission
	repo.On("Create", mock.AnythingOfType("*models.Submission")).
		Run(func(args mock.Arguments) { created = args.Get(0).(*models.Submission) }).
		Return(nil)
	repo.On("UpdateStatus", mock.Anything, models.StatusProcessing).Return(nil)
	repo.On("MarkCompleted", mock.Anything).Return(nil)

	c := NewInterviewController(
		newFakeDispatcher(respondJSON(`{"questions":[]}`)),
		WithRecorder(NewHistoryRecorder(repo, zerolog.Nop())),
	)
	res, err := c.Submit(context.Background())
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, res.SubmissionID, created.ID)
	assert.Equal(t, models.WorkflowInterview, created.Workflow)
	assert.Equal(t, string(EndpointInterview), created.Endpoint)
	assert.Equal(t, models.StatusQueued, created.Status)
	repo.AssertCalled(t, "UpdateStatus", res.SubmissionID, models.StatusProcessing)
	repo.AssertCalled(t, "MarkCompleted", res.SubmissionID)
	repo.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything)
}

func TestHistoryRecordsFailure(t *testing.T) {
	repo := new(mockSubmissionRepository)
	repo.On("Create", mock.Anything).Return(nil)
	repo.On("UpdateStatus", mock.Anything, mock.Anything).Return(nil)
	repo.On("MarkFailed", mock.Anything, mock.MatchedBy(func(msg string) bool {
		return strings.HasPrefix(msg, resumeFailureMessage)
	})).Return(nil)

	c := NewResumeController(
		newFakeDispatcher(respondError(&RequestError{Endpoint: EndpointResume, StatusCode: 500})),
		WithRecorder(NewHistoryRecorder(repo, zerolog.Nop())),
	)
	res, err := c.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ResultFailure, res.Status)
	repo.AssertExpectations(t)
}

func TestHistoryErrorsDoNotFailWorkflow(t *testing.T) {
	repo := new(mockSubmissionRepository)
	storageErr := errors.New("disk full")
	repo.On("Create", mock.Anything).Return(storageErr)
	repo.On("UpdateStatus", mock.Anything, mock.Anything).Return(storageErr)
	repo.On("MarkCompleted", mock.Anything).Return(storageErr)

	c := NewResumeController(
		newFakeDispatcher(respondJSON(`{"pdf_url":"https://cdn/r.pdf"}`)),
		WithRecorder(NewHistoryRecorder(repo, zerolog.Nop())),
	)
	res, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ResultSuccess, res.Status)
	assert.Equal(t, "https://cdn/r.pdf", res.Payload.DownloadURL)
}
