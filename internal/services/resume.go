package services

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"alfredoptarigan/career-copilot/internal/logging"
	"alfredoptarigan/career-copilot/internal/models"
)

const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldSkills     = "skills"
	FieldExperience = "experience"

	resumeFailureMessage = "Error generating resume"
)

type ResumeController = Controller[models.ResumeDocument]

type resumeRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Skills     string `json:"skills"`
	Experience string `json:"experience"`
}

func NewResumeController(dispatcher Dispatcher, opts ...ControllerOption) *ResumeController {
	o := controllerOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger

	return NewController(Definition[models.ResumeDocument]{
		Workflow:       models.WorkflowResume,
		Endpoint:       EndpointResume,
		FailureMessage: resumeFailureMessage,
		BuildRequest: func(_ context.Context, in WorkflowInput) (any, error) {
			req := buildResumeRequest(in)
			log.Debug().
				Str("name", logging.Redact(req.Name)).
				Str("email", logging.Redact(req.Email)).
				Msg("📝 Resume request built")
			return req, nil
		},
		DecodeResult: decodeResumeResult,
	}, dispatcher, opts...)
}

// buildResumeRequest forwards the form as typed; the backend validates it.
func buildResumeRequest(in WorkflowInput) resumeRequest {
	return resumeRequest{
		Name:       in.Fields[FieldName],
		Email:      in.Fields[FieldEmail],
		Skills:     in.Fields[FieldSkills],
		Experience: in.Fields[FieldExperience],
	}
}

func decodeResumeResult(raw json.RawMessage) (models.ResumeDocument, error) {
	var resp models.ResumeResponse
	if err := DecodeResponse(raw, &resp); err != nil {
		return models.ResumeDocument{}, err
	}
	return models.ResumeDocument{DownloadURL: resp.PDFURL}, nil
}
