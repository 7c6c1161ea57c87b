package services

import (
	"context"
	"encoding/json"

	"alfredoptarigan/career-copilot/internal/models"
)

const (
	FieldRole    = "role"
	FieldCompany = "company"

	interviewFailureMessage = "Error generating questions"
)

type InterviewController = Controller[[]models.QA]

type interviewRequest struct {
	Role    string `json:"role"`
	Company string `json:"company"`
}

func NewInterviewController(dispatcher Dispatcher, opts ...ControllerOption) *InterviewController {
	return NewController(Definition[[]models.QA]{
		Workflow:       models.WorkflowInterview,
		Endpoint:       EndpointInterview,
		FailureMessage: interviewFailureMessage,
		BuildRequest:   buildInterviewRequest,
		DecodeResult:   decodeInterviewResult,
	}, dispatcher, opts...)
}

func buildInterviewRequest(_ context.Context, in WorkflowInput) (any, error) {
	return interviewRequest{
		Role:    in.Fields[FieldRole],
		Company: in.Fields[FieldCompany],
	}, nil
}

func decodeInterviewResult(raw json.RawMessage) ([]models.QA, error) {
	var resp models.InterviewResponse
	if err := DecodeResponse(raw, &resp); err != nil {
		return nil, err
	}

	questions := make([]models.QA, 0, len(resp.Questions))
	for _, q := range resp.Questions {
		questions = append(questions, models.QA{Question: q.Q, Answer: q.A})
	}
	return questions, nil
}
