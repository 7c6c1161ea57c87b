package services

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"alfredoptarigan/career-copilot/internal/models"
)

const verifyFailureMessage = "Verification failed. Make sure you upload an IMAGE (jpg/png), not a PDF."

type VerifyController = Controller[models.VerificationReport]

type verifyRequest struct {
	FileData string `json:"file_data"`
}

// NewVerifyController encodes the selected file at submit time; a read
// failure ends the cycle before any backend call.
func NewVerifyController(dispatcher Dispatcher, encoder Encoder, opts ...ControllerOption) *VerifyController {
	o := controllerOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger

	return NewController(Definition[models.VerificationReport]{
		Workflow:       models.WorkflowVerify,
		Endpoint:       EndpointVerify,
		FailureMessage: verifyFailureMessage,
		RequiresFile:   true,
		BuildRequest: func(ctx context.Context, in WorkflowInput) (any, error) {
			encoded, err := encoder.Encode(ctx, in.File)
			if err != nil {
				return nil, err
			}
			log.Debug().
				Str("file", encoded.Name).
				Str("mime_type", encoded.MIMEType).
				Int64("size", encoded.Size).
				Msg("📄 Document encoded")
			return verifyRequest{FileData: encoded.DataURL}, nil
		},
		DecodeResult: decodeVerifyResult,
	}, dispatcher, opts...)
}

func decodeVerifyResult(raw json.RawMessage) (models.VerificationReport, error) {
	var resp models.VerifyResponse
	if err := DecodeResponse(raw, &resp); err != nil {
		return models.VerificationReport{}, err
	}
	return models.VerificationReport{
		IsValid:      resp.IsValidDocument,
		Score:        resp.CredibilityScore,
		DocumentType: resp.DocumentType,
		Reasoning:    resp.Reason,
	}, nil
}
