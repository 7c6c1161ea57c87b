package models

type Workflow string

const (
	WorkflowInterview Workflow = "interview"
	WorkflowResume    Workflow = "resume"
	WorkflowVerify    Workflow = "verify"
)

// Workflows lists the workflows in tab order.
var Workflows = []Workflow{WorkflowInterview, WorkflowResume, WorkflowVerify}

func (w Workflow) Valid() bool {
	switch w {
	case WorkflowInterview, WorkflowResume, WorkflowVerify:
		return true
	}
	return false
}

// QA is one generated interview question with its suggested answer.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type ResumeDocument struct {
	DownloadURL string `json:"download_url"`
}

type VerificationReport struct {
	IsValid      bool    `json:"is_valid"`
	Score        float64 `json:"score"`
	DocumentType string  `json:"document_type"`
	Reasoning    string  `json:"reasoning"`
}

// Wire shapes of the backend responses.

type InterviewResponse struct {
	Questions []struct {
		Q string `json:"q"`
		A string `json:"a"`
	} `json:"questions"`
}

type ResumeResponse struct {
	PDFURL string `json:"pdf_url"`
}

type VerifyResponse struct {
	IsValidDocument  bool    `json:"is_valid_document"`
	CredibilityScore float64 `json:"credibility_score"`
	DocumentType     string  `json:"document_type"`
	Reason           string  `json:"reason"`
}
