package models

type FrameRequest struct {
	Image string `json:"image"`
}

type TabRequest struct {
	Tab string `json:"tab"`
}

type FieldsRequest struct {
	Fields map[string]string `json:"fields"`
}

type SubmitResponse struct {
	Workflow string `json:"workflow"`
	Status   string `json:"status"`
}

type LoginResponse struct {
	State   string `json:"state"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}
