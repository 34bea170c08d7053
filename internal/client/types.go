package client

import "github.com/yildizm/PitchRoast/internal/roast"

// AnalyzeRequest is the body of POST /analyze
type AnalyzeRequest struct {
	Pitch     string `json:"pitch"`
	Intensity string `json:"intensity"`
}

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	Messages []roast.ChatMessage `json:"messages"`
	Context  string              `json:"context"`
}

// ErrorResponse is the JSON body the service sends with failure statuses.
// Detail is a string for application errors and a list for request
// validation errors.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail any    `json:"detail"`
}

// HealthResponse is the body of GET /
type HealthResponse struct {
	Message string `json:"message"`
}
