package api

import "github.com/rosales/inkwell/internal/models"

// Note is the response payload for a single note (aliased from the domain
// layer).
type Note = models.Note

// SummarizeRequest is the request body for POST /summarize.
type SummarizeRequest struct {
	// Text is a pointer so a missing or non-string field is distinguishable
	// from an empty one; both are rejected.
	Text *string `json:"text"`
}

// SummarizeResponse carries the summary and which path produced it
// ("genai" or "fallback").
type SummarizeResponse struct {
	Summary string `json:"summary"`
	Source  string `json:"source"`
}

// MessageResponse is a simple confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}
