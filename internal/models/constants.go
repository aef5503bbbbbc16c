// Package models contains data types and constants for the askai chat client.
package models

// Endpoint defaults for the inference service
const (
	DefaultHost     = "http://127.0.0.1:8000"
	AskPath         = "/api/ask-ai"
	DefaultEndpoint = DefaultHost + AskPath
)

// ErrorPrefix is prepended to the description of a failed exchange
// when it is folded into the transcript as an assistant message.
const ErrorPrefix = "⚠️ Error: "

// DefaultTimeoutSeconds bounds a single exchange when no timeout is configured.
const DefaultTimeoutSeconds = 120

// DefaultHeaders returns the headers sent with every ask request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
}
