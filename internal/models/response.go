package models

// AskRequest is the JSON body posted to the inference endpoint
type AskRequest struct {
	Prompt string `json:"prompt" validate:"required,notblank"`
}

// AskResponse is the JSON body returned by the inference endpoint
type AskResponse struct {
	Reply string `json:"reply"`
}
