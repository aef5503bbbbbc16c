package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/rs/zerolog/log"

	"github.com/diogo/askai/internal/models"
)

// maxRequestBytes caps the size of an ask request body
const maxRequestBytes = 1 << 20

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank validation: %v", err))
	}
	return v
}

// handleAsk answers POST /api/ask-ai with {"reply": ...}
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	id := RequestID(r.Context())

	var req models.AskRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes)).Decode(&req); err != nil {
		log.Warn().Err(err).Str("request_id", id).Msg("client sent malformed JSON request")
		JSONError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if err := s.validate.Struct(req); err != nil {
		log.Warn().Err(err).Str("request_id", id).Msg("request validation failed")
		JSONError(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	reply, err := s.provider.Reply(r.Context(), req.Prompt)
	if err != nil {
		log.Error().Err(err).Str("request_id", id).Str("provider", s.provider.Name()).Msg("provider failed")
		JSONError(w, "Failed to generate reply", http.StatusInternalServerError)
		return
	}

	writeJSON(w, models.AskResponse{Reply: reply})
}

// handleHealth answers GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}
