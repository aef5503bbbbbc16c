package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/askai/internal/errors"
	"github.com/diogo/askai/internal/models"
)

const (
	// maxErrorBody limits how much of a failed response is kept for diagnostics
	maxErrorBody = 4096
	// maxReplyBody limits the size of an accepted reply body
	maxReplyBody = 8 << 20

	// PathReply is the gjson path of the reply text in the response body
	PathReply = "reply"
)

// Ask posts the prompt and returns the reply field of the response verbatim.
// Every failure is returned as one of the typed errors in internal/errors.
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", apierrors.ErrEmptyPrompt
	}

	if c.IsClosed() {
		return "", apierrors.ErrClientClosed
	}

	if ctx == nil {
		ctx = context.Background()
	}

	timeout := c.Timeout()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	endpoint := c.Endpoint()

	payload, err := json.Marshal(models.AskRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", apierrors.NewTimeoutError(fmt.Sprintf("no reply from %s after %s", endpoint, timeout))
		}
		return "", apierrors.NewNetworkErrorWithEndpoint("ask", endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	log.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("ask response received")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", apierrors.NewAPIErrorWithBody(resp.StatusCode, endpoint, "ask failed", string(errorBody))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBody))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", apierrors.NewTimeoutError(fmt.Sprintf("reading reply from %s", endpoint))
		}
		return "", apierrors.NewNetworkErrorWithEndpoint("read reply", endpoint, err)
	}

	return parseReply(body)
}

// parseReply extracts the reply string from a response body
func parseReply(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("response is not valid JSON", "")
	}

	reply := gjson.GetBytes(body, PathReply)
	if !reply.Exists() {
		return "", apierrors.NewParseError("response has no reply field", PathReply)
	}
	if reply.Type != gjson.String {
		return "", apierrors.NewParseError(fmt.Sprintf("reply field is %s, not a string", reply.Type), PathReply)
	}

	return reply.String(), nil
}
