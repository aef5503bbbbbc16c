package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/diogo/askai/internal/config"
)

// Provider names accepted in the server config
const (
	ProviderEcho   = "echo"
	ProviderOpenAI = "openai"
)

// ErrEmptyCompletion is returned when the model answers with no choices
var ErrEmptyCompletion = errors.New("completion returned no choices")

// Provider produces the reply to a single prompt
type Provider interface {
	Name() string
	Reply(ctx context.Context, prompt string) (string, error)
}

// EchoProvider answers every prompt with the prompt itself
type EchoProvider struct{}

// Name returns "echo"
func (EchoProvider) Name() string { return ProviderEcho }

// Reply returns the prompt unchanged
func (EchoProvider) Reply(_ context.Context, prompt string) (string, error) {
	return prompt, nil
}

// ChatCompleter is the part of the go-openai client used by OpenAIProvider
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider answers with a single-turn chat completion
type OpenAIProvider struct {
	client       ChatCompleter
	model        string
	systemPrompt string
}

// NewOpenAIProvider wraps a chat completion client
func NewOpenAIProvider(client ChatCompleter, model, systemPrompt string) *OpenAIProvider {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIProvider{client: client, model: model, systemPrompt: systemPrompt}
}

// Name returns "openai"
func (p *OpenAIProvider) Name() string { return ProviderOpenAI }

// Reply sends the prompt, preceded by the system prompt when one is set,
// and returns the content of the first choice
func (p *OpenAIProvider) Reply(ctx context.Context, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if p.systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: p.systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	log.Debug().
		Str("model", p.model).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("chat completion finished")

	return resp.Choices[0].Message.Content, nil
}

// NewProvider picks the provider named in cfg. An empty name selects openai
// when an API key is configured and echo otherwise.
func NewProvider(cfg config.ServerConfig) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if name == "" {
		name = ProviderEcho
		if cfg.OpenAIAPIKey != "" {
			name = ProviderOpenAI
		}
	}

	switch name {
	case ProviderEcho:
		return EchoProvider{}, nil
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai provider requires %s", config.EnvOpenAIAPIKey)
		}
		return NewOpenAIProvider(openai.NewClient(cfg.OpenAIAPIKey), cfg.OpenAIModel, cfg.SystemPrompt), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
