package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// TextGenerator defines the behaviour required to obtain plan text from a
// generation service.
type TextGenerator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// OpenAIGenerator implements TextGenerator using the OpenAI chat
// completions API.
type OpenAIGenerator struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int64
	timeout     time.Duration
}

// NewOpenAIGenerator builds a generator from explicit settings. The caller
// supplies everything; nothing is read from the environment here.
func NewOpenAIGenerator(apiKey, model string, temperature float64, maxTokens int64, timeout time.Duration) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if model == "" {
		model = "gpt-4o"
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	return &OpenAIGenerator{
		client:      openai.NewClient(option.WithAPIKey(apiKey)),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		timeout:     timeout,
	}, nil
}

// Generate performs a single chat completion. One attempt per call, bounded
// by the configured timeout.
func (g *OpenAIGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature:         openai.Float(g.temperature),
		MaxCompletionTokens: openai.Int(g.maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// StaticGenerator implements TextGenerator by returning a pre-defined
// response. Used in tests and demos.
type StaticGenerator struct {
	Response string
	Err      error
}

// Generate returns the configured response without calling an external service.
func (s StaticGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	return s.Response, s.Err
}
