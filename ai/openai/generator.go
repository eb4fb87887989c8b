package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cooltech/fridgebot/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client      llms.Model
	temperature float64
	maxTokens   int
	maxRetries  int
	retryDelay  time.Duration
	logger      *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat. Local
	// OpenAI-compatible services accept the placeholder key.
	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:      client,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
		maxRetries:  config.MaxRetries,
		retryDelay:  config.RetryDelay,
		logger:      slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Generate invokes the chat model with the assembled prompt and returns the
// raw candidate text. Transient failures are retried with exponential
// backoff; an empty completion after retries is an error.
func (g *Generator) Generate(ctx context.Context, prompt string, schema *ai.Schema) (string, error) {
	opts := []llms.CallOption{
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens),
	}
	if schema != nil {
		if schema.JSON {
			opts = append(opts, llms.WithJSONMode())
		}
		if schema.Instructions != "" {
			prompt = prompt + "\n\n" + schema.Instructions
		}
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	var candidate string
	err := ai.Retry(ctx, g.maxRetries, g.retryDelay, func(ctx context.Context) error {
		response, attemptErr := g.client.GenerateContent(ctx, content, opts...)
		if attemptErr != nil {
			g.logger.Warn("generation attempt failed", "err", attemptErr)
			return attemptErr
		}
		if len(response.Choices) < 1 {
			g.logger.Warn("no choices returned from model")
			return ai.ErrEmptyCompletion
		}
		candidate = strings.TrimSpace(response.Choices[0].Content)
		if candidate == "" {
			return ai.ErrEmptyCompletion
		}
		return nil
	})
	if err != nil {
		g.logger.Error("failed to generate candidate", "err", err)
		return "", fmt.Errorf("%w: %w", ai.ErrGeneration, err)
	}

	return candidate, nil
}
