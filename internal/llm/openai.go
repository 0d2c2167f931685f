package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"lewis.chat/gateway/core/config"
	"lewis.chat/gateway/internal/model"
)

type openaiOracle struct {
	client       openai.Client
	model        string
	maxTokens    int
	systemPrompt string
}

// NewOpenAIOracle creates an Oracle backed by the OpenAI chat completions API.
func NewOpenAIOracle(cfg config.OpenAIConfig) (Oracle, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	mdl := cfg.Model
	if mdl == "" {
		mdl = "gpt-4o-mini"
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 200
	}

	return &openaiOracle{
		client:       openai.NewClient(opts...),
		model:        mdl,
		maxTokens:    maxTokens,
		systemPrompt: cfg.SystemPrompt,
	}, nil
}

func (o *openaiOracle) Generate(ctx context.Context, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Context)+2)
	messages = append(messages, openai.SystemMessage(o.systemPrompt))

	for _, turn := range req.Context {
		switch turn.Role {
		case model.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}

	messages = append(messages, o.currentMessage(req))

	params := openai.ChatCompletionNewParams{
		Model:               o.model,
		Messages:            messages,
		MaxCompletionTokens: openai.Int(int64(o.maxTokens)),
		Temperature:         openai.Float(0.7),
	}

	start := time.Now()
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrTransient)
	}

	slog.DebugContext(ctx, "reply generated",
		"model", o.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"finish_reason", resp.Choices[0].FinishReason)

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// currentMessage builds the final user message, attaching the inbound image
// as a vision part when present.
func (o *openaiOracle) currentMessage(req Request) openai.ChatCompletionMessageParamUnion {
	if req.Media != nil && req.Media.IsImage() {
		return openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart(req.Prompt),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: req.Media.URL,
			}),
		})
	}
	return openai.UserMessage(req.Prompt)
}

func classify(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case 401, 403:
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		case 429:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrTransient, err)
}
