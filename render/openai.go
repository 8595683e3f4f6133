package render

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/katalvlaran/mpcbench/config"
)

const systemPrompt = "You rewrite short workplace messages so they read naturally. " +
	"Keep every <tag>...</tag> marker exactly as given, byte for byte, and do not add new ones. " +
	"Reply with the rewritten text only."

// ChatClient is the part of the go-openai client the renderer uses.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI renders through a chat completion model. It first fills the seed
// template, then asks the model to paraphrase the draft around the tags.
// Safe for concurrent use; the limiter is shared by all callers.
type OpenAI struct {
	client  ChatClient
	model   string
	limiter *rate.Limiter
	timeout time.Duration
}

// OpenAIOption customizes NewOpenAI.
type OpenAIOption func(*OpenAI)

// WithClient replaces the HTTP client (tests use a fake). Panics on nil.
func WithClient(c ChatClient) OpenAIOption {
	if c == nil {
		panic("render: WithClient(nil)")
	}
	return func(o *OpenAI) {
		o.client = c
	}
}

// NewOpenAI builds the renderer from cfg. The API key is read from the
// environment variable cfg.APIKeyEnv; a missing key is a configuration
// error unless WithClient supplies the client.
func NewOpenAI(cfg config.RendererConfig, opts ...OpenAIOption) (*OpenAI, error) {
	o := &OpenAI{
		model:   cfg.Model,
		limiter: rate.NewLimiter(rate.Inf, 0),
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
	if cfg.RatePerSecond > 0 {
		o.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), max(cfg.Burst, 1))
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.model == "" {
		return nil, &config.Error{Field: "renderer.model", Reason: "missing entry"}
	}
	if o.client == nil {
		key := os.Getenv(cfg.APIKeyEnv)
		if key == "" {
			return nil, &config.Error{Field: "renderer.api_key_env", Reason: fmt.Sprintf("environment variable %q is empty", cfg.APIKeyEnv)}
		}
		oc := openai.DefaultConfig(key)
		if cfg.BaseURL != "" {
			oc.BaseURL = cfg.BaseURL
		}
		o.client = openai.NewClientWithConfig(oc)
	}
	return o, nil
}

// Render implements Renderer.
func (o *OpenAI) Render(ctx context.Context, req Request) (string, error) {
	draft, err := Fill(req)
	if err != nil {
		return "", err
	}
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	if err = o.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("OpenAI.Render(%s): wait: %w", req.Kind, err)
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: draft},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI.Render(%s): %w", req.Kind, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI.Render(%s): no choices: %w", req.Kind, ErrEmptyResponse)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("OpenAI.Render(%s): %w", req.Kind, ErrEmptyResponse)
	}
	if err = Verify(text, req.Tags); err != nil {
		return "", fmt.Errorf("OpenAI.Render(%s): %w", req.Kind, err)
	}
	return text, nil
}
