package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/proofline/proofline/pkg/config"
)

// OpenAIClient calls the OpenAI chat completion API.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a client from the service configuration. A custom
// BaseURL routes requests to a compatible endpoint (or a test server).
func NewOpenAIClient(cfg *config.OpenAIConfig) *OpenAIClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// Complete sends a single chat completion request. The instruction carries
// the correction prompt as the system message, input is the chunk text.
func (c *OpenAIClient) Complete(ctx context.Context, instruction, input, model string) (Completion, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instruction},
			{Role: openai.ChatMessageRoleUser, Content: input},
		},
	})
	if err != nil {
		return Completion{}, classify(err)
	}

	if len(resp.Choices) == 0 {
		return Completion{}, Permanent(fmt.Errorf("empty completion response for model %s", model))
	}

	return Completion{
		Text:             strings.TrimSpace(resp.Choices[0].Message.Content),
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

// classify maps an OpenAI SDK error to a retry decision. Rate limits,
// server-side errors and network timeouts get retried; anything else is
// surfaced immediately.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return Transient(err)
		case apiErr.HTTPStatusCode >= http.StatusInternalServerError:
			return Transient(err)
		default:
			return Permanent(err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Transient(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Transient(err)
	}

	return Permanent(err)
}
