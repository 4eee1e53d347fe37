package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/jehanzaib084/nextjs-payload-pipeline-v1/internal/retry"
)

// ErrEmptyResponse is returned when the model produced no usable text.
var ErrEmptyResponse = errors.New("empty response from model")

// contentGenerator is the slice of *genai.GenerativeModel the client uses,
// split out so tests can substitute a fake.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Client sends completion requests to a single Gemini model.
type Client struct {
	client *genai.Client
	model  contentGenerator
	name   string
	policy retry.Policy
}

// NewClient creates a Gemini client for the named model.
func NewClient(ctx context.Context, apiKey, model string, policy retry.Policy) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &Client{
		client: client,
		model:  client.GenerativeModel(model),
		name:   model,
		policy: policy,
	}, nil
}

// Model returns the model name the client was built with.
func (c *Client) Model() string { return c.name }

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Complete sends the prompt and returns the model's text. Failed attempts
// are retried per the client's policy; the last error is returned once
// attempts are exhausted.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	zerolog.Ctx(ctx).Debug().
		Str("model", c.name).
		Int("prompt_chars", len(prompt)).
		Msg("requesting completion")

	return retry.Do(ctx, c.policy, func() (string, error) {
		resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", fmt.Errorf("generating content with %s: %w", c.name, err)
		}
		text := responseText(resp)
		if text == "" {
			return "", ErrEmptyResponse
		}
		return text, nil
	})
}

// responseText flattens all candidate parts into a single string.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			sb.WriteString(fmt.Sprintf("%v", part))
		}
	}
	return strings.TrimSpace(sb.String())
}
