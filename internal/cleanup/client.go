// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package cleanup implements the CleanupClient component: a single chat
// completion call that fixes punctuation and filler words in a raw
// transcript before injection.
package cleanup

import (
	"context"
	"errors"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ashbuk/croaker/internal/session"
)

// Client implements internal/session.CleanupClient against an
// OpenAI-API-compatible chat endpoint. Grounded on
// alnah-go-transcript/restructurer.go's OpenAIRestructurer, with the
// retry/backoff loop removed (spec.md §4.3 shares §4.2's no-retry policy)
// and the template-resolution layer dropped (the system prompt arrives
// pre-resolved from config, not chosen from a template name here).
type Client struct {
	api     *openai.Client
	timeout time.Duration
}

// New builds a cleanup client. baseURL overrides the default endpoint for
// testing or for pointing at Groq's OpenAI-compatible chat surface.
func New(apiKey, baseURL string, timeout time.Duration) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api:     openai.NewClientWithConfig(cfg),
		timeout: timeout,
	}
}

// Clean sends a two-message chat (system = prompt, user = rawText) and
// returns the assistant's reply verbatim.
func (c *Client) Clean(ctx context.Context, rawText, prompt, model string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
			{Role: openai.ChatMessageRoleUser, Content: rawText},
		},
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", &classifiedError{session.ErrMalformedResponse, errors.New("chat completion returned no choices")}
	}
	return resp.Choices[0].Message.Content, nil
}

// classify maps a go-openai transport/API error onto spec.md §7's error
// taxonomy, mirroring internal/transcribe's classify.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden:
			return &classifiedError{session.ErrAuth, err}
		case apiErr.HTTPStatusCode == http.StatusRequestTimeout || apiErr.HTTPStatusCode == http.StatusGatewayTimeout:
			return &classifiedError{session.ErrTimeout, err}
		case apiErr.HTTPStatusCode >= 500:
			return &classifiedError{session.ErrService, err}
		default:
			return &classifiedError{session.ErrService, err}
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &classifiedError{session.ErrNetwork, err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &classifiedError{session.ErrTimeout, err}
	}

	return &classifiedError{session.ErrNetwork, err}
}
