// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package transcribe implements the TranscriptionClient component: it
// uploads a captured audio file to the configured Groq Whisper endpoint
// (OpenAI-compatible) and returns the recognized text.
package transcribe

import (
	"context"
	"errors"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ashbuk/croaker/internal/session"
)

// Client implements internal/session.TranscriptionClient against an
// OpenAI-API-compatible speech endpoint (Groq's /openai/v1 surface).
// Grounded on alnah-go-transcript's internal/transcribe.OpenAITranscriber,
// adapted from its hand-rolled multipart HTTP call to the go-openai SDK's
// CreateTranscription, and with its retry loop removed: spec.md §4.2
// specifies no retries at this layer.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// New builds a transcription client. baseURL selects the endpoint (the
// configured Groq URL, or a test server); empty uses the go-openai default
// (api.openai.com).
func New(apiKey, baseURL, model string, timeout time.Duration) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api:     openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}
}

// Transcribe uploads filePath and returns the recognized text. languageCode
// is passed through to the API as an ISO-639-1 hint; an empty string lets
// the service auto-detect.
func (c *Client) Transcribe(ctx context.Context, filePath, languageCode string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: filePath,
		Language: languageCode,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", classify(err)
	}
	if resp.Text == "" {
		return "", &classifiedError{session.ErrMalformedResponse, errors.New("transcription response had no text field")}
	}
	return resp.Text, nil
}

// classify maps a go-openai transport/API error onto spec.md §7's error
// taxonomy. Grounded on alnah-go-transcript's classifyError/classifyRestructureError
// status-code switch, narrowed to the kinds session.ErrorKind enumerates.
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
