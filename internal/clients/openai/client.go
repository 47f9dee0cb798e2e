// Package openai is a thin REST client for the chat-completions API.
// Callers hand it a system and user prompt and get back the raw
// assistant text; parsing that text is the caller's business.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"hiring-screener/internal/common/config"
	"hiring-screener/internal/common/errors"
	"hiring-screener/internal/common/httpclient"
	"hiring-screener/internal/common/logger"
	"hiring-screener/internal/common/metrics"
)

const defaultBaseURL = "https://api.openai.com/v1"

type Client struct {
	cfg        config.OpenAIConfig
	httpClient *httpclient.Client
	logger     logger.Logger
}

func NewClient(cfg config.OpenAIConfig, log logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpclient.NewClient(cfg.RequestTimeout()),
		logger:     log.With(map[string]interface{}{"component": "openai"}),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends one system+user exchange and returns the assistant's
// reply text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	payload := chatRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.NewParseError(fmt.Sprintf("encoding completion request: %v", err))
	}

	req, err := http.NewRequest(http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.NewRemoteError("openai", err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	timer := metrics.NewExternalCallTimer("openai")
	resp, err := c.httpClient.DoWithContext(ctx, req)
	timer.Observe()
	if err != nil {
		return "", errors.NewRemoteError("openai", err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewRemoteError("openai", err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.NewRemoteStatusError("openai", resp.StatusCode, string(raw))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", errors.NewParseError(fmt.Sprintf("decoding completion response: %v", err))
	}
	if parsed.Error != nil {
		return "", errors.NewRemoteError("openai", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.NewParseError("completion response has no choices")
	}

	content := parsed.Choices[0].Message.Content
	c.logger.Debug("completion received", map[string]interface{}{
		"model": c.cfg.Model,
		"bytes": len(content),
	})
	return content, nil
}
