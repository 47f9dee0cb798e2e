// Package typeform talks to the form-hosting REST API: creating form
// documents and registering submission webhooks.
package typeform

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
	"hiring-screener/internal/models"
)

const defaultBaseURL = "https://api.typeform.com"

type Client struct {
	cfg        config.TypeformConfig
	httpClient *httpclient.Client
	logger     logger.Logger
}

func NewClient(cfg config.TypeformConfig, log logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpclient.NewClient(cfg.RequestTimeout()),
		logger:     log.With(map[string]interface{}{"component": "typeform"}),
	}
}

type createFormResponse struct {
	ID    string `json:"id"`
	Links struct {
		Display string `json:"display"`
	} `json:"_links"`
}

// CreateForm submits a validated form document and returns the hosted
// form's id and public link.
func (c *Client) CreateForm(ctx context.Context, doc *models.FormDocument) (*models.CreatedForm, error) {
	body, err := c.do(ctx, http.MethodPost, "/forms", doc)
	if err != nil {
		return nil, err
	}

	var parsed createFormResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.NewParseError(fmt.Sprintf("decoding create-form response: %v", err))
	}
	if parsed.ID == "" {
		return nil, errors.NewParseError("create-form response has no form id")
	}

	c.logger.Info("form created", map[string]interface{}{
		"form_id": parsed.ID,
		"url":     parsed.Links.Display,
	})
	return &models.CreatedForm{ID: parsed.ID, DisplayURL: parsed.Links.Display}, nil
}

type webhookRequest struct {
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
}

// SetWebhook registers (or replaces) the webhook under tag for the given
// form. The hosting API treats the call as an upsert.
func (c *Client) SetWebhook(ctx context.Context, formID, tag, url string) error {
	path := fmt.Sprintf("/forms/%s/webhooks/%s", formID, tag)
	_, err := c.do(ctx, http.MethodPut, path, webhookRequest{URL: url, Enabled: true})
	if err != nil {
		return err
	}

	c.logger.Info("webhook registered", map[string]interface{}{
		"form_id": formID,
		"tag":     tag,
	})
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.NewParseError(fmt.Sprintf("encoding %s %s payload: %v", method, path, err))
	}

	req, err := http.NewRequest(method, c.cfg.BaseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, errors.NewRemoteError("typeform", err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	timer := metrics.NewExternalCallTimer("typeform")
	resp, err := c.httpClient.DoWithContext(ctx, req)
	timer.Observe()
	if err != nil {
		return nil, errors.NewRemoteError("typeform", err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewRemoteError("typeform", err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.NewRemoteStatusError("typeform", resp.StatusCode, string(body))
	}
	return body, nil
}
