// Package sheets is the row store for screening journeys: each row of
// the tracking spreadsheet holds one job posting, and generated
// questions and form links are written back to the same row.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"hiring-screener/internal/common/config"
	"hiring-screener/internal/common/errors"
	"hiring-screener/internal/common/logger"
	"hiring-screener/internal/common/metrics"
)

type Client struct {
	service *sheetsapi.Service
	cfg     config.SheetsConfig
	logger  logger.Logger
}

func NewClient(ctx context.Context, cfg config.SheetsConfig, log logger.Logger) (*Client, error) {
	srv, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, errors.NewRemoteError("sheets", fmt.Sprintf("creating sheets service: %v", err))
	}
	return &Client{
		service: srv,
		cfg:     cfg,
		logger:  log.With(map[string]interface{}{"component": "sheets"}),
	}, nil
}

// ReadRow fetches the job description and must-haves text for one row.
// Both cells must be non-empty; a row without them cannot produce a form.
func (c *Client) ReadRow(ctx context.Context, rowID int) (jobDescription, mustHaves string, err error) {
	jobDescription, err = c.readCell(ctx, c.cfg.ColumnJobDesc, rowID)
	if err != nil {
		return "", "", err
	}
	mustHaves, err = c.readCell(ctx, c.cfg.ColumnMustHaves, rowID)
	if err != nil {
		return "", "", err
	}
	if jobDescription == "" {
		return "", "", errors.NewInputError(fmt.Sprintf("row %d has no job description in column %s", rowID, c.cfg.ColumnJobDesc))
	}
	if mustHaves == "" {
		return "", "", errors.NewInputError(fmt.Sprintf("row %d has no must-haves in column %s", rowID, c.cfg.ColumnMustHaves))
	}
	return jobDescription, mustHaves, nil
}

// ReadPrompt returns the oracle system prompt stored on the config
// sheet, or "" when the cell is empty so the caller can fall back to
// its default.
func (c *Client) ReadPrompt(ctx context.Context) (string, error) {
	rangeRef := fmt.Sprintf("'%s'!%s", c.cfg.ConfigSheet, c.cfg.PromptCell)
	return c.readRange(ctx, rangeRef)
}

// WriteQuestions stores the generated questions text on the journey row.
func (c *Client) WriteQuestions(ctx context.Context, rowID int, questions string) error {
	return c.writeCell(ctx, c.cfg.ColumnQuestions, rowID, questions)
}

// WriteFormLink stores the hosted form's public link on the journey row.
func (c *Client) WriteFormLink(ctx context.Context, rowID int, link string) error {
	return c.writeCell(ctx, c.cfg.ColumnFormLink, rowID, link)
}

func (c *Client) cellRange(column string, rowID int) string {
	return fmt.Sprintf("'%s'!%s%d", c.cfg.SheetName, column, rowID)
}

func (c *Client) readCell(ctx context.Context, column string, rowID int) (string, error) {
	return c.readRange(ctx, c.cellRange(column, rowID))
}

func (c *Client) readRange(ctx context.Context, rangeRef string) (string, error) {
	timer := metrics.NewExternalCallTimer("sheets")
	resp, err := c.service.Spreadsheets.Values.
		Get(c.cfg.SpreadsheetID, rangeRef).
		Context(ctx).
		Do()
	timer.Observe()
	if err != nil {
		return "", errors.NewRemoteError("sheets", fmt.Sprintf("reading %s: %v", rangeRef, err))
	}
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return "", nil
	}
	if s, ok := resp.Values[0][0].(string); ok {
		return s, nil
	}
	return fmt.Sprintf("%v", resp.Values[0][0]), nil
}

func (c *Client) writeCell(ctx context.Context, column string, rowID int, value string) error {
	rangeRef := c.cellRange(column, rowID)
	body := &sheetsapi.ValueRange{
		Values: [][]interface{}{{value}},
	}

	timer := metrics.NewExternalCallTimer("sheets")
	_, err := c.service.Spreadsheets.Values.
		Update(c.cfg.SpreadsheetID, rangeRef, body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	timer.Observe()
	if err != nil {
		return errors.NewRemoteError("sheets", fmt.Sprintf("writing %s: %v", rangeRef, err))
	}

	c.logger.Debug("cell written", map[string]interface{}{"range": rangeRef})
	return nil
}
