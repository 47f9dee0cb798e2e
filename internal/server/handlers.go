package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	commonerrors "hiring-screener/internal/common/errors"
	"hiring-screener/internal/common/logger"
	"hiring-screener/internal/pipeline"
)

// FormPipeline is the pipeline surface the handlers call.
type FormPipeline interface {
	Generate(ctx context.Context, rowID int) (*pipeline.GenerateResult, error)
	ProcessSubmission(ctx context.Context, params url.Values) (*pipeline.SubmissionResult, error)
}

type Handlers struct {
	pipeline FormPipeline
	dedup    *Deduper
	errors   *commonerrors.HTTPHandler
	logger   logger.Logger
}

// NewHandlers wires the HTTP surface. A nil deduper disables webhook
// delivery dedup.
func NewHandlers(p FormPipeline, dedup *Deduper, log logger.Logger) *Handlers {
	return &Handlers{
		pipeline: p,
		dedup:    dedup,
		errors:   commonerrors.NewHTTPHandler(log),
		logger:   log.With(map[string]interface{}{"component": "handlers"}),
	}
}

// GenerateForm builds and publishes the screening form for one journey
// row. POST /generate-form?row_id=<n>
func (h *Handlers) GenerateForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rowParam := r.URL.Query().Get("row_id")
	if rowParam == "" {
		h.errors.WriteError(w, commonerrors.NewInputError("row_id query parameter is required"))
		return
	}
	rowID, err := strconv.Atoi(rowParam)
	if err != nil || rowID < 1 {
		h.errors.WriteError(w, commonerrors.NewInputError("row_id must be a positive integer"))
		return
	}

	result, err := h.pipeline.Generate(r.Context(), rowID)
	if err != nil {
		h.errors.WriteError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// ProcessSubmission receives the hosted form's callback. The form
// engine issues a GET redirect with query parameters; POST with a form
// body is accepted too.
func (h *Handlers) ProcessSubmission(w http.ResponseWriter, r *http.Request) {
	var params url.Values
	switch r.Method {
	case http.MethodGet:
		params = r.URL.Query()
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			h.errors.WriteError(w, commonerrors.NewInputError("unparseable form body"))
			return
		}
		params = r.Form
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.dedup != nil {
		first, err := h.dedup.FirstDelivery(r.Context(), params)
		if err != nil {
			h.logger.WithError(err).Warn("dedup check failed, processing anyway", nil)
		} else if !first {
			h.logger.Info("duplicate delivery ignored", nil)
			h.writeJSON(w, http.StatusOK, map[string]string{"status": "duplicate"})
			return
		}
	}

	result, err := h.pipeline.ProcessSubmission(r.Context(), params)
	if err != nil {
		h.errors.WriteError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.WithError(err).Error("writing response failed", nil)
	}
}
