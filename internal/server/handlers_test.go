package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiring-screener/internal/common/database"
	commonerrors "hiring-screener/internal/common/errors"
	"hiring-screener/internal/common/logger"
	"hiring-screener/internal/pipeline"
)

type fakePipeline struct {
	generateResult *pipeline.GenerateResult
	generateErr    error
	submitResult   *pipeline.SubmissionResult
	submitErr      error

	generateCalls int
	submitCalls   int
	lastRowID     int
	lastParams    url.Values
}

func (f *fakePipeline) Generate(_ context.Context, rowID int) (*pipeline.GenerateResult, error) {
	f.generateCalls++
	f.lastRowID = rowID
	return f.generateResult, f.generateErr
}

func (f *fakePipeline) ProcessSubmission(_ context.Context, params url.Values) (*pipeline.SubmissionResult, error) {
	f.submitCalls++
	f.lastParams = params
	return f.submitResult, f.submitErr
}

func newTestHandlers(t *testing.T, p *fakePipeline, dedup *Deduper) *Handlers {
	t.Helper()
	return NewHandlers(p, dedup, logger.NewTestLogger(t))
}

func newTestDeduper(t *testing.T) *Deduper {
	t.Helper()
	mr := miniredis.RunT(t)
	client := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = client.Close() })
	return NewDeduper(client, time.Hour, logger.NewTestLogger(t))
}

func TestGenerateForm_Success(t *testing.T) {
	p := &fakePipeline{generateResult: &pipeline.GenerateResult{FormID: "form123", FormURL: "https://forms.example.com/to/form123", RowID: 5}}
	h := newTestHandlers(t, p, nil)

	req := httptest.NewRequest(http.MethodPost, "/generate-form?row_id=5", nil)
	rec := httptest.NewRecorder()
	h.GenerateForm(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, p.lastRowID)

	var body pipeline.GenerateResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "form123", body.FormID)
}

func TestGenerateForm_MissingRowID(t *testing.T) {
	p := &fakePipeline{}
	h := newTestHandlers(t, p, nil)

	req := httptest.NewRequest(http.MethodPost, "/generate-form", nil)
	rec := httptest.NewRecorder()
	h.GenerateForm(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, p.generateCalls)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INPUT_ERROR", body["code"])
}

func TestGenerateForm_NonNumericRowID(t *testing.T) {
	h := newTestHandlers(t, &fakePipeline{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/generate-form?row_id=abc", nil)
	rec := httptest.NewRecorder()
	h.GenerateForm(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateForm_MethodNotAllowed(t *testing.T) {
	h := newTestHandlers(t, &fakePipeline{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/generate-form?row_id=5", nil)
	rec := httptest.NewRecorder()
	h.GenerateForm(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGenerateForm_RemoteFailureIsBadGateway(t *testing.T) {
	p := &fakePipeline{generateErr: commonerrors.NewRemoteStatusError("typeform", 500, "boom")}
	h := newTestHandlers(t, p, nil)

	req := httptest.NewRequest(http.MethodPost, "/generate-form?row_id=5", nil)
	rec := httptest.NewRecorder()
	h.GenerateForm(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestProcessSubmission_GetQueryParams(t *testing.T) {
	p := &fakePipeline{submitResult: &pipeline.SubmissionResult{Status: "accepted", RedirectURL: "https://jobs.example.com/ok"}}
	h := newTestHandlers(t, p, nil)

	req := httptest.NewRequest(http.MethodGet, "/process-submission?pass=true&must_haves=English&field:musthave_1=yes", nil)
	rec := httptest.NewRecorder()
	h.ProcessSubmission(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "yes", p.lastParams.Get("field:musthave_1"))

	var body pipeline.SubmissionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "accepted", body.Status)
}

func TestProcessSubmission_PostFormBody(t *testing.T) {
	p := &fakePipeline{submitResult: &pipeline.SubmissionResult{Status: "rejected", RedirectURL: "https://jobs.example.com/no"}}
	h := newTestHandlers(t, p, nil)

	form := url.Values{}
	form.Set("pass", "true")
	form.Set("must_haves", "English")
	form.Set("field:musthave_1", "no")

	req := httptest.NewRequest(http.MethodPost, "/process-submission", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ProcessSubmission(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no", p.lastParams.Get("field:musthave_1"))
}

func TestProcessSubmission_ValidationIncompleteIsBadRequest(t *testing.T) {
	p := &fakePipeline{submitErr: commonerrors.NewValidationIncompleteError("pass")}
	h := newTestHandlers(t, p, nil)

	req := httptest.NewRequest(http.MethodGet, "/process-submission", nil)
	rec := httptest.NewRecorder()
	h.ProcessSubmission(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_INCOMPLETE", body["code"])
}

func TestProcessSubmission_DuplicateDeliveryShortCircuits(t *testing.T) {
	p := &fakePipeline{submitResult: &pipeline.SubmissionResult{Status: "accepted"}}
	h := newTestHandlers(t, p, newTestDeduper(t))

	target := "/process-submission?pass=true&must_haves=English&field:musthave_1=yes"

	rec := httptest.NewRecorder()
	h.ProcessSubmission(rec, httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, p.submitCalls)

	rec = httptest.NewRecorder()
	h.ProcessSubmission(rec, httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, p.submitCalls, "second delivery must not re-run validation")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "duplicate", body["status"])
}

func TestProcessSubmission_DifferentCandidatesAreNotDuplicates(t *testing.T) {
	p := &fakePipeline{submitResult: &pipeline.SubmissionResult{Status: "accepted"}}
	h := newTestHandlers(t, p, newTestDeduper(t))

	rec := httptest.NewRecorder()
	h.ProcessSubmission(rec, httptest.NewRequest(http.MethodGet, "/process-submission?pass=true&must_haves=English&field:email=a@example.com", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ProcessSubmission(rec, httptest.NewRequest(http.MethodGet, "/process-submission?pass=true&must_haves=English&field:email=b@example.com", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 2, p.submitCalls)
}

func TestHealth(t *testing.T) {
	h := newTestHandlers(t, &fakePipeline{}, nil)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
