package pipeline

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"hiring-screener/internal/common/errors"
	"hiring-screener/internal/common/metrics"
	"hiring-screener/internal/models"
	"hiring-screener/internal/notify"
)

// reservedParams are the echoed context keys that never hold answers.
var reservedParams = map[string]struct{}{
	"pass":        {},
	"must_haves":  {},
	"success_url": {},
	"fail_url":    {},
}

// SubmissionResult is the response body for a processed submission.
type SubmissionResult struct {
	Status      string         `json:"status"` // "accepted" or "rejected"
	RedirectURL string         `json:"redirect_url"`
	Candidate   *CandidateInfo `json:"candidate,omitempty"`
}

type CandidateInfo struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

// ProcessSubmission validates one candidate's submitted answers and
// picks their redirect. Missing pass/must_haves parameters are a
// malformed callback, not a rejection.
func (p *Pipeline) ProcessSubmission(ctx context.Context, params url.Values) (result *SubmissionResult, err error) {
	start := time.Now()
	if p.obs != nil {
		var span trace.Span
		ctx, span = p.obs.StartSpan(ctx, "process-submission")
		defer span.End()
	}
	defer func() { p.recordStage(ctx, "process-submission", start, err) }()

	if params.Get("pass") == "" {
		return nil, errors.NewValidationIncompleteError("pass")
	}
	if params.Get("must_haves") == "" {
		return nil, errors.NewValidationIncompleteError("must_haves")
	}

	record := recordFromParams(params)
	if record.SuccessURL == "" {
		record.SuccessURL = p.cfg.Redirects.SuccessURL
	}
	if record.FailURL == "" {
		record.FailURL = p.cfg.Redirects.FailURL
	}

	// A pre-check already marked this candidate as failed; no answer
	// evaluation can revive them.
	if record.Pass != "true" {
		metrics.SubmissionsValidated.WithLabelValues("rejected").Inc()
		return &SubmissionResult{Status: "rejected", RedirectURL: record.FailURL}, nil
	}

	verdict := p.validator.Validate(record)

	status := "rejected"
	if verdict.Accepted {
		status = "accepted"
	}
	metrics.SubmissionsValidated.WithLabelValues(status).Inc()

	p.logger.Info("submission decided", map[string]interface{}{
		"status":       status,
		"requirements": len(verdict.Outcomes),
		"email":        record.Email,
	})

	if p.notifier != nil {
		p.notifier.NotifyOutcome(ctx, notify.Outcome{
			Email:    record.Email,
			Name:     record.Name,
			Accepted: verdict.Accepted,
		})
	}

	response := &SubmissionResult{Status: status, RedirectURL: verdict.RedirectURL}
	if verdict.Accepted {
		response.Candidate = &CandidateInfo{
			Email: record.Email,
			Phone: record.Phone,
			Name:  record.Name,
		}
	}
	return response, nil
}

// recordFromParams lifts the callback's query parameters into a
// SubmissionRecord. Answer keys arrive as field:<ref>; a bare key that
// is not a reserved context parameter is accepted as an answer too,
// since hand-edited forms sometimes drop the prefix.
func recordFromParams(params url.Values) models.SubmissionRecord {
	record := models.SubmissionRecord{
		Answers:    make(map[string]string),
		MustHaves:  params.Get("must_haves"),
		Pass:       params.Get("pass"),
		SuccessURL: params.Get("success_url"),
		FailURL:    params.Get("fail_url"),
	}

	for key, values := range params {
		if len(values) == 0 {
			continue
		}
		value := values[0]

		ref := key
		if idx := strings.Index(key, ":"); idx >= 0 {
			ref = key[idx+1:]
		} else if _, reserved := reservedParams[key]; reserved {
			continue
		}
		if ref == "" {
			continue
		}
		record.Answers[ref] = value
	}

	record.Email = record.Answers["email"]
	record.Phone = record.Answers["phone"]
	record.Name = record.Answers["name"]
	return record
}
