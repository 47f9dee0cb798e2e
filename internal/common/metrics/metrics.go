// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FormsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_forms_generated_total",
			Help: "Total number of screening forms successfully created",
		},
		[]string{"source"},
	)

	FormGenerationFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_form_generation_failed_total",
			Help: "Total number of form generation attempts that failed",
		},
		[]string{"error_code"},
	)

	SubmissionsValidated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_submissions_validated_total",
			Help: "Total number of submissions validated, by decision",
		},
		[]string{"decision"},
	)

	ExternalCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "screening_external_call_duration_seconds",
			Help: "Duration of calls to external services",
		},
		[]string{"service"},
	)
)

// ExternalCallTimer measures one outbound call into ExternalCallDuration.
type ExternalCallTimer struct {
	service string
	start   time.Time
}

func NewExternalCallTimer(service string) *ExternalCallTimer {
	return &ExternalCallTimer{service: service, start: time.Now()}
}

func (t *ExternalCallTimer) Observe() {
	ExternalCallDuration.WithLabelValues(t.service).Observe(time.Since(t.start).Seconds())
}
