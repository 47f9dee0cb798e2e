// Package notify delivers screening outcomes: an email to the candidate
// and, on acceptance, an alert to the recruiting topic. Delivery is
// best-effort and never changes the screening decision.
package notify

import (
	"context"
	"fmt"
	"strings"

	"hiring-screener/internal/common/config"
	"hiring-screener/internal/common/logger"
)

// EmailSender sends one outcome email. Implemented by the SMTP and SES
// providers.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Outcome is what the notifier tells a candidate and the recruiters.
type Outcome struct {
	Email    string
	Name     string
	Accepted bool
	FormID   string
}

type Notifier struct {
	cfg    config.NotificationConfig
	email  EmailSender
	alerts *SNSPublisher
	logger logger.Logger
}

// New builds a notifier from config. A nil alerts publisher disables
// recruiter alerts; a disabled config disables everything.
func New(cfg config.NotificationConfig, email EmailSender, alerts *SNSPublisher, log logger.Logger) *Notifier {
	return &Notifier{
		cfg:    cfg,
		email:  email,
		alerts: alerts,
		logger: log.With(map[string]interface{}{"component": "notify"}),
	}
}

// NewEmailSender picks the provider named in config.
func NewEmailSender(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (EmailSender, error) {
	switch strings.ToLower(cfg.Provider) {
	case "ses":
		return NewSESSender(ctx, cfg, log)
	case "", "smtp":
		return NewSMTPSender(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown notification provider %q", cfg.Provider)
	}
}

// NotifyOutcome emails the candidate their result and, when accepted,
// publishes a recruiter alert. Failures are logged and swallowed.
func (n *Notifier) NotifyOutcome(ctx context.Context, outcome Outcome) {
	if !n.cfg.Enabled {
		return
	}

	if n.email != nil && outcome.Email != "" {
		body := n.buildCandidateBody(outcome)
		if err := n.email.Send(ctx, outcome.Email, n.subject(), body); err != nil {
			n.logger.WithError(err).Warn("candidate email failed", map[string]interface{}{
				"to": outcome.Email,
			})
		}
	}

	if n.alerts != nil && outcome.Accepted {
		msg := fmt.Sprintf("Candidate %s (%s) passed screening for form %s",
			valueOr(outcome.Name, "unknown"), outcome.Email, outcome.FormID)
		if err := n.alerts.Publish(ctx, msg); err != nil {
			n.logger.WithError(err).Warn("recruiter alert failed", nil)
		}
	}
}

func (n *Notifier) subject() string {
	if n.cfg.Subject != "" {
		return n.cfg.Subject
	}
	return "Your application screening result"
}

func (n *Notifier) buildCandidateBody(outcome Outcome) string {
	greeting := "Hello"
	if outcome.Name != "" {
		greeting = "Hello " + outcome.Name
	}
	if outcome.Accepted {
		return greeting + ",\n\nThank you for completing the screening form. You meet the requirements for this position and we will be in touch with next steps shortly.\n"
	}
	return greeting + ",\n\nThank you for completing the screening form. Unfortunately your answers do not match the requirements for this position. We wish you the best in your search.\n"
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
