package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiring-screener/internal/common/config"
	"hiring-screener/internal/common/logger"
)

type fakeSender struct {
	sent []struct{ to, subject, body string }
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, body string) error {
	f.sent = append(f.sent, struct{ to, subject, body string }{to, subject, body})
	return f.err
}

func TestNotifyOutcome_SendsCandidateEmail(t *testing.T) {
	sender := &fakeSender{}
	n := New(config.NotificationConfig{Enabled: true, Subject: "Screening result"}, sender, nil, logger.NewTestLogger(t))

	n.NotifyOutcome(context.Background(), Outcome{
		Email:    "jo@example.com",
		Name:     "Jo",
		Accepted: true,
		FormID:   "abc123",
	})

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "jo@example.com", sender.sent[0].to)
	assert.Equal(t, "Screening result", sender.sent[0].subject)
	assert.Contains(t, sender.sent[0].body, "Hello Jo")
	assert.Contains(t, sender.sent[0].body, "meet the requirements")
}

func TestNotifyOutcome_RejectedBodyDiffers(t *testing.T) {
	sender := &fakeSender{}
	n := New(config.NotificationConfig{Enabled: true}, sender, nil, logger.NewTestLogger(t))

	n.NotifyOutcome(context.Background(), Outcome{Email: "jo@example.com", Accepted: false})

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].body, "do not match the requirements")
	assert.Equal(t, "Your application screening result", sender.sent[0].subject)
}

func TestNotifyOutcome_DisabledDoesNothing(t *testing.T) {
	sender := &fakeSender{}
	n := New(config.NotificationConfig{Enabled: false}, sender, nil, logger.NewTestLogger(t))

	n.NotifyOutcome(context.Background(), Outcome{Email: "jo@example.com", Accepted: true})

	assert.Empty(t, sender.sent)
}

func TestNotifyOutcome_SendFailureIsSwallowed(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	n := New(config.NotificationConfig{Enabled: true}, sender, nil, logger.NewTestLogger(t))

	// must not panic or propagate
	n.NotifyOutcome(context.Background(), Outcome{Email: "jo@example.com", Accepted: true})

	require.Len(t, sender.sent, 1)
}

func TestNewEmailSender_UnknownProvider(t *testing.T) {
	_, err := NewEmailSender(context.Background(), config.NotificationConfig{Provider: "carrier-pigeon"}, logger.NewTestLogger(t))
	require.Error(t, err)
}
