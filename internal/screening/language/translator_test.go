package language

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"hiring-screener/internal/common/logger"
)

type stubCompleter struct {
	reply string
	err   error

	lastUserPrompt string
}

func (s *stubCompleter) Complete(_ context.Context, _, userPrompt string) (string, error) {
	s.lastUserPrompt = userPrompt
	return s.reply, s.err
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		want  string
	}{
		{name: "plain code", reply: "ru", want: "ru"},
		{name: "verbose code", reply: " EN \n", want: "en"},
		{name: "regional tag reduced to base", reply: "pt-BR", want: "pt"},
		{name: "gibberish falls back", reply: "the language is Russian!", want: "en"},
		{name: "oracle failure falls back", err: errors.New("boom"), want: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTranslator(&stubCompleter{reply: tt.reply, err: tt.err}, logger.NewTestLogger(t))
			assert.Equal(t, tt.want, tr.DetectLanguage(context.Background(), "Ищем бэкенд-разработчика"))
		})
	}
}

func TestDetectLanguage_TruncatesSample(t *testing.T) {
	stub := &stubCompleter{reply: "en"}
	tr := NewTranslator(stub, logger.NewTestLogger(t))

	tr.DetectLanguage(context.Background(), strings.Repeat("a", 2000))

	assert.LessOrEqual(t, len(stub.lastUserPrompt), detectSampleLimit)
}

func TestTranslate(t *testing.T) {
	t.Run("english target is a no-op", func(t *testing.T) {
		stub := &stubCompleter{reply: "should not be used"}
		tr := NewTranslator(stub, logger.NewTestLogger(t))
		assert.Equal(t, "Your name", tr.Translate(context.Background(), "Your name", "en"))
		assert.Empty(t, stub.lastUserPrompt)
	})

	t.Run("translates to target language", func(t *testing.T) {
		tr := NewTranslator(&stubCompleter{reply: "Ваше имя"}, logger.NewTestLogger(t))
		assert.Equal(t, "Ваше имя", tr.Translate(context.Background(), "Your name", "ru"))
	})

	t.Run("oracle failure keeps original", func(t *testing.T) {
		tr := NewTranslator(&stubCompleter{err: errors.New("boom")}, logger.NewTestLogger(t))
		assert.Equal(t, "Your name", tr.Translate(context.Background(), "Your name", "ru"))
	})

	t.Run("blank reply keeps original", func(t *testing.T) {
		tr := NewTranslator(&stubCompleter{reply: "  "}, logger.NewTestLogger(t))
		assert.Equal(t, "Your name", tr.Translate(context.Background(), "Your name", "ru"))
	})
}
