// Package language detects the job description's language and translates
// the canned question titles into it, using the text-completion oracle.
// Every operation degrades to a safe fallback: detection falls back to
// English, translation falls back to the input text.
package language

import (
	"context"
	"strings"

	"golang.org/x/text/language"

	"hiring-screener/internal/common/logger"
)

const (
	detectSystemPrompt = "Determine the language of the given text. " +
		"Respond with only the language code (en, ru, es, it, de, fr, etc.)"
	translateSystemPrompt = "Translate the following text to %TARGET%. " +
		"Return only the translation, nothing else."

	// detectSampleLimit caps how much of the job description is sent for
	// language detection.
	detectSampleLimit = 500

	// DefaultLanguage is used whenever detection fails.
	DefaultLanguage = "en"
)

var languageNames = map[string]string{
	"en": "English",
	"ru": "Russian",
	"es": "Spanish",
	"it": "Italian",
	"de": "German",
	"fr": "French",
}

// Completer is the text-completion oracle contract the translator needs.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type Translator struct {
	completer Completer
	logger    logger.Logger
}

func NewTranslator(completer Completer, log logger.Logger) *Translator {
	return &Translator{
		completer: completer,
		logger:    log.With(map[string]interface{}{"component": "translator"}),
	}
}

// DetectLanguage returns the base language code of the job description.
func (t *Translator) DetectLanguage(ctx context.Context, jobDescription string) string {
	sample := jobDescription
	if len(sample) > detectSampleLimit {
		sample = sample[:detectSampleLimit]
	}

	raw, err := t.completer.Complete(ctx, detectSystemPrompt, sample)
	if err != nil {
		t.logger.Warn("language detection failed, falling back to English", map[string]interface{}{
			"error": err.Error(),
		})
		return DefaultLanguage
	}

	return normalizeCode(raw)
}

// Translate renders text in the target language. English input stays
// untouched for an English target, and any oracle failure returns the
// original text.
func (t *Translator) Translate(ctx context.Context, text, targetLang string) string {
	if targetLang == DefaultLanguage || targetLang == "" {
		return text
	}

	name, ok := languageNames[targetLang]
	if !ok {
		name = "English"
	}

	translated, err := t.completer.Complete(ctx,
		strings.Replace(translateSystemPrompt, "%TARGET%", name, 1), text)
	if err != nil {
		t.logger.Warn("translation failed, keeping original text", map[string]interface{}{
			"target": targetLang,
			"error":  err.Error(),
		})
		return text
	}

	translated = strings.TrimSpace(translated)
	if translated == "" {
		return text
	}
	return translated
}

// normalizeCode reduces whatever the oracle answered to a base language
// tag like "en" or "ru".
func normalizeCode(raw string) string {
	code := strings.ToLower(strings.TrimSpace(raw))
	if code == "" {
		return DefaultLanguage
	}

	tag, err := language.Parse(code)
	if err != nil {
		return DefaultLanguage
	}
	base, _ := tag.Base()
	return base.String()
}
