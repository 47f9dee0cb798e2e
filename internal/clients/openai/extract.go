package openai

import (
	"regexp"
	"strings"

	"hiring-screener/internal/common/errors"
)

// ExtractJSONBlock returns the first balanced JSON array or object found
// in text. Model replies routinely wrap the payload in prose or code
// fences, so the scan looks for the first opening bracket and walks to
// its matching close, honoring string literals and escapes.
func ExtractJSONBlock(text string) (string, error) {
	start := -1
	var open, closer rune
	for i, r := range text {
		if r == '[' || r == '{' {
			start = i
			open = r
			if r == '[' {
				closer = ']'
			} else {
				closer = '}'
			}
			break
		}
	}
	if start < 0 {
		return "", errors.NewParseError("no JSON block found in completion text")
	}

	depth := 0
	inString := false
	escaped := false
	for i, r := range text[start:] {
		if escaped {
			escaped = false
			continue
		}
		switch {
		case r == '\\' && inString:
			escaped = true
		case r == '"':
			inString = !inString
		case inString:
		case r == open:
			depth++
		case r == closer:
			depth--
			if depth == 0 {
				return text[start : start+i+1], nil
			}
		}
	}
	return "", errors.NewParseError("unterminated JSON block in completion text")
}

var numberedLinePattern = regexp.MustCompile(`^\s*\d+[.)]\s*(.+)$`)

// ExtractNumberedQuestions parses a plain-text numbered list ("1. ...",
// "2) ...") into individual question strings. Used as the fallback when
// the model ignored the JSON instruction and answered in prose.
func ExtractNumberedQuestions(text string) []string {
	var questions []string
	for _, line := range strings.Split(text, "\n") {
		if m := numberedLinePattern.FindStringSubmatch(line); m != nil {
			q := strings.TrimSpace(m[1])
			if q != "" {
				questions = append(questions, q)
			}
		}
	}
	return questions
}
