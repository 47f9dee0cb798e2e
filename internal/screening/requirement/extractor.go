// Package requirement turns the free-text must-have block into structured
// requirement tokens. Extraction is deliberately a pure function: form
// generation and submission validation both call it independently and must
// agree on the result for the same text.
package requirement

import (
	"regexp"
	"strconv"
	"strings"

	"hiring-screener/internal/models"
)

// budgetPattern matches a salary/budget amount: a 3-6 digit number followed
// by a currency token. Longer tokens come first so "euro" is not cut to
// "eur". No trailing boundary: currency words in non-ASCII scripts end on
// characters the regexp engine does not treat as word characters.
var budgetPattern = regexp.MustCompile(`(?i)\b(\d{3,6})\s*(euro|eur|usd|gbp|евро|€|\$|£)`)

// lineCutset mirrors the bullet/separator characters stripped from each
// must-have line.
const lineCutset = "-•:. \t\r"

// Extract parses the must-have text block into ordered requirements and an
// optional budget threshold. The threshold comes from the first BUDGET
// line whose number also parses numerically; a line where the pattern
// matches but the number does not parse stays GENERIC. Empty or
// whitespace-only input yields an empty requirement list, which is a valid
// "no constraints" state rather than an error.
func Extract(mustHavesText string) ([]models.Requirement, *int) {
	var (
		requirements []models.Requirement
		threshold    *int
	)

	for _, line := range strings.Split(mustHavesText, "\n") {
		text := strings.Trim(line, lineCutset)
		if text == "" {
			continue
		}

		req := models.Requirement{
			RawText: text,
			Kind:    models.RequirementGeneric,
		}

		// Classification and numeric extraction are independent checks;
		// both must succeed or the line stays GENERIC.
		if m := budgetPattern.FindStringSubmatch(text); m != nil {
			if value, ok := parseAmount(m[1]); ok {
				req.Kind = models.RequirementBudget
				req.Threshold = &value
				if threshold == nil {
					threshold = &value
				}
			}
		}

		requirements = append(requirements, req)
	}

	return requirements, threshold
}

// parseAmount parses the captured number, accepting both integer and
// decimal notation and truncating to int.
func parseAmount(s string) (int, bool) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}
