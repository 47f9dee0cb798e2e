// Package submission decides whether a candidate's answers satisfy the
// must-have requirements a form was built from. The decision is
// recomputed from the raw requirement text on every call, so it never
// depends on state left over from form generation.
package submission

import (
	"fmt"
	"strings"

	"hiring-screener/internal/common/logger"
	"hiring-screener/internal/models"
	"hiring-screener/internal/screening/branching"
	"hiring-screener/internal/screening/requirement"
)

// affirmativeAnswers are the accepted positive answers, lowercased.
// Cyrillic "да" is included because forms are generated in the posting's
// language and choices come back with their original labels.
var affirmativeAnswers = map[string]struct{}{
	"yes":  {},
	"да":   {},
	"true": {},
	"1":    {},
}

// IsAffirmative reports whether a raw answer counts as a positive reply.
func IsAffirmative(answer string) bool {
	_, ok := affirmativeAnswers[strings.ToLower(strings.TrimSpace(answer))]
	return ok
}

type Validator struct {
	logger logger.Logger
}

func NewValidator(log logger.Logger) *Validator {
	return &Validator{
		logger: log.With(map[string]interface{}{"component": "submission"}),
	}
}

// Validate re-extracts the requirements from the must-haves text and
// checks the submitted answers against them.
//
// Budget requirements are decided entirely by the salary-flexibility
// answer under branching.BudgetAcceptRef; a submission that reached the
// flexibility question and answered negatively, or that is missing the
// key altogether, is rejected. Generic requirements are matched to an
// answer key that contains "musthave", either by the index-derived ref
// the branch builder assigned or by the requirement text appearing in
// the key. A matched negative answer rejects immediately. A generic
// requirement with no matching answer key passes with a warning: the
// form may have been edited after generation, and an absent question
// must not reject a candidate who was never asked it.
func (v *Validator) Validate(record models.SubmissionRecord) models.ValidationResult {
	requirements, _ := requirement.Extract(record.MustHaves)

	result := models.ValidationResult{
		Accepted: true,
		Outcomes: make([]models.RequirementOutcome, 0, len(requirements)),
	}

	for i, req := range requirements {
		outcome := models.RequirementOutcome{Requirement: req}

		if req.IsBudget() {
			answer, ok := record.Answers[branching.BudgetAcceptRef]
			outcome.Matched = ok
			outcome.AnswerKey = branching.BudgetAcceptRef
			outcome.Answer = answer
			outcome.Satisfied = ok && IsAffirmative(answer)
			if !outcome.Satisfied {
				v.logger.Info("budget requirement not satisfied", map[string]interface{}{
					"requirement": req.RawText,
					"answered":    ok,
					"answer":      answer,
				})
			}
		} else {
			key, answer, found := v.matchGeneric(record.Answers, req, i+1)
			outcome.Matched = found
			outcome.AnswerKey = key
			outcome.Answer = answer
			if found {
				outcome.Satisfied = IsAffirmative(answer)
			} else {
				outcome.Satisfied = true
				v.logger.Warn("no answer matched requirement, passing it", map[string]interface{}{
					"requirement": req.RawText,
				})
			}
		}

		result.Outcomes = append(result.Outcomes, outcome)
		if !outcome.Satisfied {
			result.Accepted = false
			result.RedirectURL = record.FailURL
			return result
		}
	}

	result.RedirectURL = record.SuccessURL
	return result
}

// matchGeneric locates the answer for a generic requirement. Keys are
// considered only when they contain "musthave"; among those, the
// index-derived ref wins, then a key containing the requirement text.
func (v *Validator) matchGeneric(answers map[string]string, req models.Requirement, position int) (key, answer string, found bool) {
	indexRef := fmt.Sprintf("musthave_%d", position)
	if a, ok := answers[indexRef]; ok {
		return indexRef, a, true
	}

	needle := strings.ToLower(req.RawText)
	for k, a := range answers {
		lk := strings.ToLower(k)
		if !strings.Contains(lk, "musthave") {
			continue
		}
		if strings.Contains(lk, needle) {
			return k, a, true
		}
	}
	return "", "", false
}
