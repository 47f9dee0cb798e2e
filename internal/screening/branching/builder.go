// Package branching turns requirement tokens into form questions and the
// conditional jump rules the hosting API can evaluate. The hosting engine
// only supports per-field comparisons against a constant, so the single
// emitted rule jumps to a human confirmation question; the full accept or
// reject decision stays with the submission validator.
package branching

import (
	"fmt"

	"hiring-screener/internal/common/logger"
	"hiring-screener/internal/models"
)

// BudgetAcceptRef is the fixed ref of the budget flexibility question. The
// submission validator keys on it, so it never varies per form.
const BudgetAcceptRef = "budget_accept"

// Phrases carries the canned question texts, already translated into the
// job description's language.
type Phrases struct {
	Yes            string
	No             string
	ExperienceTmpl string // format arg: requirement text
	SalaryQuestion string
	BudgetTmpl     string // format arg: budget amount
	FormTitle      string
}

// DefaultPhrases returns the English phrase set.
func DefaultPhrases() Phrases {
	return Phrases{
		Yes:            "Yes",
		No:             "No",
		ExperienceTmpl: "Do you have experience with: %s?",
		SalaryQuestion: "What are your salary expectations?",
		BudgetTmpl:     "Our budget is %d. Are you comfortable with it?",
		FormTitle:      "Screening form",
	}
}

type Builder struct {
	logger logger.Logger
}

func NewBuilder(log logger.Logger) *Builder {
	return &Builder{
		logger: log.With(map[string]interface{}{"component": "branching"}),
	}
}

// Build synthesizes one question per requirement plus, when a budget
// threshold exists, the flexibility question and its jump rule. Field
// order follows requirement order; refs are 1-based over that order. An
// empty requirement list yields empty field and rule lists, which is a
// valid form with only identity questions.
func (b *Builder) Build(requirements []models.Requirement, threshold *int, phrases Phrases) ([]models.QuestionField, []models.BranchRule) {
	var (
		fields         []models.QuestionField
		rules          []models.BranchRule
		budgetRef      string
		budgetFieldIdx int
	)

	for idx, req := range requirements {
		ref := fmt.Sprintf("musthave_%d", idx+1)

		if req.IsBudget() {
			if budgetRef == "" {
				budgetRef = ref
				budgetFieldIdx = len(fields)
			}
			fields = append(fields, models.QuestionField{
				Title:       phrases.SalaryQuestion,
				Ref:         ref,
				Type:        models.FieldTypeNumber,
				Properties:  map[string]interface{}{},
				Validations: &models.FieldValidations{Required: true},
			})
			continue
		}

		fields = append(fields, models.QuestionField{
			Title: fmt.Sprintf(phrases.ExperienceTmpl, req.RawText),
			Ref:   ref,
			Type:  models.FieldTypeMultipleChoice,
			Properties: map[string]interface{}{
				"choices": []models.Choice{
					{Label: phrases.Yes, Ref: fmt.Sprintf("yes_choice_%d", idx+1)},
					{Label: phrases.No, Ref: fmt.Sprintf("no_choice_%d", idx+1)},
				},
			},
			Validations: &models.FieldValidations{Required: true},
		})
	}

	// The jump rule needs both the budget question and the threshold; with
	// either one missing no branching is encoded and the form runs linearly.
	if budgetRef == "" || threshold == nil {
		return fields, rules
	}

	flexField := models.QuestionField{
		Title: fmt.Sprintf(phrases.BudgetTmpl, *threshold),
		Ref:   BudgetAcceptRef,
		Type:  models.FieldTypeMultipleChoice,
		Properties: map[string]interface{}{
			"choices": []models.Choice{
				{Label: phrases.Yes, Ref: "flex_yes_choice"},
				{Label: phrases.No, Ref: "flex_no_choice"},
			},
		},
		Validations: &models.FieldValidations{Required: true},
	}

	// Insert directly after the budget question.
	insertAt := budgetFieldIdx + 1
	fields = append(fields[:insertAt], append([]models.QuestionField{flexField}, fields[insertAt:]...)...)

	// Jump to the flexibility question when expectations exceed the
	// budget. No rule for the negative branch: the hosting engine cannot
	// express it, so that decision belongs to the submission validator.
	rules = append(rules, models.BranchRule{
		Type: "field",
		Ref:  budgetRef,
		Actions: []models.RuleAction{
			{
				Action: "jump",
				Details: models.ActionDetails{
					To: models.JumpTarget{Type: "field", Value: BudgetAcceptRef},
				},
				Condition: &models.RuleCondition{
					Op: "greater_than",
					Vars: []models.ConditionVar{
						{Type: "field", Value: budgetRef},
						{Type: "constant", Value: *threshold},
					},
				},
			},
		},
	})

	b.logger.Debug("budget branch generated", map[string]interface{}{
		"budgetRef": budgetRef,
		"threshold": *threshold,
	})

	return fields, rules
}
