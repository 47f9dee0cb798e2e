package branching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiring-screener/internal/common/logger"
	"hiring-screener/internal/models"
)

func generic(text string) models.Requirement {
	return models.Requirement{RawText: text, Kind: models.RequirementGeneric}
}

func budget(text string, threshold int) models.Requirement {
	return models.Requirement{RawText: text, Kind: models.RequirementBudget, Threshold: &threshold}
}

func TestBuild_GenericRequirementsOnly(t *testing.T) {
	b := NewBuilder(logger.NewTestLogger(t))

	fields, rules := b.Build(
		[]models.Requirement{generic("English C1"), generic("5 years of Go")},
		nil,
		DefaultPhrases(),
	)

	require.Len(t, fields, 2)
	assert.Empty(t, rules)

	assert.Equal(t, "musthave_1", fields[0].Ref)
	assert.Equal(t, "musthave_2", fields[1].Ref)
	for i, f := range fields {
		assert.Equal(t, models.FieldTypeMultipleChoice, f.Type, "field %d", i)
		require.NotNil(t, f.Validations)
		assert.True(t, f.Validations.Required)

		choices, ok := f.Properties["choices"].([]models.Choice)
		require.True(t, ok, "field %d has typed choices", i)
		require.Len(t, choices, 2)
	}
	choices := fields[1].Properties["choices"].([]models.Choice)
	assert.Equal(t, "yes_choice_2", choices[0].Ref)
	assert.Equal(t, "no_choice_2", choices[1].Ref)
}

func TestBuild_BudgetBranch(t *testing.T) {
	b := NewBuilder(logger.NewTestLogger(t))

	fields, rules := b.Build(
		[]models.Requirement{generic("English"), budget("Budget 2000 EUR", 2000)},
		intPtr(2000),
		DefaultPhrases(),
	)

	// musthave question, budget number question, flexibility question.
	require.Len(t, fields, 3)
	assert.Equal(t, models.FieldTypeNumber, fields[1].Type)
	assert.Equal(t, "musthave_2", fields[1].Ref)

	// Flexibility question sits directly after the budget question under
	// its fixed ref.
	assert.Equal(t, BudgetAcceptRef, fields[2].Ref)
	assert.Equal(t, models.FieldTypeMultipleChoice, fields[2].Type)

	require.Len(t, rules, 1)
	rule := rules[0]
	assert.Equal(t, "field", rule.Type)
	assert.Equal(t, "musthave_2", rule.Ref)
	require.Len(t, rule.Actions, 1)

	action := rule.Actions[0]
	assert.Equal(t, "jump", action.Action)
	assert.Equal(t, BudgetAcceptRef, action.Details.To.Value)
	require.NotNil(t, action.Condition)
	assert.Equal(t, "greater_than", action.Condition.Op)
	require.Len(t, action.Condition.Vars, 2)
	assert.Equal(t, "field", action.Condition.Vars[0].Type)
	assert.Equal(t, "musthave_2", action.Condition.Vars[0].Value)
	assert.Equal(t, "constant", action.Condition.Vars[1].Type)
	assert.Equal(t, 2000, action.Condition.Vars[1].Value)
}

func TestBuild_BudgetWithoutThreshold(t *testing.T) {
	b := NewBuilder(logger.NewNoOpLogger())

	fields, rules := b.Build(
		[]models.Requirement{budget("Budget 2000 EUR", 2000)},
		nil,
		DefaultPhrases(),
	)

	// Number question still asked, but no flexibility question and no rule.
	require.Len(t, fields, 1)
	assert.Equal(t, models.FieldTypeNumber, fields[0].Type)
	assert.Empty(t, rules)
}

func TestBuild_NoRequirements(t *testing.T) {
	b := NewBuilder(logger.NewNoOpLogger())

	fields, rules := b.Build(nil, nil, DefaultPhrases())

	assert.Empty(t, fields)
	assert.Empty(t, rules)
}

func TestBuild_OnlyFirstBudgetBranches(t *testing.T) {
	b := NewBuilder(logger.NewNoOpLogger())

	fields, rules := b.Build(
		[]models.Requirement{budget("Budget 2000 EUR", 2000), budget("Rate 4000 USD", 4000)},
		intPtr(2000),
		DefaultPhrases(),
	)

	// Both budget lines become number questions, but only one branch rule
	// is emitted and it targets the first.
	require.Len(t, fields, 3)
	assert.Equal(t, "musthave_1", fields[0].Ref)
	assert.Equal(t, BudgetAcceptRef, fields[1].Ref)
	assert.Equal(t, "musthave_2", fields[2].Ref)

	require.Len(t, rules, 1)
	assert.Equal(t, "musthave_1", rules[0].Ref)
}

func intPtr(v int) *int { return &v }
