package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiring-screener/internal/common/logger"
	"hiring-screener/internal/models"
)

func TestNormalizeRawField_NumberKeepsOnlyDescription(t *testing.T) {
	raw := map[string]interface{}{
		"type":  "number",
		"title": "Expected monthly salary in euro?",
		"ref":   "musthave_2",
		"properties": map[string]interface{}{
			"description": "Numbers only",
			"choices": []interface{}{
				map[string]interface{}{"label": "Yes"},
			},
			"allow_multiple_selections": true,
		},
	}

	got := NormalizeRawField(raw)

	props, ok := got["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"description": "Numbers only"}, props)
	assert.Equal(t, "number", got["type"])
	assert.Equal(t, "Expected monthly salary in euro?", got["title"])
}

func TestNormalizeRawField_QuestionBecomesTitle(t *testing.T) {
	raw := map[string]interface{}{
		"type":     "short_text",
		"question": "What is your notice period?",
	}

	got := NormalizeRawField(raw)

	assert.Equal(t, "What is your notice period?", got["title"])
	_, hasQuestion := got["question"]
	assert.False(t, hasQuestion)
	// A properties object is always present, even when empty.
	_, hasProps := got["properties"]
	assert.True(t, hasProps)
}

func TestNormalizeRawField_TopLevelChoicesMoveIntoProperties(t *testing.T) {
	raw := map[string]interface{}{
		"type":  "multiple_choice",
		"title": "Do you know Go?",
		"choices": []interface{}{
			map[string]interface{}{"label": "Yes"},
			map[string]interface{}{"label": "No"},
		},
	}

	got := NormalizeRawField(raw)

	props, ok := got["properties"].(map[string]interface{})
	require.True(t, ok)
	choices, ok := props["choices"].([]interface{})
	require.True(t, ok)
	assert.Len(t, choices, 2)
	_, topLevel := got["choices"]
	assert.False(t, topLevel)
}

func TestNormalizeRawScreen_Defaults(t *testing.T) {
	raw := map[string]interface{}{
		"ref":          "url_redirect",
		"redirect_url": "https://example.com/next",
		"message":      "thanks!",
		"button_text":  "Continue",
	}

	got := NormalizeRawScreen(raw)

	assert.Equal(t, "thankyou_screen", got["type"])
	assert.Equal(t, "Thank you!", got["title"])
	props, ok := got["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "https://example.com/next", props["redirect_url"])
	assert.Equal(t, false, props["show_button"])
	_, hasMessage := got["message"]
	assert.False(t, hasMessage)
	_, hasButton := got["button_text"]
	assert.False(t, hasButton)
}

func TestAssemble_ProducesSchemaValidDocument(t *testing.T) {
	a := NewAssembler(logger.NewNoOpLogger())

	content := []models.QuestionField{
		{Title: "Tell us about your last project", Type: models.FieldTypeShortText, Ref: "q1"},
	}
	branch := []models.QuestionField{
		{Title: "Do you have experience with Go?", Type: models.FieldTypeMultipleChoice, Ref: "musthave_1",
			Properties: map[string]interface{}{"choices": []models.Choice{{Label: "Yes", Ref: "yes_choice_1"}, {Label: "No", Ref: "no_choice_1"}}}},
	}
	fixed := []models.QuestionField{
		{Title: "Your email", Type: models.FieldTypeEmail, Ref: "email"},
	}
	screens := []models.ThankyouScreen{
		{Ref: "url_redirect", Properties: map[string]interface{}{"redirect_url": "https://example.com/hook"}},
	}

	doc, err := a.Assemble(content, branch, fixed, nil, screens, Options{Title: "Backend engineer screen", Language: "en"})
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, "Backend engineer screen", doc.Title)
	require.Len(t, doc.Fields, 3)
	// Identity fields go last even when supplied in the middle.
	assert.Equal(t, "q1", doc.Fields[0].Ref)
	assert.Equal(t, "musthave_1", doc.Fields[1].Ref)
	assert.Equal(t, "email", doc.Fields[2].Ref)

	require.Len(t, doc.ThankyouScreens, 1)
	assert.Equal(t, "thankyou_screen", doc.ThankyouScreens[0].Type)
	assert.Equal(t, "Thank you!", doc.ThankyouScreens[0].Title)
}

func TestAssemble_IdentityOrderingPreservesRelativeOrder(t *testing.T) {
	a := NewAssembler(logger.NewNoOpLogger())

	fields := []models.QuestionField{
		{Title: "Your name", Type: models.FieldTypeShortText, Ref: "name"},
		{Title: "Why this role?", Type: models.FieldTypeShortText, Ref: "q1"},
		{Title: "Your email", Type: models.FieldTypeEmail, Ref: "email"},
		{Title: "Your phone", Type: models.FieldTypePhoneNumber, Ref: "phone"},
	}

	doc, err := a.Assemble(fields, nil, nil, nil, nil, Options{})
	require.NoError(t, err)

	refs := make([]string, 0, len(doc.Fields))
	for _, f := range doc.Fields {
		refs = append(refs, f.Ref)
	}
	assert.Equal(t, []string{"q1", "name", "email", "phone"}, refs)
}

func TestAssemble_RejectsFieldWithoutTitle(t *testing.T) {
	a := NewAssembler(logger.NewNoOpLogger())

	fields := []models.QuestionField{
		{Title: "", Type: models.FieldTypeShortText, Ref: "q1"},
	}

	doc, err := a.Assemble(fields, nil, nil, nil, nil, Options{})
	assert.Nil(t, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRUCTURE_ERROR")
}

func TestAssemble_RejectsEmptyFieldList(t *testing.T) {
	a := NewAssembler(logger.NewNoOpLogger())

	doc, err := a.Assemble(nil, nil, nil, nil, nil, Options{})
	assert.Nil(t, doc)
	require.Error(t, err)
}

func TestDecodeRawFields_RepairsNilProperties(t *testing.T) {
	raw := []map[string]interface{}{
		{"type": "short_text", "title": "One"},
		{"type": "number", "question": "Two?"},
	}

	fields, err := DecodeRawFields(raw)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	for _, f := range fields {
		assert.NotNil(t, f.Properties)
	}
	assert.Equal(t, "Two?", fields[1].Title)
}
