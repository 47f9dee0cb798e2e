// Package pipeline orchestrates the two top-level operations: building a
// screening form from a spreadsheet row, and deciding a submitted
// candidate's outcome. Every step failure aborts the whole operation;
// nothing partial is ever written to the hosting API or the sheet.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"hiring-screener/internal/clients/openai"
	"hiring-screener/internal/common/config"
	"hiring-screener/internal/common/errors"
	"hiring-screener/internal/common/logger"
	"hiring-screener/internal/common/metrics"
	"hiring-screener/internal/common/observability"
	"hiring-screener/internal/models"
	"hiring-screener/internal/notify"
	"hiring-screener/internal/screening/assemble"
	"hiring-screener/internal/screening/branching"
	"hiring-screener/internal/screening/language"
	"hiring-screener/internal/screening/requirement"
	"hiring-screener/internal/screening/submission"
)

const defaultQuestionPrompt = "You are an experienced technical recruiter. " +
	"Given a job description, produce 3-5 interview screening questions as a JSON array. " +
	"Each element must be an object with keys \"title\" (the question text), \"type\" " +
	"(one of short_text, multiple_choice) and, for multiple_choice, \"properties\" with a " +
	"\"choices\" array of {\"label\": ...} objects. Use the language of the job description. " +
	"Return only the JSON array."

// RowStore reads and writes the screening journey spreadsheet.
type RowStore interface {
	ReadRow(ctx context.Context, rowID int) (jobDescription, mustHaves string, err error)
	ReadPrompt(ctx context.Context) (string, error)
	WriteQuestions(ctx context.Context, rowID int, questions string) error
	WriteFormLink(ctx context.Context, rowID int, link string) error
}

// FormAPI creates hosted forms and registers their webhooks.
type FormAPI interface {
	CreateForm(ctx context.Context, doc *models.FormDocument) (*models.CreatedForm, error)
	SetWebhook(ctx context.Context, formID, tag, url string) error
}

type Pipeline struct {
	cfg        config.Config
	completer  language.Completer
	rows       RowStore
	forms      FormAPI
	translator *language.Translator
	builder    *branching.Builder
	assembler  *assemble.Assembler
	validator  *submission.Validator
	notifier   *notify.Notifier
	obs        *observability.Observability
	logger     logger.Logger
}

func New(
	cfg config.Config,
	completer language.Completer,
	rows RowStore,
	forms FormAPI,
	notifier *notify.Notifier,
	obs *observability.Observability,
	log logger.Logger,
) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		completer:  completer,
		rows:       rows,
		forms:      forms,
		translator: language.NewTranslator(completer, log),
		builder:    branching.NewBuilder(log),
		assembler:  assemble.NewAssembler(log),
		validator:  submission.NewValidator(log),
		notifier:   notifier,
		obs:        obs,
		logger:     log.With(map[string]interface{}{"component": "pipeline"}),
	}
}

// recordStage reports one top-level operation to the tracer and the
// stage metrics. A nil observability handle disables both.
func (p *Pipeline) recordStage(ctx context.Context, stage string, start time.Time, err error) {
	if p.obs == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	p.obs.RecordStage(ctx, stage, status, time.Since(start))
}

// GenerateResult reports what a successful form build produced.
type GenerateResult struct {
	FormID       string `json:"form_id"`
	FormURL      string `json:"form_url"`
	RowID        int    `json:"row_id"`
	FieldCount   int    `json:"field_count"`
	QuestionsSet bool   `json:"questions_written"`
	LinkSet      bool   `json:"form_link_written"`
}

// Generate builds, publishes and records one screening form for the
// given journey row.
func (p *Pipeline) Generate(ctx context.Context, rowID int) (*GenerateResult, error) {
	start := time.Now()
	if p.obs != nil {
		var span trace.Span
		ctx, span = p.obs.StartSpan(ctx, "generate-form")
		defer span.End()
	}

	result, err := p.generate(ctx, rowID)
	p.recordStage(ctx, "generate-form", start, err)
	if err != nil {
		metrics.FormGenerationFailed.WithLabelValues(string(errors.Normalize(err).Code)).Inc()
		return nil, err
	}
	metrics.FormsGenerated.WithLabelValues("sheet_row").Inc()
	return result, nil
}

func (p *Pipeline) generate(ctx context.Context, rowID int) (*GenerateResult, error) {
	log := p.logger.With(map[string]interface{}{"row_id": rowID})

	jobDescription, mustHaves, err := p.rows.ReadRow(ctx, rowID)
	if err != nil {
		return nil, err
	}

	lang := p.translator.DetectLanguage(ctx, jobDescription)
	phrases := p.translatePhrases(ctx, lang)
	log.Info("journey row loaded", map[string]interface{}{"language": lang})

	contentFields, err := p.generateQuestions(ctx, jobDescription, mustHaves)
	if err != nil {
		return nil, err
	}

	requirements, threshold := requirement.Extract(mustHaves)
	branchFields, rules := p.builder.Build(requirements, threshold, phrases)

	fixedFields := p.identityFields(ctx, lang)
	screen := models.ThankyouScreen{
		Ref: "url_redirect",
		Properties: map[string]interface{}{
			"redirect_url": p.buildRedirectURL(mustHaves, branchFields, fixedFields),
		},
	}

	doc, err := p.assembler.Assemble(contentFields, branchFields, fixedFields, rules,
		[]models.ThankyouScreen{screen}, assemble.Options{
			Title:         phrases.FormTitle,
			Language:      lang,
			WorkspaceHref: p.cfg.Typeform.WorkspaceHref,
			ThemeHref:     p.cfg.Typeform.ThemeHref,
		})
	if err != nil {
		return nil, err
	}

	created, err := p.forms.CreateForm(ctx, doc)
	if err != nil {
		return nil, err
	}

	tag := "screening-" + uuid.NewString()
	webhookURL := strings.TrimRight(p.cfg.Redirects.WebhookBaseURL, "/") + "/process-submission"
	if err := p.forms.SetWebhook(ctx, created.ID, tag, webhookURL); err != nil {
		return nil, err
	}

	questionsText := renderQuestionsText(doc.Fields)
	if err := p.rows.WriteQuestions(ctx, rowID, questionsText); err != nil {
		return nil, err
	}
	if err := p.rows.WriteFormLink(ctx, rowID, created.DisplayURL); err != nil {
		return nil, err
	}

	log.Info("screening form published", map[string]interface{}{
		"form_id": created.ID,
		"url":     created.DisplayURL,
		"fields":  len(doc.Fields),
	})

	return &GenerateResult{
		FormID:       created.ID,
		FormURL:      created.DisplayURL,
		RowID:        rowID,
		FieldCount:   len(doc.Fields),
		QuestionsSet: true,
		LinkSet:      true,
	}, nil
}

// generateQuestions asks the oracle for job-description questions and
// normalizes its reply. A reply without a JSON block is re-read as a
// numbered plain-text list before giving up.
func (p *Pipeline) generateQuestions(ctx context.Context, jobDescription, mustHaves string) ([]models.QuestionField, error) {
	systemPrompt, err := p.rows.ReadPrompt(ctx)
	if err != nil {
		p.logger.WithError(err).Warn("prompt cell unreadable, using built-in prompt", nil)
		systemPrompt = ""
	}
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = defaultQuestionPrompt
	}

	userPrompt := fmt.Sprintf("Job description:\n%s\n\nMust-have requirements (asked separately, do not repeat them):\n%s",
		jobDescription, mustHaves)

	reply, err := p.completer.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	block, err := openai.ExtractJSONBlock(reply)
	if err != nil {
		return p.questionsFromPlainText(reply)
	}

	var rawFields []map[string]interface{}
	if err := json.Unmarshal([]byte(block), &rawFields); err != nil {
		// A lone object instead of an array still counts as one question.
		var single map[string]interface{}
		if err2 := json.Unmarshal([]byte(block), &single); err2 != nil {
			return nil, errors.NewParseError(fmt.Sprintf("decoding question JSON: %v", err))
		}
		rawFields = []map[string]interface{}{single}
	}
	if len(rawFields) == 0 {
		return nil, errors.NewParseError("oracle returned an empty question list")
	}

	for i := range rawFields {
		rawFields[i] = assemble.NormalizeRawField(rawFields[i])
		if _, ok := rawFields[i]["ref"]; !ok {
			rawFields[i]["ref"] = fmt.Sprintf("jobdesc_%d", i+1)
		}
	}
	return assemble.DecodeRawFields(rawFields)
}

func (p *Pipeline) questionsFromPlainText(reply string) ([]models.QuestionField, error) {
	questions := openai.ExtractNumberedQuestions(reply)
	if len(questions) == 0 {
		return nil, errors.NewParseError("oracle reply contains neither JSON nor a numbered question list")
	}

	p.logger.Warn("oracle ignored the JSON instruction, parsed numbered list instead", map[string]interface{}{
		"questions": len(questions),
	})

	fields := make([]models.QuestionField, 0, len(questions))
	for i, q := range questions {
		fields = append(fields, models.QuestionField{
			Title:      q,
			Ref:        fmt.Sprintf("jobdesc_%d", i+1),
			Type:       models.FieldTypeShortText,
			Properties: map[string]interface{}{},
		})
	}
	return fields, nil
}

func (p *Pipeline) translatePhrases(ctx context.Context, lang string) branching.Phrases {
	phrases := branching.DefaultPhrases()
	if lang == language.DefaultLanguage {
		return phrases
	}
	phrases.Yes = p.translator.Translate(ctx, phrases.Yes, lang)
	phrases.No = p.translator.Translate(ctx, phrases.No, lang)
	phrases.ExperienceTmpl = p.translator.Translate(ctx, phrases.ExperienceTmpl, lang)
	phrases.SalaryQuestion = p.translator.Translate(ctx, phrases.SalaryQuestion, lang)
	phrases.BudgetTmpl = p.translator.Translate(ctx, phrases.BudgetTmpl, lang)
	phrases.FormTitle = p.translator.Translate(ctx, phrases.FormTitle, lang)
	return phrases
}

// identityFields returns the required contact questions appended to
// every form, titled in the form's language.
func (p *Pipeline) identityFields(ctx context.Context, lang string) []models.QuestionField {
	required := &models.FieldValidations{Required: true}
	return []models.QuestionField{
		{
			Title:       p.translator.Translate(ctx, "Your name", lang),
			Ref:         "name",
			Type:        models.FieldTypeShortText,
			Properties:  map[string]interface{}{},
			Validations: required,
		},
		{
			Title:       p.translator.Translate(ctx, "Email", lang),
			Ref:         "email",
			Type:        models.FieldTypeEmail,
			Properties:  map[string]interface{}{},
			Validations: required,
		},
		{
			Title:       p.translator.Translate(ctx, "Phone", lang),
			Ref:         "phone",
			Type:        models.FieldTypePhoneNumber,
			Properties:  map[string]interface{}{},
			Validations: required,
		},
	}
}

// buildRedirectURL assembles the terminal screen's redirect target. The
// hosting engine cannot evaluate answers itself, so every requirement
// and identity answer rides along as a field:<ref> placeholder for the
// submission endpoint to inspect. Placeholders stay unescaped: the
// engine only substitutes the literal {{field:ref}} form.
func (p *Pipeline) buildRedirectURL(mustHaves string, branchFields, fixedFields []models.QuestionField) string {
	base := strings.TrimRight(p.cfg.Redirects.WebhookBaseURL, "/") + "/process-submission"

	params := []string{
		"pass=true",
		"must_haves=" + url.QueryEscape(mustHaves),
		"success_url=" + url.QueryEscape(p.cfg.Redirects.SuccessURL),
		"fail_url=" + url.QueryEscape(p.cfg.Redirects.FailURL),
	}
	for _, f := range branchFields {
		params = append(params, fmt.Sprintf("field:%s={{field:%s}}", f.Ref, f.Ref))
	}
	for _, f := range fixedFields {
		params = append(params, fmt.Sprintf("field:%s={{field:%s}}", f.Ref, f.Ref))
	}

	return base + "?" + strings.Join(params, "&")
}

// renderQuestionsText flattens the final field list into the numbered
// text stored back on the journey row, choices in parentheses.
func renderQuestionsText(fields []models.QuestionField) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, f.Title)

		if f.Type != models.FieldTypeMultipleChoice {
			continue
		}
		labels := choiceLabels(f)
		if len(labels) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(labels, ", "))
		}
	}
	return b.String()
}

func choiceLabels(f models.QuestionField) []string {
	raw, ok := f.Properties["choices"]
	if !ok {
		return nil
	}

	var labels []string
	switch choices := raw.(type) {
	case []models.Choice:
		for _, c := range choices {
			labels = append(labels, c.Label)
		}
	case []interface{}:
		for _, c := range choices {
			if m, ok := c.(map[string]interface{}); ok {
				if label, ok := m["label"].(string); ok {
					labels = append(labels, label)
				}
			}
		}
	}
	return labels
}
