// Package assemble merges generated question fields, branch questions,
// fixed identity fields, and terminal screens into one schema-valid form
// document. It is a pure transform; submitting the document to the
// hosting API is owned by the caller, and nothing partial ever leaves
// this package.
package assemble

import (
	"strings"

	"hiring-screener/internal/common/errors"
	"hiring-screener/internal/common/logger"
	"hiring-screener/internal/models"
)

// Options carries the document-level settings applied to every form.
type Options struct {
	Title         string
	Language      string
	WorkspaceHref string
	ThemeHref     string
	Hidden        []string
}

type Assembler struct {
	logger logger.Logger
}

func NewAssembler(log logger.Logger) *Assembler {
	return &Assembler{
		logger: log.With(map[string]interface{}{"component": "assemble"}),
	}
}

// Assemble builds the final document: content questions first (generated
// fields, then branch questions), identity questions last, exactly one
// normalized terminal screen set. The schema gate runs before returning;
// a violation yields a StructureError and no document.
func (a *Assembler) Assemble(
	contentFields, branchFields, fixedFields []models.QuestionField,
	rules []models.BranchRule,
	screens []models.ThankyouScreen,
	opts Options,
) (*models.FormDocument, error) {
	fields := make([]models.QuestionField, 0, len(contentFields)+len(branchFields)+len(fixedFields))
	fields = append(fields, contentFields...)
	fields = append(fields, branchFields...)
	fields = append(fields, fixedFields...)
	fields = orderFields(fields)

	for i := range fields {
		if fields[i].Properties == nil {
			fields[i].Properties = map[string]interface{}{}
		}
	}

	normalizedScreens := make([]models.ThankyouScreen, 0, len(screens))
	for _, screen := range screens {
		normalizedScreens = append(normalizedScreens, NormalizeScreen(screen))
	}

	title := opts.Title
	if title == "" {
		title = "Screening form"
	}

	doc := &models.FormDocument{
		Title:           title,
		Type:            "quiz",
		Fields:          fields,
		Hidden:          opts.Hidden,
		Logic:           rules,
		ThankyouScreens: normalizedScreens,
		Settings:        defaultSettings(opts.Language),
	}
	if opts.WorkspaceHref != "" {
		doc.Workspace = &models.Href{Href: opts.WorkspaceHref}
	}
	if opts.ThemeHref != "" {
		doc.Theme = &models.Href{Href: opts.ThemeHref}
	}

	if err := validateDocument(doc); err != nil {
		a.logger.Error("assembled document rejected by schema gate", map[string]interface{}{
			"fieldCount": len(doc.Fields),
			"error":      errors.Normalize(err).Details,
		})
		return nil, err
	}

	return doc, nil
}

// orderFields keeps content questions first and moves identity questions
// (name, email, phone) to the end, preserving relative order within each
// group.
func orderFields(fields []models.QuestionField) []models.QuestionField {
	var content, identity []models.QuestionField
	for _, f := range fields {
		if isIdentityField(f) {
			identity = append(identity, f)
		} else {
			content = append(content, f)
		}
	}
	return append(content, identity...)
}

func isIdentityField(f models.QuestionField) bool {
	// Requirement questions are content regardless of their wording.
	if strings.HasPrefix(f.Ref, "musthave_") || f.Ref == "budget_accept" {
		return false
	}
	if f.Type == models.FieldTypeEmail || f.Type == models.FieldTypePhoneNumber {
		return true
	}
	title := strings.ToLower(f.Title)
	return strings.Contains(title, "email") ||
		strings.Contains(title, "phone") ||
		strings.Contains(title, "name")
}

func defaultSettings(lang string) *models.FormSettings {
	if lang == "" {
		lang = "en"
	}
	return &models.FormSettings{
		Language:           lang,
		ProgressBar:        "proportion",
		Meta:               models.SettingsMeta{AllowIndexing: false},
		HideNavigation:     true,
		IsPublic:           true,
		ShowProgressBar:    true,
		ShowTimeToComplete: true,
		ShowQuestionNumber: true,
		AutosaveProgress:   true,
		FreeFormNavigation: true,
		AutoTranslate:      true,
	}
}
