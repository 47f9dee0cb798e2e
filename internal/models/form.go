// internal/models/form.go
package models

// Field type tags accepted by the form-hosting API.
const (
	FieldTypeShortText      = "short_text"
	FieldTypeNumber         = "number"
	FieldTypeMultipleChoice = "multiple_choice"
	FieldTypeEmail          = "email"
	FieldTypePhoneNumber    = "phone_number"
)

// ThankyouScreenType is the only screen type tag the hosting API accepts
// for terminal screens.
const ThankyouScreenType = "thankyou_screen"

// Href references a remote workspace or theme resource.
type Href struct {
	Href string `json:"href"`
}

// Choice is one selectable answer of a multiple_choice field.
type Choice struct {
	Label string `json:"label"`
	Ref   string `json:"ref,omitempty"`
}

// FieldValidations carries the per-field validation flags.
type FieldValidations struct {
	Required bool `json:"required"`
}

// QuestionField is one form question in the hosting API's wire shape.
// Properties holds the type-specific keys (choices, description); it is
// kept as a map because generated fields arrive loosely shaped and are
// normalized at the assembler boundary.
type QuestionField struct {
	ID          string                 `json:"id,omitempty"`
	Ref         string                 `json:"ref,omitempty"`
	Title       string                 `json:"title"`
	Type        string                 `json:"type"`
	Properties  map[string]interface{} `json:"properties"`
	Validations *FieldValidations      `json:"validations,omitempty"`
}

// BranchRule is one conditional jump in the hosting API's logic model:
// a single field's answer compared against a constant.
type BranchRule struct {
	Type    string       `json:"type"`
	Ref     string       `json:"ref"`
	Actions []RuleAction `json:"actions"`
}

type RuleAction struct {
	Action    string         `json:"action"`
	Details   ActionDetails  `json:"details"`
	Condition *RuleCondition `json:"condition,omitempty"`
}

type ActionDetails struct {
	To JumpTarget `json:"to"`
}

type JumpTarget struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// RuleCondition compares vars with the given operator. The hosting API
// supports no expressions beyond this.
type RuleCondition struct {
	Op   string         `json:"op"`
	Vars []ConditionVar `json:"vars"`
}

type ConditionVar struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// ThankyouScreen is a terminal screen. Properties may carry redirect_url
// and show_button.
type ThankyouScreen struct {
	Ref        string                 `json:"ref,omitempty"`
	Title      string                 `json:"title"`
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
}

// FormSettings mirrors the presentation settings block of the hosting API.
type FormSettings struct {
	Language             string       `json:"language,omitempty"`
	ProgressBar          string       `json:"progress_bar,omitempty"`
	Meta                 SettingsMeta `json:"meta"`
	HideNavigation       bool         `json:"hide_navigation"`
	IsPublic             bool         `json:"is_public"`
	ShowProgressBar      bool         `json:"show_progress_bar"`
	ShowTypeformBranding bool         `json:"show_typeform_branding"`
	ShowTimeToComplete   bool         `json:"show_time_to_complete"`
	ShowQuestionNumber   bool         `json:"show_question_number"`
	AutosaveProgress     bool         `json:"autosave_progress"`
	FreeFormNavigation   bool         `json:"free_form_navigation"`
	AutoTranslate        bool         `json:"auto_translate"`
}

type SettingsMeta struct {
	AllowIndexing bool `json:"allow_indexing"`
}

// FormDocument is the full generated artifact submitted to the hosting API.
type FormDocument struct {
	Title           string           `json:"title"`
	Type            string           `json:"type,omitempty"`
	Workspace       *Href            `json:"workspace,omitempty"`
	Theme           *Href            `json:"theme,omitempty"`
	Fields          []QuestionField  `json:"fields"`
	Hidden          []string         `json:"hidden,omitempty"`
	Logic           []BranchRule     `json:"logic,omitempty"`
	ThankyouScreens []ThankyouScreen `json:"thankyou_screens,omitempty"`
	Settings        *FormSettings    `json:"settings,omitempty"`
}

// CreatedForm is the hosting API's response to a successful creation.
type CreatedForm struct {
	ID         string `json:"id"`
	DisplayURL string `json:"display_url"`
}
