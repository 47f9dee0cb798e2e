// internal/models/submission.go
package models

// SubmissionRecord holds the answers echoed back for a completed form,
// keyed by field ref, plus the routing context carried through the
// redirect URL. Built from request parameters at validation time and
// never stored.
type SubmissionRecord struct {
	Answers    map[string]string `json:"answers"`
	MustHaves  string            `json:"mustHaves"`
	Pass       string            `json:"pass"`
	SuccessURL string            `json:"successUrl"`
	FailURL    string            `json:"failUrl"`
	Email      string            `json:"email,omitempty"`
	Phone      string            `json:"phone,omitempty"`
	Name       string            `json:"name,omitempty"`
}

// RequirementOutcome is the per-requirement validation result, kept for
// observability alongside the boolean decision.
type RequirementOutcome struct {
	Requirement Requirement `json:"requirement"`
	Satisfied   bool        `json:"satisfied"`
	Matched     bool        `json:"matched"`
	AnswerKey   string      `json:"answerKey,omitempty"`
	Answer      string      `json:"answer,omitempty"`
}

// ValidationResult is the authoritative accept/reject decision with the
// chosen redirect destination.
type ValidationResult struct {
	Accepted    bool                 `json:"accepted"`
	RedirectURL string               `json:"redirectUrl"`
	Outcomes    []RequirementOutcome `json:"outcomes,omitempty"`
}
