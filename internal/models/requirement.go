// internal/models/requirement.go
package models

// RequirementKind classifies a must-have line.
type RequirementKind string

const (
	RequirementBudget  RequirementKind = "BUDGET"
	RequirementGeneric RequirementKind = "GENERIC"
)

// Requirement is one must-have constraint derived from the free-text block.
// Derived once per request and immutable; validation re-derives it from the
// same text instead of reusing this value across calls.
type Requirement struct {
	RawText   string          `json:"rawText"`
	Kind      RequirementKind `json:"kind"`
	Threshold *int            `json:"threshold,omitempty"`
}

// IsBudget reports whether the requirement is budget/salary related.
func (r Requirement) IsBudget() bool {
	return r.Kind == RequirementBudget
}
