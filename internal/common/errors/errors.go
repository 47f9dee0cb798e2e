// Package errors provides the standardized error model for the screening
// pipeline: coded errors that carry enough context to log the offending
// input and to pick an HTTP status at the transport boundary.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// ErrCodeInput marks missing or unusable caller input (empty prompt,
	// missing row data, absent required request fields).
	ErrCodeInput ErrorCode = "INPUT_ERROR"

	// ErrCodeParse marks oracle output from which no JSON block could be
	// extracted or decoded.
	ErrCodeParse ErrorCode = "PARSE_ERROR"

	// ErrCodeStructure marks a form document rejected by the schema gate
	// before submission.
	ErrCodeStructure ErrorCode = "STRUCTURE_ERROR"

	// ErrCodeRemote marks a non-success response from a third-party API.
	ErrCodeRemote ErrorCode = "REMOTE_ERROR"

	// ErrCodeValidationIncomplete marks a submission callback missing a
	// required parameter.
	ErrCodeValidationIncomplete ErrorCode = "VALIDATION_INCOMPLETE"
)

// StandardError is a structured application error. Retryable is advisory
// for callers; the pipeline itself never retries (spec: callers own retry
// policy).
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewInputError creates a non-retryable error for missing required input.
func NewInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInput,
		Message:   "Missing or invalid input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewParseError creates an error for oracle output that yielded no usable
// JSON. Retryable: a fresh completion may parse.
func NewParseError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeParse,
		Message:   "Could not extract JSON from completion output",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStructureError creates a non-retryable error for a document that
// failed the schema gate.
func NewStructureError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStructure,
		Message:   "Form document failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRemoteError creates a retryable error for a third-party API failure.
func NewRemoteError(service string, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRemote,
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRemoteStatusError creates a retryable error for a non-success HTTP
// status from a third-party API, keeping the response body for logging.
func NewRemoteStatusError(service string, status int, body string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRemote,
		Message:   fmt.Sprintf("External service '%s' returned status %d", service, status),
		Details:   body,
		Retryable: status >= 500,
		Metadata:  map[string]interface{}{"status": status},
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationIncompleteError creates a non-retryable error for a
// submission callback missing a required parameter.
func NewValidationIncompleteError(param string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationIncomplete,
		Message:   "Required submission parameter missing",
		Details:   fmt.Sprintf("parameter: %s", param),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
