// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"
	"time"
)

// Logger is the subset of the logging interface the handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// HTTPHandler converts pipeline errors into JSON error responses with a
// status code derived from the error code.
type HTTPHandler struct {
	logger Logger
}

func NewHTTPHandler(logger Logger) *HTTPHandler {
	return &HTTPHandler{logger: logger}
}

// HTTPStatus maps an error code to the response status. Input problems are
// the client's fault; everything else is a server-side failure.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInput, ErrCodeValidationIncomplete:
		return http.StatusBadRequest
	case ErrCodeRemote:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteError logs the error and writes the JSON error body. Unknown error
// types are normalized to an internal StandardError first.
func (h *HTTPHandler) WriteError(w http.ResponseWriter, err error) {
	stdErr := Normalize(err)

	h.logger.Error("request failed", map[string]interface{}{
		"code":    string(stdErr.Code),
		"details": stdErr.Details,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(stdErr.Code))
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   stdErr.Message,
		"code":    string(stdErr.Code),
		"details": stdErr.Details,
	})
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
