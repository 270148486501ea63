package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/unogame/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Codes owned by the HTTP layer; everything else is a model.ErrorCode
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeUnauthorized   = "UNAUTHORIZED"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// statusByCode overrides the status chosen by kind
var statusByCode = map[model.ErrorCode]int{
	model.CodeGameNotFound:        http.StatusNotFound,
	model.CodePlayerNotFound:      http.StatusNotFound,
	model.CodeHandNotFound:        http.StatusNotFound,
	model.CodeResultNotFound:      http.StatusNotFound,
	model.CodeStatsNotFound:       http.StatusNotFound,
	model.CodeNotYourTurn:         http.StatusForbidden,
	model.CodeNotHost:             http.StatusForbidden,
	model.CodeTransactionConflict: http.StatusServiceUnavailable,
}

var statusByKind = map[model.ErrorKind]int{
	model.KindValidation:    http.StatusBadRequest,
	model.KindGameState:     http.StatusConflict,
	model.KindRuleViolation: http.StatusUnprocessableEntity,
	model.KindResource:      http.StatusConflict,
}

// Status returns the HTTP status an error is reported with
func Status(err error) int {
	return toHTTPError(err).status
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError. Internal errors never leak
// their message or details.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	e, ok := model.AsError(err)
	if !ok || e.Kind == model.KindInternal {
		return &httpError{http.StatusInternalServerError, APIError{Code: string(model.CodeInternal), Message: "Internal server error"}}
	}

	status, ok := statusByCode[e.Code]
	if !ok {
		status = statusByKind[e.Kind]
	}
	if status == 0 {
		status = http.StatusBadRequest
	}
	return &httpError{status, APIError{Code: string(e.Code), Message: e.Message, Details: e.Details}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "X-Player-ID header required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: string(model.CodeInternal), Message: "Internal server error"}}
}
