package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/locale"
	"github.com/zapponejosh/liturgical-calendar/internal/service"
)

// Response represents a standard API response.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Message string    `json:"message"`
	Code    ErrorCode `json:"code,omitempty"`
}

// ErrorCode tells clients what went wrong without parsing the message.
type ErrorCode string

const (
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
	CodeInternal         ErrorCode = "INTERNAL_ERROR"
	CodeUnhealthy        ErrorCode = "HEALTH_CHECK_FAILED"

	CodeUnknownCalendar   ErrorCode = "UNKNOWN_CALENDAR"
	CodeDateNotInCalendar ErrorCode = "DATE_NOT_IN_CALENDAR"
	CodeInvalidDate       ErrorCode = "INVALID_DATE"
	CodeYearOutOfRange    ErrorCode = "YEAR_OUT_OF_RANGE"
	CodeInvalidOption     ErrorCode = "INVALID_OPTION"
	CodeInvalidSpan       ErrorCode = "INVALID_SPAN"
	CodeUnknownLocale     ErrorCode = "UNKNOWN_LOCALE"
)

// calendarErrors maps the errors of calendar generation to responses, most
// specific first.
var calendarErrors = []struct {
	err    error
	status int
	code   ErrorCode
}{
	{calendar.ErrUnknownCalendar, http.StatusNotFound, CodeUnknownCalendar},
	{service.ErrDateNotInCalendar, http.StatusNotFound, CodeDateNotInCalendar},
	{calendar.ErrYearOutOfRange, http.StatusBadRequest, CodeYearOutOfRange},
	{calendar.ErrUnknownOption, http.StatusBadRequest, CodeInvalidOption},
	{service.ErrInvalidOptions, http.StatusBadRequest, CodeInvalidOption},
	{service.ErrInvalidSpan, http.StatusBadRequest, CodeInvalidSpan},
	{locale.ErrUnknownLocale, http.StatusBadRequest, CodeUnknownLocale},
}

// classify returns the response for a calendar error. ok is false for
// errors that are not the client's fault.
func classify(err error) (status int, code ErrorCode, ok bool) {
	for _, ce := range calendarErrors {
		if errors.Is(err, ce.err) {
			return ce.status, ce.code, true
		}
	}
	return http.StatusInternalServerError, CodeInternal, false
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, status int, message string, code ErrorCode) error {
	return WriteJSON(w, status, Response{
		Error: &ErrorInfo{Message: message, Code: code},
	})
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusBadRequest, message, CodeBadRequest)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusInternalServerError, message, CodeInternal)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

// WriteMethodNotAllowed writes a 405 Method Not Allowed response.
func WriteMethodNotAllowed(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusMethodNotAllowed, message, CodeMethodNotAllowed)
}
