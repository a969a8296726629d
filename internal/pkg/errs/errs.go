/*
Package errs defines the application's error taxonomy.

CustomError carries a business code, a client-facing message, and the HTTP
status it maps to, so handlers can translate any internal failure into a
consistent response without inspecting error strings.
*/
package errs

import (
	"fmt"
	"net/http"
	"strings"

	"groupchat/internal/pkg/logx"
)

// CustomError is the error type used across the service.
type CustomError struct {
	// Code is the business error code (see codes.go).
	Code int

	// Message is the client-facing error description.
	Message string

	// Status is the HTTP status code this error maps to.
	Status int
}

// Error implements the error interface.
func (e CustomError) Error() string {
	return fmt.Sprintf("error code %d (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// NewError builds a *CustomError from a registered error code. Optional
// details are applied printf-style when the message template has verbs.
// Unregistered codes fall back to ErrUnknown.
func NewError(code int, details ...any) *CustomError {
	template, ok := errorMap[code]
	if !ok {
		logx.Error(
			fmt.Errorf("unregistered error code %d", code),
			"Unknown error code requested",
		)

		unknown := errorMap[ErrUnknown]
		return &unknown
	}

	customErr := template

	if customErr.Status == 0 {
		customErr.Status = http.StatusBadRequest
	}

	if len(details) > 0 {
		if code == ErrUnknown {
			if cause, ok := details[0].(error); ok {
				logx.Error(cause, "Wrapping internal error as ErrUnknown")
			}
		} else if strings.Contains(customErr.Message, "%") {
			customErr.Message = fmt.Sprintf(customErr.Message, details...)
		}
	}

	return &customErr
}

// Is reports whether err is a *CustomError carrying the given code.
func Is(err error, code int) bool {
	customErr, ok := err.(*CustomError)
	return ok && customErr.Code == code
}
