package services

import "errors"

// Errors callers can branch on. Anything else is an internal failure.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("contact not found")
	ErrAuthDenied = errors.New("authentication denied")
	ErrStore      = errors.New("contact store failure")
)

// Machine-readable error codes returned to clients.
const (
	CodeValidation  = "VALIDATION"
	CodeNotFound    = "NOT_FOUND"
	CodeAuthDenied  = "AUTH_DENIED"
	CodeServerError = "SERVER_ERROR"
)

func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrAuthDenied):
		return CodeAuthDenied
	default:
		return CodeServerError
	}
}
