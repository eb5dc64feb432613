// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors. Fields maps the offending
// field name to a human-readable reason; nothing is persisted when one is
// returned.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// Error implements the error interface so services can return a
// *ValidationError directly and handlers can unwrap it with errors.As.
func (e *ValidationError) Error() string {
	return e.Detail
}

// NewFieldError is shorthand for a single-field validation failure.
func NewFieldError(field, msg string) *ValidationError {
	return NewValidation(map[string]string{field: msg})
}
