// Package apierror defines the JSON error envelopes the API returns.
// Handlers never serialize raw errors to clients; everything funnels through
// these types so internal detail (driver errors, stack traces) stays out of
// responses.
package apierror

// APIError carries a single human-readable message, used for every 4xx/5xx
// response that is not a field validation failure.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError adds a per-field breakdown so the till frontend can mark
// the offending inputs.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{
		Detail: "Validation error",
		Fields: fields,
	}
}
