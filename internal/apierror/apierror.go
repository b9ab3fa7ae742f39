// Package apierror holds the JSON error envelopes returned by the API.
// Every 4xx/5xx body carries a "detail" key; internal errors never reach it.
package apierror

// APIError is the envelope for every error except request validation.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// FieldError locates one invalid input. Loc is the source ("body" or
// "query") followed by the field name.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationError is the 422 envelope: detail lists every invalid field.
type ValidationError struct {
	Detail []FieldError `json:"detail"`
}

func NewValidation(errs []FieldError) *ValidationError {
	if errs == nil {
		errs = []FieldError{}
	}
	return &ValidationError{Detail: errs}
}
