package entities

import "strings"

// ErrorDetail is the structured form of an error, as written by the REST and
// JSON-RPC adapters and printed by the CLI.
//
// Type is one of "validation", "registry", "dispatch" or "internal"; Code is
// a stable machine-readable identifier such as "transport_mismatch".
type ErrorDetail struct {
	Wrapped    *ErrorDetail   `json:"wrapped,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	Message    string         `json:"message"`
	Type       string         `json:"type"`
	Code       string         `json:"code,omitempty"`
	IsNotFound bool           `json:"is_not_found,omitempty"`
}

// Error renders "code: message (caused by ...)".
func (e *ErrorDetail) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Wrapped != nil {
		b.WriteString(" (caused by ")
		b.WriteString(e.Wrapped.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// Unwrap returns the wrapped detail, if any.
func (e *ErrorDetail) Unwrap() error {
	if e == nil || e.Wrapped == nil {
		return nil
	}
	return e.Wrapped
}
