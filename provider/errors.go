package provider

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Remote error codes the provider is known to return. Anything else is
// passed through untranslated.
const (
	CodeParameterValidation = 4000
	CodeInvalidSourceFile   = 4010
)

// Error is a structured failure reported by the remote conversion
// service: either an application-level code from its response body or
// a bare HTTP status.
type Error struct {
	Code       int             `json:"Code"`
	Message    string          `json:"Message"`
	HTTPStatus int             `json:"-"`
	Details    json.RawMessage `json:"InvalidParameters,omitempty"`
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("provider HTTP %d: %s", e.HTTPStatus, e.Message)
}

// IsAuth reports whether the failure is an authentication or
// authorization rejection. These indicate a misconfigured secret, not
// a bad user upload.
func (e *Error) IsAuth() bool {
	return e.HTTPStatus == http.StatusUnauthorized ||
		e.HTTPStatus == http.StatusForbidden ||
		e.Code == http.StatusUnauthorized ||
		e.Code == http.StatusForbidden
}

// IsUnsupportedPair reports whether the provider refused the specific
// source -> target combination.
func (e *Error) IsUnsupportedPair() bool {
	return e.HTTPStatus == http.StatusUnsupportedMediaType
}
