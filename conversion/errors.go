package conversion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"fileconverter/provider"
	"fileconverter/validation"
)

// Kind classifies a conversion failure for the client. Input-class
// kinds map to 400, service-class kinds to 500, deadline expiry to 504.
type Kind string

const (
	KindBadRequest                   Kind = "bad_request"
	KindUnsupportedCategoryExtension Kind = "unsupported_category_extension"
	KindWrongPinnedExtension         Kind = "wrong_pinned_extension"
	KindInvalidInput                 Kind = "invalid_input"
	KindCorruptSource                Kind = "corrupt_source"
	KindUnsupportedPair              Kind = "unsupported_pair"
	KindServiceMisconfigured         Kind = "service_misconfigured"
	KindServiceUnreachable           Kind = "service_unreachable"
	KindEmptyResult                  Kind = "empty_result"
	KindTimeout                      Kind = "timeout"
	KindUnknown                      Kind = "unknown"
)

// Error is a classified conversion failure carrying the HTTP status
// and the message shown to the user. The provider's structured
// diagnostic payload rides along in Details for the response body;
// the raw cause stays server-side for logs.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Details json.RawMessage
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Cause returns the underlying provider or transport error for
// operator-facing logs. May be nil.
func (e *Error) Cause() error {
	return e.cause
}

func newError(kind Kind, status int, message string, cause error) *Error {
	return &Error{Kind: kind, Status: status, Message: message, cause: cause}
}

// BadRequest builds an input-class failure detected before any remote
// call is made.
func BadRequest(message string) *Error {
	return newError(KindBadRequest, http.StatusBadRequest, message, nil)
}

// FromValidation classifies an upload rejection.
func FromValidation(err error) *Error {
	kind := KindBadRequest
	switch {
	case errors.Is(err, validation.ErrWrongExtension):
		kind = KindWrongPinnedExtension
	case errors.Is(err, validation.ErrUnsupportedType):
		kind = KindUnsupportedCategoryExtension
	}
	return newError(kind, http.StatusBadRequest, err.Error(), err)
}

// Translate maps a failed provider round trip onto the error taxonomy.
// Auth failures are the operator's fault and must never read as a bad
// upload; everything unrecognized keeps the provider's own message.
func Translate(err error) *Error {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return newError(KindTimeout, http.StatusGatewayTimeout,
			"The conversion took too long and was aborted. Try a smaller file.", err)
	}

	var perr *provider.Error
	if errors.As(err, &perr) {
		translated := translateProvider(perr)
		translated.Details = perr.Details
		return translated
	}

	var uerr *url.Error
	if errors.As(err, &uerr) {
		return newError(KindServiceUnreachable, http.StatusInternalServerError,
			"Cannot reach the conversion service. Check the network and service configuration.", err)
	}

	return newError(KindUnknown, http.StatusInternalServerError, err.Error(), err)
}

func translateProvider(perr *provider.Error) *Error {
	switch {
	case perr.IsAuth():
		return newError(KindServiceMisconfigured, http.StatusInternalServerError,
			"Authentication invalid with conversion service.", perr)
	case perr.IsUnsupportedPair():
		return newError(KindUnsupportedPair, http.StatusBadRequest,
			"This specific conversion (Input -> Output) is not supported by the converter.", perr)
	case perr.Code == provider.CodeParameterValidation:
		return newError(KindInvalidInput, http.StatusBadRequest,
			"Parameter validation error. The file might be corrupted, empty, or the format is not supported for this conversion.", perr)
	case perr.Code == provider.CodeInvalidSourceFile:
		return newError(KindCorruptSource, http.StatusBadRequest,
			"Invalid source file. The file format matches the extension but the content might be corrupted.", perr)
	default:
		return newError(KindUnknown, http.StatusInternalServerError, perr.Message, perr)
	}
}
