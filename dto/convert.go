package dto

import (
	"encoding/json"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"fileconverter/formats"
)

// ConvertRequest carries the form fields of a conversion upload.
// InputFormat is only set when the user picked an explicit conversion
// pair up front; it pins the accepted source extension.
type ConvertRequest struct {
	OutputFormat string
	Category     string
	InputFormat  string
}

func (r ConvertRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OutputFormat,
			validation.Required.Error("Output format is required."),
		),
		validation.Field(&r.Category,
			validation.By(knownCategory),
		),
	)
}

func knownCategory(value interface{}) error {
	s, _ := value.(string)
	if s == "" || formats.IsKnownCategory(s) {
		return nil
	}
	return validation.NewError("unknown_category", "Unknown category.")
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details,omitempty"`
}

// UploadResponse confirms a raw staging upload.
type UploadResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	API       string `json:"api"`
	Timestamp string `json:"timestamp"`
}
