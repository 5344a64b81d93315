package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"fileconverter/conversion"
	"fileconverter/dto"
	"fileconverter/formats"
	"fileconverter/metrics"
	"fileconverter/middleware"
	"fileconverter/storage"
	"fileconverter/validation"
)

// multipart form data held in memory before spilling to disk
const maxFormMemory = 32 << 20

// Orchestrator drives one conversion job. Satisfied by
// *conversion.Service; tests substitute mocks.
type Orchestrator interface {
	Convert(ctx context.Context, job conversion.Job) (*conversion.Outcome, error)
}

// ConvertHandler owns the HTTP surface of the service: the conversion
// endpoint, the raw staging upload and the health probe.
type ConvertHandler struct {
	service     Orchestrator
	validator   *validation.Validator
	matrix      formats.Matrix
	staging     *storage.Staging
	maxFileSize int64
	providerAPI string
	logger      *zap.Logger
}

func NewConvertHandler(
	service Orchestrator,
	validator *validation.Validator,
	matrix formats.Matrix,
	staging *storage.Staging,
	maxFileSize int64,
	providerAPI string,
	logger *zap.Logger,
) *ConvertHandler {
	return &ConvertHandler{
		service:     service,
		validator:   validator,
		matrix:      matrix,
		staging:     staging,
		maxFileSize: maxFileSize,
		providerAPI: providerAPI,
		logger:      logger,
	}
}

// Convert handles POST /api/convert: validate the upload, stage it,
// run the conversion and stream the result back as a download. All
// rejections happen before the remote provider is contacted.
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		h.handleError(w, r, parseFormMessage(err), err, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.handleError(w, r, "No file uploaded.", err, http.StatusBadRequest)
		return
	}
	defer file.Close()

	req := dto.ConvertRequest{
		OutputFormat: r.FormValue("outputFormat"),
		Category:     r.FormValue("category"),
		InputFormat:  r.FormValue("inputFormat"),
	}
	if err := req.Validate(); err != nil {
		h.handleError(w, r, firstValidationMessage(err), err, http.StatusBadRequest)
		return
	}

	target := formats.Normalize(req.OutputFormat)
	category := formats.Category(req.Category)

	if req.Category != "" || req.InputFormat != "" {
		if err := h.validator.Validate(header.Filename, category, req.InputFormat); err != nil {
			cerr := conversion.FromValidation(err)
			h.handleError(w, r, cerr.Message, err, cerr.Status)
			return
		}
	}

	source := formats.FromFilename(header.Filename)
	if source == "" {
		h.handleError(w, r, "Could not determine input file format.", nil, http.StatusBadRequest)
		return
	}

	if !h.pairAllowed(category, source, target) {
		h.handleError(w, r, "This specific conversion (Input -> Output) is not supported.",
			nil, http.StatusBadRequest)
		return
	}

	sourcePath, err := h.staging.Save(header.Filename, file)
	if err != nil {
		h.handleError(w, r, "Failed to save file", err, http.StatusInternalServerError)
		return
	}

	job := conversion.Job{
		SourcePath:   sourcePath,
		SourceFormat: source,
		TargetFormat: target,
		Category:     category,
	}

	middleware.TraceLogger(r.Context(), h.logger).Info("Starting conversion",
		zap.String("filename", header.Filename),
		zap.Int64("size", header.Size),
		zap.String("source_format", source),
		zap.String("target_format", target),
	)

	outcome, err := h.service.Convert(r.Context(), job)
	if err != nil {
		h.respondConversionError(w, r, err)
		metrics.RecordConversion(req.Category, target, "error", time.Since(start).Seconds())
		return
	}
	// Result cleanup must run on every exit, including a client
	// disconnect mid-stream.
	defer outcome.Cleanup()

	w.Header().Set("Content-Disposition", `attachment; filename="`+outcome.DownloadName+`"`)
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, outcome.ResultPath)

	metrics.RecordConversion(req.Category, target, "success", time.Since(start).Seconds())
}

// pairAllowed checks the conversion matrix before any remote call.
// Without a declared category the pair passes if any category offers
// it.
func (h *ConvertHandler) pairAllowed(category formats.Category, source, target string) bool {
	if category != "" {
		return h.matrix.CanConvert(category, source, target)
	}
	for _, c := range formats.Categories {
		if h.matrix.CanConvert(c, source, target) {
			return true
		}
	}
	return false
}

func (h *ConvertHandler) respondConversionError(w http.ResponseWriter, r *http.Request, err error) {
	var cerr *conversion.Error
	if !errors.As(err, &cerr) {
		h.handleError(w, r, "An error occurred during conversion.", err, http.StatusInternalServerError)
		return
	}

	middleware.TraceLogger(r.Context(), h.logger).Error("Conversion request failed",
		zap.String("kind", string(cerr.Kind)),
		zap.Error(cerr.Cause()),
	)

	h.respondJSON(w, cerr.Status, dto.ErrorResponse{
		Error:   cerr.Message,
		Details: cerr.Details,
	})
}

// parseFormMessage separates a body that tripped the size cap from a
// missing or malformed file part.
func parseFormMessage(err error) string {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return "File too large."
	}
	return "No file uploaded."
}

// firstValidationMessage unwraps an ozzo field-error map down to the
// bare message the client displays.
func firstValidationMessage(err error) string {
	var fieldErrs ozzo.Errors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			return fe.Error()
		}
	}
	return err.Error()
}

func (h *ConvertHandler) handleError(w http.ResponseWriter, r *http.Request, message string, err error, status int) {
	middleware.TraceLogger(r.Context(), h.logger).Error(message, zap.Error(err))

	h.respondJSON(w, status, dto.ErrorResponse{Error: message})
}

func (h *ConvertHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
