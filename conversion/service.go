package conversion

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"fileconverter/formats"
	"fileconverter/provider"
	"fileconverter/storage"
)

// imageQuality is the fixed quality hint sent for image conversions.
const imageQuality = 90

// Job is one request-scoped conversion: a single staged file, a single
// target format, a single provider round trip. Nothing about a job
// outlives its HTTP request.
type Job struct {
	SourcePath   string
	SourceFormat string
	TargetFormat string
	Category     formats.Category
}

// Outcome is a finished conversion: the result staged on local disk
// plus the download name the client sees. The caller must invoke
// Cleanup once the response has been sent, on every path.
type Outcome struct {
	ResultPath   string
	DownloadName string

	staging *storage.Staging
}

// NewOutcome binds a staged result file to the staging area that will
// reclaim it.
func NewOutcome(resultPath, downloadName string, staging *storage.Staging) *Outcome {
	return &Outcome{
		ResultPath:   resultPath,
		DownloadName: downloadName,
		staging:      staging,
	}
}

// Cleanup removes the staged result file. Safe to call more than once.
func (o *Outcome) Cleanup() {
	o.staging.Remove(o.ResultPath)
}

// Service drives one conversion end to end against the remote
// provider and owns the temporary files involved. It holds no mutable
// state, so it is safe for concurrent jobs.
type Service struct {
	provider provider.Converter
	staging  *storage.Staging
	timeout  time.Duration
	logger   *zap.Logger
}

func NewService(p provider.Converter, staging *storage.Staging, timeout time.Duration, logger *zap.Logger) *Service {
	if timeout <= 0 {
		timeout = provider.DefaultTimeout
	}
	return &Service{
		provider: p,
		staging:  staging,
		timeout:  timeout,
		logger:   logger,
	}
}

// Convert runs a job against the provider and stages the result
// locally. The uploaded source file is deleted before Convert returns,
// whatever the outcome; the result file outlives the call only inside
// a successful Outcome and is the caller's to Cleanup. Failures come
// back as *Error with the user-facing classification applied.
func (s *Service) Convert(ctx context.Context, job Job) (*Outcome, error) {
	defer s.staging.Remove(job.SourcePath)

	if job.TargetFormat == "" {
		return nil, BadRequest("Output format is required.")
	}
	if job.SourceFormat == "" {
		return nil, BadRequest("Could not determine input file format.")
	}

	opts := provider.Options{StoreFile: true}
	if job.Category == formats.CategoryImage {
		opts.ImageQuality = imageQuality
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	result, err := s.provider.Convert(ctx, job.SourcePath, job.SourceFormat, job.TargetFormat, opts)
	if err != nil {
		translated := Translate(err)
		s.logger.Error("Conversion failed",
			zap.String("source_format", job.SourceFormat),
			zap.String("target_format", job.TargetFormat),
			zap.String("kind", string(translated.Kind)),
			zap.Error(translated.Cause()),
		)
		return nil, translated
	}

	if len(result.Files) == 0 {
		return nil, newError(KindEmptyResult, http.StatusInternalServerError,
			"Conversion finished but no file was returned.", nil)
	}
	// The provider may return several artifacts; only the first is
	// offered for download, matching the single-file contract.
	first := result.Files[0]

	outcome, err := s.stageResult(ctx, first, job.TargetFormat)
	if err != nil {
		translated := Translate(err)
		s.logger.Error("Failed to retrieve conversion result",
			zap.String("target_format", job.TargetFormat),
			zap.Error(translated.Cause()),
		)
		return nil, translated
	}

	s.logger.Info("Conversion completed",
		zap.String("source_format", job.SourceFormat),
		zap.String("target_format", job.TargetFormat),
		zap.Int64("result_bytes", first.FileSize),
		zap.Duration("duration", time.Since(start)),
	)
	return outcome, nil
}

// stageResult downloads the provider's artifact into the staging dir
// under a collision-free name. A failed download never leaves a
// partial file behind.
func (s *Service) stageResult(ctx context.Context, f provider.File, targetFormat string) (*Outcome, error) {
	downloadName := fmt.Sprintf("converted-%d.%s", time.Now().UnixMilli(), targetFormat)
	resultPath := filepath.Join(s.staging.Dir(), s.staging.UniqueName(downloadName))

	dst, err := os.Create(resultPath)
	if err != nil {
		return nil, fmt.Errorf("create result file: %w", err)
	}

	if err := s.provider.Download(ctx, f, dst); err != nil {
		dst.Close()
		s.staging.Remove(resultPath)
		return nil, err
	}
	if err := dst.Close(); err != nil {
		s.staging.Remove(resultPath)
		return nil, fmt.Errorf("close result file: %w", err)
	}

	return NewOutcome(resultPath, downloadName, s.staging), nil
}
