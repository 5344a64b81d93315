package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the conversion service endpoint.
	DefaultBaseURL = "https://v2.convertapi.com"
	// DefaultTimeout bounds a single conversion round trip. Remote
	// conversions routinely take tens of seconds for large media.
	DefaultTimeout = 5 * time.Minute
)

// Options tune a single conversion request.
type Options struct {
	// StoreFile asks the service to persist the result and hand back
	// a download URL instead of inlining the bytes.
	StoreFile bool
	// ImageQuality is a 1-100 quality hint, 0 means unset.
	ImageQuality int
}

// File is one output artifact of a conversion.
type File struct {
	FileName string `json:"FileName"`
	FileExt  string `json:"FileExt"`
	FileSize int64  `json:"FileSize"`
	URL      string `json:"Url"`
}

// Result is the remote conversion outcome.
type Result struct {
	ConversionCost int    `json:"ConversionCost"`
	Files          []File `json:"Files"`
}

// Converter is the single operation the orchestration layer needs from
// the remote service. Satisfied by *Client; tests substitute mocks.
type Converter interface {
	Convert(ctx context.Context, sourcePath, sourceFormat, targetFormat string, opts Options) (*Result, error)
	Download(ctx context.Context, f File, w io.Writer) error
}

// Client talks to a ConvertAPI-compatible conversion service over
// HTTPS. One conversion is one blocking POST of the source file
// followed by a GET of the stored result.
type Client struct {
	secret     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(secret, baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		secret:  secret,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// BaseURL returns the configured service endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Configured reports whether a secret is present. An unconfigured
// client fails every conversion with an auth-class error.
func (c *Client) Configured() bool {
	return c.secret != ""
}

// Convert uploads the source file and asks the service to convert it
// to targetFormat. Failures reported by the service come back as
// *Error; transport failures come back as wrapped stdlib errors.
func (c *Client) Convert(ctx context.Context, sourcePath, sourceFormat, targetFormat string, opts Options) (*Result, error) {
	if c.secret == "" {
		return nil, &Error{HTTPStatus: http.StatusUnauthorized, Message: "conversion service credentials are not configured"}
	}

	src, err := os.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	defer src.Close()

	body, contentType, err := buildMultipart(src, filepath.Base(sourcePath))
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/convert/%s/to/%s?%s",
		c.baseURL, url.PathEscape(sourceFormat), url.PathEscape(targetFormat), c.query(opts))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	c.logger.Info("Calling conversion service",
		zap.String("source_format", sourceFormat),
		zap.String("target_format", targetFormat),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp.StatusCode, payload)
	}

	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	return &result, nil
}

// Download streams a stored result file into w.
func (c *Client) Download(ctx context.Context, f File, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return decodeError(resp.StatusCode, payload)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("stream result: %w", err)
	}
	return nil
}

func (c *Client) query(opts Options) string {
	q := url.Values{}
	q.Set("Secret", c.secret)
	q.Set("StoreFile", strconv.FormatBool(opts.StoreFile))
	if opts.ImageQuality > 0 {
		q.Set("ImageQuality", strconv.Itoa(opts.ImageQuality))
	}
	return q.Encode()
}

// buildMultipart streams the source through a pipe so large uploads
// never sit fully in memory.
func buildMultipart(src io.Reader, filename string) (io.Reader, string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("File", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, src); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	return pr, mw.FormDataContentType(), nil
}

// decodeError turns a non-200 provider response into an *Error,
// preserving the remote code and diagnostic payload when the body is
// the service's JSON error shape.
func decodeError(status int, payload []byte) error {
	perr := &Error{HTTPStatus: status}
	if err := json.Unmarshal(payload, perr); err != nil || perr.Message == "" {
		perr.Message = http.StatusText(status)
		if len(payload) > 0 && len(payload) < 512 {
			perr.Message = string(payload)
		}
	}
	perr.HTTPStatus = status
	return perr
}
