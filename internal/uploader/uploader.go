package uploader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/cleared-dev/statementform/internal/model"
)

// DefaultEndpoint is the processing service's upload URL.
const DefaultEndpoint = "http://localhost:8000/upload/"

// FieldName is the multipart field carrying the statement.
const FieldName = "file"

// RequestIDHeader carries the correlation ID: the inbound request's ID when
// there is one, a fresh uuid otherwise.
const RequestIDHeader = "X-Request-ID"

// ErrNoContent is returned when a file has no way to be read.
var ErrNoContent = errors.New("uploader: file has no content source")

// StatusError reports a non-2xx response. The body is not interpreted.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("processing service returned %d %s", e.Code, http.StatusText(e.Code))
}

// Client posts statements to the processing service.
type Client struct {
	endpoint string
	hc       *http.Client
	logger   *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithLogger sets the logger used for per-attempt diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a Client for endpoint. An empty endpoint means DefaultEndpoint.
func New(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		// No client timeout; one attempt runs until the service answers.
		hc:       &http.Client{Timeout: 0},
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL uploads are sent to.
func (c *Client) Endpoint() string { return c.endpoint }

// Upload sends file as multipart form data and returns the response body unparsed.
// One attempt is made; there is no retry.
func (c *Client) Upload(ctx context.Context, file *model.SelectedFile) ([]byte, error) {
	if file.Open == nil {
		return nil, ErrNoContent
	}

	body, contentType, err := encode(file)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	reqID := middleware.GetReqID(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/octet-stream")
	req.Header.Set(RequestIDHeader, reqID)

	logger := c.logger.With("request_id", reqID, "file", file.Name)
	logger.Debug("uploading statement", "endpoint", c.endpoint, "bytes", file.Size)

	resp, err := c.hc.Do(req)
	if err != nil {
		logger.Debug("upload failed", "err", err)
		return nil, fmt.Errorf("posting %s: %w", file.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		logger.Debug("upload rejected", "status", resp.StatusCode)
		return nil, &StatusError{Code: resp.StatusCode}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Debug("reading response failed", "err", err)
		return nil, fmt.Errorf("reading response: %w", err)
	}
	logger.Debug("upload complete", "status", resp.StatusCode, "bytes", len(payload))
	return payload, nil
}

func encode(file *model.SelectedFile) (io.Reader, string, error) {
	src, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", file.Name, err)
	}
	defer src.Close()

	var b bytes.Buffer
	mw := multipart.NewWriter(&b)
	fw, err := mw.CreateFormFile(FieldName, file.Name)
	if err != nil {
		return nil, "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(fw, src); err != nil {
		return nil, "", fmt.Errorf("writing form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}
	return &b, mw.FormDataContentType(), nil
}
