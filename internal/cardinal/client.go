// Package cardinal is a client for the Cardinal document extraction API.
package cardinal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.trycardinal.ai"
	DefaultTimeout = 60 * time.Second

	// ExtractPath is the extraction endpoint relative to the base URL.
	ExtractPath = "/extract"

	// APIKeyHeader carries the static vendor key.
	APIKeyHeader = "x-api-key"

	// RequestIDHeader correlates a vendor call with the relay's logs.
	RequestIDHeader = "X-Request-ID"
)

// LabSchema is the output template sent with every extraction request.
const LabSchema = `{
  "patient": "string",
  "date": "string",
  "labs": [
    {"test": "string", "value": "number", "unit": "string"}
  ]
}`

// LabContext is the instruction sent alongside the schema.
const LabContext = "Extract patient info and lab test values (Glucose, Cholesterol, Hemoglobin) into JSON format."

// ErrInvalidResponse is returned when the vendor answers 200 with a body
// that is not a JSON object.
var ErrInvalidResponse = errors.New("invalid vendor response")

// VendorError is returned when the vendor answers with a non-200 status.
// Body is the raw response text, unmodified.
type VendorError struct {
	StatusCode int
	Body       string
}

func (e *VendorError) Error() string {
	return fmt.Sprintf("cardinal error (status %d): %s", e.StatusCode, e.Body)
}

// Document is an uploaded file held in memory for one request.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte

	// RequestID is forwarded to the vendor when set.
	RequestID string
}

// Result is a decoded 200 response. Raw is passed back to callers untouched.
type Result struct {
	Raw  map[string]any
	Body []byte
}

// Config holds configuration for the extraction client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client calls the extraction endpoint. It is safe for concurrent use.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a new extraction client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// BaseURL returns the endpoint root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Extract forwards doc to the vendor and decodes the JSON reply.
// A single attempt is made.
func (c *Client) Extract(ctx context.Context, doc Document) (*Result, error) {
	body, contentType, err := buildForm(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ExtractPath, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(APIKeyHeader, c.apiKey)
	if doc.RequestID != "" {
		req.Header.Set(RequestIDHeader, doc.RequestID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &VendorError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var raw map[string]any
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: null body", ErrInvalidResponse)
	}

	return &Result{Raw: raw, Body: respBody}, nil
}

func buildForm(doc Document) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"schema", LabSchema},
		{"fast", "false"},
		{"customContext", LabContext},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f.name, err)
		}
	}

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(doc.Filename)))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(doc.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write file part: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
