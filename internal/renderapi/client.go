package renderapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/skbarnwal/gst-invoice-service/internal/model"
)

// RenderError represents an error that occurred while talking to the render
// service.
type RenderError struct {
	Op  string // Operation that caused the error
	Err error  // Original error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	if e.Err == nil {
		return "render error: " + e.Op
	}
	return "render error: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// Client talks to the remote PDF render service (an AWS Lambda behind API
// Gateway).
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// Config holds configuration for the render client.
type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// DefaultConfig returns a default configuration for the render client. The
// Lambda can take several seconds on cold starts, hence the generous
// timeout.
func DefaultConfig() *Config {
	return &Config{
		Timeout: 60 * time.Second,
	}
}

// NewClient creates a new render service client.
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		endpoint: config.Endpoint,
		apiKey:   config.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GeneratePDF posts the invoice payload to the render service and returns
// the PDF bytes. Exactly one request is made per call; there is no retry.
func (c *Client) GeneratePDF(ctx context.Context, request *model.RenderRequest) ([]byte, error) {
	if c.endpoint == "" {
		return nil, &RenderError{
			Op:  "validate_configuration",
			Err: fmt.Errorf("render endpoint is not configured. Please set RENDER_ENDPOINT"),
		}
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return nil, &RenderError{
			Op:  "marshal_request",
			Err: fmt.Errorf("failed to marshal render payload: %w", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(requestData))
	if err != nil {
		return nil, &RenderError{
			Op:  "create_request",
			Err: fmt.Errorf("failed to create request: %w", err),
		}
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RenderError{
			Op:  "send_request",
			Err: fmt.Errorf("failed to send request: %w", err),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RenderError{
			Op:  "read_response",
			Err: fmt.Errorf("failed to read response body: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RenderError{
			Op:  "check_api_response",
			Err: fmt.Errorf("API Error: %d - %s", resp.StatusCode, string(respBody)),
		}
	}

	return decodePDF(resp.Header.Get("Content-Type"), respBody)
}

// gatewayEnvelope is the API-Gateway proxy response shape the Lambda
// produces when the gateway does not unwrap it: the PDF arrives base64
// encoded in the body field.
type gatewayEnvelope struct {
	Body            string `json:"body"`
	IsBase64Encoded bool   `json:"isBase64Encoded"`
}

// decodePDF normalises the two response shapes the render service can
// produce into raw PDF bytes: a direct binary body with a PDF content type,
// or a JSON gateway envelope carrying base64.
func decodePDF(contentType string, body []byte) ([]byte, error) {
	if strings.Contains(strings.ToLower(contentType), "application/pdf") {
		return body, nil
	}

	var envelope gatewayEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &RenderError{
			Op:  "decode_envelope",
			Err: fmt.Errorf("failed to parse gateway response: %w", err),
		}
	}
	if envelope.Body == "" {
		return nil, &RenderError{
			Op:  "decode_envelope",
			Err: fmt.Errorf("gateway response has no body"),
		}
	}

	pdf, err := base64.StdEncoding.DecodeString(envelope.Body)
	if err != nil {
		return nil, &RenderError{
			Op:  "decode_base64",
			Err: fmt.Errorf("failed to decode PDF data: %w", err),
		}
	}
	return pdf, nil
}
