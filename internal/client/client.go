package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/yildizm/PitchRoast/internal/roast"
)

const (
	analyzePath = "/analyze"
	chatPath    = "/chat"
	healthPath  = "/"

	maxErrorBody = 64 * 1024
)

// Client talks to the analysis service
type Client struct {
	config  *Config
	client  *http.Client
	baseURL *url.URL
}

// New creates a new client instance
func New(config *Config) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, NewConfigurationError("base_url", "invalid base URL: "+err.Error())
	}

	// The whole-request Timeout of http.Client would cut long analyses
	// short, so only dialing and the wait for headers are bounded.
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: config.Timeout}).DialContext
	transport.ResponseHeaderTimeout = config.Timeout

	return &Client{
		config:  config,
		client:  &http.Client{Transport: transport},
		baseURL: baseURL,
	}, nil
}

// BaseURL returns the service endpoint
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Analyze starts an initial analysis of pitch and returns the event stream
func (c *Client) Analyze(ctx context.Context, pitch string) (io.ReadCloser, error) {
	if strings.TrimSpace(pitch) == "" {
		return nil, NewError(ErrTypeValidation, "pitch is empty", analyzePath)
	}

	return c.stream(ctx, analyzePath, &AnalyzeRequest{
		Pitch:     pitch,
		Intensity: c.config.Intensity,
	})
}

// Chat sends a follow-up turn with the full transcript and the stored
// analysis context and returns the event stream
func (c *Client) Chat(ctx context.Context, messages []roast.ChatMessage, analysisContext string) (io.ReadCloser, error) {
	if len(messages) == 0 {
		return nil, NewError(ErrTypeValidation, "transcript is empty", chatPath)
	}

	return c.stream(ctx, chatPath, &ChatRequest{
		Messages: messages,
		Context:  analysisContext,
	})
}

// Health checks that the service is up and returns its banner
func (c *Client) Health(ctx context.Context) (string, error) {
	endpoint := c.baseURL.JoinPath(healthPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return "", NewErrorWithCause(ErrTypeInternal, "failed to create health check request", healthPath, err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", NewErrorWithCause(classifyTransportError(ctx, err), "health check failed", healthPath, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp, healthPath)
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return "", NewErrorWithCause(ErrTypeInternal, "failed to decode health response", healthPath, err)
	}

	return health.Message, nil
}

// stream posts body to path and hands back the open response body
func (c *Client) stream(ctx context.Context, path string, body any) (io.ReadCloser, error) {
	endpoint := c.baseURL.JoinPath(path)

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, NewErrorWithCause(ErrTypeInternal, "failed to marshal request", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(jsonData))
	if err != nil {
		return nil, NewErrorWithCause(ErrTypeInternal, "failed to create request", path, err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/x-ndjson")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, NewErrorWithCause(classifyTransportError(ctx, err), "request failed", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()
		return nil, statusError(resp, path)
	}

	if resp.Body == nil || resp.Body == http.NoBody {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
		return nil, NewErrorWithCause(ErrTypeProvider, "request failed", path, ErrNoBody)
	}

	return resp.Body, nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
}

// statusError builds an error from a failure response, keeping the server's
// explanation when the body is the service's JSON error shape
func statusError(resp *http.Response, path string) *Error {
	e := NewError(ErrTypeProvider, "request failed", path)
	e.StatusCode = resp.StatusCode

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload ErrorResponse
	if json.Unmarshal(body, &payload) == nil {
		parts := make([]string, 0, 2)
		if payload.Error != "" {
			parts = append(parts, payload.Error)
		}
		switch d := payload.Detail.(type) {
		case nil:
		case string:
			if d != "" {
				parts = append(parts, d)
			}
		default:
			if raw, err := json.Marshal(d); err == nil {
				parts = append(parts, string(raw))
			}
		}
		e.Detail = strings.Join(parts, ": ")
	}

	if e.Detail == "" {
		e.Detail = http.StatusText(resp.StatusCode)
	}

	return e
}
