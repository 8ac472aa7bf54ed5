// Package clients holds thin REST clients for the external SaaS APIs the
// tools inspect. Credentials are passed per call and never stored beyond
// the lifetime of a client value.
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/saas-mcp/internal/common"
)

// maxResponseSize caps response bodies read from external APIs.
const maxResponseSize = 10 << 20 // 10MB

// APIError is a failed call to an external API. Its message carries the
// service name so it renders as "<Service> API error: <detail>".
type APIError struct {
	Service string
	Status  int
	Detail  string
	Err     error
}

func (e *APIError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s API error: %v", e.Service, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s API error: %d %s", e.Service, e.Status, e.Detail)
	default:
		return fmt.Sprintf("%s API error: %d", e.Service, e.Status)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// ErrorContext reports the service the error belongs to.
func (e *APIError) ErrorContext() string { return e.Service + " API" }

// restClient performs authenticated GET requests against one base URL.
type restClient struct {
	service    string
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	headers    http.Header
}

func newRestClient(service, baseURL string, timeout time.Duration, logger *common.Logger, headers http.Header) *restClient {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &restClient{
		service:    service,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		headers:    headers,
	}
}

// get performs a GET request to path and returns the body of a 2xx response.
func (c *restClient) get(ctx context.Context, path string, extra http.Header) ([]byte, error) {
	c.logger.Debug().Str("service", c.service).Str("method", "GET").Str("path", path).Msg("api request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, &APIError{Service: c.service, Err: err}
	}
	for key, vals := range c.headers {
		for _, v := range vals {
			req.Header.Set(key, v)
		}
	}
	for key, vals := range extra {
		for _, v := range vals {
			req.Header.Set(key, v)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Warn().Str("service", c.service).Str("path", path).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("api request failed")
		return nil, &APIError{Service: c.service, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &APIError{Service: c.service, Status: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug().Str("service", c.service).Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("api response")

	if resp.StatusCode >= 300 {
		return nil, &APIError{Service: c.service, Status: resp.StatusCode, Detail: errorDetail(body)}
	}
	return body, nil
}

// getJSON performs a GET request and decodes the JSON response into out.
func (c *restClient) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.get(ctx, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Service: c.service, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// errorDetail extracts a message from the error bodies the supported APIs
// return: {"error":"..."}, {"error":{"message":"..."}} or {"message":"..."}.
func errorDetail(body []byte) string {
	var resp struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(body, &resp) != nil {
		return ""
	}
	if len(resp.Error) > 0 {
		var s string
		if json.Unmarshal(resp.Error, &s) == nil && s != "" {
			return s
		}
		var obj struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(resp.Error, &obj) == nil && obj.Message != "" {
			return obj.Message
		}
	}
	return resp.Message
}

func bearer(token string) http.Header {
	h := make(http.Header)
	h.Set("Authorization", "Bearer "+token)
	return h
}
