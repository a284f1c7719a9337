// Package restclient is the typed HTTP client for the record API.
// Every response carries a {success, data, error} envelope; a missing
// or false success flag is a failure regardless of HTTP status, and
// that rule is normalized here so callers never inspect raw responses.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Client is the shared HTTP layer for all collections
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// do performs one request and unmarshals the envelope's data into out
// when out is non-nil
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	action := fmt.Sprintf("%s %s", method, path)

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Action: action, Err: fmt.Errorf("failed to encode request body: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return &TransportError{Action: action, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("Request failed", zap.String("action", action), zap.Error(err))
		return &TransportError{Action: action, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Action: action, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &TransportError{Action: action, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if env.Success == nil || !*env.Success {
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		c.logger.Warn("API reported failure",
			zap.String("action", action),
			zap.Int("status", resp.StatusCode),
			zap.String("error", msg))
		return &APIError{Action: action, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &TransportError{Action: action, Err: fmt.Errorf("failed to decode data: %w", err)}
		}
	}
	return nil
}

func tenantQuery(companyID int64) url.Values {
	q := url.Values{}
	q.Set("company_id", strconv.FormatInt(companyID, 10))
	return q
}
