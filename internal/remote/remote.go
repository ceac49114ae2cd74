// Package remote is the shared HTTP layer for the engine, pipeline, and
// catalog clients. It classifies remote failures into the workflow error
// taxonomy and retries only the transient ones, with bounded backoff.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
)

var (
	// ErrUnauthorized marks credential or permission rejections. Never retried.
	ErrUnauthorized = errors.New("remote target rejected credentials")
	// ErrRejected marks remote-side validation failures. Never retried; the
	// remote message is surfaced verbatim.
	ErrRejected = errors.New("remote target rejected the submission")
	// ErrTransient marks network failures, throttling (408/429), and 5xx
	// responses, retried up to the configured bound before becoming fatal.
	ErrTransient = errors.New("transient remote failure")
)

const (
	defaultTimeout  = 30 * time.Second
	defaultMaxTries = 4
)

// Client issues JSON requests against a single remote base URL.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	MaxTries   uint
}

// NewClient creates a client with the default timeout and retry bound.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
		MaxTries:   defaultMaxTries,
	}
}

// PostJSON marshals body, POSTs it to path, and decodes the JSON response
// into out (which may be nil). Transient failures are retried with
// exponential backoff; authorization and validation failures abort
// immediately.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	operation := func() ([]byte, error) {
		return c.post(ctx, path, payload)
	}
	resp, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxTries()),
	)
	if err != nil {
		return err
	}
	if out == nil || len(resp) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload []byte) ([]byte, error) {
	url := c.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("remote call failed, will retry")
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrTransient, err)
	}
	if err := classify(resp.StatusCode, data); err != nil {
		return nil, err
	}
	return data, nil
}

// classify maps a status code onto the error taxonomy. Only transient
// errors come back retryable; everything else is wrapped Permanent so the
// backoff loop stops at once.
func classify(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return backoff.Permanent(fmt.Errorf("%w (status %d)", ErrUnauthorized, status))
	case status == http.StatusRequestTimeout || status == http.StatusTooManyRequests || status >= 500:
		return fmt.Errorf("%w: status %d: %s", ErrTransient, status, remoteMessage(body))
	default:
		return backoff.Permanent(fmt.Errorf("%w: status %d: %s", ErrRejected, status, remoteMessage(body)))
	}
}

// remoteMessage extracts a human-readable message from an error body,
// falling back to the raw text.
func remoteMessage(body []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return strings.TrimSpace(string(body))
}

func (c *Client) maxTries() uint {
	if c.MaxTries == 0 {
		return defaultMaxTries
	}
	return c.MaxTries
}
