// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

// Package client implements the low-level HTTP client for the Grid API:
// bearer token authentication, JSON encoding/decoding, typed API errors,
// and retries with backoff for transient failures.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gridapi/internal/config"
	"gridapi/internal/logger"
	"gridapi/internal/version"
)

const (
	// defaultMaxAttempts bounds retries for a single request (1 initial + 2 retries).
	defaultMaxAttempts = 3

	// baseBackoff is the starting delay between retries.
	baseBackoff = 500 * time.Millisecond
)

// Client talks to a single Grid API endpoint. It is safe for concurrent use.
type Client struct {
	baseURL     string
	token       string
	userAgent   string
	maxAttempts int
	httpClient  *http.Client
}

// Option customizes a Client at construction time.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Intended for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxAttempts overrides the retry attempt cap.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// New builds a Client from resolved connection settings.
func New(conn config.Connection, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(conn.BaseURL, "/"),
		token:       conn.Token,
		userAgent:   fmt.Sprintf("gridapi-cli/%s", version.Version),
		maxAttempts: defaultMaxAttempts,
		httpClient:  &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the endpoint the client was configured with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HasToken reports whether a token is configured at all. Commands use this to
// fail fast with a hint before making a doomed request.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, params, nil, out)
}

// Post issues a POST request with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Patch issues a PATCH request with a JSON body and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete issues a DELETE request. A 204 response is treated as success.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Do issues a single API request with retries. GET and DELETE requests are
// retried on 429 and 5xx responses; POST/PATCH are never retried since the
// server does not deduplicate them.
func (c *Client) Do(ctx context.Context, method, path string, params url.Values, body any, out any) error {
	reqURL, err := c.buildURL(path, params)
	if err != nil {
		return err
	}

	var bodyBytes []byte
	if body != nil {
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	retryable := method == http.MethodGet || method == http.MethodDelete

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := retryDelay(attempt, lastErr)
			logger.Debug("Retrying API request",
				"method", method, "url", reqURL, "attempt", attempt, "delay", delay.String())
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		var reqBody io.Reader
		if bodyBytes != nil {
			reqBody = bytes.NewReader(bodyBytes)
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
		if err != nil {
			return fmt.Errorf("failed to create request %s %s: %w", method, path, err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		if bodyBytes != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("request %s %s failed: %w", method, path, err)
			if !retryable || attempt == c.maxAttempts {
				return lastErr
			}
			continue
		}

		done, err := c.handleResponse(resp, out)
		if done {
			return err
		}
		lastErr = err
		if !retryable || attempt == c.maxAttempts {
			return lastErr
		}
	}

	return lastErr
}

// handleResponse consumes the response. It returns done=false when the error
// is transient and the request may be retried.
func (c *Client) handleResponse(resp *http.Response, out any) (done bool, err error) {
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			// Drain so the connection can be reused.
			_, _ = io.Copy(io.Discard, resp.Body)
			return true, nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return true, fmt.Errorf("failed to decode API response: %w", err)
		}
		return true, nil
	}

	apiErr := decodeAPIError(resp)

	// 429 and 5xx are transient; everything else is the caller's problem.
	transient := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
	return !transient, apiErr
}

// decodeAPIError builds an *APIError from a non-2xx response, keeping the raw
// body as the message when the error envelope doesn't parse.
func decodeAPIError(resp *http.Response) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr := envelope.Error
		apiErr.StatusCode = resp.StatusCode
		apiErr.retryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
		return &apiErr
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(raw)),
		retryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}
}

// parseRetryAfter handles the delay-seconds form of the Retry-After header.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// retryDelay computes the wait before the given attempt: the server-provided
// Retry-After when present, otherwise exponential backoff with jitter.
func retryDelay(attempt int, lastErr error) time.Duration {
	if apiErr, ok := lastErr.(*APIError); ok && apiErr.retryAfter > 0 {
		return apiErr.retryAfter
	}
	// 500ms, 1s, 2s, ... plus up to 25% jitter.
	delay := baseBackoff << (attempt - 2)
	jitter := time.Duration(rand.Int63n(int64(delay) / 4))
	return delay + jitter
}

// buildURL joins the base URL, request path, and encoded parameters.
func (c *Client) buildURL(path string, params url.Values) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("invalid request URL for path %s: %w", path, err)
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	return u.String(), nil
}

// Download streams a raw (non-JSON) response body to w, reporting progress to
// onProgress if non-nil. It returns the number of bytes written.
func (c *Client) Download(ctx context.Context, path string, w io.Writer, onProgress func(written, total int64)) (int64, error) {
	reqURL, err := c.buildURL(path, nil)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create download request for %s: %w", path, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("download request for %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, decodeAPIError(resp)
	}

	total := resp.ContentLength
	var written int64
	buf := make([]byte, 32*1024)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				return written, fmt.Errorf("failed to write downloaded data: %w", writeErr)
			}
			written += int64(n)
			if onProgress != nil {
				onProgress(written, total)
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, fmt.Errorf("download interrupted after %d bytes: %w", written, readErr)
		}
	}
}
