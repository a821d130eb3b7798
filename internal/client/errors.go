// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package client

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// APIError is a structured error returned by the Grid API. The server wraps
// failures in an envelope:
//
//	{"error": {"code": "not_found", "message": "...", "detail": "..."}}
//
// StatusCode is filled in client-side from the HTTP response.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`

	// retryAfter is the server-requested backoff, parsed from the
	// Retry-After header on 429 responses.
	retryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error (HTTP %d)", e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("API error (HTTP %d, %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("API error (HTTP %d): %s", e.StatusCode, e.Message)
}

// errorEnvelope mirrors the wire shape of an error response.
type errorEnvelope struct {
	Error APIError `json:"error"`
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 or 403 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}
