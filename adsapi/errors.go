// Copyright 2025 Markus U. Wahl
// SPDX-License-Identifier: Apache-2.0

package adsapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// maxErrorBody limits how much of a response body is echoed in error
// messages.
const maxErrorBody = 200

// APIError represents an error response from the Advertising API.
type APIError struct {
	StatusCode int    // HTTP status code
	Code       string // machine-readable error code, when the API provides one
	Message    string // human-readable description
	Body       string // raw response body

	// RetryAfter carries the Retry-After header of throttled responses,
	// zero when absent.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	detail := e.Message
	if detail == "" {
		detail = e.Body
	}
	if len(detail) > maxErrorBody {
		detail = detail[:maxErrorBody] + "..."
	}
	if e.Code != "" {
		return fmt.Sprintf("amazon ads api error (status %d, code %s): %s", e.StatusCode, e.Code, detail)
	}
	return fmt.Sprintf("amazon ads api error (status %d): %s", e.StatusCode, detail)
}

// newAPIError builds an APIError from a response body. Error payloads vary
// across endpoints; the common shapes carry "message", "details" or "code"
// fields, and anything else is kept verbatim.
func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Body:       string(body),
	}

	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Details
		}
	}

	return apiErr
}

// IsAuthError returns true if the error is an authentication or
// authorization failure (HTTP 401 or 403).
func IsAuthError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// IsRateLimitError returns true if the error is a throttling response
// (HTTP 429).
func IsRateLimitError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// IsServerError returns true if the error is a 5xx response.
func IsServerError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	return false
}
