// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package port

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError is returned for every non-2xx response from the Port API.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, e.Code, e.Message)
	}

	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// AuthError wraps a failed client-credentials exchange.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("failed to obtain access token: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

type errorBody struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newAPIError(method, path string, status int, body io.Reader) *APIError {
	apiErr := &APIError{StatusCode: status, Method: method, Path: path}

	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		apiErr.Message = http.StatusText(status)
		return apiErr
	}

	var parsed errorBody
	if err := json.Unmarshal(data, &parsed); err != nil {
		apiErr.Message = string(data)
		return apiErr
	}

	apiErr.Code = parsed.Error
	apiErr.Message = parsed.Message
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}

	return apiErr
}
