package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound signals a 404 from the API.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized signals a rejected API key (401 or 403).
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is returned for any non-2xx response.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	// Body is the raw response body.
	Body []byte
	// Messages holds the error strings reported by the server, if the body
	// carried an "errors" array or an "error" string.
	Messages []string
}

func (e *APIError) Error() string {
	msg := http.StatusText(e.StatusCode)
	if len(e.Messages) > 0 {
		msg = strings.Join(e.Messages, "; ")
	} else if body := strings.TrimSpace(string(e.Body)); body != "" {
		msg = body
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, msg)
}

// Is maps status codes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	}
	return false
}

func newAPIError(method, url string, status int, body []byte) *APIError {
	e := &APIError{Method: method, URL: url, StatusCode: status, Body: body}

	var payload struct {
		Errors []string `json:"errors"`
		Error  string   `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		e.Messages = payload.Errors
		if len(e.Messages) == 0 && payload.Error != "" {
			e.Messages = []string{payload.Error}
		}
	}
	return e
}
