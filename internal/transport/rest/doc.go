// Package rest performs single JSON round trips against the App Search REST API.
//
// Each call maps to exactly one HTTP request: no retries, no pagination.
// Non-success statuses are returned as *APIError; network faults are returned
// wrapped so the transport's own error stays reachable with errors.As.
package rest
