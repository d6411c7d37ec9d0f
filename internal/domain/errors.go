package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrNetwork signals a transport or timeout failure talking to the recipe API.
	ErrNetwork = errors.New("network error")
	// ErrMapping signals a malformed recipe payload.
	ErrMapping = errors.New("malformed recipe payload")
	// ErrInvalidCategory signals an unknown category label. Callers treat it as "no category".
	ErrInvalidCategory = errors.New("invalid category")
	// ErrInvalidPage signals a page number below 1.
	ErrInvalidPage = errors.New("invalid page")
	// ErrSessionNotFound signals a missing or expired search session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrCategoryRejected signals a category that may not be searched.
	ErrCategoryRejected = errors.New("category rejected")
	// ErrRateLimited signals that the outbound rate limiter gave up waiting.
	ErrRateLimited = errors.New("rate limited")
)

// UpstreamError describes a non-2xx answer from the recipe API.
type UpstreamError struct {
	Op     string
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("recipe api %s: unexpected status %d", e.Op, e.Status)
}

// Unwrap maps 404 to ErrNotFound and everything else to ErrNetwork.
func (e *UpstreamError) Unwrap() error {
	if e.Status == 404 {
		return ErrNotFound
	}
	return ErrNetwork
}

// NewUpstreamError creates an upstream status error.
func NewUpstreamError(op string, status int) error {
	return &UpstreamError{Op: op, Status: status}
}
