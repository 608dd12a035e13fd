package main

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"waves-server/internal/auth"
	"waves-server/internal/lens"
)

// sanitizeErrorForUser returns a user-safe error message. Callers log the
// full error themselves.
func sanitizeErrorForUser(err error) string {
	if err == nil {
		return ""
	}
	var netErr net.Error
	var urlErr *url.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "Lens took too long to answer"
	case errors.Is(err, lens.ErrUnauthenticated):
		return "Your Lens session expired, please sign in again"
	case errors.Is(err, lens.ErrNotFound):
		return "Not found"
	case errors.Is(err, auth.ErrSignerMismatch):
		return "The signature does not match the connected wallet"
	case errors.Is(err, auth.ErrBadSignature):
		return "The signature is malformed"
	case errors.Is(err, auth.ErrBadAddress):
		return "That is not a valid wallet address"
	case errors.As(err, &netErr), errors.As(err, &urlErr):
		return "Could not reach Lens"
	}

	errStr := err.Error()
	switch {
	case strings.Contains(errStr, "timeout"):
		return "Connection timed out"
	case strings.Contains(errStr, "connection refused"):
		return "Could not reach Lens"
	case strings.Contains(errStr, "rate limit"):
		return "Rate limit exceeded, please try again later"
	default:
		return truncate(errStr, 200)
	}
}
