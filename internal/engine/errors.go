package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors forming the engine failure taxonomy. Callers classify
// with errors.Is; everything else wraps one of these with an operation
// prefix via fmt.Errorf("op: %w", ...).
var (
	// ErrInvalidInput marks a rejected request (missing role, bad filter).
	// No partial work happens after it.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration marks missing or broken credentials/config.
	// Fatal for the operation; retrying cannot help.
	ErrConfiguration = errors.New("configuration error")

	// ErrUpstream marks a provider failure (non-2xx, timeout, dial error).
	// The caller may retry the whole operation; the engine never retries
	// internally.
	ErrUpstream = errors.New("upstream unavailable")
)

// StatusError carries the HTTP status of a failed provider call.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrUpstream }

// UpstreamStatus wraps a non-2xx provider status into the taxonomy.
func UpstreamStatus(code int) error {
	return &StatusError{StatusCode: code}
}

// ClassifyTransportError maps network-level failures onto ErrUpstream so
// callers see one taxonomy regardless of where the provider call died.
func ClassifyTransportError(op string, err error) error {
	if err == nil {
		return nil
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	var netErr net.Error
	switch {
	case errors.As(err, &opErr), errors.As(err, &dnsErr):
		return fmt.Errorf("%s: %v: %w", op, err, ErrUpstream)
	case errors.As(err, &netErr) && netErr.Timeout(),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: timeout: %w", op, ErrUpstream)
	}
	return fmt.Errorf("%s: %w", op, err)
}
