package llm

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"tender-backend/internal/shared/telemetry"
)

const retryBaseDelay = 300 * time.Millisecond

type retryingClient struct {
	base  Client
	delay time.Duration
}

// WithRetry wraps c so transient provider failures are retried once.
func WithRetry(c Client) Client {
	if c == nil {
		return nil
	}
	if _, ok := c.(retryingClient); ok {
		return c
	}
	return retryingClient{base: c, delay: retryBaseDelay}
}

func (r retryingClient) Generate(ctx context.Context, req Request) (string, error) {
	out, err := r.base.Generate(ctx, req)
	if err == nil || !shouldRetry(err) {
		return out, err
	}

	telemetry.Warn("llm.retry", map[string]any{
		"attempt":    1,
		"request_id": telemetry.RequestID(ctx),
		"error":      err,
	})
	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return r.base.Generate(ctx, req)
}

// AsDocumentReader returns the DocumentReader behind c, if any.
func AsDocumentReader(c Client) (DocumentReader, bool) {
	if rc, ok := c.(retryingClient); ok {
		c = rc.base
	}
	reader, ok := c.(DocumentReader)
	return reader, ok
}

func shouldRetry(err error) bool {
	if err == nil || errors.Is(err, ErrNotConfigured) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "status code: 5") || strings.Contains(msg, "http status 5") ||
		strings.Contains(msg, "server_error") || strings.Contains(msg, "status code: 429") ||
		strings.Contains(msg, "resource_exhausted") || strings.Contains(msg, "unavailable") {
		return true
	}
	if strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.HasSuffix(msg, "eof") {
		return true
	}
	return false
}
