package retry

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassifier determines whether an error is transient (retryable) or fatal.
type ErrorClassifier interface {
	// IsTransient returns true if the error is temporary and the operation should be retried.
	IsTransient(err error) bool
}

// ConnectErrorClassifier classifies connection-establishment failures.
// Authentication and configuration failures are fatal; network hiccups and
// server resource exhaustion are transient.
type ConnectErrorClassifier struct{}

// NewConnectErrorClassifier creates a new connection error classifier.
func NewConnectErrorClassifier() *ConnectErrorClassifier {
	return &ConnectErrorClassifier{}
}

// IsTransient determines if an error is temporary and retryable.
func (c *ConnectErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	// Cancellation is the caller's decision, never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isTransientPgError(pgErr)
	}

	if isNetworkError(err) {
		return true
	}

	return isTransientMessage(err)
}

// isTransientPgError checks PostgreSQL SQLSTATE classes for transient conditions.
// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
func isTransientPgError(pgErr *pgconn.PgError) bool {
	code := pgErr.Code

	switch {
	case strings.HasPrefix(code, "08"): // Class 08 - Connection Exception
		return true
	case strings.HasPrefix(code, "53"): // Class 53 - Insufficient Resources
		return true
	case strings.HasPrefix(code, "57"): // Class 57 - Operator Intervention
		return true
	}

	// 28xxx (invalid authorization) and 3D000 (invalid catalog name) are
	// configuration problems; retrying cannot fix them.
	return false
}

// isNetworkError checks for OS-level network failures.
func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.EOF) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}

	return false
}

// isTransientMessage falls back to message matching for client libraries that
// do not expose typed errors for these conditions.
func isTransientMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, fragment := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"i/o timeout",
		"too many connections",
		"the database system is starting up",
	} {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

var _ ErrorClassifier = (*ConnectErrorClassifier)(nil)
