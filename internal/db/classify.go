package db

import (
	"fmt"
	"strings"

	"github.com/queryloom/queryloom/pkg/queryloom"
)

// modificationPrefixes are the statement keywords that classify a query as a
// modification. Matched case-insensitively against the first token of the
// trimmed statement.
var modificationPrefixes = map[string]bool{
	"INSERT":   true,
	"UPDATE":   true,
	"DELETE":   true,
	"ALTER":    true,
	"CREATE":   true,
	"DROP":     true,
	"TRUNCATE": true,
}

// IsModification reports whether the statement modifies data or schema.
// SELECT, WITH, EXPLAIN and everything else are treated as reads.
func IsModification(sql string) bool {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return false
	}
	return modificationPrefixes[strings.ToUpper(fields[0])]
}

// wrapConnectError wraps raw client connection errors with actionable
// guidance, distinguishing timeout, unreachable host, authentication and TLS
// failures where the client exposes the distinction. The password is never
// echoed.
func wrapConnectError(err error, cfg *queryloom.ConnectionConfig) error {
	errStr := strings.ToLower(err.Error())
	addr := cfg.Addr()

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf("connection refused to %s: is the server running and the host/port correct? (%w)", addr, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf("cannot resolve host %q: check the hostname spelling and your network/DNS (%w)", cfg.Host, err)

	case strings.Contains(errStr, "password authentication failed") ||
		strings.Contains(errStr, "access denied for user"):
		hint := "check the username and password"
		if IsManagedHost(cfg.Host) {
			hint += "; managed-hosting passwords copied from a dashboard are sometimes percent-encoded"
		}
		return fmt.Errorf("authentication failed for user %q on %q: %s (%w)", cfg.Username, cfg.Database, hint, err)

	case strings.Contains(errStr, "does not exist") && strings.Contains(errStr, "database"):
		return fmt.Errorf("database %q does not exist on %s (%w)", cfg.Database, addr, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out") ||
		strings.Contains(errStr, "i/o deadline"):
		return fmt.Errorf("connection timed out to %s: the server may be unreachable or a firewall is dropping packets (%w)", addr, err)

	case strings.Contains(errStr, "tls") || strings.Contains(errStr, "ssl") ||
		strings.Contains(errStr, "certificate"):
		return fmt.Errorf("TLS handshake failed for %s: the server's certificate chain could not be validated or SSL settings are wrong (%w)", addr, err)

	case strings.Contains(errStr, "too many connections"):
		return fmt.Errorf("too many connections to %s: the server's connection limit is exhausted (%w)", addr, err)

	default:
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
}
