package db

import (
	"net/url"
	"strings"

	"github.com/queryloom/queryloom/pkg/queryloom"
)

// managedHostSuffixes is the fixed allow-list of managed-Postgres hosting
// domains. Hosts matching it get SSL forced on with relaxed certificate
// verification, the connection-string construction path, and the
// percent-decoding treatment for pasted passwords.
//
// This list is the single source of truth: construction, SSL policy and
// logging must all go through IsManagedHost.
var managedHostSuffixes = []string{
	".supabase.co",
	".supabase.com",
	".neon.tech",
}

// IsManagedHost reports whether the host belongs to a known managed-Postgres
// hosting provider.
func IsManagedHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	for _, suffix := range managedHostSuffixes {
		if strings.HasSuffix(h, suffix) {
			return true
		}
	}
	return false
}

// IsPoolerPort reports whether the port is the well-known transaction-pooler
// port. Statement caching must be disabled behind a transaction pooler.
func IsPoolerPort(port int) bool {
	return port == queryloom.TransactionPoolerPort
}

// normalizePassword attempts a single percent-decode of a managed-hosting
// password containing '%'. Credentials copied from provider dashboards are
// sometimes pre-encoded; decoding failure keeps the original string and is
// only logged, never fatal.
func normalizePassword(password string, logger queryloom.Logger) string {
	if !strings.Contains(password, "%") {
		return password
	}
	decoded, err := url.QueryUnescape(password)
	if err != nil {
		logger.Verbose("password percent-decoding failed, using it as provided: %v", err)
		return password
	}
	logger.Verbose("password contained %%, applied one round of percent-decoding")
	return decoded
}
