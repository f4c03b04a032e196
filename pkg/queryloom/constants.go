package queryloom

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Operation completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or unsupported engine
	ExitConnectionError = 11 // Failed to connect to database
	ExitQueryFailed     = 13 // SQL execution failed
)

const (
	// DefaultPostgresPort is the standard PostgreSQL port.
	DefaultPostgresPort = 5432

	// DefaultMySQLPort is the standard MySQL port.
	DefaultMySQLPort = 3306

	// TransactionPoolerPort is the well-known port of transaction-mode
	// connection poolers in front of managed Postgres. Prepared-statement
	// caching is unsafe across pooled, multiplexed backend connections,
	// so adapters disable it when this port is configured.
	TransactionPoolerPort = 6543

	// DefaultConnectTimeout bounds connection establishment so a hung
	// network path surfaces as a failure instead of blocking indefinitely.
	DefaultConnectTimeout = 30 * time.Second

	// DefaultIdleTimeout bounds how long a pooled connection may sit idle.
	DefaultIdleTimeout = 30 * time.Second

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 5 * time.Second

	// DefaultRetryMaxAttempts is the default maximum number of connect retry attempts.
	DefaultRetryMaxAttempts = 2
)
