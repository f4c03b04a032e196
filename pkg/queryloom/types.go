package queryloom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Engine identifies the wire protocol a connection profile speaks.
type Engine string

const (
	EnginePostgres Engine = "postgres"
	EngineMySQL    Engine = "mysql"
)

// IsValid returns true if the Engine is a supported value.
func (e Engine) IsValid() bool {
	return e == EnginePostgres || e == EngineMySQL
}

// SSLConfig describes transport security for a connection.
//
// RejectUnauthorized mirrors the common managed-hosting trade-off: when false,
// the server certificate is accepted without chain validation. Managed
// providers routinely present certificates that fail default chain validation,
// so adapters relax verification for hosts on the managed allow-list.
type SSLConfig struct {
	Enabled            bool   `json:"enabled" yaml:"enabled"`
	RejectUnauthorized bool   `json:"rejectUnauthorized,omitempty" yaml:"reject_unauthorized,omitempty"`
	Certificate        string `json:"certificate,omitempty" yaml:"certificate,omitempty"`
}

// ConnectionConfig is the identity and reachability of one database.
//
// The profile store owns the canonical copy; an adapter holds an immutable
// snapshot for the lifetime of one connection session. Port is textual and
// parsed at connect time so that profiles round-trip through JSON and YAML
// without losing the user's input.
type ConnectionConfig struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Engine   Engine    `json:"engine" yaml:"engine"`
	Host     string    `json:"host" yaml:"host"`
	Port     string    `json:"port" yaml:"port"`
	Database string    `json:"database" yaml:"database"`
	Username string    `json:"user" yaml:"user"`
	Password string    `json:"password,omitempty" yaml:"password,omitempty"`
	SSL      SSLConfig `json:"ssl" yaml:"ssl"`
	UsePool  bool      `json:"usePool" yaml:"use_pool"`
}

// Validate checks that the config carries everything an adapter needs before
// any network attempt. It returns a multi-error so callers can surface every
// problem at once.
func (c *ConnectionConfig) Validate() error {
	var errs []error

	if !c.Engine.IsValid() {
		errs = append(errs, fmt.Errorf("engine %q is not supported: %w", c.Engine, ErrUnsupportedEngine))
	}
	if strings.TrimSpace(c.Host) == "" {
		errs = append(errs, fmt.Errorf("host is required: %w", ErrInvalidConfig))
	}
	if strings.TrimSpace(c.Username) == "" {
		errs = append(errs, fmt.Errorf("user is required: %w", ErrInvalidConfig))
	}
	if strings.TrimSpace(c.Database) == "" {
		errs = append(errs, fmt.Errorf("database is required: %w", ErrInvalidConfig))
	}
	if _, err := c.PortNumber(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// PortNumber parses the textual port field. The engine default applies when
// the field is empty.
func (c *ConnectionConfig) PortNumber() (int, error) {
	if c.Port == "" {
		switch c.Engine {
		case EngineMySQL:
			return DefaultMySQLPort, nil
		default:
			return DefaultPostgresPort, nil
		}
	}
	port, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || port <= 0 {
		return 0, fmt.Errorf("port %q must be a positive integer: %w", c.Port, ErrInvalidConfig)
	}
	return port, nil
}

// Addr returns host:port for diagnostics. Falls back to the raw port text
// when it does not parse.
func (c *ConnectionConfig) Addr() string {
	if port, err := c.PortNumber(); err == nil {
		return fmt.Sprintf("%s:%d", c.Host, port)
	}
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// QueryResult is the uniform output of ExecuteQuery across engines.
//
// Exactly one of a successful row set or Error is meaningful at a time.
// AffectedRows is populated only for modification statements that returned
// zero rows.
type QueryResult struct {
	Columns      []string         `json:"columns"`
	Rows         []map[string]any `json:"rows"`
	AffectedRows *int64           `json:"affectedRows,omitempty"`
	Error        string           `json:"error,omitempty"`
}

// SchemaResult is the output of FetchSchema. Schema holds the rendered
// catalog text; on failure Error is set and Schema is empty, never truncated.
type SchemaResult struct {
	Schema string `json:"schema,omitempty"`
	Error  string `json:"error,omitempty"`
}
