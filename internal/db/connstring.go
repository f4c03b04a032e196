package db

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/queryloom/queryloom/pkg/queryloom"
)

// ParseConnectionString parses a database URL into a ConnectionConfig.
//
// Supported schemes:
//   - postgresql:// or postgres:// (sslmode query parameter honored)
//   - mysql://
//
// This is how DATABASE_URL and the --connection flag become profiles.
func ParseConnectionString(connStr string) (*queryloom.ConnectionConfig, error) {
	if connStr == "" {
		return nil, fmt.Errorf("connection string is empty: %w", queryloom.ErrInvalidConfig)
	}

	u, err := url.Parse(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection URL: %w", err)
	}

	cfg := &queryloom.ConnectionConfig{}

	switch u.Scheme {
	case "postgresql", "postgres":
		cfg.Engine = queryloom.EnginePostgres
		cfg.Port = strconv.Itoa(queryloom.DefaultPostgresPort)
		cfg.UsePool = true
	case "mysql":
		cfg.Engine = queryloom.EngineMySQL
		cfg.Port = strconv.Itoa(queryloom.DefaultMySQLPort)
	default:
		return nil, fmt.Errorf("unrecognized connection URL scheme %q: %w", u.Scheme, queryloom.ErrInvalidConfig)
	}

	cfg.Host = u.Hostname()
	if u.Port() != "" {
		cfg.Port = u.Port()
	}
	if u.User != nil {
		cfg.Username = u.User.Username()
		if pass, ok := u.User.Password(); ok {
			cfg.Password = pass
		}
	}
	if len(u.Path) > 1 {
		cfg.Database = strings.TrimPrefix(u.Path, "/")
	}

	switch u.Query().Get("sslmode") {
	case "", "disable":
		// SSL stays off
	case "verify-ca", "verify-full":
		cfg.SSL = queryloom.SSLConfig{Enabled: true, RejectUnauthorized: true}
	default:
		cfg.SSL = queryloom.SSLConfig{Enabled: true}
	}

	return cfg, nil
}

// buildPostgresURL renders the connection-string form of a config. Used as
// the primary form for managed hosts and as the fallback form elsewhere; it
// must converge on the same semantics as the structured form.
func buildPostgresURL(cfg *queryloom.ConnectionConfig, port int) string {
	u := &url.URL{
		Scheme: "postgresql",
		Host:   fmt.Sprintf("%s:%d", cfg.Host, port),
		Path:   "/" + cfg.Database,
	}

	if cfg.Username != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.Username, cfg.Password)
		} else {
			u.User = url.User(cfg.Username)
		}
	}

	query := url.Values{}
	query.Set("connect_timeout", strconv.Itoa(int(queryloom.DefaultConnectTimeout.Seconds())))
	switch {
	case cfg.SSL.Enabled && cfg.SSL.RejectUnauthorized:
		query.Set("sslmode", "verify-full")
	case cfg.SSL.Enabled:
		// "require" encrypts without chain validation, the managed-hosting
		// trade-off: providers commonly present certificates that fail
		// default chain validation.
		query.Set("sslmode", "require")
	default:
		query.Set("sslmode", "disable")
	}

	u.RawQuery = query.Encode()
	return u.String()
}
