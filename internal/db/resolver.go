package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/queryloom/queryloom/pkg/queryloom"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// Note: Password is NOT included as a CLI flag for security reasons.
// Use $PGPASSWORD / $MYSQL_PWD, a .env file, or a stored profile instead.
type GranularConnFlags struct {
	Engine   string
	Host     string
	Port     int
	Username string
	Database string
	SSL      bool
	NoPool   bool
}

// IsEmpty returns true if no connection-related granular flags were provided.
// Database is excluded: it can override the database of a profile or
// connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g == nil || (g.Host == "" && g.Port == 0 && g.Username == "")
}

// EnvVars represents the environment variables consulted during resolution.
// PG* names follow libpq conventions; MYSQL_PWD follows the mysql client.
type EnvVars struct {
	PGHOST       string
	PGPORT       string
	PGUSER       string
	PGPASSWORD   string
	PGDATABASE   string
	MYSQL_PWD    string
	DATABASE_URL string
}

// LoadFromEnvironment reads the supported environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:       os.Getenv("PGHOST"),
		PGPORT:       os.Getenv("PGPORT"),
		PGUSER:       os.Getenv("PGUSER"),
		PGPASSWORD:   os.Getenv("PGPASSWORD"),
		PGDATABASE:   os.Getenv("PGDATABASE"),
		MYSQL_PWD:    os.Getenv("MYSQL_PWD"),
		DATABASE_URL: os.Getenv("DATABASE_URL"),
	}
}

// ResolveConnectionParams resolves a full ConnectionConfig using the
// precedence:
//
//  1. Connection string flag (--connection) — parsed and used directly
//  2. Granular flags (-h, -p, -U, -d)
//  3. Environment variables (PGHOST, PGPORT, ... / DATABASE_URL)
//  4. Stored profile fields (when a profile was selected)
//  5. Defaults (localhost, engine default port)
//
// Returns an error if both --connection and granular flags are provided:
// the ambiguity is rejected rather than guessed at.
func ResolveConnectionParams(
	connStringFlag string,
	flags *GranularConnFlags,
	envVars *EnvVars,
	profile *queryloom.ConnectionConfig,
) (*queryloom.ConnectionConfig, error) {
	if flags == nil {
		flags = &GranularConnFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}

	if connStringFlag != "" && !flags.IsEmpty() {
		return nil, fmt.Errorf(
			"cannot combine --connection with granular flags (-h, -p, -U): %w",
			queryloom.ErrInvalidConfig,
		)
	}

	if connStringFlag != "" {
		return resolveFromConnectionString(connStringFlag, flags, envVars)
	}
	if flags.IsEmpty() && profile == nil && envVars.DATABASE_URL != "" {
		return resolveFromConnectionString(envVars.DATABASE_URL, flags, envVars)
	}

	return resolveFromGranularParams(flags, envVars, profile)
}

func resolveFromConnectionString(connStr string, flags *GranularConnFlags, envVars *EnvVars) (*queryloom.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, err
	}
	// --database overrides the URL's database component.
	if flags.Database != "" {
		cfg.Database = flags.Database
	}
	if cfg.Password == "" {
		cfg.Password = passwordFromEnv(cfg.Engine, envVars)
	}
	return cfg, nil
}

func resolveFromGranularParams(
	flags *GranularConnFlags,
	envVars *EnvVars,
	profile *queryloom.ConnectionConfig,
) (*queryloom.ConnectionConfig, error) {
	cfg := &queryloom.ConnectionConfig{}
	if profile != nil {
		snapshot := *profile
		cfg = &snapshot
	}

	if flags.Engine != "" {
		cfg.Engine = queryloom.Engine(flags.Engine)
	}
	if cfg.Engine == "" {
		cfg.Engine = queryloom.EnginePostgres
	}

	// Host: flag > PGHOST > profile > default
	if flags.Host != "" {
		cfg.Host = flags.Host
	}
	if cfg.Host == "" && cfg.Engine == queryloom.EnginePostgres {
		cfg.Host = envVars.PGHOST
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}

	// Port: flag > PGPORT > profile > engine default (applied at connect)
	if flags.Port != 0 {
		cfg.Port = strconv.Itoa(flags.Port)
	} else if cfg.Port == "" && cfg.Engine == queryloom.EnginePostgres && envVars.PGPORT != "" {
		if _, err := strconv.Atoi(envVars.PGPORT); err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value %q: must be an integer: %w", envVars.PGPORT, queryloom.ErrInvalidConfig)
		}
		cfg.Port = envVars.PGPORT
	}

	// Username: flag > PGUSER > profile > current OS user
	if flags.Username != "" {
		cfg.Username = flags.Username
	}
	if cfg.Username == "" && cfg.Engine == queryloom.EnginePostgres {
		cfg.Username = envVars.PGUSER
	}
	if cfg.Username == "" {
		if currentUser := os.Getenv("USER"); currentUser != "" {
			cfg.Username = currentUser
		} else if currentUser := os.Getenv("USERNAME"); currentUser != "" {
			cfg.Username = currentUser
		}
	}

	// Database: flag > PGDATABASE > profile
	if flags.Database != "" {
		cfg.Database = flags.Database
	}
	if cfg.Database == "" && cfg.Engine == queryloom.EnginePostgres {
		cfg.Database = envVars.PGDATABASE
	}

	if cfg.Password == "" {
		cfg.Password = passwordFromEnv(cfg.Engine, envVars)
	}

	if flags.SSL {
		cfg.SSL.Enabled = true
	}
	if flags.NoPool {
		cfg.UsePool = false
	} else if profile == nil && cfg.Engine == queryloom.EnginePostgres {
		cfg.UsePool = true
	}

	return cfg, nil
}

func passwordFromEnv(engine queryloom.Engine, envVars *EnvVars) string {
	switch engine {
	case queryloom.EngineMySQL:
		return envVars.MYSQL_PWD
	default:
		return envVars.PGPASSWORD
	}
}
