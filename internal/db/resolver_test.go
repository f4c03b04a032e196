package db

import (
	"errors"
	"testing"

	"github.com/queryloom/queryloom/pkg/queryloom"
)

func TestResolveConnectionParams_ConflictingInputs(t *testing.T) {
	_, err := ResolveConnectionParams(
		"postgresql://alice@localhost/app",
		&GranularConnFlags{Host: "otherhost"},
		&EnvVars{},
		nil,
	)
	if !errors.Is(err, queryloom.ErrInvalidConfig) {
		t.Errorf("combining --connection with granular flags must fail, got %v", err)
	}
}

func TestResolveConnectionParams_ConnectionString(t *testing.T) {
	cfg, err := ResolveConnectionParams(
		"postgresql://alice@db.example.com:5433/app",
		nil,
		&EnvVars{PGPASSWORD: "envpw"},
		nil,
	)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Host != "db.example.com" || cfg.Port != "5433" || cfg.Username != "alice" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Password != "envpw" {
		t.Errorf("URL without password should fall back to PGPASSWORD, got %q", cfg.Password)
	}
}

func TestResolveConnectionParams_DatabaseFlagOverridesURL(t *testing.T) {
	cfg, err := ResolveConnectionParams(
		"postgresql://alice@localhost/app",
		&GranularConnFlags{Database: "analytics"},
		&EnvVars{},
		nil,
	)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Database != "analytics" {
		t.Errorf("Database = %q, want analytics", cfg.Database)
	}
}

func TestResolveConnectionParams_DatabaseURLFallback(t *testing.T) {
	cfg, err := ResolveConnectionParams(
		"",
		&GranularConnFlags{},
		&EnvVars{DATABASE_URL: "postgresql://alice:pw@db.example.com/app"},
		nil,
	)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Host != "db.example.com" || cfg.Password != "pw" {
		t.Errorf("DATABASE_URL not honored: %+v", cfg)
	}
}

func TestResolveConnectionParams_GranularFlagsBeatEnv(t *testing.T) {
	cfg, err := ResolveConnectionParams(
		"",
		&GranularConnFlags{Host: "flaghost", Port: 5433, Username: "flaguser", Database: "flagdb"},
		&EnvVars{PGHOST: "envhost", PGPORT: "5999", PGUSER: "envuser", PGDATABASE: "envdb"},
		nil,
	)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Host != "flaghost" || cfg.Port != "5433" || cfg.Username != "flaguser" || cfg.Database != "flagdb" {
		t.Errorf("flags must win over environment: %+v", cfg)
	}
}

func TestResolveConnectionParams_EnvBeatsProfile(t *testing.T) {
	profile := &queryloom.ConnectionConfig{
		Engine: queryloom.EnginePostgres, Host: "profilehost",
		Database: "profiledb", Username: "profileuser",
	}

	cfg, err := ResolveConnectionParams(
		"",
		&GranularConnFlags{Host: "flaghost"},
		&EnvVars{PGPASSWORD: "envpw"},
		profile,
	)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Host != "flaghost" {
		t.Errorf("Host = %q", cfg.Host)
	}
	// Fields the flags leave alone come from the profile.
	if cfg.Database != "profiledb" || cfg.Username != "profileuser" {
		t.Errorf("profile fields lost: %+v", cfg)
	}
	if cfg.Password != "envpw" {
		t.Errorf("Password = %q", cfg.Password)
	}
}

func TestResolveConnectionParams_Defaults(t *testing.T) {
	t.Setenv("USER", "osuser")

	cfg, err := ResolveConnectionParams("", &GranularConnFlags{}, &EnvVars{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine != queryloom.EnginePostgres {
		t.Errorf("default engine = %q", cfg.Engine)
	}
	if cfg.Host != "localhost" {
		t.Errorf("default host = %q", cfg.Host)
	}
	if cfg.Username != "osuser" {
		t.Errorf("default user = %q", cfg.Username)
	}
	if !cfg.UsePool {
		t.Error("fresh postgres configs default to pooling")
	}
}

func TestResolveConnectionParams_NoPoolFlag(t *testing.T) {
	cfg, err := ResolveConnectionParams("", &GranularConnFlags{Host: "localhost", NoPool: true}, &EnvVars{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UsePool {
		t.Error("--no-pool must disable pooling")
	}
}

func TestResolveConnectionParams_MySQLIgnoresPGEnv(t *testing.T) {
	cfg, err := ResolveConnectionParams(
		"",
		&GranularConnFlags{Engine: "mysql", Host: "localhost", Username: "root", Database: "shop"},
		&EnvVars{PGPASSWORD: "pgpw", MYSQL_PWD: "mypw", PGDATABASE: "pgdb"},
		nil,
	)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine != queryloom.EngineMySQL {
		t.Errorf("Engine = %q", cfg.Engine)
	}
	if cfg.Password != "mypw" {
		t.Errorf("mysql should read MYSQL_PWD, got %q", cfg.Password)
	}
	if cfg.Database != "shop" {
		t.Errorf("Database = %q", cfg.Database)
	}
	if cfg.UsePool {
		t.Error("mysql configs never default to pooling")
	}
}

func TestResolveConnectionParams_InvalidPGPORT(t *testing.T) {
	_, err := ResolveConnectionParams(
		"",
		&GranularConnFlags{Host: "localhost"},
		&EnvVars{PGPORT: "not-a-port"},
		nil,
	)
	if !errors.Is(err, queryloom.ErrInvalidConfig) {
		t.Errorf("invalid $PGPORT must be rejected, got %v", err)
	}
}

func TestGranularConnFlags_IsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		flags *GranularConnFlags
		want  bool
	}{
		{"nil", nil, true},
		{"zero", &GranularConnFlags{}, true},
		{"database only is still empty", &GranularConnFlags{Database: "app"}, true},
		{"host set", &GranularConnFlags{Host: "h"}, false},
		{"port set", &GranularConnFlags{Port: 5432}, false},
		{"user set", &GranularConnFlags{Username: "u"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.flags.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}
