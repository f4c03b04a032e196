package db

import (
	"testing"

	"github.com/queryloom/queryloom/pkg/queryloom"
)

func TestResolveSupabase_TransactionPooler(t *testing.T) {
	cfg := ResolveSupabase("MyProj", "pw", true, PoolerModeTransaction, "us-east-1")

	if cfg.Host != "aws-0-us-east-1.pooler.supabase.com" {
		t.Errorf("Host = %q", cfg.Host)
	}
	if cfg.Port != "6543" {
		t.Errorf("Port = %q, want 6543", cfg.Port)
	}
	if cfg.Username != "postgres.myproj" {
		t.Errorf("Username = %q, want postgres.myproj", cfg.Username)
	}
	if cfg.Database != "postgres" {
		t.Errorf("Database = %q, want postgres", cfg.Database)
	}
	if cfg.Engine != queryloom.EnginePostgres {
		t.Errorf("Engine = %q", cfg.Engine)
	}
	if !cfg.SSL.Enabled {
		t.Error("SSL must be enabled for Supabase connections")
	}
	if cfg.Password != "pw" {
		t.Errorf("Password = %q", cfg.Password)
	}
}

func TestResolveSupabase_DirectConnection(t *testing.T) {
	cfg := ResolveSupabase("MyProj", "pw", false, PoolerModeSession, "eu-central-1")

	if cfg.Host != "db.myproj.supabase.co" {
		t.Errorf("Host = %q", cfg.Host)
	}
	if cfg.Port != "5432" {
		t.Errorf("Port = %q, want 5432", cfg.Port)
	}
	if cfg.Username != "postgres" {
		t.Errorf("Username = %q, want postgres", cfg.Username)
	}
	if cfg.Database != "postgres" {
		t.Errorf("Database = %q, want postgres", cfg.Database)
	}
	if !cfg.SSL.Enabled {
		t.Error("SSL must be enabled for Supabase connections")
	}
}

func TestResolveSupabase_SessionPoolerUsesStandardPort(t *testing.T) {
	cfg := ResolveSupabase("myproj", "pw", true, PoolerModeSession, "us-east-1")
	if cfg.Port != "5432" {
		t.Errorf("session pooler Port = %q, want 5432", cfg.Port)
	}
	if cfg.Username != "postgres.myproj" {
		t.Errorf("Username = %q", cfg.Username)
	}
}

func TestResolveSupabase_ResultIsManagedHost(t *testing.T) {
	for _, pooled := range []bool{true, false} {
		cfg := ResolveSupabase("myproj", "pw", pooled, PoolerModeTransaction, "us-east-1")
		if !IsManagedHost(cfg.Host) {
			t.Errorf("resolved host %q should match the managed allow-list", cfg.Host)
		}
	}
}

func TestValidateSupabase(t *testing.T) {
	tests := []struct {
		name         string
		ref          string
		usePooler    bool
		poolerMode   string
		region       string
		wantWarnings int
	}{
		{"valid direct", "myproj", false, "", "", 0},
		{"valid pooler", "myproj", true, PoolerModeTransaction, "us-east-1", 0},
		{"empty ref", "", false, "", "", 1},
		{"suspicious ref", "my_proj!", false, "", "", 1},
		{"pooler missing region", "myproj", true, PoolerModeSession, "", 1},
		{"pooler bad region", "myproj", true, PoolerModeSession, "nowhere", 1},
		{"pooler bad mode", "myproj", true, "turbo", "us-east-1", 1},
		{"everything wrong", "", true, "turbo", "", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := ValidateSupabase(tt.ref, tt.usePooler, tt.poolerMode, tt.region)
			if len(warnings) != tt.wantWarnings {
				t.Errorf("got %d warnings %v, want %d", len(warnings), warnings, tt.wantWarnings)
			}
		})
	}
}
