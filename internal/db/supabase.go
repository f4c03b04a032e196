package db

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/queryloom/queryloom/pkg/queryloom"
)

// Supabase pooler modes.
const (
	PoolerModeSession     = "session"
	PoolerModeTransaction = "transaction"
)

var (
	supabaseRefPattern    = regexp.MustCompile(`^[a-z][a-z0-9]*$`)
	supabaseRegionPattern = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-\d$`)
)

// ResolveSupabase derives concrete connection fields from a Supabase project
// reference and pooling mode. Purely deterministic string construction; it
// never touches the network.
//
// Direct connections target db.<ref>.supabase.co:5432 as user "postgres".
// Pooled connections target aws-0-<region>.pooler.supabase.com as user
// "postgres.<ref>", port 5432 in session mode or 6543 in transaction mode.
// The database is always "postgres" and SSL is always on.
func ResolveSupabase(projectRef, password string, usePooler bool, poolerMode, region string) *queryloom.ConnectionConfig {
	ref := strings.ToLower(strings.TrimSpace(projectRef))

	cfg := &queryloom.ConnectionConfig{
		Engine:   queryloom.EnginePostgres,
		Database: "postgres",
		Password: password,
		SSL:      queryloom.SSLConfig{Enabled: true},
		UsePool:  true,
	}

	if usePooler {
		cfg.Host = fmt.Sprintf("aws-0-%s.pooler.supabase.com", region)
		cfg.Username = "postgres." + ref
		if poolerMode == PoolerModeTransaction {
			cfg.Port = fmt.Sprintf("%d", queryloom.TransactionPoolerPort)
		} else {
			cfg.Port = fmt.Sprintf("%d", queryloom.DefaultPostgresPort)
		}
	} else {
		cfg.Host = fmt.Sprintf("db.%s.supabase.co", ref)
		cfg.Port = fmt.Sprintf("%d", queryloom.DefaultPostgresPort)
		cfg.Username = "postgres"
	}

	return cfg
}

// ValidateSupabase runs advisory checks on a resolved config and returns
// human-readable warnings. Warnings never block saving or using a profile.
func ValidateSupabase(projectRef string, usePooler bool, poolerMode, region string) []string {
	var warnings []string

	ref := strings.ToLower(strings.TrimSpace(projectRef))
	if ref == "" {
		warnings = append(warnings, "project ref is empty")
	} else if !supabaseRefPattern.MatchString(ref) {
		warnings = append(warnings, fmt.Sprintf("project ref %q does not look like a Supabase project reference", ref))
	}

	if usePooler {
		if region == "" {
			warnings = append(warnings, "pooler connections require a region (e.g. us-east-1)")
		} else if !supabaseRegionPattern.MatchString(region) {
			warnings = append(warnings, fmt.Sprintf("region %q does not look like a provider region", region))
		}
		if poolerMode != PoolerModeSession && poolerMode != PoolerModeTransaction {
			warnings = append(warnings, fmt.Sprintf("pooler mode %q is not %q or %q", poolerMode, PoolerModeSession, PoolerModeTransaction))
		}
	}

	return warnings
}
