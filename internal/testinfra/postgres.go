// Package testinfra starts throwaway database containers for integration
// tests. Tests that cannot reach Docker skip instead of failing.
package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/queryloom/queryloom/pkg/queryloom"
)

const (
	PostgresImage    = "postgres:17-alpine"
	PostgresUser     = "postgres"
	PostgresPassword = "postgres"
	PostgresDB       = "postgres"
)

// PostgresContainer wraps a running container together with the fields an
// adapter needs to reach it.
type PostgresContainer struct {
	*postgres.PostgresContainer
	Host string
	Port string
}

// StartPostgres runs a disposable Postgres container and waits until it
// accepts connections.
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	ctr, err := postgres.Run(ctx,
		PostgresImage,
		postgres.WithUsername(PostgresUser),
		postgres.WithPassword(PostgresPassword),
		postgres.WithDatabase(PostgresDB),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("resolve container host: %w", err)
	}
	mapped, err := ctr.MappedPort(ctx, "5432/tcp")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("resolve mapped port: %w", err)
	}

	return &PostgresContainer{
		PostgresContainer: ctr,
		Host:              host,
		Port:              mapped.Port(),
	}, nil
}

// Config returns a connection config pointing at the container.
func (c *PostgresContainer) Config() *queryloom.ConnectionConfig {
	return &queryloom.ConnectionConfig{
		Engine:   queryloom.EnginePostgres,
		Host:     c.Host,
		Port:     c.Port,
		Database: PostgresDB,
		Username: PostgresUser,
		Password: PostgresPassword,
		UsePool:  true,
	}
}
