package db

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/queryloom/queryloom/internal/logging"
	"github.com/queryloom/queryloom/internal/retry"
	"github.com/queryloom/queryloom/internal/schema"
	"github.com/queryloom/queryloom/pkg/queryloom"
)

// Pool sizing for pooled adapters. Small: a desktop session runs a handful of
// concurrent operations at most.
const (
	pgPoolMaxConns = 5
	pgPoolMinConns = 1
)

const pgCatalogQuery = `
	SELECT table_schema, table_name, column_name, data_type, is_nullable, column_default
	FROM information_schema.columns
	WHERE table_schema NOT IN ('pg_catalog', 'information_schema')
	ORDER BY table_schema, table_name, ordinal_position
`

// connForm selects which of the two equivalent connection configurations to
// build: the single connection-string form or the structured-options form.
type connForm int

const (
	formURL connForm = iota
	formFields
)

// PostgresAdapter implements the Adapter contract over the Postgres wire
// protocol, including managed-hosting quirks: forced relaxed SSL, pasted
// password percent-decoding, and statement-cache disabling behind a
// transaction pooler.
//
// With UsePool set, the adapter owns a lazily created pgxpool.Pool that must
// be drained with Close when the adapter is discarded. Without it, every
// operation opens and closes its own connection.
type PostgresAdapter struct {
	cfg     queryloom.ConnectionConfig // immutable snapshot
	port    int
	managed bool
	pooler  bool
	logger  queryloom.Logger
	retrier *retry.Executor

	mu   sync.Mutex
	pool *pgxpool.Pool
}

// NewPostgresAdapter builds an adapter for a validated config. No network
// I/O happens here; the first operation connects.
func NewPostgresAdapter(cfg *queryloom.ConnectionConfig, logger queryloom.Logger) (*PostgresAdapter, error) {
	port, err := cfg.PortNumber()
	if err != nil {
		return nil, err
	}

	a := &PostgresAdapter{
		cfg:     *cfg,
		port:    port,
		managed: IsManagedHost(cfg.Host),
		pooler:  IsPoolerPort(port),
		logger:  logger,
		retrier: retry.NewExecutor(
			retry.NewConnectErrorClassifier(),
			retry.NewExponentialBackoff(queryloom.DefaultRetryMaxAttempts,
				retry.WithInitialDelay(queryloom.DefaultRetryInitialDelay),
				retry.WithMaxDelay(queryloom.DefaultRetryMaxDelay),
			),
		),
	}

	if a.managed {
		// Managed providers present certificates that fail default chain
		// validation; failing closed would make the primary target host
		// category unusable. Deliberate trust trade-off.
		a.cfg.SSL = queryloom.SSLConfig{Enabled: true, RejectUnauthorized: false}
		a.cfg.Password = normalizePassword(a.cfg.Password, logger)
		logger.Verbose("managed host detected for %s, forcing relaxed SSL", logging.DescribeConfig(&a.cfg))
	}
	if a.pooler {
		logger.Verbose("transaction pooler port %d configured, statement caching disabled", port)
	}

	return a, nil
}

// Managed reports whether the host matched the managed-hosting allow-list.
func (a *PostgresAdapter) Managed() bool { return a.managed }

// StatementCacheDisabled reports whether prepared-statement caching is off
// for this adapter (transaction-pooler mode).
func (a *PostgresAdapter) StatementCacheDisabled() bool { return a.pooler }

// SSL returns the effective SSL settings after managed-hosting promotion.
func (a *PostgresAdapter) SSL() queryloom.SSLConfig { return a.cfg.SSL }

// connConfig builds one of the two equivalent configuration forms.
func (a *PostgresAdapter) connConfig(form connForm) (*pgxpool.Config, error) {
	var (
		pc  *pgxpool.Config
		err error
	)

	switch form {
	case formURL:
		pc, err = pgxpool.ParseConfig(buildPostgresURL(&a.cfg, a.port))
		if err != nil {
			return nil, fmt.Errorf("parse connection URL: %w", err)
		}
	default:
		pc, err = pgxpool.ParseConfig("")
		if err != nil {
			return nil, fmt.Errorf("parse connection options: %w", err)
		}
		pc.ConnConfig.Host = a.cfg.Host
		pc.ConnConfig.Port = uint16(a.port)
		pc.ConnConfig.Database = a.cfg.Database
		pc.ConnConfig.User = a.cfg.Username
		pc.ConnConfig.Password = a.cfg.Password
		if a.cfg.SSL.Enabled {
			pc.ConnConfig.TLSConfig = &tls.Config{
				ServerName:         a.cfg.Host,
				InsecureSkipVerify: !a.cfg.SSL.RejectUnauthorized,
			}
		} else {
			pc.ConnConfig.TLSConfig = nil
		}
	}

	pc.ConnConfig.ConnectTimeout = queryloom.DefaultConnectTimeout
	pc.MaxConns = pgPoolMaxConns
	pc.MinConns = pgPoolMinConns
	pc.MaxConnIdleTime = queryloom.DefaultIdleTimeout

	if a.pooler {
		// Prepared statements are unsafe across pooled, multiplexed backend
		// connections.
		pc.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
		pc.ConnConfig.StatementCacheCapacity = 0
		pc.ConnConfig.DescriptionCacheCapacity = 0
	}

	return pc, nil
}

// forms returns the construction order: managed hosts lead with the
// connection-string form, standard hosts with the structured form. The
// second form is always attempted before any error surfaces.
func (a *PostgresAdapter) forms() [2]connForm {
	if a.managed {
		return [2]connForm{formURL, formFields}
	}
	return [2]connForm{formFields, formURL}
}

// getPool returns the shared pool, creating it on first use.
func (a *PostgresAdapter) getPool(ctx context.Context) (*pgxpool.Pool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pool != nil {
		return a.pool, nil
	}

	var pool *pgxpool.Pool
	err := a.retrier.Execute(ctx, func(ctx context.Context) error {
		var connectErr error
		pool, connectErr = a.openPool(ctx)
		return connectErr
	})
	if err != nil {
		return nil, err
	}

	a.pool = pool
	return pool, nil
}

// openPool tries both configuration forms before surfacing an error.
func (a *PostgresAdapter) openPool(ctx context.Context) (*pgxpool.Pool, error) {
	forms := a.forms()

	pool, primaryErr := a.openPoolForm(ctx, forms[0])
	if primaryErr == nil {
		return pool, nil
	}

	a.logger.Verbose("primary connection form failed (%v), trying fallback form", primaryErr)
	pool, fallbackErr := a.openPoolForm(ctx, forms[1])
	if fallbackErr == nil {
		return pool, nil
	}

	return nil, wrapConnectError(primaryErr, &a.cfg)
}

func (a *PostgresAdapter) openPoolForm(ctx context.Context, form connForm) (*pgxpool.Pool, error) {
	pc, err := a.connConfig(form)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// openConn opens a single short-lived connection for non-pooled mode,
// with the same two-form strategy.
func (a *PostgresAdapter) openConn(ctx context.Context) (*pgx.Conn, error) {
	forms := a.forms()

	conn, primaryErr := a.openConnForm(ctx, forms[0])
	if primaryErr == nil {
		return conn, nil
	}

	a.logger.Verbose("primary connection form failed (%v), trying fallback form", primaryErr)
	conn, fallbackErr := a.openConnForm(ctx, forms[1])
	if fallbackErr == nil {
		return conn, nil
	}

	return nil, wrapConnectError(primaryErr, &a.cfg)
}

func (a *PostgresAdapter) openConnForm(ctx context.Context, form connForm) (*pgx.Conn, error) {
	pc, err := a.connConfig(form)
	if err != nil {
		return nil, err
	}
	return pgx.ConnectConfig(ctx, pc.ConnConfig)
}

// pgQuerier is the operation surface shared by *pgxpool.Pool and *pgx.Conn.
type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// withQuerier runs fn against a pool lease or a dedicated connection,
// releasing the resource on every exit path.
func (a *PostgresAdapter) withQuerier(ctx context.Context, fn func(pgQuerier) error) error {
	if a.cfg.UsePool {
		pool, err := a.getPool(ctx)
		if err != nil {
			return err
		}
		return fn(pool)
	}

	conn, err := a.openConn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	return fn(conn)
}

// TestConnection issues a trivial round-trip query. All failures convert to
// false; the cause is logged with an engine-specific hint.
func (a *PostgresAdapter) TestConnection(ctx context.Context) bool {
	err := a.withQuerier(ctx, func(q pgQuerier) error {
		rows, err := q.Query(ctx, "SELECT 1")
		if err != nil {
			return err
		}
		rows.Close()
		return rows.Err()
	})
	if err != nil {
		a.logger.Error("connection test failed for %s: %v", logging.DescribeConfig(&a.cfg), wrapConnectError(err, &a.cfg))
		return false
	}
	return true
}

// ExecuteQuery runs the statement verbatim and converts the outcome to the
// uniform QueryResult shape. Errors never propagate past this boundary.
func (a *PostgresAdapter) ExecuteQuery(ctx context.Context, sqlText string) *queryloom.QueryResult {
	result := &queryloom.QueryResult{Columns: []string{}, Rows: []map[string]any{}}

	err := a.withQuerier(ctx, func(q pgQuerier) error {
		rows, err := q.Query(ctx, sqlText)
		if err != nil {
			return err
		}
		defer rows.Close()

		fields := rows.FieldDescriptions()
		for rows.Next() {
			values, err := rows.Values()
			if err != nil {
				return err
			}
			row := make(map[string]any, len(values))
			for i, v := range values {
				row[fields[i].Name] = v
			}
			result.Rows = append(result.Rows, row)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		if len(result.Rows) > 0 {
			// Column list follows the shape of returned rows; empty result
			// sets report no columns on this engine.
			result.Columns = make([]string, len(fields))
			for i, f := range fields {
				result.Columns[i] = f.Name
			}
		} else if IsModification(sqlText) {
			affected := rows.CommandTag().RowsAffected()
			result.AffectedRows = &affected
		}
		return nil
	})
	if err != nil {
		a.logger.Verbose("query failed on %s: %v", logging.DescribeConfig(&a.cfg), err)
		return &queryloom.QueryResult{
			Columns: []string{},
			Rows:    []map[string]any{},
			Error:   err.Error(),
		}
	}

	return result
}

// FetchSchema introspects all non-system schemas and renders the shared
// schema text. Catalog failures return an error result, never partial text.
func (a *PostgresAdapter) FetchSchema(ctx context.Context) queryloom.SchemaResult {
	var catalogRows []schema.Row

	err := a.withQuerier(ctx, func(q pgQuerier) error {
		rows, err := q.Query(ctx, pgCatalogQuery)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				schemaName, tableName, columnName, dataType, nullable string
				columnDefault                                         *string
			)
			if err := rows.Scan(&schemaName, &tableName, &columnName, &dataType, &nullable, &columnDefault); err != nil {
				return err
			}
			r := schema.Row{
				Schema:   schemaName,
				Table:    tableName,
				Column:   columnName,
				DataType: dataType,
				Nullable: nullable == "YES",
			}
			if columnDefault != nil {
				r.Default = *columnDefault
			}
			catalogRows = append(catalogRows, r)
		}
		return rows.Err()
	})
	if err != nil {
		a.logger.Error("schema fetch failed for %s: %v", logging.DescribeConfig(&a.cfg), wrapConnectError(err, &a.cfg))
		return queryloom.SchemaResult{Error: err.Error()}
	}

	return queryloom.SchemaResult{Schema: schema.Render(schema.Fold(catalogRows))}
}

// Close drains the pool if one was created. Safe to call multiple times.
func (a *PostgresAdapter) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
	return nil
}

var _ queryloom.Adapter = (*PostgresAdapter)(nil)
