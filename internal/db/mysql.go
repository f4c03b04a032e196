package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/queryloom/queryloom/internal/logging"
	"github.com/queryloom/queryloom/internal/schema"
	"github.com/queryloom/queryloom/pkg/queryloom"
)

const mysqlCatalogQuery = `
	SELECT table_schema, table_name, column_name, data_type, is_nullable, column_default
	FROM INFORMATION_SCHEMA.COLUMNS
	WHERE table_schema = ?
	ORDER BY table_schema, table_name, ordinal_position
`

// MySQLAdapter implements the Adapter contract over the MySQL wire protocol.
//
// Unlike the Postgres adapter there is no pooling and no managed-hosting
// special-casing: every operation opens a fresh connection and closes it on
// every exit path, success or failure.
type MySQLAdapter struct {
	cfg    queryloom.ConnectionConfig // immutable snapshot
	dsn    string
	logger queryloom.Logger

	// opener overrides connection establishment in tests.
	opener func(ctx context.Context) (*sql.DB, error)
}

// NewMySQLAdapter builds an adapter for a validated config. No network I/O
// happens here.
func NewMySQLAdapter(cfg *queryloom.ConnectionConfig, logger queryloom.Logger) (*MySQLAdapter, error) {
	port, err := cfg.PortNumber()
	if err != nil {
		return nil, err
	}

	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, port)
	mc.DBName = cfg.Database
	mc.Timeout = queryloom.DefaultConnectTimeout
	mc.ReadTimeout = queryloom.DefaultConnectTimeout
	mc.WriteTimeout = queryloom.DefaultConnectTimeout
	mc.ParseTime = true
	if cfg.SSL.Enabled {
		if cfg.SSL.RejectUnauthorized {
			mc.TLSConfig = "true"
		} else {
			mc.TLSConfig = "skip-verify"
		}
	}

	return &MySQLAdapter{
		cfg:    *cfg,
		dsn:    mc.FormatDSN(),
		logger: logger,
	}, nil
}

// open establishes and verifies one connection handle. Callers must close it.
func (a *MySQLAdapter) open(ctx context.Context) (*sql.DB, error) {
	if a.opener != nil {
		return a.opener(ctx)
	}
	handle, err := sql.Open("mysql", a.dsn)
	if err != nil {
		return nil, err
	}
	if err := handle.PingContext(ctx); err != nil {
		handle.Close()
		return nil, err
	}
	return handle, nil
}

// TestConnection issues a trivial round-trip query. All failures convert to
// false; the cause is logged with an engine-specific hint.
func (a *MySQLAdapter) TestConnection(ctx context.Context) bool {
	handle, err := a.open(ctx)
	if err != nil {
		a.logger.Error("connection test failed for %s: %v", logging.DescribeConfig(&a.cfg), wrapConnectError(err, &a.cfg))
		return false
	}
	defer handle.Close()

	var one int
	if err := handle.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		a.logger.Error("connection test failed for %s: %v", logging.DescribeConfig(&a.cfg), wrapConnectError(err, &a.cfg))
		return false
	}
	return true
}

// ExecuteQuery runs the statement verbatim. Modifications go through Exec so
// affected-row metadata is available; reads go through Query with column
// names taken from field metadata, which works even for empty result sets.
func (a *MySQLAdapter) ExecuteQuery(ctx context.Context, sqlText string) *queryloom.QueryResult {
	result := &queryloom.QueryResult{Columns: []string{}, Rows: []map[string]any{}}

	handle, err := a.open(ctx)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer handle.Close()

	if IsModification(sqlText) {
		res, err := handle.ExecContext(ctx, sqlText)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		affected, err := res.RowsAffected()
		if err == nil {
			result.AffectedRows = &affected
		}
		return result
	}

	rows, err := handle.QueryContext(ctx, sqlText)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Columns = columns

	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			result.Error = err.Error()
			result.Columns = []string{}
			result.Rows = []map[string]any{}
			return result
		}
		row := make(map[string]any, len(columns))
		for i, name := range columns {
			row[name] = normalizeValue(values[i])
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		result.Error = err.Error()
		result.Columns = []string{}
		result.Rows = []map[string]any{}
	}

	return result
}

// FetchSchema introspects INFORMATION_SCHEMA.COLUMNS for the configured
// database and renders the shared schema text.
func (a *MySQLAdapter) FetchSchema(ctx context.Context) queryloom.SchemaResult {
	handle, err := a.open(ctx)
	if err != nil {
		a.logger.Error("schema fetch failed for %s: %v", logging.DescribeConfig(&a.cfg), wrapConnectError(err, &a.cfg))
		return queryloom.SchemaResult{Error: err.Error()}
	}
	defer handle.Close()

	rows, err := handle.QueryContext(ctx, mysqlCatalogQuery, a.cfg.Database)
	if err != nil {
		return queryloom.SchemaResult{Error: err.Error()}
	}
	defer rows.Close()

	var catalogRows []schema.Row
	for rows.Next() {
		var (
			schemaName, tableName, columnName, dataType, nullable string
			columnDefault                                         sql.NullString
		)
		if err := rows.Scan(&schemaName, &tableName, &columnName, &dataType, &nullable, &columnDefault); err != nil {
			return queryloom.SchemaResult{Error: err.Error()}
		}
		catalogRows = append(catalogRows, schema.Row{
			Schema:   schemaName,
			Table:    tableName,
			Column:   columnName,
			DataType: dataType,
			Nullable: nullable == "YES",
			Default:  columnDefault.String,
		})
	}
	if err := rows.Err(); err != nil {
		return queryloom.SchemaResult{Error: err.Error()}
	}

	return queryloom.SchemaResult{Schema: schema.Render(schema.Fold(catalogRows))}
}

// Close is a no-op: connections are opened and closed per operation.
func (a *MySQLAdapter) Close(ctx context.Context) error {
	return nil
}

// normalizeValue converts driver byte slices to strings so results stay
// JSON-friendly.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

var _ queryloom.Adapter = (*MySQLAdapter)(nil)
