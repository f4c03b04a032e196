package queryloom

import "context"

// Adapter is the uniform contract every engine implementation satisfies.
//
// Operations never propagate engine-client errors past this boundary:
// TestConnection reports failures as false, ExecuteQuery and FetchSchema
// report them in the result's Error field. Implementations must release
// their connection or pool lease on every exit path.
type Adapter interface {
	// TestConnection issues a trivial round-trip query and reports whether
	// it succeeded. Never returns an error; causes are logged.
	TestConnection(ctx context.Context) bool

	// ExecuteQuery runs the statement verbatim. The caller supplies a
	// complete statement; there is no parameter binding layer.
	ExecuteQuery(ctx context.Context, sql string) *QueryResult

	// FetchSchema introspects the catalog and renders the schema text
	// consumed by the schema viewer and the AI prompt builder.
	FetchSchema(ctx context.Context) SchemaResult

	// Close releases the adapter's pool or connection resources.
	Close(ctx context.Context) error
}
