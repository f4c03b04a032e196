// Package bridge exposes the adapter operations through an opaque
// request/response boundary: named operations with JSON-serializable inputs
// and outputs. The transport carrying the requests (IPC, HTTP, stdio) is out
// of scope; anything that can deliver bytes can front this handler.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/queryloom/queryloom/internal/db"
	"github.com/queryloom/queryloom/pkg/queryloom"
)

// Operation names understood by the handler.
const (
	OpTestConnection = "testConnection"
	OpExecuteQuery   = "executeQuery"
	OpFetchSchema    = "fetchSchema"
)

// Request is the uniform input envelope: a full connection config plus, for
// executeQuery, the statement to run.
type Request struct {
	Config queryloom.ConnectionConfig `json:"config"`
	SQL    string                     `json:"sql,omitempty"`
}

// Handler dispatches bridge operations onto freshly constructed adapters.
// Stateless and safe for concurrent use; each call owns its adapter for the
// duration of one operation.
type Handler struct {
	logger queryloom.Logger
}

// NewHandler creates a Handler that logs through the given logger.
func NewHandler(logger queryloom.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle decodes the payload, runs the named operation and returns its
// JSON-encoded result. Configuration errors surface as errors; operation
// failures surface inside the encoded result, matching the adapter contract.
func (h *Handler) Handle(ctx context.Context, operation string, payload []byte) ([]byte, error) {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}

	switch operation {
	case OpTestConnection:
		ok, err := h.TestConnection(ctx, &req.Config)
		if err != nil {
			return nil, err
		}
		return json.Marshal(ok)
	case OpExecuteQuery:
		result, err := h.ExecuteQuery(ctx, &req.Config, req.SQL)
		if err != nil {
			return nil, err
		}
		return json.Marshal(result)
	case OpFetchSchema:
		result, err := h.FetchSchema(ctx, &req.Config)
		if err != nil {
			return nil, err
		}
		return json.Marshal(result)
	default:
		return nil, fmt.Errorf("unknown operation %q", operation)
	}
}

// TestConnection builds an adapter for the config and runs a round-trip test.
func (h *Handler) TestConnection(ctx context.Context, cfg *queryloom.ConnectionConfig) (bool, error) {
	adapter, err := db.NewAdapter(cfg, h.logger)
	if err != nil {
		return false, err
	}
	defer adapter.Close(ctx)
	return adapter.TestConnection(ctx), nil
}

// ExecuteQuery builds an adapter for the config and runs the statement.
func (h *Handler) ExecuteQuery(ctx context.Context, cfg *queryloom.ConnectionConfig, sql string) (*queryloom.QueryResult, error) {
	adapter, err := db.NewAdapter(cfg, h.logger)
	if err != nil {
		return nil, err
	}
	defer adapter.Close(ctx)
	return adapter.ExecuteQuery(ctx, sql), nil
}

// FetchSchema builds an adapter for the config and fetches the rendered
// schema text.
func (h *Handler) FetchSchema(ctx context.Context, cfg *queryloom.ConnectionConfig) (queryloom.SchemaResult, error) {
	adapter, err := db.NewAdapter(cfg, h.logger)
	if err != nil {
		return queryloom.SchemaResult{}, err
	}
	defer adapter.Close(ctx)
	return adapter.FetchSchema(ctx), nil
}
