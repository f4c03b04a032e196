package db

import (
	"fmt"

	"github.com/queryloom/queryloom/internal/logging"
	"github.com/queryloom/queryloom/pkg/queryloom"
)

// NewAdapter selects and constructs the engine adapter for a config.
//
// Pure dispatch on cfg.Engine: it validates the config and builds the
// adapter, but never opens a network connection. An unrecognized engine is a
// caller-configuration error and is not retried.
func NewAdapter(cfg *queryloom.ConnectionConfig, logger queryloom.Logger) (queryloom.Adapter, error) {
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Engine {
	case queryloom.EnginePostgres:
		return NewPostgresAdapter(cfg, logger)
	case queryloom.EngineMySQL:
		return NewMySQLAdapter(cfg, logger)
	default:
		// Validate rejects unknown engines; this guards direct construction.
		return nil, fmt.Errorf("engine %q is not supported: %w", cfg.Engine, queryloom.ErrUnsupportedEngine)
	}
}
