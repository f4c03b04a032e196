package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/queryloom/queryloom/internal/logging"
	"github.com/queryloom/queryloom/pkg/queryloom"
)

func marshalRequest(t *testing.T, req Request) []byte {
	t.Helper()
	payload, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	return payload
}

func TestHandler_Handle_UnknownOperation(t *testing.T) {
	h := NewHandler(logging.NewNullLogger())

	_, err := h.Handle(context.Background(), "dropEverything", []byte(`{}`))
	if err == nil {
		t.Fatal("expected an error for an unknown operation")
	}
	if !strings.Contains(err.Error(), "unknown operation") {
		t.Errorf("error = %v", err)
	}
}

func TestHandler_Handle_MalformedPayload(t *testing.T) {
	h := NewHandler(logging.NewNullLogger())

	_, err := h.Handle(context.Background(), OpTestConnection, []byte(`{broken`))
	if err == nil {
		t.Fatal("expected a decode error")
	}
	if !strings.Contains(err.Error(), "decode request") {
		t.Errorf("error = %v", err)
	}
}

func TestHandler_Handle_InvalidConfigSurfacesAsError(t *testing.T) {
	h := NewHandler(logging.NewNullLogger())

	payload := marshalRequest(t, Request{
		Config: queryloom.ConnectionConfig{Engine: "oracle", Host: "localhost"},
	})

	for _, op := range []string{OpTestConnection, OpExecuteQuery, OpFetchSchema} {
		_, err := h.Handle(context.Background(), op, payload)
		if !errors.Is(err, queryloom.ErrUnsupportedEngine) {
			t.Errorf("%s: expected ErrUnsupportedEngine, got %v", op, err)
		}
	}
}

func TestHandler_ExecuteQuery_OperationFailureStaysInsideResult(t *testing.T) {
	h := NewHandler(logging.NewNullLogger())

	// A well-formed config pointing at a closed port: construction succeeds,
	// the operation fails, and the failure lands inside the result.
	cfg := queryloom.ConnectionConfig{
		Engine: queryloom.EngineMySQL, Host: "127.0.0.1", Port: "1",
		Database: "none", Username: "nobody",
	}

	result, err := h.ExecuteQuery(context.Background(), &cfg, "SELECT 1")
	if err != nil {
		t.Fatalf("operation failures must not surface as errors, got %v", err)
	}
	if result.Error == "" {
		t.Error("expected the connection failure inside the result")
	}
	if result.Columns == nil || result.Rows == nil {
		t.Error("error results still carry empty, non-nil columns and rows")
	}
}

func TestHandler_Handle_ExecuteQueryEncodesResult(t *testing.T) {
	h := NewHandler(logging.NewNullLogger())

	payload := marshalRequest(t, Request{
		Config: queryloom.ConnectionConfig{
			Engine: queryloom.EngineMySQL, Host: "127.0.0.1", Port: "1",
			Database: "none", Username: "nobody",
		},
		SQL: "SELECT 1",
	})

	encoded, err := h.Handle(context.Background(), OpExecuteQuery, payload)
	if err != nil {
		t.Fatal(err)
	}

	var result queryloom.QueryResult
	if err := json.Unmarshal(encoded, &result); err != nil {
		t.Fatalf("response is not a QueryResult: %v", err)
	}
	if result.Error == "" {
		t.Error("expected the failure encoded in the result")
	}
}
