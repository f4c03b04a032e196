package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"syscall"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestConnectErrorClassifier_PgErrorClasses(t *testing.T) {
	classifier := NewConnectErrorClassifier()

	tests := []struct {
		name      string
		code      string
		transient bool
	}{
		{"connection exception", "08006", true},
		{"connection does not exist", "08003", true},
		{"insufficient resources", "53300", true},
		{"disk full", "53100", true},
		{"operator intervention", "57P03", true},
		{"invalid password", "28P01", false},
		{"invalid catalog name", "3D000", false},
		{"syntax error", "42601", false},
		{"undefined table", "42P01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &pgconn.PgError{Code: tt.code, Message: tt.name}
			if got := classifier.IsTransient(err); got != tt.transient {
				t.Errorf("IsTransient(SQLSTATE %s) = %v, want %v", tt.code, got, tt.transient)
			}
		})
	}
}

func TestConnectErrorClassifier_ContextErrorsAreFatal(t *testing.T) {
	classifier := NewConnectErrorClassifier()

	if classifier.IsTransient(context.Canceled) {
		t.Error("context.Canceled must not be retried")
	}
	if classifier.IsTransient(context.DeadlineExceeded) {
		t.Error("context.DeadlineExceeded must not be retried")
	}
	if classifier.IsTransient(fmt.Errorf("connect: %w", context.Canceled)) {
		t.Error("wrapped cancellation must not be retried")
	}
}

func TestConnectErrorClassifier_NetworkErrors(t *testing.T) {
	classifier := NewConnectErrorClassifier()

	for _, err := range []error{
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.EPIPE,
		io.EOF,
		fmt.Errorf("dial: %w", syscall.ECONNREFUSED),
	} {
		if !classifier.IsTransient(err) {
			t.Errorf("IsTransient(%v) = false, want true", err)
		}
	}
}

func TestConnectErrorClassifier_MessageFallback(t *testing.T) {
	classifier := NewConnectErrorClassifier()

	tests := []struct {
		msg       string
		transient bool
	}{
		{"dial tcp: connection refused", true},
		{"read tcp: connection reset by peer", true},
		{"write: broken pipe", true},
		{"dial tcp: i/o timeout", true},
		{"Error 1040: Too many connections", true},
		{"FATAL: the database system is starting up", true},
		{"FATAL: password authentication failed", false},
		{"some unrelated failure", false},
	}

	for _, tt := range tests {
		if got := classifier.IsTransient(errors.New(tt.msg)); got != tt.transient {
			t.Errorf("IsTransient(%q) = %v, want %v", tt.msg, got, tt.transient)
		}
	}
}

func TestConnectErrorClassifier_Nil(t *testing.T) {
	if NewConnectErrorClassifier().IsTransient(nil) {
		t.Error("nil error is never transient")
	}
}
