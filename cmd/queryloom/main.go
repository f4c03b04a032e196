package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/queryloom/queryloom/internal/cli"
	"github.com/queryloom/queryloom/pkg/queryloom"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(queryloom.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(queryloom.ExitCodeForError(err))
	}
}
