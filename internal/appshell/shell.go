// Package appshell is the process entry point shared by the hitac binaries.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"hitac/internal/appcore"
)

// RunFunc is a tool's RunContext.
type RunFunc func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// Main runs a tool with a context canceled on SIGINT/SIGTERM and exits with
// its code. No arguments prints help.
func Main(run RunFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	argv := os.Args[1:]
	if len(argv) == 0 {
		argv = []string{"-h"}
	}

	code := run(ctx, argv, os.Stdout, os.Stderr)
	if ctx.Err() != nil && code == appcore.ExitOK {
		code = appcore.ExitCanceled
	}

	stop()
	os.Exit(code)
}
