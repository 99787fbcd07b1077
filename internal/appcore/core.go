// Package appcore holds the plumbing shared by the hitac tools: reporting,
// exit codes, loading inputs and featurizing them.
package appcore

import (
	"context"
	"fmt"
	"io"

	goerrors "github.com/go-errors/errors"
	"github.com/pkg/errors"

	"hitac/internal/cli"
	"hitac/internal/cmdutil"
	"hitac/internal/writers"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitRuntime  = 3
	ExitCanceled = 130
)

// Env is where a tool run reports to.
type Env struct {
	Stdout, Stderr io.Writer

	Quiet    bool
	Verbose  bool
	Progress bool
}

// NewEnv takes the reporting switches from the shared options.
func NewEnv(stdout, stderr io.Writer, c cli.Common) Env {
	return Env{Stdout: stdout, Stderr: stderr, Quiet: c.Quiet, Verbose: c.Verbose, Progress: c.Progress}
}

func (e Env) Infof(format string, a ...any) { cmdutil.Infof(e.Stderr, e.Quiet, format, a...) }
func (e Env) Warnf(format string, a ...any) { cmdutil.Warnf(e.Stderr, e.Quiet, format, a...) }

// Usagef reports an invalid option combination found after parsing.
func (e Env) Usagef(format string, a ...any) int {
	_, _ = fmt.Fprintf(e.Stderr, "error: "+format+"\n", a...)
	return ExitUsage
}

// Fail reports err and returns the exit code for it. Cancellation maps to
// 130 and a closed stdout to success.
func (e Env) Fail(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitCanceled
	case writers.IsBrokenPipe(err):
		return ExitOK
	}
	_, _ = fmt.Fprintf(e.Stderr, "error: %v\n", err)
	var ge *goerrors.Error
	if e.Verbose && errors.As(err, &ge) {
		_, _ = io.WriteString(e.Stderr, ge.ErrorStack())
	}
	return ExitRuntime
}

// ParseArgs runs cli.Parse. ok is false when the tool should exit with code.
func ParseArgs(name string, argv []string, dest any, stdout, stderr io.Writer) (code int, ok bool) {
	oc, err := cli.Parse(name, argv, dest, stdout, stderr)
	switch oc {
	case cli.Done:
		if err != nil && !writers.IsBrokenPipe(err) {
			_, _ = fmt.Fprintln(stderr, err)
			return ExitRuntime, false
		}
		return ExitOK, false
	case cli.Usage:
		return ExitUsage, false
	}
	return ExitOK, true
}
