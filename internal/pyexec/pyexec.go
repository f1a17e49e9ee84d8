// Package pyexec runs rewritten Python programs in a child interpreter.
package pyexec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// DefaultPython is the interpreter used when none is configured.
const DefaultPython = "python3"

// Runner feeds programs to an interpreter through stdin.
type Runner struct {
	Python string
	// Dir is the working directory of the child; empty means the current one.
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes program and returns the interpreter's exit code. A non-zero
// exit is not an error; failing to start the interpreter, or ctx ending
// first, is.
func (r *Runner) Run(ctx context.Context, program string) (int, error) {
	python := r.Python
	if python == "" {
		python = DefaultPython
	}
	// #nosec G204 -- the interpreter is chosen by the user
	cmd := exec.CommandContext(ctx, python, "-")
	cmd.Dir = r.Dir
	cmd.Stdin = strings.NewReader(program)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, fmt.Errorf("run %s: %w", python, err)
	}
	return 0, nil
}
