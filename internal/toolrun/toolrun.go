// Package toolrun wraps one external linter or formatter as a subprocess.
// Adapters receive an already-resolved file list; glob expansion and
// exclusion policy happen upstream in the runner.
package toolrun

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/repolint/repolint/internal/errs"
)

// Output is the raw result of one tool invocation. A nonzero exit code is
// not an error: most linters exit nonzero on findings. Only a missing
// binary or a cancelled context surfaces as an error.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Adapter describes one external tool invocation. CheckArgs run in
// read-only mode; FixArgs, when non-nil, describe the separately-invoked
// fix operation. The two are never combined in one run.
type Adapter struct {
	Tool        string // normalized tool name, e.g. "ruff"
	Binary      string // executable looked up in PATH
	CheckArgs   []string
	FixArgs     []string
	InstallHint string
	PassFiles   bool     // append the resolved file list to the argument vector
	FileJoin    string   // when set, files become one argument joined by this separator
	TrailArgs   []string // arguments placed after the file list
}

// FixCapable reports whether the adapter has a distinct fix operation.
func (a Adapter) FixCapable() bool { return a.FixArgs != nil }

// Available reports whether the tool binary resolves in PATH.
func (a Adapter) Available() bool {
	_, err := exec.LookPath(a.Binary)
	return err == nil
}

// Check runs the tool in read-only mode against the given files.
func (a Adapter) Check(ctx context.Context, dir string, files []string) (Output, error) {
	return a.run(ctx, dir, a.CheckArgs, files)
}

// Fix runs the tool's auto-fix operation. Callers must hold this apart
// from any concurrent Check over the same files.
func (a Adapter) Fix(ctx context.Context, dir string, files []string) (Output, error) {
	if !a.FixCapable() {
		return Output{}, errors.New(a.Tool + " has no fix operation")
	}
	return a.run(ctx, dir, a.FixArgs, files)
}

func (a Adapter) run(ctx context.Context, dir string, args, files []string) (Output, error) {
	argv := make([]string, 0, len(args)+len(files))
	argv = append(argv, args...)
	if a.PassFiles {
		if a.FileJoin != "" {
			argv = append(argv, strings.Join(files, a.FileJoin))
		} else {
			argv = append(argv, files...)
		}
	}
	argv = append(argv, a.TrailArgs...)

	cmd := exec.CommandContext(ctx, a.Binary, argv...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	out := Output{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			// findings, not failure
			out.ExitCode = exitErr.ExitCode()
		case errors.Is(err, exec.ErrNotFound):
			return out, &errs.MissingToolError{Tool: a.Tool, Hint: a.InstallHint}
		case ctx.Err() != nil:
			return out, ctx.Err()
		default:
			return out, err
		}
	}
	return out, nil
}
