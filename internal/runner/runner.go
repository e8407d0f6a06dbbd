// Package runner delivers a normalized suite document to the external
// state-test runner process.
package runner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "runner")

// ExitError reports a runner process that started but exited non-zero.
type ExitError struct {
	Program  string
	ExitCode int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Program, e.ExitCode)
}

// Runner invokes the external state-test runner. The document is handed
// over through a uuid-named temporary file opened on the runner's stdin;
// the file is removed once the runner exits.
type Runner struct {
	Program string
	Args    []string

	// Dir overrides the temporary directory. Empty means os.TempDir().
	Dir string

	// Stdout and Stderr receive the runner's output streams. Nil writers
	// discard.
	Stdout io.Writer
	Stderr io.Writer
}

// New creates a runner for the given program invocation.
func New(program string, args ...string) *Runner {
	return &Runner{Program: program, Args: args}
}

// Run blocks until the runner exits. The runner's exit status is the final
// success/failure signal of the pipeline: a non-zero status is returned as
// an *ExitError, any other failure to start or hand off as a plain error.
func (r *Runner) Run(doc []byte) error {
	dir := r.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "ethstm-"+uuid.NewString()+".json")
	if err := os.WriteFile(path, doc, 0o600); err != nil {
		return fmt.Errorf("writing handoff file: %w", err)
	}
	defer os.Remove(path)

	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening handoff file: %w", err)
	}
	defer in.Close()

	log.Debugf("running %s with suite %s", r.Program, path)

	cmd := exec.Command(r.Program, r.Args...)
	cmd.Stdin = in
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Program: r.Program, ExitCode: exitErr.ExitCode()}
		}
		return fmt.Errorf("starting %s: %w", r.Program, err)
	}
	return nil
}
