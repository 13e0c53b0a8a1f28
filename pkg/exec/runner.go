// Package exec runs external provisioning tools.
//
// Every privileged host mutation performed by the CLI (package installs,
// configuration deployment fallbacks, supervisor control actions) goes
// through a Runner, so command construction, privilege elevation, output
// capture, and error classification live in one place and can be faked in
// tests.
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Spec describes a single external command invocation.
type Spec struct {
	// Name is the binary to invoke.
	Name string
	// Args are the arguments passed to the binary.
	Args []string
	// Dir is the working directory for the invocation. Empty means the
	// current working directory.
	Dir string
	// Elevate requests that the runner's configured privilege-elevation
	// command prefixes the invocation.
	Elevate bool
}

// Result captures the output collected during a command execution. Both
// fields contain the complete output, including output produced before a
// failure.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes external commands while capturing their output.
// Implementations should stream output to the configured writers in
// real-time while also capturing it for programmatic access via Result.
type Runner interface {
	Run(ctx context.Context, spec Spec) (Result, error)
}

// OSRunner executes commands on the host via os/exec.
type OSRunner struct {
	stdout    io.Writer
	stderr    io.Writer
	elevation []string
	logger    logrus.FieldLogger
}

// Option configures an OSRunner.
type Option func(*OSRunner)

// WithElevation sets the privilege-elevation argv prepended to elevated
// invocations (e.g., ["sudo"]). An empty argv disables elevation, which is
// appropriate when the process already runs as root.
func WithElevation(elevation []string) Option {
	return func(r *OSRunner) {
		r.elevation = elevation
	}
}

// WithLogger sets the logger used to record invocations at debug level.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *OSRunner) {
		r.logger = logger
	}
}

// NewOSRunner creates a runner that streams command output to stdout/stderr
// in real-time while also capturing it for the result.
//
// If stdout or stderr are nil, they default to os.Stdout and os.Stderr
// respectively.
func NewOSRunner(stdout, stderr io.Writer, opts ...Option) *OSRunner {
	if stdout == nil {
		stdout = os.Stdout
	}

	if stderr == nil {
		stderr = os.Stderr
	}

	runner := &OSRunner{
		stdout: stdout,
		stderr: stderr,
		logger: logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(runner)
	}

	return runner
}

// Elevation returns the configured privilege-elevation argv.
func (r *OSRunner) Elevation() []string {
	return r.elevation
}

// Run executes the command described by spec.
//
// Output streams are wired through io.MultiWriter so output is displayed as
// the tool produces it while remaining available in the returned Result.
// A non-zero exit or a missing binary is returned as a *RunError carrying the
// exit code and captured stderr.
func (r *OSRunner) Run(ctx context.Context, spec Spec) (Result, error) {
	argv := r.buildArgv(spec)

	r.logger.WithFields(logrus.Fields{
		"command": strings.Join(argv, " "),
		"dir":     spec.Dir,
	}).Debug("running external command")

	var outBuf, errBuf bytes.Buffer

	//nolint:gosec // argv is assembled from operator-provided configuration
	cmd := osexec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = spec.Dir
	cmd.Stdout = io.MultiWriter(&outBuf, r.stdout)
	cmd.Stderr = io.MultiWriter(&errBuf, r.stderr)

	runErr := cmd.Run()

	result := Result{
		Stdout: outBuf.String(),
		Stderr: errBuf.String(),
	}

	if runErr == nil {
		return result, nil
	}

	// Prefer the context error so cancellations and timeouts surface as such.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("command %q interrupted: %w", argv[0], ctxErr)
	}

	var exitErr *osexec.ExitError
	if errors.As(runErr, &exitErr) {
		result.ExitCode = exitErr.ExitCode()

		return result, &RunError{
			Command:  strings.Join(argv, " "),
			ExitCode: exitErr.ExitCode(),
			Stderr:   strings.TrimSpace(result.Stderr),
			cause:    runErr,
		}
	}

	return result, &RunError{
		Command: strings.Join(argv, " "),
		Stderr:  strings.TrimSpace(result.Stderr),
		cause:   runErr,
	}
}

// buildArgv assembles the full argv, prepending the elevation command when
// requested and configured.
func (r *OSRunner) buildArgv(spec Spec) []string {
	argv := make([]string, 0, len(r.elevation)+1+len(spec.Args))

	if spec.Elevate && len(r.elevation) > 0 {
		argv = append(argv, r.elevation...)
	}

	argv = append(argv, spec.Name)
	argv = append(argv, spec.Args...)

	return argv
}
