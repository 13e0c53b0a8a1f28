package exec

import (
	"fmt"
	"strings"
)

// RunError describes a failed external command invocation.
type RunError struct {
	// Command is the full command line that was executed.
	Command string
	// ExitCode is the command's exit code, or zero when the command could
	// not be started at all (e.g., binary not found).
	ExitCode int
	// Stderr is the trimmed stderr output captured during execution.
	Stderr string

	cause error
}

// Error implements the error interface.
func (e *RunError) Error() string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "command %q failed", e.Command)

	if e.ExitCode != 0 {
		fmt.Fprintf(&builder, " with exit code %d", e.ExitCode)
	} else if e.cause != nil {
		fmt.Fprintf(&builder, ": %v", e.cause)
	}

	if e.Stderr != "" {
		fmt.Fprintf(&builder, ": %s", e.Stderr)
	}

	return builder.String()
}

// Unwrap exposes the underlying cause for errors.Is/errors.As consumers.
func (e *RunError) Unwrap() error {
	return e.cause
}
