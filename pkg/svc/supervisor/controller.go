// Package supervisor drives the supervisor daemon's control interface.
//
// The daemon's own reload algorithm (diffing configuration, starting and
// stopping managed programs) is an external collaborator; this package only
// invokes the control command and interprets its output.
package supervisor

import (
	"context"
	"errors"
	"fmt"

	"github.com/sourceperl/mbservctl/pkg/exec"
)

// ErrProgramNotFound is returned when the supervisor daemon has no program
// registered under the requested name.
var ErrProgramNotFound = errors.New("program not registered with supervisor")

// Controller defines the supervisor control actions used during
// provisioning.
type Controller interface {
	// Update makes the daemon re-scan its configuration directory and
	// reconcile managed programs accordingly.
	Update(ctx context.Context) error

	// Status reports the state of the named managed program.
	Status(ctx context.Context, program string) (ProgramStatus, error)
}

// CtlController drives supervisord through its supervisorctl control
// command.
type CtlController struct {
	runner  exec.Runner
	command string
}

// NewCtlController creates a controller using the given control binary
// (normally "supervisorctl").
func NewCtlController(runner exec.Runner, command string) *CtlController {
	return &CtlController{runner: runner, command: command}
}

// Update issues the control interface's update action with privilege
// elevation. Failure means the daemon is not running or its control socket is
// unreachable.
func (c *CtlController) Update(ctx context.Context) error {
	_, err := c.runner.Run(ctx, exec.Spec{
		Name:    c.command,
		Args:    []string{"update"},
		Elevate: true,
	})
	if err != nil {
		return fmt.Errorf("supervisor update failed: %w", err)
	}

	return nil
}

// Status queries the state of a managed program.
//
// supervisorctl exits non-zero when the program is not in the RUNNING state,
// so a RunError with parseable output is still a successful query; only an
// unparseable reply or an unreachable daemon is an error.
func (c *CtlController) Status(ctx context.Context, program string) (ProgramStatus, error) {
	result, err := c.runner.Run(ctx, exec.Spec{
		Name:    c.command,
		Args:    []string{"status", program},
		Elevate: true,
	})

	if err != nil {
		var runErr *exec.RunError
		if !errors.As(err, &runErr) || result.Stdout == "" {
			return ProgramStatus{}, fmt.Errorf("supervisor status query failed: %w", err)
		}
	}

	status, parseErr := ParseStatus(result.Stdout, program)
	if parseErr != nil {
		return ProgramStatus{}, parseErr
	}

	return status, nil
}
