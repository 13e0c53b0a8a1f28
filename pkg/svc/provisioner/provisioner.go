// Package provisioner orchestrates the provisioning pipeline: install the
// project package, install the supervisor daemon, deploy the program
// configuration, and reload the supervisor.
//
// Steps run strictly sequentially and the first failure aborts the run. The
// original deployment script continued past failed commands; aborting is the
// deliberate, safer behavior since continuing risks deploying configuration
// for software that was never installed.
package provisioner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	v1alpha1 "github.com/sourceperl/mbservctl/pkg/apis/service/v1alpha1"
	"github.com/sourceperl/mbservctl/pkg/exec"
	"github.com/sourceperl/mbservctl/pkg/svc/deployer"
	"github.com/sourceperl/mbservctl/pkg/svc/installer"
	"github.com/sourceperl/mbservctl/pkg/svc/supervisor"
	"github.com/sourceperl/mbservctl/pkg/ui/notify"
)

// ServiceProvisioner defines the operations for bringing a service under
// supervisor management and removing it again.
type ServiceProvisioner interface {
	// Provision runs the full provisioning pipeline.
	Provision(ctx context.Context) error

	// Teardown removes the deployed configuration and reloads the
	// supervisor so the program leaves management. Installed packages are
	// left in place.
	Teardown(ctx context.Context) error

	// Status reports the supervisor daemon's view of the managed program.
	Status(ctx context.Context) (supervisor.ProgramStatus, error)
}

// DefaultProvisioner wires the concrete installers, deployer, and supervisor
// controller into the pipeline.
type DefaultProvisioner struct {
	config              *v1alpha1.Service
	projectInstaller    installer.Installer
	supervisorInstaller installer.Installer
	confDeployer        *deployer.Deployer
	controller          supervisor.Controller
	writer              io.Writer
}

// step is one fallible pipeline stage. Each failure is wrapped with the
// step's sentinel so the error taxonomy survives all further wrapping.
type step struct {
	name     string
	sentinel error
	run      func(ctx context.Context) error
}

// Provision executes the four provisioning steps in order, aborting on the
// first failure. Each step is bounded by the configured per-step timeout.
func (p *DefaultProvisioner) Provision(ctx context.Context) error {
	steps := []step{
		{
			name:     "install project package",
			sentinel: ErrInstall,
			run:      p.projectInstaller.Install,
		},
		{
			name:     "install supervisor package",
			sentinel: ErrPackageManager,
			run:      p.supervisorInstaller.Install,
		},
		{
			name:     "deploy supervisor configuration",
			sentinel: ErrFileCopy,
			run: func(ctx context.Context) error {
				_, err := p.confDeployer.Deploy(ctx, p.confSourcePath(), p.config.Spec.Supervisor.ConfDir)

				return err
			},
		},
		{
			name:     "reload supervisor",
			sentinel: ErrSupervisorControl,
			run:      p.controller.Update,
		},
	}

	return p.runSteps(ctx, steps)
}

// Teardown removes the deployed configuration and reloads the supervisor.
func (p *DefaultProvisioner) Teardown(ctx context.Context) error {
	steps := []step{
		{
			name:     "remove supervisor configuration",
			sentinel: ErrFileCopy,
			run: func(ctx context.Context) error {
				return p.confDeployer.Remove(ctx, p.deployedConfPath())
			},
		},
		{
			name:     "reload supervisor",
			sentinel: ErrSupervisorControl,
			run:      p.controller.Update,
		},
	}

	return p.runSteps(ctx, steps)
}

// Status queries the supervisor daemon for the managed program's state.
func (p *DefaultProvisioner) Status(ctx context.Context) (supervisor.ProgramStatus, error) {
	stepCtx, cancel := p.stepContext(ctx)
	defer cancel()

	status, err := p.controller.Status(stepCtx, p.config.Metadata.Name)
	if err != nil {
		return supervisor.ProgramStatus{}, fmt.Errorf("%w: %w", ErrSupervisorControl, err)
	}

	return status, nil
}

// runSteps executes steps sequentially with no retry and no recovery: the
// first failing step aborts the run and its error names the step.
func (p *DefaultProvisioner) runSteps(ctx context.Context, steps []step) error {
	for _, current := range steps {
		notify.Activityf(p.writer, "%s", current.name)

		stepCtx, cancel := p.stepContext(ctx)

		err := current.run(stepCtx)

		cancel()

		if err != nil {
			return fmt.Errorf("step %q: %w: %w", current.name, current.sentinel, err)
		}
	}

	return nil
}

func (p *DefaultProvisioner) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := p.config.Spec.Timeout
	if timeout <= 0 {
		timeout = v1alpha1.DefaultStepTimeout
	}

	return context.WithTimeout(ctx, timeout)
}

// confSourcePath resolves the configuration source relative to the project
// dir unless it is absolute.
func (p *DefaultProvisioner) confSourcePath() string {
	source := p.config.Spec.Supervisor.ConfSource
	if filepath.IsAbs(source) {
		return source
	}

	return filepath.Join(p.config.Spec.Project.Dir, source)
}

// deployedConfPath is the destination the deploy step writes to.
func (p *DefaultProvisioner) deployedConfPath() string {
	return filepath.Join(
		p.config.Spec.Supervisor.ConfDir,
		filepath.Base(p.config.Spec.Supervisor.ConfSource),
	)
}

// VerifyElevation checks the privilege-elevation precondition up front so a
// misconfigured host fails before any step runs rather than in the middle of
// the pipeline.
//
// Already-root processes need no elevation. Otherwise the configured
// elevation command must be able to grant rights non-interactively; for sudo
// this is probed with "sudo -n true".
func VerifyElevation(ctx context.Context, runner exec.Runner, elevation []string) error {
	if os.Geteuid() == 0 {
		return nil
	}

	if len(elevation) == 0 {
		return fmt.Errorf("%w: not running as root and no elevation command configured",
			ErrElevationUnavailable)
	}

	args := elevation[1:]
	if filepath.Base(elevation[0]) == "sudo" {
		args = append(append([]string{}, args...), "-n")
	}

	probeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := runner.Run(probeCtx, exec.Spec{Name: elevation[0], Args: append(args, "true")})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrElevationUnavailable, err)
	}

	return nil
}
