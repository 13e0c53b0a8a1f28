// Package pip installs the local project into the host's language runtime
// via its packaging tool.
package pip

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sourceperl/mbservctl/pkg/exec"
)

// ErrDescriptorNotFound is returned when the project's package descriptor is
// missing from the project dir.
var ErrDescriptorNotFound = errors.New("project package descriptor not found")

// ErrEmptyInstallerCommand is returned when no packaging-tool argv is
// configured.
var ErrEmptyInstallerCommand = errors.New("packaging tool command is empty")

// ErrUninstallUnsupported is returned when uninstalling the project package
// is requested. The configured argv only describes the install action.
var ErrUninstallUnsupported = errors.New("project package uninstall is not supported")

// Installer installs a local project using its packaging tool
// (e.g., "pip3 install ." against a setup.py project).
type Installer struct {
	runner     exec.Runner
	projectDir string
	descriptor string
	command    []string
}

// NewInstaller creates a project installer.
//
// command is the packaging-tool argv executed inside projectDir; descriptor
// is the package descriptor file checked before invoking the tool.
func NewInstaller(runner exec.Runner, projectDir, descriptor string, command []string) *Installer {
	return &Installer{
		runner:     runner,
		projectDir: projectDir,
		descriptor: descriptor,
		command:    command,
	}
}

// Install runs the packaging tool's install action against the local project.
// The invocation is elevated since the package is installed system-wide.
func (i *Installer) Install(ctx context.Context) error {
	if len(i.command) == 0 {
		return ErrEmptyInstallerCommand
	}

	descriptorPath := filepath.Join(i.projectDir, i.descriptor)

	_, err := os.Stat(descriptorPath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrDescriptorNotFound, descriptorPath)
	}

	_, err = i.runner.Run(ctx, exec.Spec{
		Name:    i.command[0],
		Args:    i.command[1:],
		Dir:     i.projectDir,
		Elevate: true,
	})
	if err != nil {
		return fmt.Errorf("failed to install project package: %w", err)
	}

	return nil
}

// Uninstall reports that uninstalling is unsupported. Teardown intentionally
// leaves installed packages in place.
func (i *Installer) Uninstall(_ context.Context) error {
	return ErrUninstallUnsupported
}
