// Package apt installs system packages via the host's package manager.
package apt

import (
	"context"
	"errors"
	"fmt"

	"github.com/sourceperl/mbservctl/pkg/exec"
)

// ErrEmptyPackageManagerCommand is returned when no package-manager argv is
// configured.
var ErrEmptyPackageManagerCommand = errors.New("package manager command is empty")

// ErrEmptyPackageName is returned when no package name is configured.
var ErrEmptyPackageName = errors.New("package name is empty")

// Installer installs a named system package non-interactively
// (e.g., "apt-get install -y supervisor").
type Installer struct {
	runner      exec.Runner
	command     []string
	packageName string
}

// NewInstaller creates a system package installer. command is the
// package-manager argv up to and including the install action and its
// non-interactive flags; the package name is appended on invocation.
func NewInstaller(runner exec.Runner, command []string, packageName string) *Installer {
	return &Installer{
		runner:      runner,
		command:     command,
		packageName: packageName,
	}
}

// Install installs the package with privilege elevation.
func (i *Installer) Install(ctx context.Context) error {
	err := i.validate()
	if err != nil {
		return err
	}

	_, err = i.runner.Run(ctx, exec.Spec{
		Name:    i.command[0],
		Args:    append(append([]string{}, i.command[1:]...), i.packageName),
		Elevate: true,
	})
	if err != nil {
		return fmt.Errorf("failed to install package %q: %w", i.packageName, err)
	}

	return nil
}

// Uninstall removes the package with privilege elevation, using the package
// manager's remove action in place of the configured install action.
func (i *Installer) Uninstall(ctx context.Context) error {
	err := i.validate()
	if err != nil {
		return err
	}

	_, err = i.runner.Run(ctx, exec.Spec{
		Name:    i.command[0],
		Args:    []string{"remove", "-y", i.packageName},
		Elevate: true,
	})
	if err != nil {
		return fmt.Errorf("failed to remove package %q: %w", i.packageName, err)
	}

	return nil
}

func (i *Installer) validate() error {
	if len(i.command) == 0 {
		return ErrEmptyPackageManagerCommand
	}

	if i.packageName == "" {
		return ErrEmptyPackageName
	}

	return nil
}
