// Package deployer places supervisor program configuration into the
// supervisor daemon's drop-in directory.
package deployer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sourceperl/mbservctl/pkg/exec"
	"github.com/sourceperl/mbservctl/pkg/fsutil"
)

// ErrSourceNotFound is returned when the configuration file to deploy does
// not exist.
var ErrSourceNotFound = errors.New("configuration source file not found")

// Deployer copies configuration files into privileged directories,
// falling back to an elevated copy when a direct write is denied.
type Deployer struct {
	runner exec.Runner
}

// NewDeployer creates a configuration deployer.
func NewDeployer(runner exec.Runner) *Deployer {
	return &Deployer{runner: runner}
}

// Deploy copies source into confDir, overwriting any existing file with the
// same base name, and returns the destination path.
//
// The copy is attempted directly first so unprivileged destinations (tests,
// containers running as root) need no elevation; a permission failure falls
// back to an elevated install(1) invocation preserving byte-for-byte content.
func (d *Deployer) Deploy(ctx context.Context, source, confDir string) (string, error) {
	_, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrSourceNotFound, source)
		}

		return "", fmt.Errorf("failed to stat configuration source %s: %w", source, err)
	}

	destination := filepath.Join(confDir, filepath.Base(source))

	copyErr := fsutil.CopyFile(source, destination)
	if copyErr == nil {
		return destination, nil
	}

	if !errors.Is(copyErr, os.ErrPermission) {
		return "", copyErr
	}

	_, err = d.runner.Run(ctx, exec.Spec{
		Name:    "install",
		Args:    []string{"-m", "644", source, destination},
		Elevate: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to deploy configuration to %s: %w", destination, err)
	}

	return destination, nil
}

// Remove deletes the deployed configuration file. A missing file is not an
// error so teardown stays idempotent; a permission failure falls back to an
// elevated removal.
func (d *Deployer) Remove(ctx context.Context, destination string) error {
	removeErr := os.Remove(destination)
	if removeErr == nil || errors.Is(removeErr, os.ErrNotExist) {
		return nil
	}

	if !errors.Is(removeErr, os.ErrPermission) {
		return fmt.Errorf("failed to remove configuration %s: %w", destination, removeErr)
	}

	_, err := d.runner.Run(ctx, exec.Spec{
		Name:    "rm",
		Args:    []string{"-f", destination},
		Elevate: true,
	})
	if err != nil {
		return fmt.Errorf("failed to remove configuration %s: %w", destination, err)
	}

	return nil
}
