package cmd_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samber/do/v2"
	"github.com/sourceperl/mbservctl/pkg/cli/cmd"
	"github.com/sourceperl/mbservctl/pkg/di"
	"github.com/sourceperl/mbservctl/pkg/exec"
	"github.com/sourceperl/mbservctl/pkg/svc/provisioner"
	"github.com/sourceperl/mbservctl/pkg/ui/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeRuntime builds a runtime whose runner factory always returns the
// provided fake so command tests never spawn real processes.
func newFakeRuntime(runner *exec.FakeRunner) *di.Runtime {
	return di.New(func(injector di.Injector) error {
		do.Provide(injector, func(di.Injector) (timer.Timer, error) {
			return timer.New(), nil
		})
		do.Provide(injector, func(di.Injector) (exec.RunnerFactory, error) {
			factory := func(_, _ io.Writer, _ []string) exec.Runner {
				return runner
			}

			return factory, nil
		})
		do.Provide(injector, func(di.Injector) (provisioner.Factory, error) {
			return provisioner.DefaultFactory{}, nil
		})

		return nil
	})
}

// writeProjectFixture lays out a project directory with a package descriptor
// and a supervisor program stanza, plus a writable drop-in directory.
func writeProjectFixture(t *testing.T) (string, string) {
	t.Helper()

	projectDir := t.TempDir()
	confDir := t.TempDir()

	err := os.WriteFile(filepath.Join(projectDir, "setup.py"), []byte("from setuptools import setup\n"), 0o644)
	require.NoError(t, err)

	confSource := filepath.Join(projectDir, "etc", "supervisor", "conf.d")
	require.NoError(t, os.MkdirAll(confSource, 0o755))

	err = os.WriteFile(
		filepath.Join(confSource, "pymbserver.conf"),
		[]byte("[program:pymbserver]\ncommand=pymbserver\n"),
		0o644,
	)
	require.NoError(t, err)

	return projectDir, confDir
}

// runLifecycleCommand executes the named subcommand against a fixture project
// with the fake runner wired in.
func runLifecycleCommand(
	t *testing.T,
	runner *exec.FakeRunner,
	name string,
) (string, string, error) {
	t.Helper()

	projectDir, confDir := writeProjectFixture(t)

	var out bytes.Buffer

	root := cmd.NewRootCmdWithRuntime(newFakeRuntime(runner), "test", "test", "test")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{name, "--project-dir", projectDir, "--conf-dir", confDir})

	err := root.Execute()

	return out.String(), confDir, err
}

// externalCommandLines filters out the elevation probe so assertions hold
// whether or not the test process runs as root.
func externalCommandLines(runner *exec.FakeRunner) []string {
	lines := make([]string, 0, len(runner.CommandLines()))

	for _, line := range runner.CommandLines() {
		if strings.HasPrefix(line, "sudo ") {
			continue
		}

		lines = append(lines, line)
	}

	return lines
}

func TestProvisionRunsPipelineInOrder(t *testing.T) {
	t.Parallel()

	runner := exec.NewFakeRunner()

	out, confDir, err := runLifecycleCommand(t, runner, "provision")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"pip3 install .",
		"apt-get install -y supervisor",
		"supervisorctl update",
	}, externalCommandLines(runner))

	deployed, err := os.ReadFile(filepath.Join(confDir, "pymbserver.conf"))
	require.NoError(t, err)
	assert.Contains(t, string(deployed), "[program:pymbserver]")

	assert.Contains(t, out, "service provisioned")
}

func TestProvisionAbortsWhenProjectInstallFails(t *testing.T) {
	t.Parallel()

	runner := exec.NewFakeRunner()
	runner.Script("pip3", exec.FakeResponse{
		Result: fakeResult(1, "", "no matching distribution"),
		Err:    errRootTest,
	})

	out, _, err := runLifecycleCommand(t, runner, "provision")
	require.Error(t, err)
	require.ErrorIs(t, err, provisioner.ErrInstall)

	for _, line := range externalCommandLines(runner) {
		assert.NotContains(t, line, "apt-get")
		assert.NotContains(t, line, "supervisorctl")
	}

	assert.NotContains(t, out, "service provisioned")
}

func TestProvisionAbortsWhenPackageManagerFails(t *testing.T) {
	t.Parallel()

	runner := exec.NewFakeRunner()
	runner.Script("apt-get", exec.FakeResponse{
		Result: fakeResult(100, "", "unable to locate package"),
		Err:    errRootTest,
	})

	_, _, err := runLifecycleCommand(t, runner, "provision")
	require.Error(t, err)
	require.ErrorIs(t, err, provisioner.ErrPackageManager)

	for _, line := range externalCommandLines(runner) {
		assert.NotContains(t, line, "supervisorctl")
	}
}

func TestProvisionAbortsWhenSupervisorReloadFails(t *testing.T) {
	t.Parallel()

	runner := exec.NewFakeRunner()
	runner.Script("supervisorctl update", exec.FakeResponse{
		Result: fakeResult(2, "", "refused connection"),
		Err:    errRootTest,
	})

	_, _, err := runLifecycleCommand(t, runner, "provision")
	require.Error(t, err)
	require.ErrorIs(t, err, provisioner.ErrSupervisorControl)
}

func TestTeardownRemovesConfigurationAndReloads(t *testing.T) {
	t.Parallel()

	runner := exec.NewFakeRunner()

	projectDir, confDir := writeProjectFixture(t)
	deployedPath := filepath.Join(confDir, "pymbserver.conf")
	require.NoError(t, os.WriteFile(deployedPath, []byte("[program:pymbserver]\n"), 0o644))

	var out bytes.Buffer

	root := cmd.NewRootCmdWithRuntime(newFakeRuntime(runner), "test", "test", "test")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"teardown", "--project-dir", projectDir, "--conf-dir", confDir})

	require.NoError(t, root.Execute())

	assert.NoFileExists(t, deployedPath)
	assert.Equal(t, []string{"supervisorctl update"}, externalCommandLines(runner))
	assert.Contains(t, out.String(), "service torn down")
}

func TestStatusReportsRunningProgram(t *testing.T) {
	t.Parallel()

	runner := exec.NewFakeRunner()
	runner.Script("supervisorctl status pymbserver", exec.FakeResponse{
		Result: fakeResult(0, "pymbserver    RUNNING   pid 1234, uptime 0:05:01\n", ""),
	})

	out, _, err := runLifecycleCommand(t, runner, "status")
	require.NoError(t, err)

	assert.Contains(t, out, "RUNNING")
	assert.Contains(t, out, "pid 1234")
}

func TestStatusWarnsWhenProgramStopped(t *testing.T) {
	t.Parallel()

	runner := exec.NewFakeRunner()
	runner.Script("supervisorctl status pymbserver", exec.FakeResponse{
		Result: fakeResult(0, "pymbserver    STOPPED   Not started\n", ""),
	})

	out, _, err := runLifecycleCommand(t, runner, "status")
	require.NoError(t, err)

	assert.Contains(t, out, "STOPPED")
}

func TestStatusFailsForUnknownProgram(t *testing.T) {
	t.Parallel()

	runner := exec.NewFakeRunner()
	runner.Script("supervisorctl status pymbserver", exec.FakeResponse{
		Result: fakeResult(0, "pymbserver: ERROR (no such process)\n", ""),
	})

	_, _, err := runLifecycleCommand(t, runner, "status")
	require.Error(t, err)
	require.ErrorIs(t, err, provisioner.ErrSupervisorControl)
}

// fakeResult is a shorthand constructor for scripted results.
func fakeResult(exitCode int, stdout, stderr string) exec.Result {
	return exec.Result{Stdout: stdout, Stderr: stderr, ExitCode: exitCode}
}
