package provisioner_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	v1alpha1 "github.com/sourceperl/mbservctl/pkg/apis/service/v1alpha1"
	"github.com/sourceperl/mbservctl/pkg/exec"
	"github.com/sourceperl/mbservctl/pkg/svc/provisioner"
	"github.com/sourceperl/mbservctl/pkg/svc/supervisor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const confContent = "[program:pymbserver]\ncommand=pymbserver\nautostart=true\nautorestart=true\n"

// newTestService builds a config rooted in a temp project dir with a valid
// descriptor and conf source, deploying into a writable temp conf dir.
func newTestService(t *testing.T) *v1alpha1.Service {
	t.Helper()

	projectDir := t.TempDir()
	confDir := t.TempDir()

	require.NoError(t, os.WriteFile(
		filepath.Join(projectDir, "setup.py"),
		[]byte("from setuptools import setup"),
		0o644,
	))

	sourceDir := filepath.Join(projectDir, "etc", "supervisor", "conf.d")
	require.NoError(t, os.MkdirAll(sourceDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(sourceDir, "pymbserver.conf"),
		[]byte(confContent),
		0o644,
	))

	config := v1alpha1.NewService()
	config.Spec.Project.Dir = projectDir
	config.Spec.Supervisor.ConfDir = confDir

	return config
}

func newProvisioner(
	config *v1alpha1.Service,
	fake *exec.FakeRunner,
) provisioner.ServiceProvisioner {
	return provisioner.DefaultFactory{}.Create(config, fake, &bytes.Buffer{})
}

func TestProvisionRunsStepsInOrder(t *testing.T) {
	t.Parallel()

	config := newTestService(t)
	fake := exec.NewFakeRunner()

	err := newProvisioner(config, fake).Provision(context.Background())
	require.NoError(t, err)

	// The deploy step writes directly when the destination is writable, so
	// only the three tool invocations reach the runner.
	assert.Equal(t, []string{
		"pip3 install .",
		"apt-get install -y supervisor",
		"supervisorctl update",
	}, fake.CommandLines())

	data, err := os.ReadFile(filepath.Join(config.Spec.Supervisor.ConfDir, "pymbserver.conf"))
	require.NoError(t, err)
	assert.Equal(t, confContent, string(data), "deployed conf must match the source byte-for-byte")
}

func TestProvisionTwiceIsIdempotent(t *testing.T) {
	t.Parallel()

	config := newTestService(t)
	fake := exec.NewFakeRunner()
	svc := newProvisioner(config, fake)

	require.NoError(t, svc.Provision(context.Background()))

	firstRun, err := os.ReadFile(filepath.Join(config.Spec.Supervisor.ConfDir, "pymbserver.conf"))
	require.NoError(t, err)

	require.NoError(t, svc.Provision(context.Background()))

	secondRun, err := os.ReadFile(filepath.Join(config.Spec.Supervisor.ConfDir, "pymbserver.conf"))
	require.NoError(t, err)

	assert.Equal(t, firstRun, secondRun, "double provision must end in the same state")
	assert.Len(t, fake.CommandLines(), 6, "each run issues the same three tool invocations")
}

func TestProvisionAbortsOnInstallFailure(t *testing.T) {
	t.Parallel()

	config := newTestService(t)
	fake := exec.NewFakeRunner()
	fake.Script("pip3", exec.FakeResponse{
		Err: &exec.RunError{Command: "pip3 install .", ExitCode: 1},
	})

	err := newProvisioner(config, fake).Provision(context.Background())

	require.ErrorIs(t, err, provisioner.ErrInstall)
	assert.Contains(t, err.Error(), "install project package")
	assert.Equal(t, []string{"pip3 install ."}, fake.CommandLines(),
		"no later step may run after a failure")
}

func TestProvisionAbortsOnPackageManagerFailure(t *testing.T) {
	t.Parallel()

	config := newTestService(t)
	fake := exec.NewFakeRunner()
	fake.Script("apt-get", exec.FakeResponse{
		Err: &exec.RunError{Command: "apt-get install -y supervisor", ExitCode: 100},
	})

	err := newProvisioner(config, fake).Provision(context.Background())

	require.ErrorIs(t, err, provisioner.ErrPackageManager)
	assert.Equal(t, []string{
		"pip3 install .",
		"apt-get install -y supervisor",
	}, fake.CommandLines())

	assert.NoFileExists(t,
		filepath.Join(config.Spec.Supervisor.ConfDir, "pymbserver.conf"),
		"configuration must not be deployed after an aborted install")
}

func TestProvisionMissingConfSource(t *testing.T) {
	t.Parallel()

	config := newTestService(t)
	require.NoError(t, os.Remove(
		filepath.Join(config.Spec.Project.Dir, "etc", "supervisor", "conf.d", "pymbserver.conf"),
	))

	fake := exec.NewFakeRunner()

	err := newProvisioner(config, fake).Provision(context.Background())

	require.ErrorIs(t, err, provisioner.ErrFileCopy)
	assert.NotContains(t, fake.CommandLines(), "supervisorctl update",
		"reload must not run after a failed deploy")
}

func TestProvisionSupervisorControlFailure(t *testing.T) {
	t.Parallel()

	config := newTestService(t)
	fake := exec.NewFakeRunner()
	fake.Script("supervisorctl update", exec.FakeResponse{
		Err: &exec.RunError{Command: "supervisorctl update", ExitCode: 2},
	})

	err := newProvisioner(config, fake).Provision(context.Background())

	require.ErrorIs(t, err, provisioner.ErrSupervisorControl)
	assert.Contains(t, err.Error(), "reload supervisor")
}

func TestTeardownRemovesConfAndReloads(t *testing.T) {
	t.Parallel()

	config := newTestService(t)
	fake := exec.NewFakeRunner()
	svc := newProvisioner(config, fake)

	require.NoError(t, svc.Provision(context.Background()))
	require.NoError(t, svc.Teardown(context.Background()))

	assert.NoFileExists(t, filepath.Join(config.Spec.Supervisor.ConfDir, "pymbserver.conf"))

	lines := fake.CommandLines()
	assert.Equal(t, "supervisorctl update", lines[len(lines)-1])
}

func TestTeardownWithoutDeployedConfSucceeds(t *testing.T) {
	t.Parallel()

	config := newTestService(t)
	fake := exec.NewFakeRunner()

	err := newProvisioner(config, fake).Teardown(context.Background())

	require.NoError(t, err, "teardown must be idempotent")
}

func TestStatusReportsProgramState(t *testing.T) {
	t.Parallel()

	config := newTestService(t)
	fake := exec.NewFakeRunner()
	fake.Script("supervisorctl status pymbserver", exec.FakeResponse{
		Result: exec.Result{Stdout: "pymbserver    RUNNING   pid 4242, uptime 0:01:00\n"},
	})

	status, err := newProvisioner(config, fake).Status(context.Background())
	require.NoError(t, err)

	assert.Equal(t, supervisor.StateRunning, status.State)
	assert.True(t, status.Running())
}

func TestStatusWrapsControlErrors(t *testing.T) {
	t.Parallel()

	config := newTestService(t)
	fake := exec.NewFakeRunner()
	fake.Script("supervisorctl status pymbserver", exec.FakeResponse{
		Err: &exec.RunError{Command: "supervisorctl status pymbserver", ExitCode: 4},
	})

	_, err := newProvisioner(config, fake).Status(context.Background())

	require.ErrorIs(t, err, provisioner.ErrSupervisorControl)
}

func TestVerifyElevation(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		fake := exec.NewFakeRunner()

		err := provisioner.VerifyElevation(context.Background(), fake, nil)

		require.NoError(t, err, "root needs no elevation")
		assert.Empty(t, fake.Calls())

		return
	}

	t.Run("no elevation command configured", func(t *testing.T) {
		t.Parallel()

		err := provisioner.VerifyElevation(context.Background(), exec.NewFakeRunner(), nil)

		require.ErrorIs(t, err, provisioner.ErrElevationUnavailable)
	})

	t.Run("sudo probe is non-interactive", func(t *testing.T) {
		t.Parallel()

		fake := exec.NewFakeRunner()

		err := provisioner.VerifyElevation(context.Background(), fake, []string{"sudo"})
		require.NoError(t, err)

		require.Equal(t, []string{"sudo -n true"}, fake.CommandLines())
	})

	t.Run("probe failure surfaces", func(t *testing.T) {
		t.Parallel()

		fake := exec.NewFakeRunner()
		fake.Script("sudo", exec.FakeResponse{
			Err: &exec.RunError{Command: "sudo -n true", ExitCode: 1},
		})

		err := provisioner.VerifyElevation(context.Background(), fake, []string{"sudo"})

		require.ErrorIs(t, err, provisioner.ErrElevationUnavailable)
	})
}
