package deployer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sourceperl/mbservctl/pkg/exec"
	"github.com/sourceperl/mbservctl/pkg/svc/deployer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeployCopiesByteForByte(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	confDir := filepath.Join(dir, "conf.d")
	require.NoError(t, os.Mkdir(confDir, 0o755))

	source := filepath.Join(dir, "pymbserver.conf")
	content := "[program:pymbserver]\ncommand=pymbserver\nautostart=true\n"
	require.NoError(t, os.WriteFile(source, []byte(content), 0o644))

	fake := exec.NewFakeRunner()
	deploy := deployer.NewDeployer(fake)

	destination, err := deploy.Deploy(context.Background(), source, confDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(confDir, "pymbserver.conf"), destination)

	data, err := os.ReadFile(destination)
	require.NoError(t, err)
	assert.Equal(t, content, string(data), "deployed file must match source byte-for-byte")

	assert.Empty(t, fake.Calls(), "writable destinations need no elevated fallback")
}

func TestDeployOverwritesExistingDestination(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	confDir := filepath.Join(dir, "conf.d")
	require.NoError(t, os.Mkdir(confDir, 0o755))

	source := filepath.Join(dir, "pymbserver.conf")
	require.NoError(t, os.WriteFile(source, []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(confDir, "pymbserver.conf"), []byte("old"), 0o644))

	deploy := deployer.NewDeployer(exec.NewFakeRunner())

	destination, err := deploy.Deploy(context.Background(), source, confDir)
	require.NoError(t, err)

	data, err := os.ReadFile(destination)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestDeployMissingSourceLeavesDestinationUntouched(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	confDir := filepath.Join(dir, "conf.d")
	require.NoError(t, os.Mkdir(confDir, 0o755))

	existing := filepath.Join(confDir, "pymbserver.conf")
	require.NoError(t, os.WriteFile(existing, []byte("keep me"), 0o644))

	deploy := deployer.NewDeployer(exec.NewFakeRunner())

	_, err := deploy.Deploy(context.Background(), filepath.Join(dir, "missing.conf"), confDir)

	require.ErrorIs(t, err, deployer.ErrSourceNotFound)

	data, readErr := os.ReadFile(existing)
	require.NoError(t, readErr)
	assert.Equal(t, "keep me", string(data), "existing destination must be left unchanged")
}

func TestDeployFallsBackToElevatedInstall(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("cannot simulate a permission failure as root")
	}

	dir := t.TempDir()
	confDir := filepath.Join(dir, "conf.d")
	require.NoError(t, os.Mkdir(confDir, 0o555)) // read-only destination

	source := filepath.Join(dir, "pymbserver.conf")
	require.NoError(t, os.WriteFile(source, []byte("content"), 0o644))

	fake := exec.NewFakeRunner()
	deploy := deployer.NewDeployer(fake)

	destination, err := deploy.Deploy(context.Background(), source, confDir)
	require.NoError(t, err)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "install", calls[0].Name)
	assert.Equal(t, []string{"-m", "644", source, destination}, calls[0].Args)
	assert.True(t, calls[0].Elevate)
}

func TestRemoveToleratesMissingFile(t *testing.T) {
	t.Parallel()

	deploy := deployer.NewDeployer(exec.NewFakeRunner())

	err := deploy.Remove(context.Background(), filepath.Join(t.TempDir(), "absent.conf"))

	require.NoError(t, err)
}

func TestRemoveDeletesDeployedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	destination := filepath.Join(dir, "pymbserver.conf")
	require.NoError(t, os.WriteFile(destination, []byte("content"), 0o644))

	deploy := deployer.NewDeployer(exec.NewFakeRunner())

	err := deploy.Remove(context.Background(), destination)
	require.NoError(t, err)

	assert.NoFileExists(t, destination)
}
