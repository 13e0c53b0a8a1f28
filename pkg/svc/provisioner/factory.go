package provisioner

import (
	"io"

	v1alpha1 "github.com/sourceperl/mbservctl/pkg/apis/service/v1alpha1"
	"github.com/sourceperl/mbservctl/pkg/exec"
	"github.com/sourceperl/mbservctl/pkg/svc/deployer"
	aptinstaller "github.com/sourceperl/mbservctl/pkg/svc/installer/apt"
	pipinstaller "github.com/sourceperl/mbservctl/pkg/svc/installer/pip"
	"github.com/sourceperl/mbservctl/pkg/svc/supervisor"
)

// Factory creates service provisioners from a loaded configuration.
// Tests substitute factories that return provisioners over fake runners.
type Factory interface {
	Create(config *v1alpha1.Service, runner exec.Runner, writer io.Writer) ServiceProvisioner
}

// DefaultFactory assembles the default pipeline from the configuration.
type DefaultFactory struct{}

// Create wires the project installer, supervisor package installer,
// configuration deployer, and supervisorctl controller into a
// DefaultProvisioner.
func (DefaultFactory) Create(
	config *v1alpha1.Service,
	runner exec.Runner,
	writer io.Writer,
) ServiceProvisioner {
	return &DefaultProvisioner{
		config: config,
		projectInstaller: pipinstaller.NewInstaller(
			runner,
			config.Spec.Project.Dir,
			config.Spec.Project.Descriptor,
			config.Spec.Project.Installer,
		),
		supervisorInstaller: aptinstaller.NewInstaller(
			runner,
			config.Spec.Supervisor.PackageManager,
			config.Spec.Supervisor.Package,
		),
		confDeployer: deployer.NewDeployer(runner),
		controller:   supervisor.NewCtlController(runner, config.Spec.Supervisor.ControlCommand),
		writer:       writer,
	}
}
