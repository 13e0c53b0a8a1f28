package v1alpha1

import "time"

// Defaults mirror the paths and tool invocations of the original pymbserver
// deployment.
const (
	// DefaultProgramName is the supervisor program provisioned by default.
	DefaultProgramName = "pymbserver"
	// DefaultProjectDir is the default project root.
	DefaultProjectDir = "."
	// DefaultDescriptor is the package descriptor expected in the project root.
	DefaultDescriptor = "setup.py"
	// DefaultSupervisorPackage is the system package providing supervisord.
	DefaultSupervisorPackage = "supervisor"
	// DefaultConfSource is the program stanza shipped with the project.
	DefaultConfSource = "etc/supervisor/conf.d/pymbserver.conf"
	// DefaultConfDir is supervisord's configuration drop-in directory.
	DefaultConfDir = "/etc/supervisor/conf.d"
	// DefaultControlCommand is the supervisor control binary.
	DefaultControlCommand = "supervisorctl"
	// DefaultStepTimeout bounds each provisioning step.
	DefaultStepTimeout = 5 * time.Minute
)

// NewService creates a Service with API metadata and defaults applied.
func NewService() *Service {
	return &Service{
		Kind:       Kind,
		APIVersion: APIVersion,
		Metadata: Metadata{
			Name: DefaultProgramName,
		},
		Spec: Spec{
			Project: ProjectSpec{
				Dir:        DefaultProjectDir,
				Descriptor: DefaultDescriptor,
				Installer:  []string{"pip3", "install", "."},
			},
			Supervisor: SupervisorSpec{
				Package:        DefaultSupervisorPackage,
				PackageManager: []string{"apt-get", "install", "-y"},
				ConfSource:     DefaultConfSource,
				ConfDir:        DefaultConfDir,
				ControlCommand: DefaultControlCommand,
			},
			Elevation: ElevationSpec{
				Command: []string{"sudo"},
			},
			Timeout: DefaultStepTimeout,
		},
	}
}
