// Package scaffolder generates the project files mbservctl expects to find
// in a service project directory.
package scaffolder

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/sourceperl/mbservctl/pkg/apis/service/v1alpha1"
	"github.com/sourceperl/mbservctl/pkg/fsutil"
	"github.com/sourceperl/mbservctl/pkg/io/configmanager"
	"github.com/sourceperl/mbservctl/pkg/ui/notify"
)

// supervisorConfTemplate is the program stanza deployed into supervisord's
// drop-in directory.
const supervisorConfTemplate = `[program:pymbserver]
command=pymbserver
autostart=true
autorestart=true
stderr_logfile=/var/log/pymbserver.err.log
stdout_logfile=/var/log/pymbserver.out.log
`

// configTemplate is the default service configuration with all fields spelled
// out so users can see what is tunable.
const configTemplate = `apiVersion: %s
kind: %s
metadata:
  name: %s
spec:
  project:
    dir: %s
    descriptor: %s
    installer: pip3,install,.
  supervisor:
    package: %s
    packageManager: apt-get,install,-y
    confSource: %s
    confDir: %s
    controlCommand: %s
  elevation:
    command: sudo
  timeout: %s
`

// Scaffolder generates mbservctl project files in an output directory.
type Scaffolder struct {
	Writer io.Writer
}

// NewScaffolder creates a new Scaffolder writing progress to the given writer.
func NewScaffolder(writer io.Writer) *Scaffolder {
	return &Scaffolder{Writer: writer}
}

// Scaffold writes the service configuration file and the supervisor program
// stanza under outputDir. Existing files are kept unless force is set.
func (s *Scaffolder) Scaffold(outputDir string, force bool) error {
	configPath := filepath.Join(outputDir, configmanager.ConfigFileName+".yaml")

	_, err := fsutil.TryWriteFile(defaultConfigContent(), configPath, force)
	if err != nil {
		return fmt.Errorf("failed to generate service configuration: %w", err)
	}

	notify.Generatef(s.Writer, "generated '%s'", configPath)

	confPath := filepath.Join(outputDir, v1alpha1.DefaultConfSource)

	_, err = fsutil.TryWriteFile(supervisorConfTemplate, confPath, force)
	if err != nil {
		return fmt.Errorf("failed to generate supervisor program stanza: %w", err)
	}

	notify.Generatef(s.Writer, "generated '%s'", confPath)

	return nil
}

// defaultConfigContent renders the default Service as YAML.
func defaultConfigContent() string {
	svc := v1alpha1.NewService()

	return fmt.Sprintf(configTemplate,
		svc.APIVersion,
		svc.Kind,
		svc.Metadata.Name,
		svc.Spec.Project.Dir,
		svc.Spec.Project.Descriptor,
		svc.Spec.Supervisor.Package,
		svc.Spec.Supervisor.ConfSource,
		svc.Spec.Supervisor.ConfDir,
		svc.Spec.Supervisor.ControlCommand,
		svc.Spec.Timeout,
	)
}
