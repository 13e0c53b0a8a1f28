// Package v1alpha1 defines the mbservctl service configuration API.
//
// A Service describes everything the CLI needs to provision a supervised
// program on a host: where the project lives, which packaging tool installs
// it, which system package provides the supervisor daemon, where the
// supervisor program stanza is deployed, and how privileges are elevated.
package v1alpha1

import "time"

const (
	// Group is the API group for mbservctl.
	Group = "mbservctl.sourceperl.net"
	// Version is the API version for mbservctl.
	Version = "v1alpha1"
	// Kind is the kind for mbservctl services.
	Kind = "Service"
	// APIVersion is the full API version for mbservctl.
	APIVersion = Group + "/" + Version
)

// Service represents an mbservctl service configuration including API
// metadata and the desired provisioning state.
type Service struct {
	Kind       string   `json:"kind,omitzero"       mapstructure:"kind"`
	APIVersion string   `json:"apiVersion,omitzero" mapstructure:"apiVersion"`
	Metadata   Metadata `json:"metadata,omitzero"   mapstructure:"metadata"`
	Spec       Spec     `json:"spec,omitzero"       mapstructure:"spec"`
}

// Metadata identifies the service.
type Metadata struct {
	// Name is the supervisor program name the service is registered under.
	Name string `json:"name,omitzero" mapstructure:"name"`
}

// Spec defines the desired state of a provisioned service.
type Spec struct {
	Project    ProjectSpec    `json:"project,omitzero"    mapstructure:"project"`
	Supervisor SupervisorSpec `json:"supervisor,omitzero" mapstructure:"supervisor"`
	Elevation  ElevationSpec  `json:"elevation,omitzero"  mapstructure:"elevation"`

	// Timeout bounds each provisioning step.
	Timeout time.Duration `json:"timeout,omitzero" mapstructure:"timeout"`
}

// ProjectSpec defines where the service's project lives and how it is
// installed into the host's language runtime.
type ProjectSpec struct {
	// Dir is the project root containing the package descriptor.
	Dir string `json:"dir,omitzero" mapstructure:"dir"`
	// Descriptor is the package descriptor file expected under Dir.
	Descriptor string `json:"descriptor,omitzero" mapstructure:"descriptor"`
	// Installer is the packaging-tool argv run inside Dir to install the
	// project (e.g., ["pip3", "install", "."]).
	Installer []string `json:"installer,omitzero" mapstructure:"installer"`
}

// SupervisorSpec defines the supervisor daemon integration.
type SupervisorSpec struct {
	// Package is the system package providing the supervisor daemon.
	Package string `json:"package,omitzero" mapstructure:"package"`
	// PackageManager is the system package-manager argv used to install
	// Package non-interactively (e.g., ["apt-get", "install", "-y"]).
	PackageManager []string `json:"packageManager,omitzero" mapstructure:"packageManager"`
	// ConfSource is the supervisor program stanza shipped with the project,
	// relative to the project dir unless absolute.
	ConfSource string `json:"confSource,omitzero" mapstructure:"confSource"`
	// ConfDir is the supervisor daemon's configuration drop-in directory.
	ConfDir string `json:"confDir,omitzero" mapstructure:"confDir"`
	// ControlCommand is the supervisor control binary.
	ControlCommand string `json:"controlCommand,omitzero" mapstructure:"controlCommand"`
}

// ElevationSpec defines how privileged steps acquire elevated rights.
type ElevationSpec struct {
	// Command is the privilege-elevation argv prefixed to privileged
	// invocations. Empty disables elevation (already-root callers).
	Command []string `json:"command,omitzero" mapstructure:"command"`
}
