package provisioner

import "errors"

// Error taxonomy for provisioning steps. Each sentinel corresponds to the
// failure of one external tool; errors.Is reaches them through all wrapping
// so callers can identify exactly which step failed.
var (
	// ErrInstall indicates the packaging tool failed to install the project.
	ErrInstall = errors.New("project package install failed")
	// ErrPackageManager indicates the system package manager failed to
	// install the supervisor daemon.
	ErrPackageManager = errors.New("supervisor package install failed")
	// ErrFileCopy indicates the supervisor configuration could not be
	// deployed (or removed during teardown).
	ErrFileCopy = errors.New("supervisor configuration deploy failed")
	// ErrSupervisorControl indicates the supervisor control interface could
	// not be driven (daemon not running, control socket unreachable).
	ErrSupervisorControl = errors.New("supervisor control failed")
	// ErrElevationUnavailable indicates the configured privilege-elevation
	// command cannot grant elevated rights non-interactively.
	ErrElevationUnavailable = errors.New("privilege elevation unavailable")
)
