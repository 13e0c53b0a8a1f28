package di

import (
	"github.com/samber/do/v2"
	"github.com/sourceperl/mbservctl/pkg/exec"
	"github.com/sourceperl/mbservctl/pkg/svc/provisioner"
	"github.com/sourceperl/mbservctl/pkg/ui/timer"
)

// NewRuntime constructs the shared runtime container used by the root
// command and tests. It registers default implementations for the timer, the
// runner factory, and the service provisioner factory.
func NewRuntime() *Runtime {
	return New(
		provideTimer,
		provideRunnerFactory,
		provideProvisionerFactory,
	)
}

// provideTimer registers the timer dependency with the injector.
func provideTimer(i Injector) error {
	do.Provide(i, func(Injector) (timer.Timer, error) {
		return timer.New(), nil
	})

	return nil
}

// provideRunnerFactory registers the external-process runner factory.
func provideRunnerFactory(i Injector) error {
	do.Provide(i, func(Injector) (exec.RunnerFactory, error) {
		return exec.DefaultRunnerFactory, nil
	})

	return nil
}

// provideProvisionerFactory registers the service provisioner factory.
func provideProvisionerFactory(i Injector) error {
	do.Provide(i, func(Injector) (provisioner.Factory, error) {
		return provisioner.DefaultFactory{}, nil
	})

	return nil
}
