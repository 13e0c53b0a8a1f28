package di

import (
	"fmt"

	"github.com/samber/do/v2"
	"github.com/sourceperl/mbservctl/pkg/exec"
	"github.com/sourceperl/mbservctl/pkg/svc/provisioner"
	"github.com/sourceperl/mbservctl/pkg/ui/timer"
	"github.com/spf13/cobra"
)

// ResolveTimer retrieves the timer dependency from the injector with
// consistent error handling.
func ResolveTimer(injector Injector) (timer.Timer, error) {
	tmr, err := do.Invoke[timer.Timer](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve timer dependency: %w", err)
	}

	return tmr, nil
}

// ResolveRunnerFactory retrieves the runner factory dependency from the
// injector with consistent error handling.
func ResolveRunnerFactory(injector Injector) (exec.RunnerFactory, error) {
	factory, err := do.Invoke[exec.RunnerFactory](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve runner factory dependency: %w", err)
	}

	return factory, nil
}

// ResolveProvisionerFactory retrieves the service provisioner factory
// dependency from the injector with consistent error handling.
func ResolveProvisionerFactory(injector Injector) (provisioner.Factory, error) {
	factory, err := do.Invoke[provisioner.Factory](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve provisioner factory dependency: %w", err)
	}

	return factory, nil
}

// WithTimer decorates a handler to automatically resolve the timer
// dependency. This higher-order function simplifies command handlers that
// need timer access.
func WithTimer(
	handler func(cmd *cobra.Command, injector Injector, tmr timer.Timer) error,
) func(cmd *cobra.Command, injector Injector) error {
	return func(cmd *cobra.Command, injector Injector) error {
		tmr, err := ResolveTimer(injector)
		if err != nil {
			return err
		}

		return handler(cmd, injector, tmr)
	}
}
