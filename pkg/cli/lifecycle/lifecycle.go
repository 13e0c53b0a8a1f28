// Package lifecycle provides the shared orchestration for mutating service
// commands: configuration loading, dependency resolution, user-facing
// messaging, and timing.
package lifecycle

import (
	"context"
	"fmt"

	v1alpha1 "github.com/sourceperl/mbservctl/pkg/apis/service/v1alpha1"
	"github.com/sourceperl/mbservctl/pkg/cli/helpers"
	"github.com/sourceperl/mbservctl/pkg/di"
	"github.com/sourceperl/mbservctl/pkg/exec"
	"github.com/sourceperl/mbservctl/pkg/io/configmanager"
	"github.com/sourceperl/mbservctl/pkg/svc/provisioner"
	"github.com/sourceperl/mbservctl/pkg/ui/notify"
	"github.com/sourceperl/mbservctl/pkg/ui/timer"
	"github.com/spf13/cobra"
)

// Action represents a lifecycle operation executed against a service
// provisioner.
type Action func(ctx context.Context, svc provisioner.ServiceProvisioner) error

// Config describes the messaging and action behavior for a lifecycle
// command.
type Config struct {
	TitleEmoji         string
	TitleContent       string
	ActivityContent    string
	SuccessContent     string
	ErrorMessagePrefix string
	// VerifyElevation runs the privilege-elevation precondition check
	// before the action. Mutating commands set this.
	VerifyElevation bool
	Action          Action
}

// Deps groups the injectable collaborators required by lifecycle commands.
type Deps struct {
	Timer         timer.Timer
	RunnerFactory exec.RunnerFactory
	Factory       provisioner.Factory
}

// NewStandardRunE creates a standard RunE handler for lifecycle commands.
// It handles dependency injection from the runtime container and delegates
// to HandleRunE with the provided lifecycle configuration.
func NewStandardRunE(
	runtime *di.Runtime,
	cfgManager *configmanager.ConfigManager,
	config Config,
) func(*cobra.Command, []string) error {
	return WrapHandler(
		runtime,
		cfgManager,
		func(cmd *cobra.Command, manager *configmanager.ConfigManager, deps Deps) error {
			return HandleRunE(cmd, manager, deps, config)
		},
	)
}

// WrapHandler resolves lifecycle dependencies from the runtime container,
// loads the service configuration, and invokes the provided handler with
// those dependencies.
func WrapHandler(
	runtime *di.Runtime,
	cfgManager *configmanager.ConfigManager,
	handler func(*cobra.Command, *configmanager.ConfigManager, Deps) error,
) func(*cobra.Command, []string) error {
	return di.RunEWithRuntime(
		runtime,
		di.WithTimer(
			func(cmd *cobra.Command, injector di.Injector, tmr timer.Timer) error {
				if tmr != nil {
					tmr.Start()
				}

				outputTimer := helpers.MaybeTimer(cmd, tmr)

				_, err := cfgManager.LoadConfig(outputTimer)
				if err != nil {
					return fmt.Errorf("failed to load service configuration: %w", err)
				}

				runnerFactory, err := di.ResolveRunnerFactory(injector)
				if err != nil {
					return err
				}

				factory, err := di.ResolveProvisionerFactory(injector)
				if err != nil {
					return err
				}

				deps := Deps{Timer: tmr, RunnerFactory: runnerFactory, Factory: factory}

				return handler(cmd, cfgManager, deps)
			},
		),
	)
}

// HandleRunE orchestrates the standard lifecycle workflow: title, elevation
// precondition, activity message, action, success message.
func HandleRunE(
	cmd *cobra.Command,
	cfgManager *configmanager.ConfigManager,
	deps Deps,
	config Config,
) error {
	serviceCfg := cfgManager.Config

	if deps.Timer != nil {
		deps.Timer.NewStage()
	}

	showTitle(cmd, config.TitleEmoji, config.TitleContent)

	runner, svc := BuildProvisioner(cmd, deps, serviceCfg)

	if config.VerifyElevation {
		err := provisioner.VerifyElevation(cmd.Context(), runner, serviceCfg.Spec.Elevation.Command)
		if err != nil {
			return fmt.Errorf("%s: %w", config.ErrorMessagePrefix, err)
		}
	}

	notify.Activityf(cmd.OutOrStdout(), "%s service '%s'",
		config.ActivityContent, serviceCfg.Metadata.Name)

	err := config.Action(cmd.Context(), svc)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrorMessagePrefix, err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: config.SuccessContent,
		Timer:   helpers.MaybeTimer(cmd, deps.Timer),
		Writer:  cmd.OutOrStdout(),
	})

	return nil
}

// BuildProvisioner constructs the runner and service provisioner for the
// command from the loaded configuration.
func BuildProvisioner(
	cmd *cobra.Command,
	deps Deps,
	serviceCfg *v1alpha1.Service,
) (exec.Runner, provisioner.ServiceProvisioner) {
	runner := deps.RunnerFactory(
		cmd.OutOrStdout(),
		cmd.ErrOrStderr(),
		serviceCfg.Spec.Elevation.Command,
	)

	return runner, deps.Factory.Create(serviceCfg, runner, cmd.OutOrStdout())
}

// showTitle displays the title message for a lifecycle operation.
func showTitle(cmd *cobra.Command, emoji, content string) {
	_, _ = fmt.Fprintln(cmd.OutOrStdout()) // blank line before title for visual separation
	notify.WriteMessage(notify.Message{
		Type:    notify.TitleType,
		Content: content,
		Emoji:   emoji,
		Writer:  cmd.OutOrStdout(),
	})
}
