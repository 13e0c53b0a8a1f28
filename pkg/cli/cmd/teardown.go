package cmd

import (
	"context"

	"github.com/sourceperl/mbservctl/pkg/cli/lifecycle"
	"github.com/sourceperl/mbservctl/pkg/di"
	"github.com/sourceperl/mbservctl/pkg/io/configmanager"
	"github.com/sourceperl/mbservctl/pkg/svc/provisioner"
	"github.com/spf13/cobra"
)

// NewTeardownCmd creates and returns the teardown command.
func NewTeardownCmd(runtime *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teardown",
		Short: "Remove the service from supervisor management",
		Long: "Remove the deployed program configuration and reload the supervisor so the\n" +
			"program is no longer managed. Installed packages are left in place.",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(cmd)
	cmd.RunE = lifecycle.NewStandardRunE(runtime, cfgManager, newTeardownLifecycleConfig())

	return cmd
}

// newTeardownLifecycleConfig creates the lifecycle configuration for the
// teardown command.
func newTeardownLifecycleConfig() lifecycle.Config {
	return lifecycle.Config{
		TitleEmoji:         "🗑️",
		TitleContent:       "Teardown service...",
		ActivityContent:    "tearing down",
		SuccessContent:     "service torn down",
		ErrorMessagePrefix: "failed to tear down service",
		VerifyElevation:    true,
		Action: func(ctx context.Context, svc provisioner.ServiceProvisioner) error {
			return svc.Teardown(ctx)
		},
	}
}
