package cmd

import (
	"context"

	"github.com/sourceperl/mbservctl/pkg/cli/lifecycle"
	"github.com/sourceperl/mbservctl/pkg/di"
	"github.com/sourceperl/mbservctl/pkg/io/configmanager"
	"github.com/sourceperl/mbservctl/pkg/svc/provisioner"
	"github.com/spf13/cobra"
)

// NewProvisionCmd creates and returns the provision command.
func NewProvisionCmd(runtime *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Provision the service on this host",
		Long: "Install the project package, install the supervisor package, deploy the\n" +
			"program configuration, and reload the supervisor. The first failing step\n" +
			"aborts the run.",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(cmd)
	cmd.RunE = lifecycle.NewStandardRunE(runtime, cfgManager, newProvisionLifecycleConfig())

	return cmd
}

// newProvisionLifecycleConfig creates the lifecycle configuration for the
// provision command.
func newProvisionLifecycleConfig() lifecycle.Config {
	return lifecycle.Config{
		TitleEmoji:         "🚀",
		TitleContent:       "Provision service...",
		ActivityContent:    "provisioning",
		SuccessContent:     "service provisioned",
		ErrorMessagePrefix: "failed to provision service",
		VerifyElevation:    true,
		Action: func(ctx context.Context, svc provisioner.ServiceProvisioner) error {
			return svc.Provision(ctx)
		},
	}
}
