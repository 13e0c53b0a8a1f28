package cmd

import (
	"errors"
	"fmt"

	"github.com/sourceperl/mbservctl/pkg/cli/helpers"
	"github.com/sourceperl/mbservctl/pkg/cli/lifecycle"
	"github.com/sourceperl/mbservctl/pkg/di"
	"github.com/sourceperl/mbservctl/pkg/io/configmanager"
	"github.com/sourceperl/mbservctl/pkg/svc/supervisor"
	"github.com/sourceperl/mbservctl/pkg/ui/notify"
	"github.com/spf13/cobra"
)

// NewStatusCmd creates and returns the status command.
func NewStatusCmd(runtime *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "status",
		Short:        "Show the supervisor state of the service",
		Long:         "Query the supervisor daemon for the current state of the managed program.",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(cmd)
	cmd.RunE = lifecycle.WrapHandler(runtime, cfgManager, handleStatusRunE)

	return cmd
}

// handleStatusRunE handles the status command.
func handleStatusRunE(
	cmd *cobra.Command,
	cfgManager *configmanager.ConfigManager,
	deps lifecycle.Deps,
) error {
	serviceCfg := cfgManager.Config

	if deps.Timer != nil {
		deps.Timer.NewStage()
	}

	_, svc := lifecycle.BuildProvisioner(cmd, deps, serviceCfg)

	status, err := svc.Status(cmd.Context())
	if err != nil {
		if errors.Is(err, supervisor.ErrProgramNotFound) {
			notify.Warningf(cmd.OutOrStdout(), "program '%s' is not registered with supervisor",
				serviceCfg.Metadata.Name)
		}

		return fmt.Errorf("failed to query service status: %w", err)
	}

	reportProgramStatus(cmd, deps, status)

	return nil
}

// reportProgramStatus writes the program state as a success or warning message
// depending on whether the program is running.
func reportProgramStatus(cmd *cobra.Command, deps lifecycle.Deps, status supervisor.ProgramStatus) {
	content := string(status.State)
	if status.Detail != "" {
		content = fmt.Sprintf("%s (%s)", status.State, status.Detail)
	}

	if status.Running() {
		notify.WriteMessage(notify.Message{
			Type:    notify.SuccessType,
			Content: fmt.Sprintf("program '%s' is %s", status.Name, content),
			Timer:   helpers.MaybeTimer(cmd, deps.Timer),
			Writer:  cmd.OutOrStdout(),
		})

		return
	}

	notify.Warningf(cmd.OutOrStdout(), "program '%s' is %s", status.Name, content)
}
