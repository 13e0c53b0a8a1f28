// Package cmd assembles the mbservctl command tree.
package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/sourceperl/mbservctl/pkg/cli/helpers"
	"github.com/sourceperl/mbservctl/pkg/cli/ui/asciiart"
	"github.com/sourceperl/mbservctl/pkg/cli/ui/errorhandler"
	"github.com/sourceperl/mbservctl/pkg/di"
	"github.com/spf13/cobra"
)

// VerboseFlagName is the persistent flag raising log output to debug level.
const VerboseFlagName = "verbose"

// NewRootCmd creates and returns the root command with version info and
// subcommands wired to a fresh runtime container.
func NewRootCmd(version, commit, date string) *cobra.Command {
	return NewRootCmdWithRuntime(di.NewRuntime(), version, commit, date)
}

// NewRootCmdWithRuntime creates the root command over the provided runtime
// container. Tests use this to substitute fake dependencies.
func NewRootCmdWithRuntime(runtime *di.Runtime, version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "mbservctl",
		Short:        "mbservctl provisions the pymbserver Modbus TCP server under supervisord",
		Long: "mbservctl installs the pymbserver project, installs the supervisord process\n" +
			"supervisor, deploys the program configuration, and reloads the supervisor so\n" +
			"the server comes under management.",
		RunE:         handleRootRunE,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			configureLogging(cmd)
		},
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	cmd.PersistentFlags().Bool(
		helpers.TimingFlagName,
		false,
		"Show per-activity timing output",
	)
	cmd.PersistentFlags().Bool(
		VerboseFlagName,
		false,
		"Log external command invocations",
	)

	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewProvisionCmd(runtime))
	cmd.AddCommand(NewTeardownCmd(runtime))
	cmd.AddCommand(NewStatusCmd(runtime))

	return cmd
}

// Execute runs the provided root command and handles errors.
func Execute(cmd *cobra.Command) error {
	executor := errorhandler.NewExecutor()

	err := executor.Execute(cmd)
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// handleRootRunE handles the root command.
func handleRootRunE(cmd *cobra.Command, _ []string) error {
	asciiart.PrintLogo(cmd.OutOrStdout())

	// The err can safely be ignored, as it can never fail at runtime.
	_ = cmd.Help()

	return nil
}

// configureLogging raises logrus to debug level when --verbose is set so the
// exec runner's invocation logging becomes visible.
func configureLogging(cmd *cobra.Command) {
	verbose, err := cmd.Flags().GetBool(VerboseFlagName)
	if err != nil || !verbose {
		return
	}

	logrus.SetOutput(cmd.ErrOrStderr())
	logrus.SetLevel(logrus.DebugLevel)
}
