package cmd

import (
	"fmt"

	"github.com/sourceperl/mbservctl/pkg/fsutil/scaffolder"
	"github.com/spf13/cobra"
)

// Flag names for the init command.
const (
	ForceFlagName  = "force"
	OutputFlagName = "output"
)

// NewInitCmd creates and returns the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a service configuration and supervisor program stanza",
		Long: "Generate a default mbservctl.yaml and the supervisor program stanza in the\n" +
			"project directory. Existing files are kept unless --force is set.",
		RunE:         handleInitRunE,
		SilenceUsage: true,
	}

	cmd.Flags().Bool(ForceFlagName, false, "Overwrite existing files")
	cmd.Flags().StringP(OutputFlagName, "o", ".", "Directory to generate files in")

	return cmd
}

// handleInitRunE handles the init command.
func handleInitRunE(cmd *cobra.Command, _ []string) error {
	force, err := cmd.Flags().GetBool(ForceFlagName)
	if err != nil {
		return fmt.Errorf("failed to read --%s flag: %w", ForceFlagName, err)
	}

	output, err := cmd.Flags().GetString(OutputFlagName)
	if err != nil {
		return fmt.Errorf("failed to read --%s flag: %w", OutputFlagName, err)
	}

	err = scaffolder.NewScaffolder(cmd.OutOrStdout()).Scaffold(output, force)
	if err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	return nil
}
