// Package helpers provides small shared utilities for command handlers.
package helpers

import (
	"errors"
	"fmt"

	"github.com/sourceperl/mbservctl/pkg/ui/timer"
	"github.com/spf13/cobra"
)

// TimingFlagName is the persistent flag enabling per-activity timing output.
const TimingFlagName = "timing"

// ErrNilCommand is returned when a nil command is passed to a helper.
var ErrNilCommand = errors.New("command must not be nil")

// IsTimingEnabled reports whether the timing flag is set on the command or
// inherited from a parent.
func IsTimingEnabled(cmd *cobra.Command) (bool, error) {
	if cmd == nil {
		return false, ErrNilCommand
	}

	flag := cmd.Flags().Lookup(TimingFlagName)
	if flag == nil {
		flag = cmd.InheritedFlags().Lookup(TimingFlagName)
	}

	if flag == nil {
		return false, nil
	}

	enabled, err := cmd.Flags().GetBool(TimingFlagName)
	if err != nil {
		enabled, err = cmd.InheritedFlags().GetBool(TimingFlagName)
		if err != nil {
			return false, fmt.Errorf("failed to read %s flag: %w", TimingFlagName, err)
		}
	}

	return enabled, nil
}

// MaybeTimer returns the timer when timing output is enabled on the command,
// and nil otherwise. Notify treats a nil timer as "no timing block".
func MaybeTimer(cmd *cobra.Command, tmr timer.Timer) timer.Timer {
	enabled, err := IsTimingEnabled(cmd)
	if err != nil || !enabled {
		return nil
	}

	return tmr
}
