package exec

import "io"

// RunnerFactory builds a Runner bound to output writers and an elevation
// argv. Commands construct their runner from the loaded configuration;
// tests substitute factories returning a FakeRunner.
type RunnerFactory func(stdout, stderr io.Writer, elevation []string) Runner

// DefaultRunnerFactory builds OSRunners.
func DefaultRunnerFactory(stdout, stderr io.Writer, elevation []string) Runner {
	return NewOSRunner(stdout, stderr, WithElevation(elevation))
}
