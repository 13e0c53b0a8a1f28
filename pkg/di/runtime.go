// Package di provides the dependency-injection runtime shared by the root
// command and tests. Providers register default implementations; tests
// construct runtimes with overriding providers.
package di

import (
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// Injector is the dependency injector handed to providers and resolvers.
type Injector = do.Injector

// ProviderFunc registers one dependency with the injector.
type ProviderFunc func(Injector) error

// Runtime is the shared dependency container.
type Runtime struct {
	injector   do.Injector
	provideErr error
}

// New constructs a runtime and applies the given providers in order.
// The first provider failure is remembered and surfaced on Invoke.
func New(providers ...ProviderFunc) *Runtime {
	injector := do.New()

	runtime := &Runtime{injector: injector}

	for _, provide := range providers {
		err := provide(injector)
		if err != nil && runtime.provideErr == nil {
			runtime.provideErr = err
		}
	}

	return runtime
}

// Invoke runs fn with the runtime's injector.
func (r *Runtime) Invoke(fn func(Injector) error) error {
	if r.provideErr != nil {
		return fmt.Errorf("runtime initialization failed: %w", r.provideErr)
	}

	return fn(r.injector)
}

// RunEWithRuntime adapts an injector-aware handler into a cobra RunE.
func RunEWithRuntime(
	runtime *Runtime,
	handler func(cmd *cobra.Command, injector Injector) error,
) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return runtime.Invoke(func(injector Injector) error {
			return handler(cmd, injector)
		})
	}
}
