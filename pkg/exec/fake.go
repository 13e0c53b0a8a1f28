package exec

import (
	"context"
	"strings"
	"sync"
)

// FakeResponse is a scripted outcome for a FakeRunner invocation.
type FakeResponse struct {
	Result Result
	Err    error
}

// FakeRunner is a scriptable Runner for tests. It records every invocation
// and replies with scripted responses, matched first by full command line and
// then by binary name. Unmatched invocations succeed with an empty result.
type FakeRunner struct {
	mu        sync.Mutex
	calls     []Spec
	responses map[string]FakeResponse
}

// NewFakeRunner creates an empty fake runner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string]FakeResponse)}
}

// Script registers a response for invocations matching key. The key is either
// a binary name (e.g., "supervisorctl") or a full command line (e.g.,
// "supervisorctl status pymbserver").
func (f *FakeRunner) Script(key string, response FakeResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.responses[key] = response
}

// Run implements Runner.
func (f *FakeRunner) Run(_ context.Context, spec Spec) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, spec)

	commandLine := commandLine(spec)

	if response, ok := f.responses[commandLine]; ok {
		return response.Result, response.Err
	}

	if response, ok := f.responses[spec.Name]; ok {
		return response.Result, response.Err
	}

	return Result{}, nil
}

// Calls returns a copy of the recorded invocations in order.
func (f *FakeRunner) Calls() []Spec {
	f.mu.Lock()
	defer f.mu.Unlock()

	calls := make([]Spec, len(f.calls))
	copy(calls, f.calls)

	return calls
}

// CommandLines returns the recorded invocations rendered as command lines,
// in order. Useful for asserting step ordering.
func (f *FakeRunner) CommandLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	lines := make([]string, 0, len(f.calls))
	for _, call := range f.calls {
		lines = append(lines, commandLine(call))
	}

	return lines
}

func commandLine(spec Spec) string {
	return strings.Join(append([]string{spec.Name}, spec.Args...), " ")
}
