package helpers

import (
	"context"

	"github.com/quantmind-br/brewpkg/internal/core"
)

// MockCommandRunner is a mock implementation of CommandRunner for testing
type MockCommandRunner struct {
	RequireCommandFunc func(name string) error
	RunCommandAsFunc   func(ctx context.Context, ec core.ExecutionContext, name string, args ...string) (string, error)
}

// RequireCommand implements CommandRunner.RequireCommand
func (m *MockCommandRunner) RequireCommand(name string) error {
	if m.RequireCommandFunc != nil {
		return m.RequireCommandFunc(name)
	}
	return nil
}

// RunCommandAs implements CommandRunner.RunCommandAs
func (m *MockCommandRunner) RunCommandAs(ctx context.Context, ec core.ExecutionContext, name string, args ...string) (string, error) {
	if m.RunCommandAsFunc != nil {
		return m.RunCommandAsFunc(ctx, ec, name, args...)
	}
	return "", nil
}
