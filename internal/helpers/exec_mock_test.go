package helpers

import (
	"context"
	"errors"
	"testing"

	"github.com/quantmind-br/brewpkg/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestMockCommandRunner_ImplementsInterface(t *testing.T) {
	var _ CommandRunner = &MockCommandRunner{}
}

func TestMockCommandRunner_Defaults(t *testing.T) {
	t.Parallel()

	mock := &MockCommandRunner{}

	assert.NoError(t, mock.RequireCommand("brew"))

	out, err := mock.RunCommandAs(context.Background(), core.ExecutionContext{}, "brew")
	assert.NoError(t, err)
	assert.Empty(t, out)
}

func TestMockCommandRunner_RunCommandAs(t *testing.T) {
	t.Parallel()

	var gotUser string
	var gotArgs []string
	mock := &MockCommandRunner{
		RunCommandAsFunc: func(_ context.Context, ec core.ExecutionContext, name string, args ...string) (string, error) {
			gotUser = ec.RunAsUser
			gotArgs = append([]string{name}, args...)
			return "ok", nil
		},
	}

	out, err := mock.RunCommandAs(context.Background(), core.ExecutionContext{RunAsUser: "brew"}, "brew", "install", "git")
	assert.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, "brew", gotUser)
	assert.Equal(t, []string{"brew", "install", "git"}, gotArgs)
}

func TestMockCommandRunner_RequireCommand(t *testing.T) {
	t.Parallel()

	expected := errors.New("missing")
	mock := &MockCommandRunner{
		RequireCommandFunc: func(name string) error {
			if name == "brew" {
				return nil
			}
			return expected
		},
	}

	assert.NoError(t, mock.RequireCommand("brew"))
	assert.ErrorIs(t, mock.RequireCommand("port"), expected)
}
