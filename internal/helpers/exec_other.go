//go:build !unix

package helpers

import (
	"os/exec"

	"github.com/quantmind-br/brewpkg/internal/core"
)

func applyCredential(_ *exec.Cmd, _ core.ExecutionContext) error {
	return nil
}
