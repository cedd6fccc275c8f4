package core

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. All of them are fatal to the operation that produced them.
var (
	ErrSubprocess        = errors.New("subprocess failed")
	ErrUserLookup        = errors.New("user lookup failed")
	ErrFormulaResolution = errors.New("formula resolution failed")
	ErrLibraryLoad       = errors.New("formula database unavailable")
)

// CommandError carries the details of a failed subprocess
type CommandError struct {
	Command  string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q failed (exit %d)", strings.TrimSpace(e.Command+" "+strings.Join(e.Args, " ")), e.ExitCode)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\nstderr: " + stderr
	}
	return msg
}

// Unwrap lets errors.Is match both ErrSubprocess and the underlying exec error
func (e *CommandError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSubprocess}
	}
	return []error{ErrSubprocess, e.Err}
}

// ExitCodeFor maps an error to the CLI exit code for the given action
func ExitCodeFor(action Action, err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUserLookup):
		return ExitPermission
	case errors.Is(err, ErrLibraryLoad):
		return ExitCommandNotFound
	case errors.Is(err, ErrSubprocess), errors.Is(err, ErrFormulaResolution):
		if action == ActionRemove || action == ActionPurge {
			return ExitUninstallFailed
		}
		return ExitInstallFailed
	default:
		return ExitGeneral
	}
}
