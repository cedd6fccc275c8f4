//go:build unix

package helpers

import (
	"fmt"
	"os/exec"
	"syscall"

	"github.com/quantmind-br/brewpkg/internal/core"
	"golang.org/x/sys/unix"
)

// applyCredential switches the child process to ec's uid, gid and
// supplementary groups. Only root may switch; a non-root caller must already
// be the target user.
func applyCredential(cmd *exec.Cmd, ec core.ExecutionContext) error {
	euid := unix.Geteuid()
	if ec.RunAsUser == "" || uint32(euid) == ec.UID {
		return nil
	}

	if euid != 0 {
		return fmt.Errorf("%w: cannot run as %q (uid %d) from uid %d without root", core.ErrUserLookup, ec.RunAsUser, ec.UID, euid)
	}

	cmd.SysProcAttr = &syscall.SysProcAttr{
		Credential: &syscall.Credential{Uid: ec.UID, Gid: ec.GID, Groups: ec.Groups},
	}
	return nil
}
