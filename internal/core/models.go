package core

import (
	"strings"
	"time"
)

// Action represents a package lifecycle action requested by the host
type Action string

const (
	ActionInstall Action = "install"
	ActionUpgrade Action = "upgrade"
	ActionRemove  Action = "remove"
	ActionPurge   Action = "purge"
)

// Actions lists every supported action in dispatch order
var Actions = []Action{ActionInstall, ActionUpgrade, ActionRemove, ActionPurge}

// PackageRequest is the desired package supplied by the host for one operation
type PackageRequest struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"` // Empty means no specific version requested
	Options string `json:"options,omitempty"` // Extra CLI flags, shell-word separated
}

// InstalledState holds the installed versions of a package, oldest first.
// An empty list means the package is not installed.
type InstalledState struct {
	Versions []string `json:"installed_versions"`
}

// IsInstalled reports whether at least one version is installed
func (s InstalledState) IsInstalled() bool {
	return len(s.Versions) > 0
}

// Has reports whether version is among the installed versions
func (s InstalledState) Has(version string) bool {
	for _, v := range s.Versions {
		if v == version {
			return true
		}
	}
	return false
}

// Latest returns the most recently listed installed version, or "" when none
func (s InstalledState) Latest() string {
	if len(s.Versions) == 0 {
		return ""
	}
	return s.Versions[len(s.Versions)-1]
}

// String joins installed versions with spaces
func (s InstalledState) String() string {
	return strings.Join(s.Versions, " ")
}

// ExecutionContext describes the account a command runs as
type ExecutionContext struct {
	RunAsUser     string
	HomeDirectory string
	UID           uint32
	GID           uint32
	Groups        []uint32 // supplementary group IDs, primary included
	Environment   map[string]string
}

// Outcome describes what a converge run did
type Outcome string

const (
	OutcomeChanged      Outcome = "changed"
	OutcomeUpToDate     Outcome = "up-to-date"
	OutcomeNotInstalled Outcome = "not-installed"
	OutcomeDryRun       Outcome = "dry-run"
	OutcomeFailed       Outcome = "failed"
)

// RunRecord represents one converge run in the journal
type RunRecord struct {
	RunID     string        `json:"run_id"`
	Provider  string        `json:"provider"`
	Action    Action        `json:"action"`
	Package   string        `json:"package"`
	Version   string        `json:"version,omitempty"`
	Before    string        `json:"before,omitempty"`
	After     string        `json:"after,omitempty"`
	Outcome   Outcome       `json:"outcome"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// Exit codes
const (
	ExitSuccess         = 0
	ExitGeneral         = 1
	ExitInvalidArgs     = 2
	ExitInstallFailed   = 3
	ExitUninstallFailed = 4
	ExitDatabase        = 5
	ExitPermission      = 6
	ExitCommandNotFound = 8
	ExitInterrupted     = 130
)
