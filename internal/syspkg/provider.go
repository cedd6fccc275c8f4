package syspkg

import (
	"context"

	"github.com/quantmind-br/brewpkg/internal/core"
)

// Provider defines the lifecycle contract a host calls for a package resource
type Provider interface {
	// Name returns the provider name (e.g., "homebrew")
	Name() string

	// LoadCurrentState returns the installed versions; absent packages yield an empty state
	LoadCurrentState(ctx context.Context, req core.PackageRequest) (core.InstalledState, error)

	// CandidateVersion returns the version the package manager would install
	CandidateVersion(ctx context.Context, req core.PackageRequest) (string, error)

	// Install installs the requested package
	Install(ctx context.Context, req core.PackageRequest) error

	// Upgrade upgrades the requested package
	Upgrade(ctx context.Context, req core.PackageRequest) error

	// Remove removes the requested package
	Remove(ctx context.Context, req core.PackageRequest) error

	// Purge removes the requested package and everything the manager allows
	Purge(ctx context.Context, req core.PackageRequest) error
}
