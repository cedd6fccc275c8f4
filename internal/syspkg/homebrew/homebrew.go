// Package homebrew implements the package provider backed by the brew CLI.
package homebrew

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quantmind-br/brewpkg/internal/core"
	"github.com/quantmind-br/brewpkg/internal/helpers"
	"github.com/quantmind-br/brewpkg/internal/security"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// ProviderName is the registered name of this provider
const ProviderName = "homebrew"

// DefaultBinary is the brew executable looked up in PATH
const DefaultBinary = "brew"

// Options configures the provider
type Options struct {
	Owner      string // Account brew runs as; empty means the current user
	Binary     string // brew executable
	AliasesDir string // Override for the alias symlink directory
}

// Provider implements syspkg.Provider for Homebrew
type Provider struct {
	opts       Options
	runner     helpers.CommandRunner
	lookupUser helpers.UserLookup
	fs         afero.Fs
	logger     *zerolog.Logger
}

// New creates a Homebrew provider using the OS runner, user database and filesystem
func New(opts Options, log *zerolog.Logger) *Provider {
	return NewWithDeps(opts, log, helpers.NewOSCommandRunner(), helpers.LookupExecutionContext, afero.NewOsFs())
}

// NewWithDeps creates a Homebrew provider with custom collaborators
func NewWithDeps(opts Options, log *zerolog.Logger, runner helpers.CommandRunner, lookup helpers.UserLookup, fs afero.Fs) *Provider {
	if opts.Binary == "" {
		opts.Binary = DefaultBinary
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Provider{
		opts:       opts,
		runner:     runner,
		lookupUser: lookup,
		fs:         fs,
		logger:     log,
	}
}

// Name returns the registry name of the provider
func (p *Provider) Name() string {
	return ProviderName
}

// Owner returns the configured account brew runs as
func (p *Provider) Owner() string {
	return p.opts.Owner
}

// LoadCurrentState returns the installed versions of the requested package.
// Unknown formulae are reported as not installed.
func (p *Provider) LoadCurrentState(ctx context.Context, req core.PackageRequest) (core.InstalledState, error) {
	state := core.InstalledState{Versions: []string{}}

	f, err := p.formulaFor(ctx, req.Name)
	if err != nil {
		if errors.Is(err, ErrFormulaNotFound) {
			p.logger.Debug().Str("package", req.Name).Msg("formula not found, treating as not installed")
			return state, nil
		}
		return state, err
	}

	state.Versions = append(state.Versions, f.Installed...)
	return state, nil
}

// CandidateVersion returns the stable version, falling back to the formula's default version
func (p *Provider) CandidateVersion(ctx context.Context, req core.PackageRequest) (string, error) {
	f, err := p.formulaFor(ctx, req.Name)
	if err != nil {
		return "", err
	}
	return f.CandidateVersion(), nil
}

// Install runs brew install [options] name [version-arg]
func (p *Provider) Install(ctx context.Context, req core.PackageRequest) error {
	return p.lifecycle(ctx, "install", req, true, false)
}

// Upgrade runs brew upgrade name [version-arg]
func (p *Provider) Upgrade(ctx context.Context, req core.PackageRequest) error {
	return p.lifecycle(ctx, "upgrade", req, false, false)
}

// Remove runs brew uninstall [options] name [version-arg]
func (p *Provider) Remove(ctx context.Context, req core.PackageRequest) error {
	return p.lifecycle(ctx, "uninstall", req, true, false)
}

// Purge removes with --force. Homebrew has no separate notion of purging.
func (p *Provider) Purge(ctx context.Context, req core.PackageRequest) error {
	return p.lifecycle(ctx, "uninstall", req, true, true)
}

// formulaFor resolves name and returns its formula
func (p *Provider) formulaFor(ctx context.Context, name string) (*Formula, error) {
	if err := security.ValidateFormulaName(name); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrFormulaResolution, err)
	}

	resolved, f, err := p.resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	if f != nil {
		return f, nil
	}
	return p.lookupFormula(ctx, resolved)
}

func (p *Provider) lifecycle(ctx context.Context, subcommand string, req core.PackageRequest, withOptions, force bool) error {
	if err := security.ValidateFormulaName(req.Name); err != nil {
		return err
	}
	if err := security.ValidateVersion(req.Version); err != nil {
		return err
	}

	var options []string
	if withOptions {
		var err error
		if options, err = splitOptions(req.Options); err != nil {
			return err
		}
	}
	if force {
		options = withForce(options)
	}

	if _, err := p.brew(ctx, commandArgs(subcommand, options, req.Name, req.Version)...); err != nil {
		return fmt.Errorf("brew %s %s: %w", subcommand, req.Name, err)
	}

	p.logger.Info().
		Str("package", req.Name).
		Str("action", subcommand).
		Msg("brew command completed")
	return nil
}

// brew executes the brew binary as the owner with HOME set to the owner's home
func (p *Provider) brew(ctx context.Context, args ...string) (string, error) {
	ec, err := p.lookupUser(p.opts.Owner)
	if err != nil {
		return "", err
	}

	p.logger.Debug().
		Str("owner", ec.RunAsUser).
		Strs("args", args).
		Msgf("executing '%s %s' as %s", p.opts.Binary, strings.Join(args, " "), ec.RunAsUser)

	return p.runner.RunCommandAs(ctx, ec, p.opts.Binary, args...)
}
