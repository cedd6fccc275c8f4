package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/quantmind-br/brewpkg/internal/config"
	"github.com/quantmind-br/brewpkg/internal/core"
	"github.com/quantmind-br/brewpkg/internal/db"
	"github.com/quantmind-br/brewpkg/internal/fsops"
	"github.com/quantmind-br/brewpkg/internal/helpers"
	"github.com/quantmind-br/brewpkg/internal/syspkg"
	"github.com/quantmind-br/brewpkg/internal/syspkg/homebrew"
	"github.com/quantmind-br/brewpkg/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Deps are the collaborators commands build the provider from
type Deps struct {
	Runner     helpers.CommandRunner
	LookupUser helpers.UserLookup
	Fs         afero.Fs
	Confirm    func(w io.Writer, action, target string) (bool, error)
}

// DefaultDeps uses the real OS, user database and an interactive prompt
func DefaultDeps() Deps {
	return Deps{
		Runner:     helpers.NewOSCommandRunner(),
		LookupUser: helpers.LookupExecutionContext,
		Fs:         afero.NewOsFs(),
		Confirm:    ui.ConfirmDangerousAction,
	}
}

// ExitError carries the process exit code for a failed command
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// app is the state shared by all subcommands
type app struct {
	cfg  *config.Config
	log  *zerolog.Logger
	deps Deps

	owner    string
	platform string
	dryRun   bool
	noColor  bool
}

// NewRootCmd creates the root command
func NewRootCmd(cfg *config.Config, log *zerolog.Logger, version string) *cobra.Command {
	return NewRootCmdWithDeps(cfg, log, version, DefaultDeps())
}

// NewRootCmdWithDeps creates the root command with custom collaborators
func NewRootCmdWithDeps(cfg *config.Config, log *zerolog.Logger, version string, deps Deps) *cobra.Command {
	a := &app{cfg: cfg, log: log, deps: deps}

	cmd := &cobra.Command{
		Use:           "brewpkg",
		Short:         "Converge Homebrew packages",
		Long:          `Install, upgrade, remove and purge Homebrew formulae idempotently, running brew as a designated owner.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if a.noColor {
				ui.DisableColors()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&a.owner, "owner", "", "account brew runs as (overrides homebrew.owner)")
	cmd.PersistentFlags().StringVar(&a.platform, "platform", "", "host platform used for provider lookup (default: detected)")
	cmd.PersistentFlags().BoolVar(&a.dryRun, "dry-run", false, "report what would change without running brew")
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output (same as logging.color = never)")

	cmd.AddCommand(newActionCmd(a, actionInstall))
	cmd.AddCommand(newActionCmd(a, actionUpgrade))
	cmd.AddCommand(newActionCmd(a, actionRemove))
	cmd.AddCommand(newActionCmd(a, actionPurge))
	cmd.AddCommand(NewStatusCmd(a))
	cmd.AddCommand(NewHistoryCmd(a))
	cmd.AddCommand(NewProvidersCmd(a))
	cmd.AddCommand(NewDoctorCmd(a))
	cmd.AddCommand(NewCompletionCmd(log))
	cmd.AddCommand(NewVersionCmd(version))

	return cmd
}

// homebrew builds the Homebrew provider from configuration and flags
func (a *app) homebrew() *homebrew.Provider {
	owner := a.cfg.Homebrew.Owner
	if a.owner != "" {
		owner = a.owner
	}
	return homebrew.NewWithDeps(homebrew.Options{
		Owner:      owner,
		Binary:     a.cfg.Homebrew.Binary,
		AliasesDir: a.cfg.Homebrew.AliasesDir,
	}, a.log, a.deps.Runner, a.deps.LookupUser, a.deps.Fs)
}

// registry registers the Homebrew provider in a fresh registry
func (a *app) registry() (*syspkg.Registry, *homebrew.Provider) {
	reg := syspkg.NewRegistry(a.log)
	hb := a.homebrew()
	homebrew.Register(reg, hb)
	return reg, hb
}

func (a *app) currentPlatform() string {
	if a.platform != "" {
		return a.platform
	}
	return syspkg.CurrentPlatform()
}

// provider looks up the package provider for the current platform
func (a *app) provider() (syspkg.Provider, error) {
	reg, _ := a.registry()
	key := syspkg.Key{Platform: a.currentPlatform(), Resource: syspkg.ResourcePackage}
	p, err := reg.Lookup(key)
	if err != nil {
		return nil, fmt.Errorf("%w (use --platform %s on a macOS host)", err, syspkg.PlatformMacOSX)
	}
	return p, nil
}

// context applies homebrew.timeout to the command context
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.cfg.Homebrew.Timeout > 0 {
		return context.WithTimeout(ctx, time.Duration(a.cfg.Homebrew.Timeout)*time.Second)
	}
	return context.WithCancel(ctx)
}

// openJournal opens the run journal, or returns nil when none is configured
func (a *app) openJournal(ctx context.Context) (*db.DB, error) {
	if a.cfg.Paths.DBFile == "" {
		return nil, nil
	}
	if err := fsops.EnsureDir(a.deps.Fs, filepath.Dir(a.cfg.Paths.DBFile), 0755); err != nil {
		return nil, err
	}
	return db.New(ctx, a.cfg.Paths.DBFile)
}

// suggest prints close formula names after an unknown-formula failure
func (a *app) suggest(ctx context.Context, w io.Writer, p *homebrew.Provider, name string, err error) {
	if p == nil || !homebrew.IsUnknownFormula(err) {
		return
	}
	names, lookupErr := p.KnownNames(ctx)
	if lookupErr != nil {
		a.log.Debug().Err(lookupErr).Msg("could not list formula names for suggestions")
	}
	if matches := ui.Suggest(name, names, 3); len(matches) > 0 {
		ui.PrintInfo(w, "Did you mean: %s?", strings.Join(matches, ", "))
	}
}

// ExitCode returns the process exit code for an error returned by Execute
func ExitCode(err error) int {
	if err == nil {
		return core.ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return core.ExitGeneral
}
