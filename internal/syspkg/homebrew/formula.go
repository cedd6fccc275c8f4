package homebrew

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/brewpkg/internal/core"
	"github.com/quantmind-br/brewpkg/internal/fsops"
)

// FormulaExt is the file extension of formula definitions
const FormulaExt = ".rb"

// ErrFormulaNotFound is returned when Homebrew knows no formula by that name
var ErrFormulaNotFound = fmt.Errorf("%w: no available formula", core.ErrFormulaResolution)

// Formula is the subset of `brew info --json=v2` used by the provider
type Formula struct {
	Name      string
	FullName  string
	Aliases   []string
	Stable    string
	Head      string
	Installed []string
}

// Version returns the formula's default version: head when declared,
// otherwise the newest installed version.
func (f *Formula) Version() string {
	if f.Head != "" {
		return f.Head
	}
	if n := len(f.Installed); n > 0 {
		return f.Installed[n-1]
	}
	return ""
}

// CandidateVersion prefers the stable release over the default version
func (f *Formula) CandidateVersion() string {
	if f.Stable != "" {
		return f.Stable
	}
	return f.Version()
}

// brewInfoOutput represents the structure of `brew info --json=v2` output
type brewInfoOutput struct {
	Formulae []brewFormulaInfo `json:"formulae"`
}

type brewFormulaInfo struct {
	Name      string                 `json:"name"`
	FullName  string                 `json:"full_name"`
	Aliases   []string               `json:"aliases"`
	Versions  brewVersions           `json:"versions"`
	Installed []brewInstalledVersion `json:"installed"`
}

type brewVersions struct {
	Stable string `json:"stable"`
	Head   string `json:"head"`
}

type brewInstalledVersion struct {
	Version string `json:"version"`
}

// parseFormulaInfo decodes brew info JSON and returns the first formula
func parseFormulaInfo(output string) (*Formula, error) {
	var info brewInfoOutput
	if err := json.Unmarshal([]byte(output), &info); err != nil {
		return nil, fmt.Errorf("%w: parse brew info output: %v", core.ErrLibraryLoad, err)
	}
	if len(info.Formulae) == 0 {
		return nil, ErrFormulaNotFound
	}

	raw := info.Formulae[0]
	f := &Formula{
		Name:      raw.Name,
		FullName:  raw.FullName,
		Aliases:   raw.Aliases,
		Stable:    raw.Versions.Stable,
		Head:      raw.Versions.Head,
		Installed: make([]string, 0, len(raw.Installed)),
	}
	for _, iv := range raw.Installed {
		if iv.Version != "" {
			f.Installed = append(f.Installed, iv.Version)
		}
	}
	return f, nil
}

// isUnknownFormula reports whether brew failed because the name is unknown
func isUnknownFormula(err error) bool {
	var cmdErr *core.CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	return strings.Contains(cmdErr.Stderr, "No available formula") ||
		strings.Contains(cmdErr.Stderr, "No formulae or casks found")
}

// lookupFormula queries the formula database for name
func (p *Provider) lookupFormula(ctx context.Context, name string) (*Formula, error) {
	out, err := p.brew(ctx, "info", "--json=v2", "--formula", name)
	if err != nil {
		if isUnknownFormula(err) {
			return nil, fmt.Errorf("%w %q", ErrFormulaNotFound, name)
		}
		if errors.Is(err, core.ErrUserLookup) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", core.ErrLibraryLoad, err)
	}

	f, err := parseFormulaInfo(out)
	if errors.Is(err, ErrFormulaNotFound) {
		return nil, fmt.Errorf("%w %q", ErrFormulaNotFound, name)
	}
	return f, err
}

// Prefix returns the Homebrew installation prefix
func (p *Provider) Prefix(ctx context.Context) (string, error) {
	out, err := p.brew(ctx, "--prefix")
	if err != nil {
		if errors.Is(err, core.ErrUserLookup) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", core.ErrLibraryLoad, err)
	}
	return strings.TrimSpace(out), nil
}

// AliasesDir returns the directory holding alias symlinks, or "" when the
// installation has none on disk.
func (p *Provider) AliasesDir(ctx context.Context) (string, error) {
	if p.opts.AliasesDir != "" {
		return p.opts.AliasesDir, nil
	}

	prefix, err := p.Prefix(ctx)
	if err != nil {
		return "", err
	}

	candidates := []string{
		filepath.Join(prefix, "Library", "Taps", "homebrew", "homebrew-core", "Aliases"),
		filepath.Join(prefix, "Library", "Aliases"),
	}
	for _, dir := range candidates {
		if fsops.IsDir(p.fs, dir) {
			return dir, nil
		}
	}
	return "", nil
}

// Aliases returns the sorted alias names known to the installation
func (p *Provider) Aliases(ctx context.Context) ([]string, error) {
	dir, err := p.AliasesDir(ctx)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return nil, nil
	}

	names, err := fsops.ListNames(p.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrFormulaResolution, err)
	}
	return names, nil
}

// ResolvedPackageName returns the canonical formula name for name
func (p *Provider) ResolvedPackageName(ctx context.Context, name string) (string, error) {
	resolved, _, err := p.resolve(ctx, name)
	return resolved, err
}

// resolve maps name to its canonical formula name. The formula is returned
// when the canonical lookup already fetched it.
func (p *Provider) resolve(ctx context.Context, name string) (string, *Formula, error) {
	dir, err := p.AliasesDir(ctx)
	if err != nil {
		return "", nil, err
	}

	if dir != "" && !fsops.IsDir(p.fs, dir) {
		return "", nil, fmt.Errorf("%w: aliases directory %s is not a directory", core.ErrFormulaResolution, dir)
	}

	// tap-qualified names never appear in the Aliases directory
	if dir != "" && filepath.Base(name) == name {
		link := filepath.Join(dir, name)
		isAlias, err := fsops.Lexists(p.fs, link)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %w", core.ErrFormulaResolution, err)
		}
		if isAlias {
			target, err := fsops.ResolveSymlink(p.fs, link)
			if err != nil {
				return "", nil, fmt.Errorf("%w: alias %q: %w", core.ErrFormulaResolution, name, err)
			}
			formula := strings.TrimSuffix(filepath.Base(target), FormulaExt)

			p.logger.Debug().
				Str("package", name).
				Str("formula", formula).
				Msgf("resolved alias '%s' to formula '%s'", name, formula)
			return formula, nil, nil
		}
	}

	f, err := p.lookupFormula(ctx, name)
	if err != nil {
		return "", nil, err
	}
	return f.Name, f, nil
}

// KnownNames returns formula names and aliases, used for suggestions
func (p *Provider) KnownNames(ctx context.Context) ([]string, error) {
	names, err := p.Aliases(ctx)
	if err != nil {
		return nil, err
	}

	out, err := p.brew(ctx, "formulae")
	if err != nil {
		return names, fmt.Errorf("%w: %w", core.ErrLibraryLoad, err)
	}
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// IsUnknownFormula reports whether err means brew knows no formula by that name
func IsUnknownFormula(err error) bool {
	return errors.Is(err, ErrFormulaNotFound) || isUnknownFormula(err)
}
