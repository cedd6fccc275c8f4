package converge

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/quantmind-br/brewpkg/internal/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider tracks installed versions in memory
type fakeProvider struct {
	installed []string
	candidate string
	loadErr   error
	opErr     error
	calls     []string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) LoadCurrentState(context.Context, core.PackageRequest) (core.InstalledState, error) {
	if f.loadErr != nil {
		return core.InstalledState{}, f.loadErr
	}
	return core.InstalledState{Versions: append([]string{}, f.installed...)}, nil
}

func (f *fakeProvider) CandidateVersion(context.Context, core.PackageRequest) (string, error) {
	return f.candidate, nil
}

func (f *fakeProvider) Install(_ context.Context, req core.PackageRequest) error {
	f.calls = append(f.calls, "install")
	if f.opErr != nil {
		return f.opErr
	}
	v := req.Version
	if v == "" {
		v = f.candidate
	}
	f.installed = append(f.installed, v)
	return nil
}

func (f *fakeProvider) Upgrade(context.Context, core.PackageRequest) error {
	f.calls = append(f.calls, "upgrade")
	if f.opErr != nil {
		return f.opErr
	}
	f.installed = []string{f.candidate}
	return nil
}

func (f *fakeProvider) Remove(context.Context, core.PackageRequest) error {
	f.calls = append(f.calls, "remove")
	if f.opErr != nil {
		return f.opErr
	}
	f.installed = nil
	return nil
}

func (f *fakeProvider) Purge(ctx context.Context, req core.PackageRequest) error {
	f.calls = append(f.calls, "purge")
	return f.Remove(ctx, req)
}

type memJournal struct {
	runs []core.RunRecord
	err  error
}

func (j *memJournal) Create(_ context.Context, run *core.RunRecord) error {
	if j.err != nil {
		return j.err
	}
	j.runs = append(j.runs, *run)
	return nil
}

func TestRunner_Install(t *testing.T) {
	t.Run("installs when absent", func(t *testing.T) {
		p := &fakeProvider{candidate: "2.43.0"}
		j := &memJournal{}
		r := NewRunner(p, nil, WithJournal(j))

		res, err := r.Run(context.Background(), core.ActionInstall, core.PackageRequest{Name: "git"})
		require.NoError(t, err)
		assert.True(t, res.Changed())
		assert.Equal(t, []string{"install"}, p.calls)
		assert.Equal(t, []string{"2.43.0"}, res.After.Versions)
		assert.NotEmpty(t, res.RunID)

		require.Len(t, j.runs, 1)
		assert.Equal(t, "fake", j.runs[0].Provider)
		assert.Equal(t, core.OutcomeChanged, j.runs[0].Outcome)
		assert.Equal(t, "", j.runs[0].Before)
		assert.Equal(t, "2.43.0", j.runs[0].After)
	})

	t.Run("up to date when installed and no version requested", func(t *testing.T) {
		p := &fakeProvider{installed: []string{"2.42.0"}}
		res, err := NewRunner(p, nil).Run(context.Background(), core.ActionInstall, core.PackageRequest{Name: "git"})
		require.NoError(t, err)
		assert.Equal(t, core.OutcomeUpToDate, res.Outcome)
		assert.Empty(t, p.calls)
	})

	t.Run("installs a requested version that is missing", func(t *testing.T) {
		p := &fakeProvider{installed: []string{"2.42.0"}}
		res, err := NewRunner(p, nil).Run(context.Background(), core.ActionInstall, core.PackageRequest{Name: "git", Version: "2.43.0"})
		require.NoError(t, err)
		assert.Equal(t, core.OutcomeChanged, res.Outcome)
		assert.Equal(t, []string{"install"}, p.calls)
	})

	t.Run("provider failure is fatal and journaled", func(t *testing.T) {
		opErr := &core.CommandError{Command: "brew", ExitCode: 1}
		p := &fakeProvider{opErr: opErr}
		j := &memJournal{}

		res, err := NewRunner(p, nil, WithJournal(j)).Run(context.Background(), core.ActionInstall, core.PackageRequest{Name: "git"})
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrSubprocess)
		assert.Equal(t, core.OutcomeFailed, res.Outcome)
		assert.Equal(t, []string{"install"}, p.calls, "no retry")
		require.Len(t, j.runs, 1)
		assert.NotEmpty(t, j.runs[0].Error)
	})
}

func TestRunner_Upgrade(t *testing.T) {
	t.Run("upgrades outdated", func(t *testing.T) {
		p := &fakeProvider{installed: []string{"2.42.0"}, candidate: "2.43.0"}
		res, err := NewRunner(p, nil).Run(context.Background(), core.ActionUpgrade, core.PackageRequest{Name: "git"})
		require.NoError(t, err)
		assert.Equal(t, core.OutcomeChanged, res.Outcome)
		assert.Equal(t, "2.43.0", res.Candidate)
		assert.Equal(t, []string{"upgrade"}, p.calls)
	})

	t.Run("skips current", func(t *testing.T) {
		p := &fakeProvider{installed: []string{"2.43"}, candidate: "2.43.0"}
		res, err := NewRunner(p, nil).Run(context.Background(), core.ActionUpgrade, core.PackageRequest{Name: "git"})
		require.NoError(t, err)
		assert.Equal(t, core.OutcomeUpToDate, res.Outcome)
		assert.Empty(t, p.calls)
	})

	t.Run("upgrade of absent package calls provider", func(t *testing.T) {
		p := &fakeProvider{candidate: "1.7.1"}
		_, err := NewRunner(p, nil).Run(context.Background(), core.ActionUpgrade, core.PackageRequest{Name: "jq"})
		require.NoError(t, err)
		assert.Equal(t, []string{"upgrade"}, p.calls)
	})
}

func TestRunner_RemoveAndPurge(t *testing.T) {
	t.Run("remove installed", func(t *testing.T) {
		p := &fakeProvider{installed: []string{"1.0"}}
		res, err := NewRunner(p, nil).Run(context.Background(), core.ActionRemove, core.PackageRequest{Name: "jq"})
		require.NoError(t, err)
		assert.Equal(t, core.OutcomeChanged, res.Outcome)
		assert.Equal(t, []string{"remove"}, p.calls)
		assert.Empty(t, res.After.Versions)
	})

	t.Run("purge installed", func(t *testing.T) {
		p := &fakeProvider{installed: []string{"1.0"}}
		_, err := NewRunner(p, nil).Run(context.Background(), core.ActionPurge, core.PackageRequest{Name: "jq"})
		require.NoError(t, err)
		assert.Equal(t, []string{"purge", "remove"}, p.calls)
	})

	t.Run("absent package is left alone", func(t *testing.T) {
		p := &fakeProvider{}
		res, err := NewRunner(p, nil).Run(context.Background(), core.ActionPurge, core.PackageRequest{Name: "jq"})
		require.NoError(t, err)
		assert.Equal(t, core.OutcomeNotInstalled, res.Outcome)
		assert.Empty(t, p.calls)
	})
}

func TestRunner_DryRun(t *testing.T) {
	p := &fakeProvider{installed: []string{"1.0"}}
	res, err := NewRunner(p, nil, WithDryRun(true)).Run(context.Background(), core.ActionRemove, core.PackageRequest{Name: "jq"})
	require.NoError(t, err)
	assert.Equal(t, core.OutcomeDryRun, res.Outcome)
	assert.Empty(t, p.calls)
}

func TestRunner_Errors(t *testing.T) {
	t.Run("state load failure", func(t *testing.T) {
		p := &fakeProvider{loadErr: core.ErrLibraryLoad}
		res, err := NewRunner(p, nil).Run(context.Background(), core.ActionInstall, core.PackageRequest{Name: "git"})
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrLibraryLoad)
		assert.Equal(t, core.OutcomeFailed, res.Outcome)
		assert.Empty(t, p.calls)
	})

	t.Run("unknown action", func(t *testing.T) {
		_, err := NewRunner(&fakeProvider{}, nil).Run(context.Background(), core.Action("reinstall"), core.PackageRequest{Name: "git"})
		assert.Error(t, err)
	})

	t.Run("journal failure does not fail the run", func(t *testing.T) {
		var buf bytes.Buffer
		log := zerolog.New(&buf)
		j := &memJournal{err: errors.New("disk full")}

		_, err := NewRunner(&fakeProvider{}, &log, WithJournal(j)).Run(context.Background(), core.ActionRemove, core.PackageRequest{Name: "git"})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "failed to record run")
	})
}

func TestSameVersion(t *testing.T) {
	assert.True(t, SameVersion("2.43", "2.43.0"))
	assert.True(t, SameVersion("1.2_1", "1.2_1"))
	assert.False(t, SameVersion("1.2_1", "1.2_2"))
	assert.False(t, SameVersion("2.42.0", "2.43.0"))
	assert.False(t, SameVersion("", "1.0"))
}
