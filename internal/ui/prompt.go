package ui

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/manifoldco/promptui"
)

// ErrCancelled is returned when the user aborts a prompt
var ErrCancelled = errors.New("operation cancelled by user")

// ConfirmPrompt asks a yes/no confirmation question
func ConfirmPrompt(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	result, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			// IsConfirm reports "n" as an abort
			return false, nil
		}
		if errors.Is(err, promptui.ErrInterrupt) {
			return false, ErrCancelled
		}
		return false, err
	}

	// promptui returns "y" for yes
	return result == "y" || result == "Y", nil
}

// ConfirmDangerousAction asks for confirmation with a warning
func ConfirmDangerousAction(w io.Writer, action string, target string) (bool, error) {
	PrintWarning(w, "You are about to %s: %s", action, target)
	PrintWarning(w, "This action cannot be undone!")
	fmt.Fprintln(w)

	return ConfirmPrompt(fmt.Sprintf("Are you sure you want to %s", action))
}

// Suggest returns up to limit candidates closest to name, best match first
func Suggest(name string, candidates []string, limit int) []string {
	if name == "" || len(candidates) == 0 || limit <= 0 {
		return nil
	}

	ranks := fuzzy.RankFindNormalizedFold(name, candidates)
	// Reverse direction so "git-lfs-extra" still suggests "git-lfs"
	for i, c := range candidates {
		if fuzzy.MatchNormalizedFold(c, name) {
			ranks = append(ranks, fuzzy.Rank{
				Source:        name,
				Target:        c,
				Distance:      fuzzy.LevenshteinDistance(name, c),
				OriginalIndex: i,
			})
		}
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].Target < ranks[j].Target
	})

	seen := make(map[string]bool)
	out := make([]string, 0, limit)
	for _, r := range ranks {
		if seen[r.Target] || r.Target == name {
			continue
		}
		seen[r.Target] = true
		out = append(out, r.Target)
		if len(out) == limit {
			break
		}
	}
	return out
}
