package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggest(t *testing.T) {
	candidates := []string{"git", "gitea", "go", "wget"}

	tests := []struct {
		name  string
		input string
		limit int
		want  []string
	}{
		{name: "prefix ranks by distance", input: "gi", limit: 2, want: []string{"git", "gitea"}},
		{name: "limit applies", input: "gi", limit: 1, want: []string{"git"}},
		{name: "longer input finds shorter name", input: "gitt", limit: 3, want: []string{"git"}},
		{name: "exact match is not suggested", input: "git", limit: 5, want: []string{"gitea"}},
		{name: "case insensitive", input: "WGE", limit: 3, want: []string{"wget"}},
		{name: "no match", input: "zsh", limit: 3, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Suggest(tt.input, candidates, tt.limit))
		})
	}
}

func TestSuggest_Degenerate(t *testing.T) {
	assert.Nil(t, Suggest("", []string{"git"}, 3))
	assert.Nil(t, Suggest("git", nil, 3))
	assert.Nil(t, Suggest("git", []string{"gitea"}, 0))
}

func TestErrCancelled(t *testing.T) {
	assert.EqualError(t, ErrCancelled, "operation cancelled by user")
}
