package homebrew

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/quantmind-br/brewpkg/internal/security"
)

const forceFlag = "--force"

// VersionArg formats a requested version for brew. Values that already look
// like a flag are passed through unchanged.
func VersionArg(version string) string {
	if strings.HasPrefix(version, "-") {
		return version
	}
	return "-v=" + version
}

// withForce appends --force to the option words unless one is already present
func withForce(words []string) []string {
	for _, word := range words {
		if word == forceFlag {
			return words
		}
	}
	return append(words[:len(words):len(words)], forceFlag)
}

// splitOptions turns the options string into argv words
func splitOptions(options string) ([]string, error) {
	words, err := shellquote.Split(options)
	if err != nil {
		return nil, fmt.Errorf("parse options %q: %w", options, err)
	}
	if err := security.ValidateOptions(words); err != nil {
		return nil, err
	}
	return words, nil
}

// commandArgs builds "<subcommand> [options...] name [version-arg]"
func commandArgs(subcommand string, options []string, name, version string) []string {
	args := make([]string, 0, len(options)+3)
	args = append(args, subcommand)
	args = append(args, options...)
	args = append(args, name)
	if version != "" {
		args = append(args, VersionArg(version))
	}
	return args
}
