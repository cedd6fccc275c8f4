package security

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// ValidFormulaNameRegex allows an optional user/tap/ prefix followed by
	// alphanumerics, dot, dash, underscore, plus and at (python@3.12, gtk+3)
	ValidFormulaNameRegex = regexp.MustCompile(`^([a-zA-Z0-9_-]+/[a-zA-Z0-9_-]+/)?[a-zA-Z0-9][a-zA-Z0-9._+@-]*$`)

	// ValidVersionRegex allows standard version formats and raw flags such as --HEAD
	ValidVersionRegex = regexp.MustCompile(`^[a-zA-Z0-9._+=:-]+$`)

	// ValidOptionRegex allows a single CLI flag with an optional value
	ValidOptionRegex = regexp.MustCompile(`^--?[a-zA-Z0-9][a-zA-Z0-9_-]*(=[^\x00\n\r]*)?$`)
)

// ValidateFormulaName validates a package name before it reaches argv
func ValidateFormulaName(name string) error {
	if name == "" {
		return fmt.Errorf("package name cannot be empty")
	}

	if len(name) > 255 {
		return fmt.Errorf("package name too long (max 255 characters)")
	}

	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("invalid package name %q: must not start with a dash", name)
	}

	if strings.Contains(name, "..") {
		return fmt.Errorf("invalid package name %q: contains path traversal", name)
	}

	if !ValidFormulaNameRegex.MatchString(name) {
		return fmt.Errorf("invalid package name %q: must be a formula name, optionally prefixed with user/tap/", name)
	}

	return nil
}

// ValidateVersion validates a requested version. Empty means "any version".
func ValidateVersion(version string) error {
	if version == "" {
		return nil
	}

	if len(version) >= 100 {
		return fmt.Errorf("version string too long (max 100 characters)")
	}

	if strings.Contains(version, "\x00") {
		return fmt.Errorf("invalid version: contains null byte")
	}

	if !ValidVersionRegex.MatchString(version) {
		return fmt.Errorf("invalid version format %q: must be alphanumeric with dots, dashes, plus or equals signs", version)
	}

	return nil
}

// ValidateOptions validates the already split option words
func ValidateOptions(words []string) error {
	for _, w := range words {
		if !ValidOptionRegex.MatchString(w) {
			return fmt.Errorf("invalid option %q: options must be flags starting with '-' (write values as --flag=value)", w)
		}
	}
	return nil
}
