package security

import (
	"fmt"
	"regexp"
	"strings"
)

var profilePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateProfileName ensures a profile name is safe for use in URLs and
// file paths.
func ValidateProfileName(name string) error {
	if name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, ".") {
		return fmt.Errorf("profile name cannot start with '-' or '.'")
	}
	if !profilePattern.MatchString(name) {
		return fmt.Errorf("profile name contains invalid characters (only a-z, A-Z, 0-9, _, - allowed)")
	}
	return nil
}
