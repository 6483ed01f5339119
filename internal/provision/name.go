package provision

import (
	"fmt"
	"regexp"
	"strings"
)

// instanceNamePattern accepts lowercase alphanumerics and hyphens, not
// starting with a hyphen.
var instanceNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidateInstanceName checks an operator-supplied instance name.
//
// Accepted names match instanceNamePattern and do not start with the
// reserved prefix (which the identifier derivation prepends itself).
func ValidateInstanceName(name, reservedPrefix string) error {
	if name == "" {
		return fmt.Errorf("instance name must not be empty")
	}
	if strings.HasPrefix(name, reservedPrefix) {
		return fmt.Errorf("instance name must not start with the reserved prefix %q", reservedPrefix)
	}
	if !instanceNamePattern.MatchString(name) {
		return fmt.Errorf("instance name must consist of lowercase letters, digits and hyphens, starting with a letter or digit")
	}
	return nil
}

// DeriveIdentifier returns the canonical instance identifier for a
// validated name. The identifier names the system user, the share, the
// share directory and the config fragment.
func DeriveIdentifier(prefix, name string) string {
	return prefix + name
}
