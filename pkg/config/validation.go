package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom rules.
//
// This function uses go-playground/validator for declarative validation
// via struct tags, with additional custom validation for rules that
// cannot be expressed in tags.
//
// Note: Log level normalization is handled in ApplyDefaults, not here.
//
// Returns an error describing the first validation failure.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	if err := validateCustomRules(cfg); err != nil {
		return err
	}

	return nil
}

// validateCustomRules performs custom validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	// The single-instance user must not collide with derived instance
	// identifiers, otherwise the two flows could fight over one user.
	if strings.HasPrefix(cfg.Samba.ShareUser, cfg.Samba.InstancePrefix) {
		return fmt.Errorf("samba: share_user %q must not start with instance_prefix %q",
			cfg.Samba.ShareUser, cfg.Samba.InstancePrefix)
	}

	// The fragments directory must not contain the global config file,
	// or the includes regeneration would pull smb.conf into itself.
	if strings.HasSuffix(cfg.Samba.ConfPath, ".conf") &&
		strings.HasPrefix(cfg.Samba.ConfPath, cfg.Samba.FragmentsDir+"/") {
		return fmt.Errorf("samba: conf_path %q must not live inside fragments_dir %q",
			cfg.Samba.ConfPath, cfg.Samba.FragmentsDir)
	}

	if cfg.Registry.Type == "badger" {
		path, _ := cfg.Registry.Badger["path"].(string)
		if path == "" {
			return fmt.Errorf("registry: badger registry requires a path")
		}
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		// Return the first validation error with context
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
