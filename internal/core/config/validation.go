package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks struct tags first, then the rules tags cannot express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	if !strings.HasPrefix(cfg.URL, "http://") && !strings.HasPrefix(cfg.URL, "https://") {
		return fmt.Errorf("url: %q must use http or https", cfg.URL)
	}

	// an empty dav root means the default ownCloud root, which embeds the user
	if (cfg.DavRoot == "" || strings.Contains(cfg.DavRoot, "{user}")) && cfg.Username == "" {
		return fmt.Errorf("dav-root: a username is required for %q", davRootOrDefault(cfg.DavRoot))
	}

	return nil
}

func davRootOrDefault(root string) string {
	if root == "" {
		return "default root"
	}
	return root
}

func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok && len(validationErrs) > 0 {
		e := validationErrs[0]
		return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
			e.Namespace(), e.Tag(), e.Value())
	}
	return err
}
