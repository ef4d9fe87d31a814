package config

import (
	"net/url"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/catpages/internal/errors"
)

// ValidateConfig checks a defaulted configuration. Every failure is a
// fatal config error naming the offending field.
func ValidateConfig(cfg *Config) error {
	v := &configurationValidator{config: cfg}
	for _, check := range []func() error{
		v.validateVersion,
		v.validateSite,
		v.validatePaths,
		v.validateLayout,
		v.validateBuild,
		v.validatePreview,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

type configurationValidator struct {
	config *Config
}

func invalid(field, message string, value any) error {
	return errors.ConfigError(message).
		WithContext("field", field).
		WithContext("value", value).
		Build()
}

func (cv *configurationValidator) validateVersion() error {
	if cv.config.Version != CurrentVersion {
		return invalid("version", "unsupported configuration version (expected "+CurrentVersion+")", cv.config.Version)
	}
	return nil
}

func (cv *configurationValidator) validateSite() error {
	if cv.config.Site.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(cv.config.Site.BaseURL)
	if err != nil || u.Host == "" {
		return invalid("site.base_url", "base_url must be an absolute URL", cv.config.Site.BaseURL)
	}
	return nil
}

// validatePaths rejects an output directory that would overwrite the content.
func (cv *configurationValidator) validatePaths() error {
	content := filepath.Clean(cv.config.Content.Directory)
	output := filepath.Clean(cv.config.Output.Directory)
	if output == "." || output == "/" {
		return invalid("output.directory", "output directory must be a dedicated directory", cv.config.Output.Directory)
	}
	if content == output {
		return invalid("output.directory", "output directory must differ from the content directory", cv.config.Output.Directory)
	}
	for _, pattern := range cv.config.Content.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return invalid("content.ignore", "invalid ignore pattern", pattern)
		}
	}
	return nil
}

func (cv *configurationValidator) validateLayout() error {
	for _, link := range cv.config.Layout.FooterLinks {
		if link.Text == "" || link.URL == "" {
			return invalid("layout.footer_links", "footer links need both text and url", link)
		}
	}
	return nil
}

func (cv *configurationValidator) validateBuild() error {
	if cv.config.Build.Workers < 0 {
		return invalid("build.workers", "workers must not be negative", cv.config.Build.Workers)
	}
	return nil
}

func (cv *configurationValidator) validatePreview() error {
	if p := cv.config.Preview.Port; p < 1 || p > 65535 {
		return invalid("preview.port", "port must be between 1 and 65535", p)
	}
	d, err := time.ParseDuration(cv.config.Preview.Debounce)
	if err != nil || d < 0 {
		return invalid("preview.debounce", "debounce must be a non-negative duration", cv.config.Preview.Debounce)
	}
	return nil
}
