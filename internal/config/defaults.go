package config

import (
	"runtime"
	"time"

	"git.home.luguber.info/inful/catpages/internal/category"
)

const (
	defaultContentDir = "content"
	defaultOutputDir  = "public"
	defaultCachePath  = ".catpages/cache.db"
	defaultPort       = 8080
	defaultDebounce   = 300 * time.Millisecond
)

// DefaultIgnore lists the content entries skipped when none are configured.
var DefaultIgnore = []string{"private", "templates", ".obsidian"}

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

var defaultAppliers = []DefaultApplier{
	siteDefaults{},
	contentDefaults{},
	categoryDefaults{},
	buildDefaults{},
	previewDefaults{},
}

func applyDefaults(cfg *Config) error {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	for _, a := range defaultAppliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}

type siteDefaults struct{}

func (siteDefaults) Domain() string { return "site" }

func (siteDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Site.Title == "" {
		cfg.Site.Title = "catpages"
	}
	if cfg.Site.Locale == "" {
		cfg.Site.Locale = "en"
	}
	return nil
}

type contentDefaults struct{}

func (contentDefaults) Domain() string { return "content" }

func (contentDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Content.Directory == "" {
		cfg.Content.Directory = defaultContentDir
	}
	if cfg.Content.Ignore == nil {
		cfg.Content.Ignore = append([]string(nil), DefaultIgnore...)
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = defaultOutputDir
	}
	return nil
}

type categoryDefaults struct{}

func (categoryDefaults) Domain() string { return "categories" }

func (categoryDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Categories.IndexTitle == "" {
		cfg.Categories.IndexTitle = category.DefaultTitles.Index
	}
	if cfg.Categories.TitlePrefix == "" {
		cfg.Categories.TitlePrefix = category.DefaultTitles.Prefix
	}
	return nil
}

type buildDefaults struct{}

func (buildDefaults) Domain() string { return "build" }

func (buildDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Build.CachePath == "" {
		cfg.Build.CachePath = defaultCachePath
	}
	if cfg.Build.Workers == 0 {
		cfg.Build.Workers = runtime.NumCPU()
	}
	return nil
}

type previewDefaults struct{}

func (previewDefaults) Domain() string { return "preview" }

func (previewDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Preview.Port == 0 {
		cfg.Preview.Port = defaultPort
	}
	if cfg.Preview.Debounce == "" {
		cfg.Preview.Debounce = defaultDebounce.String()
	}
	return nil
}
