// Package config loads the catpages configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/catpages/internal/errors"
)

// CurrentVersion is the configuration format this build understands.
const CurrentVersion = "1.0"

// Config is the root of the configuration file.
type Config struct {
	Version    string           `yaml:"version"`
	Site       SiteConfig       `yaml:"site"`
	Content    ContentConfig    `yaml:"content"`
	Output     OutputConfig     `yaml:"output"`
	Categories CategoriesConfig `yaml:"categories"`
	Layout     LayoutConfig     `yaml:"layout"`
	Build      BuildConfig      `yaml:"build"`
	Preview    PreviewConfig    `yaml:"preview"`
}

// SiteConfig describes the generated site.
type SiteConfig struct {
	Title   string `yaml:"title"`
	BaseURL string `yaml:"base_url"`
	Locale  string `yaml:"locale"` // BCP 47 tag, used for the html lang attribute
}

// ContentConfig controls content discovery and Markdown rendering.
type ContentConfig struct {
	Directory     string         `yaml:"directory"`
	Ignore        []string       `yaml:"ignore"`         // glob patterns matched against paths and names
	IncludeDrafts bool           `yaml:"include_drafts"` // render pages with draft: true
	Markdown      MarkdownConfig `yaml:"markdown"`
}

// MarkdownConfig selects goldmark extensions.
type MarkdownConfig struct {
	Extensions []string `yaml:"extensions"`
	HardWraps  bool     `yaml:"hard_wraps"`
	Unsafe     bool     `yaml:"unsafe"` // pass raw HTML through
}

// OutputConfig represents output directory configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // remove the directory before a full build
}

// CategoriesConfig sets the titles of generated category pages.
type CategoriesConfig struct {
	IndexTitle  string `yaml:"index_title"`
	TitlePrefix string `yaml:"title_prefix"`
}

// LayoutConfig customises the shared page layout.
type LayoutConfig struct {
	FooterLinks []Link `yaml:"footer_links"`
}

// Link is a footer link.
type Link struct {
	Text string `yaml:"text"`
	URL  string `yaml:"url"`
}

// BuildConfig controls the build pipeline.
type BuildConfig struct {
	CachePath   string `yaml:"cache_path"`  // SQLite build cache
	Incremental bool   `yaml:"incremental"` // reuse the previous build when possible
	Workers     int    `yaml:"workers"`     // content parsing concurrency
}

// PreviewConfig controls the preview server.
type PreviewConfig struct {
	Port     int    `yaml:"port"`
	Metrics  bool   `yaml:"metrics"`  // expose /metrics
	Debounce string `yaml:"debounce"` // quiet period before a rebuild, e.g. "300ms"
}

// DebounceDuration returns the parsed debounce. Load guarantees it parses.
func (p PreviewConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(p.Debounce)
	if err != nil {
		return defaultDebounce
	}
	return d
}

// Load reads, expands, defaults and validates a configuration file.
// Environment variables from .env files are loaded first so ${VAR}
// references can use them.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	// #nosec G304 -- the path is chosen by the user.
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithPath(configPath).
				Build()
		}
		return nil, errors.FileSystemError("failed to read config file").
			WithCause(err).
			WithPath(configPath).
			Build()
	}
	return Parse(data)
}

// Parse builds a configuration from YAML. Environment variables are expanded
// before decoding.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config").
			Fatal().
			UserAction().
			Build()
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	_ = applyDefaults(&cfg)
	return &cfg
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithPath(configPath).
			Build()
	}

	example := Default()
	example.Site = SiteConfig{
		Title:   "My Notes",
		BaseURL: "${SITE_BASE_URL}",
		Locale:  "en",
	}
	example.Layout.FooterLinks = []Link{
		{Text: "Source", URL: "https://example.com/notes"},
	}
	example.Build.Workers = 0
	example.Preview.Metrics = true

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	// #nosec G306 -- configuration is not secret.
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.FileSystemError("failed to write config file").
			WithCause(err).
			WithPath(configPath).
			Build()
	}
	return nil
}
