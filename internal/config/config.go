// Package config loads the configuration of the demo commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config is the configuration shared by the demo commands.
type Config struct {
	// Tick is the period of the counter's interval source.
	Tick time.Duration `yaml:"tick"`

	// Locale is the default locale. It is always supported.
	Locale string `yaml:"locale"`

	// Locales are the supported locales, besides the default one.
	Locales []string `yaml:"locales"`

	// BundleDir is the directory containing <locale>.yaml translation bundles.
	BundleDir string `yaml:"bundle_dir"`

	// CacheSize is the number of translation bundles kept in memory.
	CacheSize int `yaml:"cache_size"`

	// ResourceURL is the base URL of the resource server. If empty, bundles are loaded from BundleDir.
	ResourceURL string `yaml:"resource_url"`

	// Resources is the YAML file listing the resources served by the resource server and the simulated client.
	Resources string `yaml:"resources"`

	// Listen is the address the resource server listens on.
	Listen string `yaml:"listen"`

	// Simulate serves resources from memory instead of fetching them from ResourceURL.
	Simulate bool `yaml:"simulate"`

	// Latency is the latency of simulated fetches.
	Latency time.Duration `yaml:"latency"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Tick:      time.Second,
		Locale:    "en",
		Locales:   []string{"de", "fr"},
		BundleDir: "locales",
		CacheSize: 8,
		Resources: "resources.yaml",
		Listen:    ":8080",
		Simulate:  true,
		Latency:   300 * time.Millisecond,
		LogLevel:  "info",
	}
}

// LoadFromFile loads the configuration from a YAML file, on top of the defaults.
// ${VAR} and ${VAR:-default} in the file are replaced with environment variables.
func LoadFromFile(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)

	ext := filepath.Ext(cleanPath)
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("invalid config file %s: only .yaml and .yml files are allowed", cleanPath)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", cleanPath, err)
	}

	config := Default()

	if err := yaml.Unmarshal([]byte(substituteEnvVars(string(data))), config); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", cleanPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadEnvFiles loads environment variables from the .env files that exist.
// Variables already set are not overridden, so earlier files take precedence.
func LoadEnvFiles(envFiles ...string) {
	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}

		if err := godotenv.Load(envFile); err != nil {
			fiberlog.Warnf("config: load %s: %v", envFile, err)
			continue
		}

		fiberlog.Debugf("config: loaded environment variables from %s", envFile)
	}
}

// Validate returns an error if c is not usable.
func (c *Config) Validate() error {
	var errs []error

	if c.Tick <= 0 {
		errs = append(errs, fmt.Errorf("tick must be positive, got %s", c.Tick))
	}

	if _, err := c.Tags(); err != nil {
		errs = append(errs, err)
	}

	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	if !c.Simulate && c.ResourceURL == "" {
		errs = append(errs, errors.New("resource_url is required unless simulate is set"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// Tags returns the supported locales, the default locale first, without duplicates.
func (c *Config) Tags() ([]language.Tag, error) {
	seen := map[string]bool{}
	tags := []language.Tag{}

	for _, s := range append([]string{c.Locale}, c.Locales...) {
		tag, err := language.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", s, err)
		}

		if seen[tag.String()] {
			continue
		}

		seen[tag.String()] = true
		tags = append(tags, tag)
	}

	return tags, nil
}

// Level returns the log level named by LogLevel.
func (c *Config) Level() (fiberlog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "trace":
		return fiberlog.LevelTrace, nil
	case "debug":
		return fiberlog.LevelDebug, nil
	case "", "info":
		return fiberlog.LevelInfo, nil
	case "warn", "warning":
		return fiberlog.LevelWarn, nil
	case "error":
		return fiberlog.LevelError, nil
	default:
		return fiberlog.LevelInfo, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
}

var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// substituteEnvVars replaces ${VAR} and ${VAR:-default} with the value of the environment variable VAR,
// or default if VAR is empty.
func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		submatches := envVarPattern.FindStringSubmatch(match)

		if value := os.Getenv(submatches[1]); value != "" {
			return value
		}

		return submatches[2]
	})
}
