package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// Config holds the appsearch CLI configuration.
type Config struct {
	AccountHostKey string        `yaml:"account_host_key"`
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`    // overrides the URL derived from account_host_key
	TimeoutSec     int           `yaml:"timeout_sec"` // default: 30
	UserAgent      string        `yaml:"user_agent"`
	Logging        LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console (default), json
}

// EnvPrefix prefixes the environment variables read by FromEnv.
const EnvPrefix = "APPSEARCH_"

// Load reads configuration from a YAML file. ${VAR} and ${VAR:-default}
// references are substituted from the environment before parsing.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// FromEnv fills empty credentials from APPSEARCH_ACCOUNT_HOST_KEY,
// APPSEARCH_API_KEY and APPSEARCH_BASE_URL.
func (c *Config) FromEnv() {
	if c.AccountHostKey == "" {
		c.AccountHostKey = os.Getenv(EnvPrefix + "ACCOUNT_HOST_KEY")
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv(EnvPrefix + "API_KEY")
	}
	if c.BaseURL == "" {
		c.BaseURL = os.Getenv(EnvPrefix + "BASE_URL")
	}
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.TimeoutSec <= 0 {
		c.TimeoutSec = 30
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.AccountHostKey == "" {
		result = multierror.Append(result, errors.New("account_host_key is required"))
	}
	if c.APIKey == "" {
		result = multierror.Append(result, errors.New("api_key is required"))
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		switch {
		case err != nil:
			result = multierror.Append(result, fmt.Errorf("invalid base_url: %w", err))
		case u.Scheme != "http" && u.Scheme != "https":
			result = multierror.Append(result,
				fmt.Errorf("base_url must use http or https scheme, got %q", u.Scheme))
		}
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		result = multierror.Append(result,
			fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format))
	}

	return result.ErrorOrNil()
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
