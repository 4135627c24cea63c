package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	appsearch "github.com/swiftype/app-search-go"
	"github.com/swiftype/app-search-go/internal/config"
	logpkg "github.com/swiftype/app-search-go/internal/logger"
)

var (
	configPath  string
	accountKey  string
	apiKey      string
	baseURL     string
	logLevel    string
	logFormat   string
	timeoutSecs int
)

var rootCmd = &cobra.Command{
	Use:   "appsearch",
	Short: "Command-line client for the App Search API",
	Long: `appsearch manages engines, indexes and fetches documents, and runs searches
against a hosted App Search account.

Credentials come from flags, a YAML config file (--config), or the
APPSEARCH_ACCOUNT_HOST_KEY / APPSEARCH_API_KEY environment variables.`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	pf.StringVar(&accountKey, "account", "", "account host key")
	pf.StringVar(&apiKey, "api-key", "", "API key")
	pf.StringVar(&baseURL, "base-url", "", "override the API base URL")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "", "log format: console, json")
	pf.IntVar(&timeoutSecs, "timeout", 0, "request timeout in seconds")
}

// loadConfig merges the config file, flags and environment, in that order of
// increasing precedence for flags.
func loadConfig() (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
	}

	if accountKey != "" {
		cfg.AccountHostKey = accountKey
	}
	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	if timeoutSecs > 0 {
		cfg.TimeoutSec = timeoutSecs
	}

	cfg.FromEnv()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newClient builds a client from the merged configuration. The returned
// func flushes the logger.
func newClient() (*appsearch.Client, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	logger, err := logpkg.NewLogger(cfg.Logging.Format, cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}

	opts := []appsearch.Option{
		appsearch.WithLogger(logger),
		appsearch.WithTimeout(time.Duration(cfg.TimeoutSec) * time.Second),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, appsearch.WithBaseURL(cfg.BaseURL))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, appsearch.WithUserAgent(cfg.UserAgent))
	}

	client, err := appsearch.New(cfg.AccountHostKey, cfg.APIKey, opts...)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	return client, func() { _ = logger.Sync() }, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
