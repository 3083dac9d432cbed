package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ProviderConfig holds per-provider connection settings. BaseURL is
// overridable for tests and sovereign-cloud endpoints; empty selects
// the provider's production API.
type ProviderConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// ProvisionConfig holds the reconciliation policy knobs.
type ProvisionConfig struct {
	// ReprovisionThreshold is the health percentage at or above which
	// a provision run is skipped as unnecessary. Empirically chosen;
	// kept configurable on purpose.
	ReprovisionThreshold float64 `mapstructure:"reprovision_threshold" yaml:"reprovision_threshold"`

	// CoverageWarnThreshold is the classifier-coverage percentage
	// below which a warning is surfaced.
	CoverageWarnThreshold float64 `mapstructure:"coverage_warn_threshold" yaml:"coverage_warn_threshold"`

	// CredentialTTLSec is the bearer-credential cache TTL in seconds.
	CredentialTTLSec int `mapstructure:"credential_ttl_sec" yaml:"credential_ttl_sec"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	DBPath    string          `mapstructure:"db_path" yaml:"db_path"`
	Gmail     ProviderConfig  `mapstructure:"gmail" yaml:"gmail"`
	Outlook   ProviderConfig  `mapstructure:"outlook" yaml:"outlook"`
	Provision ProvisionConfig `mapstructure:"provision" yaml:"provision"`
}

// DefaultConfigPath returns the default path for the configuration
// file, located at ~/.config/foldersync/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "foldersync", "config.yaml")
}

// DefaultDBPath returns the default SQLite database location.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "foldersync.db")
	}
	return filepath.Join(home, ".config", "foldersync", "foldersync.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		DBPath: DefaultDBPath(),
		Provision: ProvisionConfig{
			ReprovisionThreshold:  70,
			CoverageWarnThreshold: 90,
			CredentialTTLSec:      300,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using
// Viper. If the file does not exist, it returns a default
// configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("db_path", DefaultDBPath())
	v.SetDefault("provision.reprovision_threshold", 70)
	v.SetDefault("provision.coverage_warn_threshold", 90)
	v.SetDefault("provision.credential_ttl_sec", 300)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("db_path", cfg.DBPath)
	v.Set("gmail", cfg.Gmail)
	v.Set("outlook", cfg.Outlook)
	v.Set("provision", cfg.Provision)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
