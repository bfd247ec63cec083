package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agentlaunch-labs/agentlaunch/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Permission constants. The config file holds the API key, so both the
// directory and the file are owner-only.
const (
	DirPermSecure  os.FileMode = 0700
	FilePermSecure os.FileMode = 0600
)

// Configuration keys.
const (
	KeyAPIKey       = "api_key"
	KeyHostingURL   = "hosting.base_url"
	KeyRegistryURL  = "registry.base_url"
	KeyFrontendURL  = "registry.frontend_url"
	KeyChainID      = "launch.chain_id"
	KeyPollInterval = "launch.poll_interval"
	KeyPollTimeout  = "launch.poll_timeout"
	KeyTemplate     = "launch.template"
)

// Defaults match the hosted platforms the original deployment scripts target.
const (
	DefaultHostingURL  = "https://agentverse.ai/v1"
	DefaultRegistryURL = "https://launchpad-backend-dev-1056182620041.us-central1.run.app"
	DefaultFrontendURL = "https://launchpad-frontend-dev-1056182620041.us-central1.run.app"
	DefaultChainID     = 97
	DefaultTemplate    = "launcher"

	DefaultPollInterval = 5 * time.Second
	DefaultPollTimeout  = 60 * time.Second
)

// Dir returns the path to the config directory (~/.agentlaunch/).
// The AGENTLAUNCH_HOME environment variable overrides it, which test
// environments use to sandbox all file access.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.agentlaunch/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory with owner-only permissions if it
// does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, DirPermSecure); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// Environment variables win over file values. Besides the AGENTLAUNCH_*
// names, the legacy variables the original deployment scripts used
// (AGENTVERSE_API_KEY, AGENT_LAUNCH_API_URL, AGENT_LAUNCH_FRONTEND_URL)
// are honored so existing setups keep working.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.BindEnv(KeyAPIKey, branding.EnvVar("API_KEY"), "AGENTVERSE_API_KEY")
	_ = viper.BindEnv(KeyHostingURL, branding.EnvVar("HOSTING_URL"))
	_ = viper.BindEnv(KeyRegistryURL, branding.EnvVar("REGISTRY_URL"), "AGENT_LAUNCH_API_URL")
	_ = viper.BindEnv(KeyFrontendURL, branding.EnvVar("FRONTEND_URL"), "AGENT_LAUNCH_FRONTEND_URL")

	viper.SetDefault(KeyHostingURL, DefaultHostingURL)
	viper.SetDefault(KeyRegistryURL, DefaultRegistryURL)
	viper.SetDefault(KeyFrontendURL, DefaultFrontendURL)
	viper.SetDefault(KeyChainID, DefaultChainID)
	viper.SetDefault(KeyPollInterval, DefaultPollInterval)
	viper.SetDefault(KeyPollTimeout, DefaultPollTimeout)
	viper.SetDefault(KeyTemplate, DefaultTemplate)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// GetInt returns an integer config value by key.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetDuration returns a duration config value by key.
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// APIKey returns the resolved API credential, from the environment or the
// config file. Empty string means no credential is configured.
func APIKey() string {
	return Get(KeyAPIKey)
}

// Set writes a config key-value pair and saves the config file with
// owner-only permissions.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.OpenFile(configFile, os.O_CREATE|os.O_WRONLY, FilePermSecure)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	if err := os.Chmod(configFile, FilePermSecure); err != nil {
		return fmt.Errorf("securing config file: %w", err)
	}

	return nil
}
