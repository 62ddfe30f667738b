package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MatheusDev20/hcli/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized configuration keys.
const (
	KeyThemeURL    = "theme_url"
	KeyUserAgent   = "user_agent"
	KeyDisplayName = "display_name"
	KeyTimeout     = "timeout"
)

// DefaultTimeout bounds the archive download when no timeout is configured.
const DefaultTimeout = 2 * time.Minute

// Settings is the resolved configuration for a single run.
type Settings struct {
	ThemeURL    string
	UserAgent   string
	DisplayName string
	Timeout     time.Duration
}

// Dir returns the path to the hcli config directory (~/.hcli/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.hcli/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyThemeURL, branding.ThemeArchiveURL())
	viper.SetDefault(KeyUserAgent, branding.UserAgent())
	viper.SetDefault(KeyDisplayName, branding.ProjectName())
	viper.SetDefault(KeyTimeout, DefaultTimeout.String())

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Resolve returns the effective settings. Load must have been called.
func Resolve() (Settings, error) {
	s := Settings{
		ThemeURL:    viper.GetString(KeyThemeURL),
		UserAgent:   viper.GetString(KeyUserAgent),
		DisplayName: viper.GetString(KeyDisplayName),
		Timeout:     viper.GetDuration(KeyTimeout),
	}
	if s.ThemeURL == "" {
		return Settings{}, fmt.Errorf("%s must not be empty", KeyThemeURL)
	}
	if s.Timeout < 0 {
		return Settings{}, fmt.Errorf("%s must not be negative, got %s", KeyTimeout, s.Timeout)
	}
	return s, nil
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	if key == KeyTimeout {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
