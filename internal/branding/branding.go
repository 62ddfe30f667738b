// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed. Hard defaults cover a missing or empty file.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName         string `yaml:"cli_name"`
	DisplayName     string `yaml:"display_name"`
	Description     string `yaml:"description"`
	HomeDir         string `yaml:"home_dir"`
	EnvPrefix       string `yaml:"env_prefix"`
	UserAgent       string `yaml:"user_agent"`
	ThemeArchiveURL string `yaml:"theme_archive_url"`
	ProjectName     string `yaml:"project_name"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:         "hcli",
			DisplayName:     "Help Center CLI",
			Description:     "CLI tool for bootstrapping Help Center projects",
			HomeDir:         ".hcli",
			EnvPrefix:       "HCLI",
			UserAgent:       "hc-cli",
			ThemeArchiveURL: "https://github.com/zendesk/copenhagen_theme/archive/refs/heads/main.zip",
			ProjectName:     "HML v1.0.0",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "hcli").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".hcli").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "HCLI").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// UserAgent returns the client tag sent with every archive request.
func UserAgent() string { load(); return defaults.UserAgent }

// ThemeArchiveURL returns the default reference theme archive location.
func ThemeArchiveURL() string { load(); return defaults.ThemeArchiveURL }

// ProjectName returns the display name written into generated manifests.
func ProjectName() string { load(); return defaults.ProjectName }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("theme_url") → "HCLI_THEME_URL".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
