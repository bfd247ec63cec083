// Package branding provides compile-time identity values for the CLI.
//
// Forkers edit branding.yaml in this package before building, and Go's
// //go:embed bakes it into the binary. Every user-visible name, env var
// prefix, and dot-directory is derived from here so a rebrand never
// touches command code.
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
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	GoModule    string `yaml:"go_module"`
	GitHubRepo  string `yaml:"github_repo"`
}

func load() {
	once.Do(func() {
		// Set hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:     "agentlaunch",
			DisplayName: "AgentLaunch",
			Description: "Launch hosted AI agents and make them tradeable",
			HomeDir:     ".agentlaunch",
			EnvPrefix:   "AGENTLAUNCH",
			GoModule:    "github.com/agentlaunch-labs/agentlaunch",
			GitHubRepo:  "agentlaunch-labs/agentlaunch",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "agentlaunch").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "AgentLaunch").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".agentlaunch").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "AGENTLAUNCH").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Kept for rebrand tooling, not
// consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// GitHubRepo returns the "owner/repo" string used for release checks.
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// EnvVar returns a fully qualified env var name,
// e.g., EnvVar("API_KEY") → "AGENTLAUNCH_API_KEY".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
