// Package config manages user-level settings stored at ~/.agentlaunch/config.yaml.
// It provides functions to load, read, and write configuration keys such as the
// API credential and the hosting/registry endpoint URLs, with environment
// variables (AGENTLAUNCH_* plus the legacy AGENTVERSE_API_KEY family) taking
// precedence over file values.
package config
