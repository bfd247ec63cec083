// Package manifest parses and validates the YAML manifests used by
// agentlaunch projects: launch.yaml describing a scaffolded agent and
// template.yaml describing a built-in template. Validation runs against
// an embedded JSON schema.
package manifest
