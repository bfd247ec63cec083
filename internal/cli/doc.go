// Package cli defines the Cobra command tree for the agentlaunch CLI. Each
// file in this package registers one top-level command (launch, create,
// agents, etc.) with the root command. Command implementations delegate to
// internal packages for the pipeline, gateways, and scaffolding and only
// handle flag parsing, I/O formatting, and user interaction.
package cli
