// Package hosting provides a typed HTTP client for the Agentverse hosting
// API: agent creation, code upload, secrets, start, status, listing, and
// logs. The deployment session and the agents subcommands consume it; the
// platform itself is external and never reimplemented here.
package hosting
