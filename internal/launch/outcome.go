package launch

import "github.com/agentlaunch-labs/agentlaunch/internal/hosting"

// Outcome aggregates everything a pipeline run produced. Exactly one
// Outcome exists per run and it alone determines the rendered output and
// the process exit code.
type Outcome struct {
	Success        bool            `json:"success"`
	PartialFailure bool            `json:"partial_failure,omitempty"`
	Err            *ErrorRecord    `json:"error,omitempty"`
	Scaffold       *ScaffoldResult `json:"scaffold,omitempty"`
	Deploy         *DeployResult   `json:"deploy,omitempty"`
	Tokenize       *TokenizeResult `json:"tokenize,omitempty"`
	Warnings       []string        `json:"warnings,omitempty"`
}

// ScaffoldResult records where the agent source came from: a freshly
// generated project or an existing file supplied by the caller.
type ScaffoldResult struct {
	Dir   string   `json:"dir,omitempty"`
	Files []string `json:"files,omitempty"`

	// Code is the payload uploaded to the hosting platform. It is not
	// part of the rendered outcome.
	Code []hosting.CodeFile `json:"-"`
}

// DeployResult is the record of a completed deployment. A deployment that
// started but failed to compile is still a valid result, the agent exists
// and can be inspected.
type DeployResult struct {
	Address        string  `json:"address"`
	Digest         string  `json:"digest,omitempty"`
	WalletAddress  string  `json:"wallet_address,omitempty"`
	Started        bool    `json:"started"`
	Compiled       bool    `json:"compiled"`
	CompileError   string  `json:"error,omitempty"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// TokenizeResult is the record of a created token. HandoffLink is always
// computed from the token identifier and the configured frontend, never
// taken from the registry response.
type TokenizeResult struct {
	TokenID     string `json:"token_id"`
	Symbol      string `json:"symbol"`
	Status      string `json:"status,omitempty"`
	HandoffLink string `json:"handoff_link,omitempty"`
	Image       string `json:"image,omitempty"`
}
