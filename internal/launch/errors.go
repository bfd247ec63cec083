package launch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/agentlaunch-labs/agentlaunch/internal/branding"
	"github.com/agentlaunch-labs/agentlaunch/internal/hosting"
	"github.com/agentlaunch-labs/agentlaunch/internal/registry"
)

// Kind labels the failure classes a pipeline run can report.
type Kind string

const (
	KindValidation     Kind = "ValidationError"
	KindAuth           Kind = "AuthError"
	KindConflict       Kind = "ConflictError"
	KindNetwork        Kind = "NetworkError"
	KindCompileTimeout Kind = "CompilationTimeout"
	KindDeploy         Kind = "DeployError"
	KindTokenize       Kind = "TokenizeError"
)

// ValidationError reports a request field that failed validation. It is
// raised before any gateway call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DeployError reports which deployment step failed and why. It means the
// agent could not be created or started, as opposed to a valid deployment
// whose remote compile failed.
type DeployError struct {
	Step string
	Err  error
}

func (e *DeployError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
}

func (e *DeployError) Unwrap() error { return e.Err }

// TokenizeError wraps a failed registry call.
type TokenizeError struct {
	Err error
}

func (e *TokenizeError) Error() string {
	return fmt.Sprintf("tokenization failed: %v", e.Err)
}

func (e *TokenizeError) Unwrap() error { return e.Err }

// ErrorRecord is the structured failure entry carried by an Outcome.
type ErrorRecord struct {
	Kind    Kind   `json:"kind"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Classify maps an error to its failure kind. It returns the empty Kind
// when the error matches none of the known classes, so callers can fall
// back to a stage-level kind.
func Classify(err error) Kind {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return KindValidation
	}

	var hostErr *hosting.StatusError
	if errors.As(err, &hostErr) {
		return kindForStatus(hostErr.StatusCode)
	}
	var regErr *registry.StatusError
	if errors.As(err, &regErr) {
		return kindForStatus(regErr.StatusCode)
	}

	// A 2xx envelope with success=false means the registry rejected the
	// request against existing state, typically a duplicate token.
	var apiErr *registry.APIError
	if errors.As(err, &apiErr) {
		return KindConflict
	}

	if isTransient(err) {
		return KindNetwork
	}
	return ""
}

func kindForStatus(code int) Kind {
	switch code {
	case 401, 403:
		return KindAuth
	case 400, 404, 409, 422:
		return KindConflict
	default:
		return KindNetwork
	}
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// fallbackKind is used when Classify cannot place an error, so the record
// still names the stage that failed.
func fallbackKind(stage string) Kind {
	switch stage {
	case StageDeploy:
		return KindDeploy
	case StageTokenize:
		return KindTokenize
	default:
		return KindValidation
	}
}

func newErrorRecord(stage string, err error) *ErrorRecord {
	kind := Classify(err)
	if kind == "" {
		kind = fallbackKind(stage)
	}
	return &ErrorRecord{Kind: kind, Stage: stage, Message: err.Error()}
}

// Hint returns a short remediation suggestion for a failure kind, or the
// empty string when there is nothing actionable to add.
func Hint(kind Kind) string {
	cli := branding.CLIName()
	switch kind {
	case KindAuth:
		return fmt.Sprintf("check your API key: %s config set api_key <key>", cli)
	case KindConflict:
		return "the agent may already have a token; look it up on the launchpad frontend"
	case KindNetwork:
		return "check your network connection and retry"
	case KindCompileTimeout:
		return fmt.Sprintf("the agent may still finish compiling; check logs with %s agents logs <address>", cli)
	case KindValidation:
		return "adjust the reported field and rerun"
	default:
		return ""
	}
}
