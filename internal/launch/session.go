package launch

import (
	"context"
	"sort"
	"time"

	"github.com/agentlaunch-labs/agentlaunch/internal/hosting"
	"github.com/agentlaunch-labs/agentlaunch/internal/logging"
)

// Deployment step names carried by DeployError.
const (
	StepCreate  = "create"
	StepUpload  = "upload"
	StepSecrets = "secrets"
	StepStart   = "start"
	StepPoll    = "poll"
)

// HostingGateway is the slice of the hosting client a deployment needs.
type HostingGateway interface {
	Create(ctx context.Context, name string) (*hosting.Agent, error)
	UploadCode(ctx context.Context, address string, files []hosting.CodeFile) (string, error)
	SetSecret(ctx context.Context, address, name, secret string) error
	Start(ctx context.Context, address string) error
	StatusGetter
}

// DeployParams describes one deployment: the agent to create, the code to
// upload and the secrets it runs with.
type DeployParams struct {
	Name    string
	Code    []hosting.CodeFile
	Secrets map[string]string
}

// Session drives the ordered create, upload, secrets, start sequence and
// then hands off to the compilation poller.
type Session struct {
	gateway HostingGateway
	poller  *Poller
	budget  time.Duration
	log     *logging.Logger
}

// NewSession returns a Session over gateway. A nil poller gets a default
// one on the real clock, a non-positive budget uses DefaultPollBudget and
// a nil log discards output.
func NewSession(gateway HostingGateway, poller *Poller, budget time.Duration, log *logging.Logger) *Session {
	if log == nil {
		log = logging.Nop()
	}
	if poller == nil {
		poller = NewPoller(gateway, nil, 0, log)
	}
	if budget <= 0 {
		budget = DefaultPollBudget
	}
	return &Session{gateway: gateway, poller: poller, budget: budget, log: log}
}

// Deploy runs the session. Steps execute strictly in order and the first
// failing step aborts with a *DeployError naming it. A deployment whose
// remote compile fails or times out is still a valid result, reported
// through the Compiled and CompileError fields.
func (s *Session) Deploy(ctx context.Context, params DeployParams) (*DeployResult, error) {
	agent, err := s.gateway.Create(ctx, params.Name)
	if err != nil {
		return nil, &DeployError{Step: StepCreate, Err: err}
	}
	s.log.Info("agent created", "name", params.Name, "address", agent.Address)

	digest, err := s.gateway.UploadCode(ctx, agent.Address, params.Code)
	if err != nil {
		return nil, &DeployError{Step: StepUpload, Err: err}
	}
	s.log.Info("code uploaded", "digest", shortDigest(digest))

	names := make([]string, 0, len(params.Secrets))
	for name := range params.Secrets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := s.gateway.SetSecret(ctx, agent.Address, name, params.Secrets[name]); err != nil {
			return nil, &DeployError{Step: StepSecrets, Err: err}
		}
		s.log.Info("secret set", "name", name)
	}

	if err := s.gateway.Start(ctx, agent.Address); err != nil {
		return nil, &DeployError{Step: StepStart, Err: err}
	}
	s.log.Info("agent started", "address", agent.Address)

	poll, err := s.poller.Poll(ctx, agent.Address, s.budget)
	if err != nil {
		return nil, &DeployError{Step: StepPoll, Err: err}
	}
	s.log.Info("compilation finished", "state", poll.State, "attempts", poll.Attempts)

	return &DeployResult{
		Address:        agent.Address,
		Digest:         digest,
		WalletAddress:  poll.Wallet,
		Started:        true,
		Compiled:       poll.Compiled,
		CompileError:   poll.Error,
		ElapsedSeconds: poll.Elapsed.Seconds(),
	}, nil
}

func shortDigest(digest string) string {
	if len(digest) > 16 {
		return digest[:16]
	}
	return digest
}
