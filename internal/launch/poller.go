package launch

import (
	"context"
	"time"

	"github.com/agentlaunch-labs/agentlaunch/internal/clock"
	"github.com/agentlaunch-labs/agentlaunch/internal/hosting"
	"github.com/agentlaunch-labs/agentlaunch/internal/logging"
)

// Defaults for the compilation poll loop. The remote compile is a short
// job, so a fixed interval is used rather than backoff.
const (
	DefaultPollInterval = 5 * time.Second
	DefaultPollBudget   = 60 * time.Second
)

// CompileState is the observed state of a remote compilation.
type CompileState string

const (
	StatePending   CompileState = "pending"
	StateCompiling CompileState = "compiling"
	StateCompiled  CompileState = "compiled"
	StateFailed    CompileState = "failed"
	StateTimedOut  CompileState = "timed_out"
)

// StatusGetter is the status slice of the hosting gateway.
type StatusGetter interface {
	Status(ctx context.Context, address string) (*hosting.AgentStatus, error)
}

// PollResult is the terminal observation of one poll loop.
type PollResult struct {
	State    CompileState
	Compiled bool
	Error    string
	Wallet   string
	Elapsed  time.Duration
	Attempts int
}

// Poller watches an agent until its compilation reaches a terminal state
// or a wall-clock budget runs out.
type Poller struct {
	gateway  StatusGetter
	clk      clock.Clock
	interval time.Duration
	log      *logging.Logger
}

// NewPoller returns a Poller querying gateway every interval. A nil clk
// uses the real clock, a non-positive interval uses DefaultPollInterval
// and a nil log discards output.
func NewPoller(gateway StatusGetter, clk clock.Clock, interval time.Duration, log *logging.Logger) *Poller {
	if clk == nil {
		clk = clock.Real()
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Poller{gateway: gateway, clk: clk, interval: interval, log: log}
}

// Poll sleeps one interval, queries status and repeats until the agent
// reports compiled, reports a compile error, or budget elapses. Transport
// errors on individual queries are absorbed and retried, the terminal
// status is the only authority on success. The returned error is non-nil
// only when ctx is canceled.
func (p *Poller) Poll(ctx context.Context, address string, budget time.Duration) (*PollResult, error) {
	if budget <= 0 {
		budget = DefaultPollBudget
	}

	start := p.clk.Now()
	state := StatePending
	result := &PollResult{}

	for {
		if err := p.clk.Sleep(ctx, p.interval); err != nil {
			return nil, err
		}
		result.Attempts++

		status, err := p.gateway.Status(ctx, address)
		switch {
		case err != nil:
			p.log.Warn("status query failed, retrying", "attempt", result.Attempts, "error", err)
		case status.Compiled:
			result.State = StateCompiled
			result.Compiled = true
			result.Wallet = status.WalletAddress
			result.Elapsed = p.clk.Since(start)
			return result, nil
		case status.CompileError != "":
			result.State = StateFailed
			result.Error = status.CompileError
			result.Wallet = status.WalletAddress
			result.Elapsed = p.clk.Since(start)
			return result, nil
		default:
			if state == StatePending && status.Running {
				state = StateCompiling
			}
			p.log.Debug("waiting for compilation", "state", state, "elapsed", p.clk.Since(start))
		}

		if p.clk.Since(start) >= budget {
			result.State = StateTimedOut
			result.Error = "timeout"
			result.Elapsed = p.clk.Since(start)
			return result, nil
		}
	}
}
