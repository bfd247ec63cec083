package launch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agentlaunch-labs/agentlaunch/internal/clock"
	"github.com/agentlaunch-labs/agentlaunch/internal/hosting"
)

func newTestSession(h *fakeHosting) *Session {
	clk := clock.NewFake(time.Unix(1700000000, 0))
	return NewSession(h, NewPoller(h, clk, 0, nil), 60*time.Second, nil)
}

func deployParams() DeployParams {
	return DeployParams{
		Name: "Bot",
		Code: []hosting.CodeFile{{Language: "python", Name: "agent.py", Value: "print('hi')"}},
		Secrets: map[string]string{
			"TREASURY_PRIVATE_KEY": "tk",
			"AGENTVERSE_API_KEY":   "ak",
		},
	}
}

func TestDeployCallOrder(t *testing.T) {
	h := &fakeHosting{statuses: compiledAfter(1)}
	s := newTestSession(h)

	result, err := s.Deploy(context.Background(), deployParams())
	if err != nil {
		t.Fatalf("Deploy() error: %v", err)
	}
	if result.Address != "agent1qfake" {
		t.Errorf("Address = %q", result.Address)
	}

	want := []string{
		"create",
		"upload",
		"secret:AGENTVERSE_API_KEY",
		"secret:TREASURY_PRIVATE_KEY",
		"start",
		"status",
	}
	if len(h.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", h.calls, want)
	}
	for i := range want {
		if h.calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, h.calls[i], want[i])
		}
	}
}

func TestDeployStepFailures(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name      string
		configure func(*fakeHosting)
		wantStep  string
		wantCalls int
	}{
		{"create fails", func(h *fakeHosting) { h.createErr = cause }, StepCreate, 1},
		{"upload fails", func(h *fakeHosting) { h.uploadErr = cause }, StepUpload, 2},
		{"secrets fail", func(h *fakeHosting) { h.secretErr = cause }, StepSecrets, 3},
		{"start fails", func(h *fakeHosting) { h.startErr = cause }, StepStart, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &fakeHosting{}
			tt.configure(h)
			s := newTestSession(h)

			result, err := s.Deploy(context.Background(), deployParams())
			if result != nil {
				t.Errorf("result = %+v, want nil on step failure", result)
			}

			var deployErr *DeployError
			if !errors.As(err, &deployErr) {
				t.Fatalf("error type = %T, want *DeployError", err)
			}
			if deployErr.Step != tt.wantStep {
				t.Errorf("Step = %q, want %q", deployErr.Step, tt.wantStep)
			}
			if !errors.Is(err, cause) {
				t.Error("cause should be reachable through Unwrap")
			}
			if len(h.calls) != tt.wantCalls {
				t.Errorf("calls = %v, want %d calls, no step runs after a failure", h.calls, tt.wantCalls)
			}
		})
	}
}

func TestDeployCompileFailureIsValidResult(t *testing.T) {
	h := &fakeHosting{statuses: []statusReply{
		{status: &hosting.AgentStatus{CompileError: "ImportError: no module named web3"}},
	}}
	s := newTestSession(h)

	result, err := s.Deploy(context.Background(), deployParams())
	if err != nil {
		t.Fatalf("Deploy() error: %v, a failed compile is still a valid deployment", err)
	}
	if !result.Started {
		t.Error("Started = false, want true")
	}
	if result.Compiled {
		t.Error("Compiled = true, want false")
	}
	if result.CompileError != "ImportError: no module named web3" {
		t.Errorf("CompileError = %q", result.CompileError)
	}
}

func TestDeployResultFields(t *testing.T) {
	h := &fakeHosting{statuses: compiledAfter(2)}
	s := newTestSession(h)

	result, err := s.Deploy(context.Background(), deployParams())
	if err != nil {
		t.Fatalf("Deploy() error: %v", err)
	}
	if result.Digest == "" {
		t.Error("Digest should carry the upload digest")
	}
	if result.WalletAddress != "fetch1fake" {
		t.Errorf("WalletAddress = %q", result.WalletAddress)
	}
	if result.ElapsedSeconds != 10 {
		t.Errorf("ElapsedSeconds = %v, want 10", result.ElapsedSeconds)
	}
}
