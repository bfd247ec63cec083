package launch

import (
	"context"
	"strings"
	"testing"

	"github.com/agentlaunch-labs/agentlaunch/internal/registry"
)

func TestTokenizeCanRun(t *testing.T) {
	stage := NewTokenizeStage(&fakeRegistry{}, "https://front.example")

	tests := []struct {
		name string
		req  *Request
		out  *Outcome
		want bool
	}{
		{
			"not requested",
			&Request{DoDeploy: true, DoTokenize: false},
			&Outcome{Deploy: &DeployResult{Compiled: true}},
			false,
		},
		{
			"headless without deploy",
			&Request{DoDeploy: false, DoTokenize: true},
			&Outcome{},
			true,
		},
		{
			"deploy requested but absent",
			&Request{DoDeploy: true, DoTokenize: true},
			&Outcome{},
			false,
		},
		{
			"deploy not compiled",
			&Request{DoDeploy: true, DoTokenize: true},
			&Outcome{Deploy: &DeployResult{Started: true, Compiled: false}},
			false,
		},
		{
			"deploy compiled",
			&Request{DoDeploy: true, DoTokenize: true},
			&Outcome{Deploy: &DeployResult{Started: true, Compiled: true}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stage.CanRun(tt.req, tt.out); got != tt.want {
				t.Errorf("CanRun() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenizeAppliesDefaults(t *testing.T) {
	reg := &fakeRegistry{token: &registry.Token{ID: "7", Symbol: "BOT"}}
	stage := NewTokenizeStage(reg, "https://front.example")

	req := validRequest()
	req.Description = ""
	req.Logo = ""
	out := &Outcome{Deploy: &DeployResult{Address: "agent1qfake", Started: true, Compiled: true}}

	if err := stage.Execute(context.Background(), req, out); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if reg.params.Description != "AI agent token: Bot" {
		t.Errorf("Description = %q", reg.params.Description)
	}
	if reg.params.Logo != DefaultLogo {
		t.Errorf("Logo = %q, want default", reg.params.Logo)
	}
	if reg.params.AgentAddress != "agent1qfake" {
		t.Errorf("AgentAddress = %q", reg.params.AgentAddress)
	}
}

func TestTokenizeComputesHandoffLink(t *testing.T) {
	reg := &fakeRegistry{token: &registry.Token{ID: "7", Symbol: "BOT"}}
	stage := NewTokenizeStage(reg, "https://front.example")

	out := &Outcome{}
	req := validRequest()
	req.DoDeploy = false

	if err := stage.Execute(context.Background(), req, out); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if out.Tokenize.HandoffLink != "https://front.example/deploy/7" {
		t.Errorf("HandoffLink = %q", out.Tokenize.HandoffLink)
	}
	if len(out.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", out.Warnings)
	}
}

func TestTokenizeHandoffMismatchIsWarning(t *testing.T) {
	reg := &fakeRegistry{token: &registry.Token{
		ID:          "7",
		Symbol:      "BOT",
		HandoffLink: "https://other.example/deploy/9",
	}}
	stage := NewTokenizeStage(reg, "https://front.example")

	out := &Outcome{}
	req := validRequest()
	req.DoDeploy = false

	if err := stage.Execute(context.Background(), req, out); err != nil {
		t.Fatalf("Execute() error: %v, a link mismatch must not fail the stage", err)
	}
	if out.Tokenize.HandoffLink != "https://front.example/deploy/7" {
		t.Errorf("HandoffLink = %q, want the computed link", out.Tokenize.HandoffLink)
	}
	if len(out.Warnings) != 1 || !strings.Contains(out.Warnings[0], "handoff link") {
		t.Errorf("Warnings = %v, want a mismatch warning", out.Warnings)
	}
}

func TestTokenizeMissingTokenID(t *testing.T) {
	reg := &fakeRegistry{token: &registry.Token{Symbol: "BOT"}}
	stage := NewTokenizeStage(reg, "https://front.example")

	out := &Outcome{}
	req := validRequest()
	req.DoDeploy = false

	if err := stage.Execute(context.Background(), req, out); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if out.Tokenize.HandoffLink != "" {
		t.Errorf("HandoffLink = %q, want empty without a token id", out.Tokenize.HandoffLink)
	}
	if len(out.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one about the missing id", out.Warnings)
	}
}

func TestTokenizeWrapsGatewayErrors(t *testing.T) {
	reg := &fakeRegistry{err: &registry.APIError{Op: "launching token", Message: "already tokenized"}}
	stage := NewTokenizeStage(reg, "https://front.example")

	out := &Outcome{}
	req := validRequest()
	req.DoDeploy = false

	err := stage.Execute(context.Background(), req, out)
	if err == nil {
		t.Fatal("expected error")
	}
	if Classify(err) != KindConflict {
		t.Errorf("Classify() = %q, want %q", Classify(err), KindConflict)
	}
	if out.Tokenize != nil {
		t.Errorf("Tokenize = %+v, want nil on failure", out.Tokenize)
	}
}
