package launch

import (
	"context"
	"fmt"

	"github.com/agentlaunch-labs/agentlaunch/internal/registry"
)

// DefaultLogo is used when the request carries no image reference.
const DefaultLogo = "https://picsum.photos/400"

// RegistryGateway is the slice of the registry client tokenization needs.
type RegistryGateway interface {
	Launch(ctx context.Context, params registry.LaunchParams) (*registry.Token, error)
}

// TokenizeStage creates the token record for a launched agent. It makes a
// single registry call and never retries, token creation mutates remote
// state and must not be duplicated from here.
type TokenizeStage struct {
	gateway     RegistryGateway
	frontendURL string
}

func NewTokenizeStage(gateway RegistryGateway, frontendURL string) *TokenizeStage {
	return &TokenizeStage{gateway: gateway, frontendURL: frontendURL}
}

func (t *TokenizeStage) Name() string { return StageTokenize }

// CanRun gates tokenization on a compiled deployment. When no deployment
// was requested the stage runs headless against an existing agent.
func (t *TokenizeStage) CanRun(req *Request, out *Outcome) bool {
	if !req.DoTokenize {
		return false
	}
	if !req.DoDeploy {
		return true
	}
	return out.Deploy != nil && out.Deploy.Compiled
}

func (t *TokenizeStage) Execute(ctx context.Context, req *Request, out *Outcome) error {
	description := req.Description
	if description == "" {
		description = "AI agent token: " + req.Name
	}
	logo := req.Logo
	if logo == "" {
		logo = DefaultLogo
	}

	var address string
	if out.Deploy != nil {
		address = out.Deploy.Address
	}

	token, err := t.gateway.Launch(ctx, registry.LaunchParams{
		AgentAddress: address,
		Name:         req.Name,
		Symbol:       req.Ticker,
		Description:  description,
		Logo:         logo,
		ChainID:      req.ChainID,
	})
	if err != nil {
		return &TokenizeError{Err: err}
	}

	result := &TokenizeResult{
		TokenID: token.ID,
		Symbol:  token.Symbol,
		Status:  token.Status,
		Image:   token.Image,
	}
	if token.ID == "" {
		out.Warnings = append(out.Warnings,
			fmt.Sprintf("registry response carried no token id, find your token at %s", t.frontendURL))
	} else {
		result.HandoffLink = registry.HandoffURL(t.frontendURL, token.ID)
		if token.HandoffLink != "" && token.HandoffLink != result.HandoffLink {
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("registry reported handoff link %s, using %s", token.HandoffLink, result.HandoffLink))
		}
	}
	out.Tokenize = result
	return nil
}
