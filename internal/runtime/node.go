package runtime

import (
	"context"
	"fmt"

	"github.com/agentlaunch-labs/agentlaunch/internal/manifest"
)

// NodeRuntime is a placeholder for JavaScript agents. Agentverse
// hosting only runs Python, so there is nothing to execute yet.
type NodeRuntime struct{}

// Run returns an error indicating the Node runtime is not supported.
func (n *NodeRuntime) Run(_ context.Context, _ string, _ *manifest.AgentManifest, _ map[string]string) (*Output, error) {
	return nil, fmt.Errorf("node agents are not supported: the hosted platform runs Python only")
}
