package runtime

import (
	"context"
	"fmt"
	"path"

	"github.com/agentlaunch-labs/agentlaunch/internal/manifest"
)

// Runtime defines the interface for running an agent project locally.
type Runtime interface {
	// Run executes the agent in dir with the provided manifest. Secrets
	// are exported into the child environment. The call blocks until the
	// agent exits or ctx is canceled.
	Run(ctx context.Context, dir string, m *manifest.AgentManifest, secrets map[string]string) (*Output, error)
}

// Output captures the result of an agent run.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Supported runtime identifiers.
const (
	RuntimePython = "python"
	RuntimeNode   = "node"
)

// ForEntrypoint returns the Runtime implementation for an entrypoint
// filename, selected by extension. Returns an error-producing runtime
// for unknown extensions.
func ForEntrypoint(entrypoint string) Runtime {
	switch path.Ext(entrypoint) {
	case ".py":
		return &PythonRuntime{}
	case ".js", ".mjs":
		return &NodeRuntime{}
	default:
		return &unknownRuntime{ext: path.Ext(entrypoint)}
	}
}

// unknownRuntime is returned when the entrypoint extension is not recognized.
type unknownRuntime struct {
	ext string
}

func (u *unknownRuntime) Run(_ context.Context, _ string, _ *manifest.AgentManifest, _ map[string]string) (*Output, error) {
	return nil, fmt.Errorf("no runtime for entrypoint extension %q: hosted agents are Python (.py)", u.ext)
}
