package runtime

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/agentlaunch-labs/agentlaunch/internal/manifest"
)

// PythonRuntime executes Python agents, the runtime Agentverse hosting
// uses. Local runs mirror the hosted setup: the manifest's secrets are
// exported into the environment before the entrypoint starts.
type PythonRuntime struct {
	// Stdout and Stderr can be set for testing; defaults to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes `python3 <entrypoint>` in the project directory and
// streams stdout/stderr to the configured writers.
func (p *PythonRuntime) Run(ctx context.Context, dir string, m *manifest.AgentManifest, secrets map[string]string) (*Output, error) {
	pythonBin, err := lookPython()
	if err != nil {
		return nil, err
	}

	// Resolve the entry point.
	entrypoint := m.Entrypoint
	if entrypoint == "" {
		entrypoint = "agent.py"
	}
	if _, err := os.Stat(filepath.Join(dir, entrypoint)); err != nil {
		return nil, fmt.Errorf("agent entrypoint not found at %s: %w", filepath.Join(dir, entrypoint), err)
	}

	env := buildEnv(dir, secrets)

	cmd := exec.CommandContext(ctx, pythonBin, entrypoint)
	cmd.Dir = dir
	cmd.Env = env

	// Set up output capture while also streaming to configured writers.
	stdout := p.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := p.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = io.MultiWriter(stdout, &stdoutBuf)
	cmd.Stderr = io.MultiWriter(stderr, &stderrBuf)

	err = cmd.Run()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			output.ExitCode = exitErr.ExitCode()
			return output, nil
		}
		return output, fmt.Errorf("executing python agent: %w", err)
	}

	output.ExitCode = 0
	return output, nil
}

// lookPython finds a Python interpreter, preferring python3.
func lookPython() (string, error) {
	if bin, err := exec.LookPath("python3"); err == nil {
		return bin, nil
	}
	bin, err := exec.LookPath("python")
	if err != nil {
		return "", fmt.Errorf("python runtime requires Python 3: %w", err)
	}
	return bin, nil
}

// buildEnv constructs the environment for an agent run. It inherits the
// current process environment, loads a project .env file when present,
// then applies the resolved secrets on top.
func buildEnv(dir string, secrets map[string]string) []string {
	env := os.Environ()

	// Hosted logs are line-buffered; match that locally.
	env = setEnv(env, "PYTHONUNBUFFERED", "1")

	if data, err := os.ReadFile(filepath.Join(dir, ".env")); err == nil {
		env = loadEnvFile(env, data)
	}

	for key, value := range secrets {
		if key != "" && value != "" {
			env = setEnv(env, key, value)
		}
	}

	return env
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

// loadEnvFile reads a dotenv-style file and adds non-empty, non-comment
// lines to the environment slice.
func loadEnvFile(env []string, data []byte) []string {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key != "" && value != "" {
			env = setEnv(env, key, value)
		}
	}
	return env
}
