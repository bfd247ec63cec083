package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentlaunch-labs/agentlaunch/internal/branding"
	"github.com/agentlaunch-labs/agentlaunch/internal/config"
	"github.com/agentlaunch-labs/agentlaunch/internal/manifest"
	"github.com/agentlaunch-labs/agentlaunch/internal/runtime"
	"github.com/agentlaunch-labs/agentlaunch/internal/scaffold"
)

var runCmd = &cobra.Command{
	Use:   "run [dir]",
	Short: "Run a scaffolded agent locally",
	Long: `Run an agent project on the local Python interpreter instead of the
hosting platform. Secrets declared in launch.yaml are resolved from the
environment and exported to the process; a project .env file is loaded
first.

With no argument the current directory is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	proj, err := scaffold.LoadProject(dir)
	if err != nil {
		return err
	}

	config.Load()
	secrets := localSecrets(cmd.ErrOrStderr(), proj.Manifest, config.APIKey())

	rt := runtime.ForEntrypoint(proj.Manifest.Entrypoint)

	fmt.Fprintf(cmd.ErrOrStderr(), "Running %s (%s)... press Ctrl+C to stop\n",
		proj.Manifest.Name, proj.Manifest.Entrypoint)

	output, err := rt.Run(cmd.Context(), dir, proj.Manifest, secrets)
	if err != nil {
		return fmt.Errorf("running %s: %w", proj.Manifest.Name, err)
	}
	if output.ExitCode != 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Agent exited with code %d\n", output.ExitCode)
		return &exitError{code: output.ExitCode}
	}
	return nil
}

// localSecrets resolves manifest-declared secrets from the environment.
// Missing ones only warn: the runtime loads the project .env afterwards,
// which may provide them.
func localSecrets(warnw io.Writer, m *manifest.AgentManifest, apiKey string) map[string]string {
	secrets := make(map[string]string)
	for _, s := range m.Secrets {
		env := s.Env
		if env == "" {
			env = s.Name
		}
		value := os.Getenv(env)
		if value == "" && env == branding.EnvVar("API_KEY") {
			value = apiKey
		}
		if value == "" {
			if s.Required {
				fmt.Fprintf(warnw, "warning: required secret %s is not set (%s); the agent may fail unless .env provides it\n",
					s.Name, env)
			}
			continue
		}
		secrets[s.Name] = value
	}
	return secrets
}
