package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentlaunch-labs/agentlaunch/internal/branding"
	"github.com/agentlaunch-labs/agentlaunch/internal/config"
	"github.com/agentlaunch-labs/agentlaunch/internal/updater"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` takes an AI agent from template to tradeable token in one
command: scaffold the source, deploy it to the hosting platform, wait for
compilation, and register a launchpad token with a handoff link a wallet
holder can use to deploy on-chain.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Skip the notice for commands that print version info or set up
		// the config dir themselves.
		name := cmd.Name()
		if name == "init" || name == "version" {
			return
		}

		// Non-blocking notice from the cached release check.
		u := updater.New(buildVersion)
		u.CheckAndPrintNotice(os.Stderr, config.Dir())
	},
}

// exitError carries an exit code for a failure the command has already
// rendered itself. Execute skips the second print for these.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// Execute runs the root command with build info injected via ldflags.
// Errors are printed here exactly once; main maps the returned error to
// a process exit code via ExitCode.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err != nil {
		var ee *exitError
		if !errors.As(err, &ee) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	return err
}

// ExitCode maps an Execute error to the process exit code. Commands that
// carry a specific code (a failed launch, an agent's own exit status)
// wrap it in an exitError; everything else exits 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}
