package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentlaunch-labs/agentlaunch/internal/branding"
	"github.com/agentlaunch-labs/agentlaunch/internal/config"
	"github.com/agentlaunch-labs/agentlaunch/internal/hosting"
)

var agentsJSON bool

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List hosted agents",
	Long:  `List the agents deployed under the configured hosting account.`,
	Args:  cobra.NoArgs,
	RunE:  runAgentsList,
}

var agentsStatusCmd = &cobra.Command{
	Use:   "status <address>",
	Short: "Show one agent's compile and run state",
	Args:  cobra.ExactArgs(1),
	RunE:  runAgentsStatus,
}

var agentsLogsCmd = &cobra.Command{
	Use:   "logs <address>",
	Short: "Show an agent's latest log lines",
	Args:  cobra.ExactArgs(1),
	RunE:  runAgentsLogs,
}

func init() {
	agentsCmd.PersistentFlags().BoolVar(&agentsJSON, "json", false, "Output in JSON format")
	agentsCmd.AddCommand(agentsStatusCmd)
	agentsCmd.AddCommand(agentsLogsCmd)
	rootCmd.AddCommand(agentsCmd)
}

// hostingClient builds the API client every agents subcommand shares.
func hostingClient() (*hosting.Client, error) {
	config.Load()
	apiKey := config.APIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("no API key configured: run '%s init' or set %s",
			branding.CLIName(), branding.EnvVar("API_KEY"))
	}
	return hosting.New(config.Get(config.KeyHostingURL), apiKey), nil
}

func runAgentsList(cmd *cobra.Command, args []string) error {
	client, err := hostingClient()
	if err != nil {
		return err
	}

	agents, err := client.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing agents: %w", err)
	}

	if agentsJSON {
		return printJSON(cmd, agents)
	}

	if len(agents) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No hosted agents yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tADDRESS\tRUNNING\tCOMPILED\tPENDING")
	for _, a := range agents {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			a.Name, a.Address, yesNo(a.Running), yesNo(a.Compiled), a.PendingMessages)
	}
	return w.Flush()
}

func runAgentsStatus(cmd *cobra.Command, args []string) error {
	client, err := hostingClient()
	if err != nil {
		return err
	}

	status, err := client.Status(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetching status for %s: %w", args[0], err)
	}

	if agentsJSON {
		return printJSON(cmd, status)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Address:  %s\n", args[0])
	fmt.Fprintf(out, "Running:  %s\n", yesNo(status.Running))
	fmt.Fprintf(out, "Compiled: %s\n", yesNo(status.Compiled))
	if status.WalletAddress != "" {
		fmt.Fprintf(out, "Wallet:   %s\n", status.WalletAddress)
	}
	if status.CompileError != "" {
		fmt.Fprintf(out, "Compile error:\n%s\n", status.CompileError)
	}
	return nil
}

func runAgentsLogs(cmd *cobra.Command, args []string) error {
	client, err := hostingClient()
	if err != nil {
		return err
	}

	entries, err := client.Logs(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetching logs for %s: %w", args[0], err)
	}

	if agentsJSON {
		return printJSON(cmd, entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No log entries yet.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", e.Timestamp, e.Entry)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
