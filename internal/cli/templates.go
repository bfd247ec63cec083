package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentlaunch-labs/agentlaunch/internal/scaffold"
)

var templatesJSON bool

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List built-in agent templates",
	Long:  `List the embedded templates that 'create' and 'launch' scaffold from.`,
	Args:  cobra.NoArgs,
	RunE:  runTemplates,
}

func init() {
	templatesCmd.Flags().BoolVar(&templatesJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, args []string) error {
	infos, err := scaffold.Templates()
	if err != nil {
		return fmt.Errorf("reading templates: %w", err)
	}

	if templatesJSON {
		return printJSON(cmd, infos)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tREQUIRED SECRETS\tDESCRIPTION")
	for _, info := range infos {
		secrets := strings.Join(info.RequiredSecrets, ", ")
		if secrets == "" {
			secrets = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Name, info.Version, secrets, info.Description)
	}
	return w.Flush()
}
