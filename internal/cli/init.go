package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentlaunch-labs/agentlaunch/internal/branding"
	"github.com/agentlaunch-labs/agentlaunch/internal/config"
	"github.com/agentlaunch-labs/agentlaunch/internal/hosting"
)

var (
	initAPIKey   string
	initNoVerify bool
)

func init() {
	initCmd.Flags().StringVar(&initAPIKey, "api-key", "", "API key (prompted for when omitted)")
	initCmd.Flags().BoolVar(&initNoVerify, "no-verify", false, "Skip the hosting API connectivity check")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create the config directory, store the API key, and verify it against the
hosting API. The key is written to ~/.agentlaunch/config.yaml with
owner-only permissions.

Get a key from https://agentverse.ai under Settings -> API Keys.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if err := config.EnsureDir(); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	config.Load()

	fmt.Printf("Initializing %s configuration at %s\n", branding.DisplayName(), config.FilePath())

	apiKey := strings.TrimSpace(initAPIKey)
	if apiKey == "" {
		// An already-stored key is kept unless a new one is entered.
		current := config.APIKey()
		label := "API key"
		if current != "" {
			label = "API key (enter to keep the stored one)"
		}
		in := bufio.NewReader(cmd.InOrStdin())
		entered, err := promptLine(in, cmd.ErrOrStderr(), label, "")
		if err != nil {
			return err
		}
		apiKey = strings.TrimSpace(entered)
		if apiKey == "" {
			apiKey = current
		}
	}
	if apiKey == "" {
		return fmt.Errorf("an API key is required: pass --api-key or enter one at the prompt")
	}

	if err := config.Set(config.KeyAPIKey, apiKey); err != nil {
		return fmt.Errorf("storing API key: %w", err)
	}
	fmt.Println("API key stored.")

	if initNoVerify {
		return nil
	}

	// One authenticated call proves the key works.
	client := hosting.New(config.Get(config.KeyHostingURL), apiKey)
	agents, err := client.List(cmd.Context())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not verify the key against %s: %v\n",
			config.Get(config.KeyHostingURL), err)
		fmt.Fprintf(cmd.ErrOrStderr(), "The key was stored anyway; check it with '%s agents'.\n",
			branding.CLIName())
		return nil
	}

	fmt.Printf("Key verified: %d hosted agent(s) visible.\n", len(agents))
	fmt.Printf("\nRun '%s launch' to launch your first agent.\n", branding.CLIName())
	return nil
}
