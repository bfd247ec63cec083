package cli

import (
	"bufio"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/agentlaunch-labs/agentlaunch/internal/config"
	"github.com/agentlaunch-labs/agentlaunch/internal/launch"
	"github.com/agentlaunch-labs/agentlaunch/internal/scaffold"
)

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

var (
	createTemplate string
	createOutput   string
	createTicker   string
	createChainID  int
	createForce    bool
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Scaffold an agent project without deploying",
	Long: `Create an agent project from a built-in template. The generated directory
holds the agent source plus a launch.yaml manifest that a later
'agentlaunch launch --manifest' can consume.

Examples:
  agentlaunch create my-agent
  agentlaunch create pricebot --template price-monitor --ticker PRC
  agentlaunch create my-agent --output ./agents/my-agent --chain-id 56`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createTemplate, "template", "", "Agent template (see 'agentlaunch templates')")
	createCmd.Flags().StringVar(&createOutput, "output", "", "Output directory (default ./<name>)")
	createCmd.Flags().StringVar(&createTicker, "ticker", "", "Token ticker recorded in the manifest (2-11 characters)")
	createCmd.Flags().IntVar(&createChainID, "chain-id", 0, "Chain ID recorded in the manifest (default from config)")
	createCmd.Flags().BoolVar(&createForce, "force", false, "Write into a non-empty output directory")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := validateName(name); err != nil {
		return err
	}

	config.Load()

	template := createTemplate
	if template == "" {
		template = config.Get(config.KeyTemplate)
	}
	info, err := scaffold.Describe(template)
	if err != nil {
		return err
	}
	if !info.SupportsCLI(buildVersion) {
		return fmt.Errorf("template %q requires CLI %s or newer (this is %s)",
			template, info.MinCLIVersion, buildVersion)
	}

	ticker := strings.TrimSpace(createTicker)
	if ticker == "" {
		in := bufio.NewReader(cmd.InOrStdin())
		ticker, err = promptLine(in, cmd.ErrOrStderr(), "Token ticker (2-11 characters)", tickerFromName(name))
		if err != nil {
			return err
		}
	}

	chainID := createChainID
	if chainID == 0 {
		chainID = config.GetInt(config.KeyChainID)
	}

	outDir := resolveOutputDir(name)
	data := scaffold.NewData(name, ticker, template, chainID)

	generate := scaffold.Generate
	if createForce {
		generate = scaffold.GenerateInto
	}
	result, err := generate(template, data, outDir)
	if err != nil {
		if errors.Is(err, scaffold.ErrNotEmpty) {
			return fmt.Errorf("%v (use --force to write into it)", err)
		}
		return err
	}

	printResult(result)

	if len(info.RequiredSecrets) > 0 {
		fmt.Printf("\nRequired secrets at launch: %s\n", strings.Join(info.RequiredSecrets, ", "))
	}

	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit agent.py to adjust the agent behavior")
	fmt.Printf("  2. Test locally with 'agentlaunch run %s'\n", outDir)
	fmt.Printf("  3. Launch with 'agentlaunch launch --manifest %s'\n", filepath.Join(outDir, scaffold.ManifestFile))
	return nil
}

// ─── Helpers ───────────────────────────────────────────────────────

func validateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid name %q: must match pattern [a-z0-9][a-z0-9-]*", name)
	}
	if utf8.RuneCountInString(name) > launch.MaxNameLen {
		return fmt.Errorf("invalid name %q: must be at most %d characters", name, launch.MaxNameLen)
	}
	return nil
}

func resolveOutputDir(name string) string {
	if createOutput != "" {
		return createOutput
	}
	return filepath.Join(".", name)
}

func printResult(result *scaffold.Result) {
	fmt.Printf("Created agent project at %s/\n", result.OutputDir)
	for _, f := range result.Files {
		fmt.Printf("  %s\n", f)
	}
	if len(result.Warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range result.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
}
