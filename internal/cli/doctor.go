package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentlaunch-labs/agentlaunch/internal/branding"
	"github.com/agentlaunch-labs/agentlaunch/internal/config"
	"github.com/agentlaunch-labs/agentlaunch/internal/launch"
	"github.com/agentlaunch-labs/agentlaunch/internal/manifest"
	"github.com/agentlaunch-labs/agentlaunch/internal/scaffold"
)

var (
	checkConfig    bool
	checkRuntime   bool
	checkTemplates bool
	checkEndpoints bool
	checkManifest  string
)

func init() {
	doctorCmd.Flags().BoolVar(&checkConfig, "check-config", false, "Verify config dir permissions and API key")
	doctorCmd.Flags().BoolVar(&checkRuntime, "check-runtime", false, "Verify Python is available for local runs")
	doctorCmd.Flags().BoolVar(&checkTemplates, "check-templates", false, "Verify embedded templates generate cleanly")
	doctorCmd.Flags().BoolVar(&checkEndpoints, "check-endpoints", false, "Verify hosting and registry endpoints respond")
	doctorCmd.Flags().StringVar(&checkManifest, "check-manifest", "", "Validate a launch.yaml at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the launch environment",
	Long:  `Run diagnostic checks on configuration, runtime, templates, and endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		anyFlag := checkConfig || checkRuntime || checkTemplates || checkEndpoints ||
			checkManifest != ""

		// If no specific flag, run all checks.
		if !anyFlag {
			runConfigCheck()
			runRuntimeCheck()
			runTemplatesCheck()
			runEndpointsCheck(cmd.Context())
			return nil
		}

		if checkConfig {
			runConfigCheck()
		}
		if checkRuntime {
			runRuntimeCheck()
		}
		if checkTemplates {
			runTemplatesCheck()
		}
		if checkEndpoints {
			runEndpointsCheck(cmd.Context())
		}
		if checkManifest != "" {
			if err := runManifestCheck(checkManifest); err != nil {
				return err
			}
		}

		return nil
	},
}

func runConfigCheck() {
	fmt.Println("Config check:")
	config.Load()

	dir := config.Dir()
	fi, err := os.Stat(dir)
	switch {
	case err != nil:
		fmt.Printf("  [MISS] config dir %s does not exist (run '%s init')\n", dir, branding.CLIName())
	case fi.Mode().Perm()&0077 != 0:
		fmt.Printf("  [WARN] config dir %s is group/world accessible (%#o), want %#o\n",
			dir, fi.Mode().Perm(), config.DirPermSecure)
	default:
		fmt.Printf("  [ OK ] config dir %s (%#o)\n", dir, fi.Mode().Perm())
	}

	key := config.APIKey()
	switch {
	case key == "":
		fmt.Printf("  [MISS] no API key configured (run '%s init' or set %s)\n",
			branding.CLIName(), branding.EnvVar("API_KEY"))
	case strings.ContainsAny(key, " \t\n"):
		fmt.Println("  [WARN] API key contains whitespace")
	case len(key) < 16:
		fmt.Printf("  [WARN] API key looks short (%d characters)\n", len(key))
	default:
		fmt.Printf("  [ OK ] API key configured (%s, %d characters)\n", redactKey(key), len(key))
	}
}

// redactKey shows just enough of a credential to recognize it.
func redactKey(key string) string {
	if len(key) < 4 {
		return "***"
	}
	return key[:4] + "***"
}

func runRuntimeCheck() {
	fmt.Println("Runtime check:")
	if checkBinary("python3") {
		return
	}
	if !checkBinary("python") {
		fmt.Println("  [FAIL] no Python found; 'run' needs Python 3 on PATH")
	}
}

func checkBinary(name string) bool {
	path, err := exec.LookPath(name)
	if err != nil {
		fmt.Printf("  [MISS] %s not found\n", name)
		return false
	}
	fmt.Printf("  [ OK ] %s found at %s\n", name, path)
	return true
}

// runTemplatesCheck generates every embedded template into a throwaway
// directory and reports whether the result validates.
func runTemplatesCheck() {
	fmt.Println("Template check:")

	infos, err := scaffold.Templates()
	if err != nil {
		fmt.Printf("  [FAIL] cannot read embedded templates: %v\n", err)
		return
	}

	for _, info := range infos {
		dir, err := os.MkdirTemp("", "doctor-template-*")
		if err != nil {
			fmt.Printf("  [WARN] %s: cannot create temp dir: %v\n", info.Name, err)
			continue
		}

		data := scaffold.NewData("doctor-probe", "PROBE", info.Name, launch.ChainBSCTestnet)
		result, genErr := scaffold.Generate(info.Name, data, dir)
		switch {
		case genErr != nil:
			fmt.Printf("  [FAIL] %s: generation failed: %v\n", info.Name, genErr)
		case len(result.Warnings) > 0:
			fmt.Printf("  [FAIL] %s: generated manifest is invalid: %s\n", info.Name, result.Warnings[0])
		default:
			fmt.Printf("  [ OK ] %s (v%s): %d files\n", info.Name, info.Version, len(result.Files))
		}
		os.RemoveAll(dir)
	}
}

func runEndpointsCheck(ctx context.Context) {
	fmt.Println("Endpoint check:")
	config.Load()
	checkEndpoint(ctx, "hosting", config.Get(config.KeyHostingURL))
	checkEndpoint(ctx, "registry", config.Get(config.KeyRegistryURL))
	checkEndpoint(ctx, "frontend", config.Get(config.KeyFrontendURL))
}

func checkEndpoint(ctx context.Context, name, base string) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base, nil)
	if err != nil {
		fmt.Printf("  [FAIL] %s: bad URL %s: %v\n", name, base, err)
		return
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("  [FAIL] %s: %s unreachable: %v\n", name, base, err)
		return
	}
	resp.Body.Close()

	// Any response proves reachability; auth errors are expected without
	// credentials.
	fmt.Printf("  [ OK ] %s: %s responded (HTTP %d)\n", name, base, resp.StatusCode)
}

func runManifestCheck(path string) error {
	fmt.Printf("Manifest validation: %s\n", path)

	// Validate against JSON Schema.
	result, err := manifest.ValidateFile(path)
	if err != nil {
		fmt.Printf("  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}

	if result.Valid {
		// Parse to get type and name for the success message.
		m, err := manifest.Parse(path)
		if err != nil {
			fmt.Printf("  [ OK ] Valid manifest\n")
			return nil
		}
		fmt.Printf("  [ OK ] Valid %s manifest: %s (v%s)\n", m.Type, m.Name, m.Version)
		return nil
	}

	// Report validation issues.
	fmt.Printf("  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		if issue.Path != "" {
			fmt.Printf("    - %s: %s\n", issue.Path, issue.Message)
		} else {
			fmt.Printf("    - %s\n", issue.Message)
		}
	}
	return fmt.Errorf("manifest %s has %d validation issue(s)", path, len(result.Issues))
}
