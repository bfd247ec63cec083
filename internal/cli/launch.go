package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentlaunch-labs/agentlaunch/internal/branding"
	"github.com/agentlaunch-labs/agentlaunch/internal/clock"
	"github.com/agentlaunch-labs/agentlaunch/internal/config"
	"github.com/agentlaunch-labs/agentlaunch/internal/hosting"
	"github.com/agentlaunch-labs/agentlaunch/internal/launch"
	"github.com/agentlaunch-labs/agentlaunch/internal/logging"
	"github.com/agentlaunch-labs/agentlaunch/internal/manifest"
	"github.com/agentlaunch-labs/agentlaunch/internal/registry"
	"github.com/agentlaunch-labs/agentlaunch/internal/report"
	"github.com/agentlaunch-labs/agentlaunch/internal/scaffold"
)

var (
	launchName        string
	launchTicker      string
	launchTemplate    string
	launchDescription string
	launchChainID     int
	launchLogo        string
	launchOutput      string
	launchManifest    string
	launchNoDeploy    bool
	launchNoTokenize  bool
	launchTimeout     time.Duration
	launchInterval    time.Duration
	launchJSON        bool
	launchYes         bool
	launchVerbose     bool
)

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Scaffold, deploy, and tokenize an agent",
	Long: `Launch an agent end to end: generate a project from a template, deploy it
to the hosting platform, wait for compilation, and register a token on the
launchpad. The handoff link in the output is what a wallet holder opens to
deploy the token on-chain.

Each side of the launch can be skipped: --no-deploy creates the token for
an agent hosted elsewhere, --no-tokenize stops once the agent is live.

Examples:
  agentlaunch launch --name my-agent --ticker AGNT
  agentlaunch launch --manifest ./my-agent/launch.yaml --json
  agentlaunch launch --name pricebot --ticker PRC --template price-monitor --no-tokenize`,
	Args: cobra.NoArgs,
	RunE: runLaunch,
}

func init() {
	launchCmd.Flags().StringVar(&launchName, "name", "", "Agent name (at most 32 characters)")
	launchCmd.Flags().StringVar(&launchTicker, "ticker", "", "Token ticker (2-11 characters, uppercased)")
	launchCmd.Flags().StringVar(&launchTemplate, "template", "", "Agent template (see 'agentlaunch templates')")
	launchCmd.Flags().StringVar(&launchDescription, "description", "", "Token description (at most 500 characters)")
	launchCmd.Flags().IntVar(&launchChainID, "chain-id", 0, "Target chain: 97, 56 or 11155111 (default from config)")
	launchCmd.Flags().StringVar(&launchLogo, "logo", "", "Token logo URL")
	launchCmd.Flags().StringVar(&launchOutput, "output", "", "Scaffold destination (default ./<name>)")
	launchCmd.Flags().StringVar(&launchManifest, "manifest", "", "Launch an existing project: path to its launch.yaml or directory")
	launchCmd.Flags().BoolVar(&launchNoDeploy, "no-deploy", false, "Skip hosting deployment, create the token only")
	launchCmd.Flags().BoolVar(&launchNoTokenize, "no-tokenize", false, "Skip token creation, deploy the agent only")
	launchCmd.Flags().DurationVar(&launchTimeout, "timeout", 0, "Compilation wait budget (default from config)")
	launchCmd.Flags().DurationVar(&launchInterval, "interval", 0, "Compilation poll interval (default from config)")
	launchCmd.Flags().BoolVar(&launchJSON, "json", false, "Machine output: exactly one JSON document on stdout")
	launchCmd.Flags().BoolVar(&launchYes, "yes", false, "Accept defaults instead of prompting")
	launchCmd.Flags().BoolVarP(&launchVerbose, "verbose", "v", false, "Log pipeline progress to stderr")
	rootCmd.AddCommand(launchCmd)
}

func runLaunch(cmd *cobra.Command, args []string) error {
	config.Load()

	log := logging.Nop()
	if launchVerbose {
		log = logging.Verbose()
	}

	// An existing project supplies defaults and the code to upload.
	projectDir := ""
	var projectManifest *manifest.AgentManifest
	if launchManifest != "" {
		dir, err := resolveProjectDir(launchManifest)
		if err != nil {
			return err
		}
		proj, err := scaffold.LoadProject(dir)
		if err != nil {
			return err
		}
		projectDir = proj.Dir
		projectManifest = proj.Manifest
	}

	req, err := resolveLaunchRequest(cmd, projectManifest)
	if err != nil {
		return err
	}

	apiKey := config.APIKey()
	if apiKey == "" && (req.DoDeploy || req.DoTokenize) {
		return fmt.Errorf("no API key configured: run '%s init' or set %s",
			branding.CLIName(), branding.EnvVar("API_KEY"))
	}

	secrets, err := resolveLaunchSecrets(cmd.ErrOrStderr(), req, projectManifest, apiKey)
	if err != nil {
		return err
	}

	outputDir := launchOutput
	if outputDir == "" {
		outputDir = filepath.Join(".", req.Name)
	}

	interval := launchInterval
	if interval <= 0 {
		interval = config.GetDuration(config.KeyPollInterval)
	}
	timeout := launchTimeout
	if timeout <= 0 {
		timeout = config.GetDuration(config.KeyPollTimeout)
	}

	host := hosting.New(config.Get(config.KeyHostingURL), apiKey, hosting.WithLogger(log))
	reg := registry.New(config.Get(config.KeyRegistryURL), apiKey, registry.WithLogger(log))

	poller := launch.NewPoller(host, clock.Real(), interval, log)
	session := launch.NewSession(host, poller, timeout, log)

	pipe := launch.NewPipeline(log,
		launch.NewScaffoldStage(newScaffoldFunc(projectDir, outputDir)),
		launch.NewDeployStage(session, secrets),
		launch.NewTokenizeStage(reg, config.Get(config.KeyFrontendURL)),
	)

	outcome := pipe.Run(cmd.Context(), req)

	mode := report.Human
	if launchJSON {
		mode = report.Machine
	}
	code, err := report.New(cmd.OutOrStdout()).Render(outcome, mode)
	if err != nil {
		return fmt.Errorf("rendering outcome: %w", err)
	}
	if code != 0 {
		// The reporter already told the whole story.
		return &exitError{code: code}
	}
	return nil
}

// resolveLaunchRequest merges flags, manifest defaults, config, and
// interactive answers into the immutable pipeline request. Flags win over
// the manifest, the manifest over config defaults.
func resolveLaunchRequest(cmd *cobra.Command, m *manifest.AgentManifest) (*launch.Request, error) {
	name := strings.TrimSpace(launchName)
	ticker := strings.TrimSpace(launchTicker)
	description := launchDescription
	template := launchTemplate
	chainID := launchChainID
	logo := launchLogo

	if m != nil {
		if name == "" {
			name = m.Name
		}
		if description == "" {
			description = m.Description
		}
		if template == "" {
			template = m.Template
		}
		if m.Token != nil {
			if ticker == "" {
				ticker = m.Token.Ticker
			}
			if chainID == 0 {
				chainID = m.Token.ChainID
			}
			if logo == "" {
				logo = m.Token.Logo
			}
			if description == "" {
				description = m.Token.Description
			}
		}
	}

	// The two required fields are prompted for when missing, unless the
	// caller asked for unattended operation.
	if !launchJSON && !launchYes {
		in := bufio.NewReader(cmd.InOrStdin())
		errw := cmd.ErrOrStderr()
		var err error
		if name == "" {
			name, err = promptLine(in, errw, "Agent name", "")
			if err != nil {
				return nil, err
			}
		}
		if ticker == "" {
			ticker, err = promptLine(in, errw, "Token ticker (2-11 characters)", tickerFromName(name))
			if err != nil {
				return nil, err
			}
		}
	}

	if chainID == 0 {
		chainID = config.GetInt(config.KeyChainID)
	}

	// Template matters only when scaffolding; an existing project already
	// carries its code.
	if m == nil {
		if template == "" {
			template = config.Get(config.KeyTemplate)
		}
		info, err := scaffold.Describe(template)
		if err != nil {
			return nil, err
		}
		if !info.SupportsCLI(buildVersion) {
			return nil, fmt.Errorf("template %q requires CLI %s or newer (this is %s)",
				template, info.MinCLIVersion, buildVersion)
		}
	}

	return &launch.Request{
		Name:        strings.TrimSpace(name),
		Ticker:      strings.ToUpper(strings.TrimSpace(ticker)),
		Template:    template,
		Description: description,
		Logo:        logo,
		ChainID:     chainID,
		DoDeploy:    !launchNoDeploy,
		DoTokenize:  !launchNoTokenize,
	}, nil
}

// resolveLaunchSecrets gathers the values a deployment sets on the hosted
// agent: the platform API key plus whatever the template declares, taken
// from the local environment. A missing required secret aborts before any
// gateway call, a missing optional one only warns.
func resolveLaunchSecrets(warnw io.Writer, req *launch.Request, m *manifest.AgentManifest, apiKey string) (map[string]string, error) {
	if !req.DoDeploy {
		return nil, nil
	}

	secrets := map[string]string{
		"AGENTVERSE_API_KEY": apiKey,
	}

	var declared []manifest.SecretField
	if m != nil {
		declared = m.Secrets
	} else {
		var err error
		declared, err = scaffold.Secrets(req.Template)
		if err != nil {
			return nil, err
		}
	}

	for _, s := range declared {
		env := s.Env
		if env == "" {
			env = s.Name
		}
		value := os.Getenv(env)
		if value == "" && env == branding.EnvVar("API_KEY") {
			// The configured key serves the agent's own launchpad calls.
			value = apiKey
		}
		if value == "" {
			if s.Required {
				return nil, fmt.Errorf("secret %s is required by the template: set %s in the environment", s.Name, env)
			}
			fmt.Fprintf(warnw, "warning: optional secret %s is not set (%s)\n", s.Name, env)
			continue
		}
		secrets[s.Name] = value
	}
	return secrets, nil
}

// newScaffoldFunc resolves the agent source for the pipeline: an existing
// project when a manifest was given, a fresh generation otherwise.
func newScaffoldFunc(projectDir, outputDir string) launch.ScaffoldFunc {
	return func(ctx context.Context, req *launch.Request) (*launch.ScaffoldResult, error) {
		if projectDir != "" {
			proj, err := scaffold.LoadProject(projectDir)
			if err != nil {
				return nil, err
			}
			return &launch.ScaffoldResult{
				Dir:   proj.Dir,
				Files: []string{proj.Manifest.Entrypoint},
				Code:  projectCode(proj),
			}, nil
		}

		data := scaffold.NewData(req.Name, req.Ticker, req.Template, req.ChainID)
		if req.Description != "" {
			data.Description = req.Description
		}

		res, err := scaffold.Generate(req.Template, data, outputDir)
		if err != nil {
			return nil, err
		}
		proj, err := scaffold.LoadProject(res.OutputDir)
		if err != nil {
			return nil, err
		}
		return &launch.ScaffoldResult{
			Dir:   res.OutputDir,
			Files: res.Files,
			Code:  projectCode(proj),
		}, nil
	}
}

// projectCode shapes the entrypoint into the hosting upload payload.
func projectCode(p *scaffold.Project) []hosting.CodeFile {
	return []hosting.CodeFile{{
		Language: "python",
		Name:     p.Manifest.Entrypoint,
		Value:    p.Code,
	}}
}

// resolveProjectDir accepts either the project directory or the path to
// its manifest file.
func resolveProjectDir(p string) (string, error) {
	fi, err := os.Stat(p)
	if err != nil {
		return "", fmt.Errorf("manifest %s: %w", p, err)
	}
	if fi.IsDir() {
		return p, nil
	}
	return filepath.Dir(p), nil
}
