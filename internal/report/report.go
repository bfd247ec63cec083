package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agentlaunch-labs/agentlaunch/internal/branding"
	"github.com/agentlaunch-labs/agentlaunch/internal/launch"
)

// Mode selects the rendering contract.
type Mode int

const (
	// Human renders a multi-section narration.
	Human Mode = iota
	// Machine renders exactly one JSON document and nothing else.
	Machine
)

var (
	successColor = lipgloss.Color("#10B981")
	errorColor   = lipgloss.Color("#F87171")
	warnColor    = lipgloss.Color("#F59E0B")
	mutedColor   = lipgloss.Color("#9CA3AF")

	headlineOK      = lipgloss.NewStyle().Bold(true).Foreground(successColor)
	headlinePartial = lipgloss.NewStyle().Bold(true).Foreground(warnColor)
	headlineFail    = lipgloss.NewStyle().Bold(true).Foreground(errorColor)
	sectionStyle    = lipgloss.NewStyle().Bold(true)
	labelStyle      = lipgloss.NewStyle().Foreground(mutedColor)
	warnStyle       = lipgloss.NewStyle().Foreground(warnColor)
	linkStyle       = lipgloss.NewStyle().Underline(true)
)

// Reporter renders a launch outcome to one output channel. The outcome
// alone determines everything written and the exit code.
type Reporter struct {
	out io.Writer
}

func New(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// ExitCode maps an outcome to the process exit code. Partial failure
// counts as success, the primary artifact exists.
func ExitCode(o *launch.Outcome) int {
	if o.Success || o.PartialFailure {
		return 0
	}
	return 1
}

// Render writes the outcome in the given mode and returns the exit code.
func (r *Reporter) Render(o *launch.Outcome, mode Mode) (int, error) {
	var err error
	if mode == Machine {
		err = r.renderMachine(o)
	} else {
		err = r.renderHuman(o)
	}
	return ExitCode(o), err
}

func (r *Reporter) renderMachine(o *launch.Outcome) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding outcome: %w", err)
	}
	_, err = fmt.Fprintln(r.out, string(data))
	return err
}

func (r *Reporter) renderHuman(o *launch.Outcome) error {
	var b strings.Builder

	b.WriteString(headline(o))
	b.WriteString("\n")

	if o.Scaffold != nil && o.Scaffold.Dir != "" {
		b.WriteString("\n" + sectionStyle.Render("Project") + "\n")
		writeField(&b, "Directory", o.Scaffold.Dir)
		if len(o.Scaffold.Files) > 0 {
			writeField(&b, "Files", strings.Join(o.Scaffold.Files, ", "))
		}
	}

	if o.Deploy != nil {
		b.WriteString("\n" + sectionStyle.Render("Deployment") + "\n")
		writeField(&b, "Address", o.Deploy.Address)
		if o.Deploy.WalletAddress != "" {
			writeField(&b, "Wallet", o.Deploy.WalletAddress)
		}
		if o.Deploy.Digest != "" {
			writeField(&b, "Digest", shorten(o.Deploy.Digest))
		}
		writeField(&b, "Compiled", compiledText(o.Deploy))
	}

	if o.Tokenize != nil {
		b.WriteString("\n" + sectionStyle.Render("Token") + "\n")
		writeField(&b, "ID", o.Tokenize.TokenID)
		writeField(&b, "Symbol", o.Tokenize.Symbol)
		if o.Tokenize.Status != "" {
			writeField(&b, "Status", o.Tokenize.Status)
		}
		if o.Tokenize.HandoffLink != "" {
			b.WriteString("\n" + sectionStyle.Render("Handoff link") + " " +
				labelStyle.Render("(send to someone with a wallet to deploy on-chain)") + "\n")
			b.WriteString("  " + linkStyle.Render(o.Tokenize.HandoffLink) + "\n")
		}
	}

	for _, w := range o.Warnings {
		b.WriteString("\n" + warnStyle.Render("[WARN] "+w) + "\n")
	}

	if o.Err != nil {
		b.WriteString("\n" + sectionStyle.Render("Error") + "\n")
		writeField(&b, "Stage", o.Err.Stage)
		writeField(&b, "Kind", string(o.Err.Kind))
		writeField(&b, "Detail", o.Err.Message)
	}

	if hint := hintFor(o); hint != "" {
		b.WriteString("\n" + labelStyle.Render("Hint: "+hint) + "\n")
	}

	_, err := fmt.Fprint(r.out, b.String())
	return err
}

func headline(o *launch.Outcome) string {
	switch {
	case o.PartialFailure:
		return headlinePartial.Render("Launch partially complete: agent is live, tokenization failed")
	case !o.Success:
		return headlineFail.Render("Launch failed")
	case o.Deploy != nil && !o.Deploy.Compiled:
		return headlinePartial.Render("Launch finished with warnings")
	default:
		return headlineOK.Render("Launch complete")
	}
}

func compiledText(d *launch.DeployResult) string {
	switch {
	case d.Compiled:
		return fmt.Sprintf("yes (%.0fs)", d.ElapsedSeconds)
	case d.CompileError == "timeout":
		return fmt.Sprintf("no, timed out after %.0fs", d.ElapsedSeconds)
	case d.CompileError != "":
		return "no: " + d.CompileError
	default:
		return "no"
	}
}

// hintFor picks the remediation line for the failure, or for the compile
// caveat when the run otherwise succeeded.
func hintFor(o *launch.Outcome) string {
	if o.Err != nil {
		return launch.Hint(o.Err.Kind)
	}
	if o.Deploy == nil || o.Deploy.Compiled {
		return ""
	}
	if o.Deploy.CompileError == "timeout" {
		return launch.Hint(launch.KindCompileTimeout)
	}
	return fmt.Sprintf("inspect the compile error with %s agents logs %s",
		branding.CLIName(), o.Deploy.Address)
}

func writeField(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-9s", label+":")), value)
}

func shorten(s string) string {
	if len(s) > 16 {
		return s[:16] + "..."
	}
	return s
}
