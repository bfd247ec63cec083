package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/semver/v3"
	"go.yaml.in/yaml/v3"

	"github.com/agentlaunch-labs/agentlaunch/internal/manifest"
)

// ErrNotEmpty is returned by Generate when the output directory already
// holds files.
var ErrNotEmpty = errors.New("output directory is not empty")

// ManifestFile is the manifest name written into every generated project.
const ManifestFile = "launch.yaml"

// metaFile describes a template inside the embedded tree. It is read for
// listings but never copied into generated projects.
const metaFile = "template.yaml"

// Data holds all variables available to project templates.
type Data struct {
	Name        string // agent name, e.g. "my-launcher"
	Ticker      string // token ticker, uppercased
	Description string // human-readable description
	Template    string // template identifier, e.g. "launcher"
	ChainID     int    // chain the token launches on
	Version     string // project version, semver
	Year        int    // current year
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
	Warnings  []string
}

// Info summarizes one embedded template for listings.
type Info struct {
	Name            string   `json:"name"`
	Version         string   `json:"version"`
	Description     string   `json:"description,omitempty"`
	MinCLIVersion   string   `json:"min_cli_version,omitempty"`
	RequiredSecrets []string `json:"required_secrets,omitempty"`
}

// Project is a scaffolded agent project loaded back from disk.
type Project struct {
	Dir      string
	Manifest *manifest.AgentManifest
	Code     string // entrypoint source
}

// NewData creates a Data with derived fields populated.
func NewData(name, ticker, templateName string, chainID int) *Data {
	d := &Data{
		Name:     name,
		Ticker:   strings.ToUpper(ticker),
		Template: templateName,
		ChainID:  chainID,
		Version:  "0.1.0",
		Year:     time.Now().Year(),
	}
	d.Description = fmt.Sprintf("AI agent token: %s", name)
	return d
}

// templateFuncs are helpers available inside .tmpl files. yamlString
// renders a string as a safe YAML scalar, quoting only when needed.
var templateFuncs = template.FuncMap{
	"yamlString": yamlString,
}

func yamlString(s string) string {
	out, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Sprintf("%q", s)
	}
	return strings.TrimRight(string(out), "\n")
}

// Templates returns metadata for every embedded template, sorted by name.
func Templates() ([]Info, error) {
	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("reading embedded templates: %w", err)
	}

	var infos []Info
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := Describe(entry.Name())
		if err != nil {
			return nil, err
		}
		infos = append(infos, *info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Describe returns metadata for a single embedded template.
func Describe(name string) (*Info, error) {
	tm, err := readMeta(name)
	if err != nil {
		return nil, err
	}

	info := &Info{
		Name:          name,
		Version:       tm.Version,
		Description:   tm.Description,
		MinCLIVersion: tm.MinCLIVersion,
	}
	for _, s := range tm.Secrets {
		if s.Required {
			info.RequiredSecrets = append(info.RequiredSecrets, s.Name)
		}
	}
	return info, nil
}

// Secrets returns the full secret declarations of an embedded template,
// required and optional alike. The launch flow resolves these from the
// environment before any agent exists on disk.
func Secrets(name string) ([]manifest.SecretField, error) {
	tm, err := readMeta(name)
	if err != nil {
		return nil, err
	}
	return tm.Secrets, nil
}

func readMeta(name string) (*manifest.TemplateManifest, error) {
	raw, err := fs.ReadFile(templateFS, path.Join("templates", name, metaFile))
	if err != nil {
		return nil, fmt.Errorf("template %q not found: %w", name, err)
	}

	var tm manifest.TemplateManifest
	if err := yaml.Unmarshal(raw, &tm); err != nil {
		return nil, fmt.Errorf("parsing metadata for template %q: %w", name, err)
	}
	return &tm, nil
}

// SupportsCLI reports whether cliVersion satisfies the template's
// min_cli_version. Unparseable versions never block, so dev builds
// always pass.
func (i *Info) SupportsCLI(cliVersion string) bool {
	if i.MinCLIVersion == "" {
		return true
	}
	floor, err := semver.NewVersion(i.MinCLIVersion)
	if err != nil {
		return true
	}
	cur, err := semver.NewVersion(strings.TrimPrefix(cliVersion, "v"))
	if err != nil {
		return true
	}
	return !cur.LessThan(floor)
}

// Generate creates a new agent project from the named template. It
// refuses a non-empty output directory; GenerateInto overwrites.
func Generate(templateName string, data *Data, outputDir string) (*Result, error) {
	return generate(templateName, data, outputDir, false)
}

// GenerateInto is Generate without the empty-directory guard, for
// callers that have already confirmed overwriting.
func GenerateInto(templateName string, data *Data, outputDir string) (*Result, error) {
	return generate(templateName, data, outputDir, true)
}

func generate(templateName string, data *Data, outputDir string, overwrite bool) (*Result, error) {
	templateDir := path.Join("templates", templateName)

	// Verify the template exists in the embedded FS.
	entries, err := fs.ReadDir(templateFS, templateDir)
	if err != nil {
		return nil, fmt.Errorf("template %q not found: %w", templateName, err)
	}

	// Create output directory.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	// Check for existing files to prevent accidental overwrites.
	if !overwrite {
		existingEntries, err := os.ReadDir(outputDir)
		if err == nil && len(existingEntries) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotEmpty, outputDir)
		}
	}

	result := &Result{
		OutputDir: outputDir,
	}

	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == metaFile {
			continue
		}

		tmplPath := path.Join(templateDir, entry.Name())
		tmplBytes, err := fs.ReadFile(templateFS, tmplPath)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", tmplPath, err)
		}

		// Strip .tmpl extension for the output filename.
		outName := strings.TrimSuffix(entry.Name(), ".tmpl")
		outPath := filepath.Join(outputDir, outName)

		// Parse and execute the Go template.
		tmpl, err := template.New(entry.Name()).Funcs(templateFuncs).Parse(string(tmplBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", entry.Name(), err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("executing template %s: %w", entry.Name(), err)
		}

		if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outPath, err)
		}

		result.Files = append(result.Files, outName)
	}

	// Validate the generated manifest against JSON Schema.
	manifestPath := filepath.Join(outputDir, ManifestFile)
	if _, err := os.Stat(manifestPath); err == nil {
		valResult, valErr := manifest.ValidateFile(manifestPath)
		if valErr != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Could not validate manifest: %v", valErr))
		} else if !valResult.Valid {
			for _, issue := range valResult.Issues {
				msg := issue.Message
				if issue.Path != "" {
					msg = issue.Path + ": " + msg
				}
				result.Warnings = append(result.Warnings, msg)
			}
		}
	}

	return result, nil
}

// LoadProject reads the manifest and agent source from a project
// directory created by Generate.
func LoadProject(dir string) (*Project, error) {
	manifestPath := filepath.Join(dir, ManifestFile)
	m, err := manifest.ParseAgent(manifestPath)
	if err != nil {
		return nil, err
	}
	if m.Type != manifest.TypeAgent {
		return nil, fmt.Errorf("%s is not an agent manifest (type %q)", manifestPath, m.Type)
	}
	if m.Entrypoint == "" {
		return nil, fmt.Errorf("%s does not name an entrypoint", manifestPath)
	}

	code, err := os.ReadFile(filepath.Join(dir, m.Entrypoint))
	if err != nil {
		return nil, fmt.Errorf("reading entrypoint: %w", err)
	}

	return &Project{Dir: dir, Manifest: m, Code: string(code)}, nil
}
