package manifest

// BaseManifest contains fields shared by all manifest types.
type BaseManifest struct {
	Name        string `yaml:"name" json:"name"`
	Type        string `yaml:"type" json:"type"`
	Version     string `yaml:"version" json:"version"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// AgentManifest describes a scaffolded agent project, stored as
// launch.yaml in the project root. It carries everything a launch needs
// beyond the code itself: the entrypoint to upload, token defaults and
// the secrets the agent runs with.
type AgentManifest struct {
	BaseManifest `yaml:",inline"`
	Template     string        `yaml:"template,omitempty" json:"template,omitempty"`
	Entrypoint   string        `yaml:"entrypoint" json:"entrypoint"`
	Token        *TokenBlock   `yaml:"token,omitempty" json:"token,omitempty"`
	Secrets      []SecretField `yaml:"secrets,omitempty" json:"secrets,omitempty"`
}

// TemplateManifest describes a built-in project template, stored as
// template.yaml next to the template sources. Secrets lists what the
// generated agent will need so it can be shown before scaffolding.
type TemplateManifest struct {
	BaseManifest  `yaml:",inline"`
	MinCLIVersion string             `yaml:"min_cli_version,omitempty" json:"min_cli_version,omitempty"`
	Variables     []TemplateVariable `yaml:"variables,omitempty" json:"variables,omitempty"`
	Secrets       []SecretField      `yaml:"secrets,omitempty" json:"secrets,omitempty"`
}

// TokenBlock holds the token defaults recorded at scaffold time so a
// later launch can run without re-prompting.
type TokenBlock struct {
	Ticker      string `yaml:"ticker" json:"ticker"`
	ChainID     int    `yaml:"chain_id,omitempty" json:"chain_id,omitempty"`
	Logo        string `yaml:"logo,omitempty" json:"logo,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// SecretField declares a secret the hosted agent needs. Env names the
// local environment variable read at deploy time; it defaults to Name.
type SecretField struct {
	Name        string `yaml:"name" json:"name"`
	Env         string `yaml:"env,omitempty" json:"env,omitempty"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// TemplateVariable represents a value substituted into template sources.
type TemplateVariable struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Default     string `yaml:"default,omitempty" json:"default,omitempty"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`
}

// Manifest type constants for the type discriminator field.
const (
	TypeAgent    = "agent"
	TypeTemplate = "template"
)
