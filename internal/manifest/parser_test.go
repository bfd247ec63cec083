package manifest

import (
	"path/filepath"
	"testing"
)

const testdataDir = "testdata"

func testPath(name string) string {
	return filepath.Join(testdataDir, name)
}

func TestParse_BaseFields(t *testing.T) {
	tests := []struct {
		file    string
		name    string
		typ     string
		version string
	}{
		{"valid-agent.yaml", "my-launcher", TypeAgent, "1.0.0"},
		{"valid-template.yaml", "launcher", TypeTemplate, "1.1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			m, err := Parse(testPath(tt.file))
			if err != nil {
				t.Fatalf("Parse(%s) error: %v", tt.file, err)
			}
			if m.Name != tt.name {
				t.Errorf("Name = %q, want %q", m.Name, tt.name)
			}
			if m.Type != tt.typ {
				t.Errorf("Type = %q, want %q", m.Type, tt.typ)
			}
			if m.Version != tt.version {
				t.Errorf("Version = %q, want %q", m.Version, tt.version)
			}
		})
	}
}

func TestParse_FileNotFound(t *testing.T) {
	_, err := Parse(testPath("nonexistent.yaml"))
	if err == nil {
		t.Fatal("expected error for nonexistent file, got nil")
	}
}

func TestParseFile_Agent(t *testing.T) {
	result, err := ParseFile(testPath("valid-agent.yaml"))
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	m, ok := result.(*AgentManifest)
	if !ok {
		t.Fatalf("expected *AgentManifest, got %T", result)
	}
	if m.Entrypoint != "agent.py" {
		t.Errorf("Entrypoint = %q, want %q", m.Entrypoint, "agent.py")
	}
	if m.Template != "launcher" {
		t.Errorf("Template = %q, want %q", m.Template, "launcher")
	}
	if m.Token == nil || m.Token.Ticker != "MLC" {
		t.Fatalf("Token = %+v, want ticker MLC", m.Token)
	}
	if m.Token.ChainID != 97 {
		t.Errorf("ChainID = %d, want 97", m.Token.ChainID)
	}
	if len(m.Secrets) != 2 {
		t.Fatalf("Secrets len = %d, want 2", len(m.Secrets))
	}
	if !m.Secrets[0].Required {
		t.Errorf("Secrets[0].Required = false, want true")
	}
	if m.Secrets[1].Env != "MY_TREASURY_KEY" {
		t.Errorf("Secrets[1].Env = %q, want %q", m.Secrets[1].Env, "MY_TREASURY_KEY")
	}
}

func TestParseFile_Template(t *testing.T) {
	result, err := ParseFile(testPath("valid-template.yaml"))
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	m, ok := result.(*TemplateManifest)
	if !ok {
		t.Fatalf("expected *TemplateManifest, got %T", result)
	}
	if len(m.Variables) != 2 {
		t.Fatalf("Variables len = %d, want 2", len(m.Variables))
	}
	if m.Variables[0].Name != "AgentName" || !m.Variables[0].Required {
		t.Errorf("Variables[0] = %+v", m.Variables[0])
	}
	if m.Variables[1].Default != "TKN" {
		t.Errorf("Variables[1].Default = %q, want %q", m.Variables[1].Default, "TKN")
	}
	if m.MinCLIVersion != "0.1.0" {
		t.Errorf("MinCLIVersion = %q, want %q", m.MinCLIVersion, "0.1.0")
	}
	if len(m.Secrets) != 1 || m.Secrets[0].Name != "AGENTLAUNCH_API_KEY" {
		t.Errorf("Secrets = %+v, want one AGENTLAUNCH_API_KEY entry", m.Secrets)
	}
}

func TestParseFile_UnknownType(t *testing.T) {
	_, err := ParseFile(testPath("unknown-type.yaml"))
	if err == nil {
		t.Fatal("expected error for unknown manifest type, got nil")
	}
}

func TestParseAgent(t *testing.T) {
	m, err := ParseAgent(testPath("valid-agent.yaml"))
	if err != nil {
		t.Fatalf("ParseAgent error: %v", err)
	}
	if m.Name != "my-launcher" {
		t.Errorf("Name = %q, want %q", m.Name, "my-launcher")
	}
}

func TestParseTemplate(t *testing.T) {
	m, err := ParseTemplate(testPath("valid-template.yaml"))
	if err != nil {
		t.Fatalf("ParseTemplate error: %v", err)
	}
	if m.Name != "launcher" {
		t.Errorf("Name = %q, want %q", m.Name, "launcher")
	}
}
