package scaffold

import "embed"

// templateFS carries the built-in agent project templates. Each
// directory under templates/ is one template: the sources to render
// (.tmpl files go through text/template) plus a template.yaml holding
// its metadata.
//
//go:embed templates
var templateFS embed.FS
