package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// funcMap provides custom functions available in all templates.
var funcMap = template.FuncMap{
	// jsonEscape escapes a string for embedding inside a JSON string value.
	"jsonEscape": func(s string) string {
		b, err := json.Marshal(s)
		if err != nil {
			return s
		}
		return string(b[1 : len(b)-1])
	},
	// posixPath converts Windows separators to forward slashes.
	"posixPath": func(s string) string {
		return strings.ReplaceAll(s, "\\", "/")
	},
	"title": func(s string) string {
		return titleCaser.String(strings.NewReplacer("-", " ", "_", " ").Replace(s))
	},
	"join": strings.Join,
}

// unexpandedTokenPattern detects leftover dynamic tokens in rendered output:
// ${VAR}, {{VAR}} and $VAR.
var unexpandedTokenPattern = regexp.MustCompile(`\$\{[A-Za-z_][A-Za-z0-9_]*\}|\{\{\.?[A-Za-z_][A-Za-z0-9_.]*\}\}|\$[A-Z_][A-Z0-9_]*`)

// passthroughTokens are expanded by Claude Code at runtime and are allowed
// in rendered output.
var passthroughTokens = []string{
	"$CLAUDE_PROJECT_DIR",
	"$ARGUMENTS",
}

// Renderer renders module asset templates.
type Renderer interface {
	// Render parses content as a template named name and executes it with
	// data. Returns ErrMissingTemplateKey if a key is missing and
	// ErrUnexpandedToken if tokens remain after rendering.
	Render(name, content string, data any) ([]byte, error)
}

type renderer struct{}

// NewRenderer returns the strict text/template renderer.
func NewRenderer() Renderer {
	return renderer{}
}

// Render parses and executes a template with missingkey=error.
func (renderer) Render(name, content string, data any) ([]byte, error) {
	tmpl, err := template.New(name).
		Funcs(funcMap).
		Option("missingkey=error").
		Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateParse, name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingTemplateKey, name, err)
	}

	masked := buf.String()
	for _, tok := range passthroughTokens {
		masked = strings.ReplaceAll(masked, tok, "")
	}
	if loc := unexpandedTokenPattern.FindString(masked); loc != "" {
		return nil, fmt.Errorf("%w: %s: found %q", ErrUnexpandedToken, name, loc)
	}

	return buf.Bytes(), nil
}
