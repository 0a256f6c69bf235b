package module

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const schemaID = "https://github.com/modu-ai/ccscaffold/schemas/registry-v1.json"

// registryFile is the top-level shape of a registry YAML file.
type registryFile struct {
	Modules []Definition `yaml:"modules" json:"modules" jsonschema:"minItems=1"`
}

// GenerateSchema produces the JSON Schema (Draft 2020-12) for registry files
// from the Go types.
func GenerateSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&registryFile{})
	s.ID = schemaID
	s.Title = "ccscaffold module registry v1"
	s.Description = "Schema for ccscaffold module registry YAML files"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

var compiledSchema = sync.OnceValues(func() (*sjsonschema.Schema, error) {
	raw, err := GenerateSchema()
	if err != nil {
		return nil, err
	}
	doc, err := sjsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource(schemaID, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := c.Compile(schemaID)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return sch, nil
})

// validateDocument checks a decoded registry document against the schema
// and returns one message per failing leaf, prefixed with its location.
func validateDocument(doc any) ([]string, error) {
	sch, err := compiledSchema()
	if err != nil {
		return nil, err
	}

	// Round-trip through JSON so numbers and maps have the shapes the
	// validator expects.
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	inst, err := sjsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}

	verr := sch.Validate(inst)
	if verr == nil {
		return nil, nil
	}
	ve, ok := verr.(*sjsonschema.ValidationError)
	if !ok {
		return []string{verr.Error()}, nil
	}
	printer := message.NewPrinter(language.English)
	var problems []string
	for _, cause := range flatten(ve) {
		loc := "/" + strings.Join(cause.InstanceLocation, "/")
		problems = append(problems, fmt.Sprintf("%s: %s", loc, cause.ErrorKind.LocalizedString(printer)))
	}
	return problems, nil
}

func flatten(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flatten(cause)...)
	}
	return flat
}
