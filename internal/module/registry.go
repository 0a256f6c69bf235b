package module

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed registry/*.yaml
var embeddedRegistry embed.FS

// RegistryError reports every problem found in one registry file.
type RegistryError struct {
	File     string
	Problems []string
}

// Error implements the error interface.
func (e *RegistryError) Error() string {
	return fmt.Sprintf("module: registry file %s: %s", e.File, strings.Join(e.Problems, "; "))
}

// Unwrap returns ErrInvalidRegistry.
func (e *RegistryError) Unwrap() error {
	return ErrInvalidRegistry
}

// Registry is an ordered, id-indexed set of module definitions. A Registry
// is immutable after loading and safe for concurrent reads.
type Registry struct {
	modules []Definition
	byID    map[string]int
}

// NewRegistry builds a registry from in-memory definitions.
func NewRegistry(defs []Definition) (*Registry, error) {
	r := &Registry{byID: make(map[string]int, len(defs))}
	for _, d := range defs {
		if err := r.add(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) add(d Definition) error {
	if _, dup := r.byID[d.ID]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateModule, d.ID)
	}
	r.byID[d.ID] = len(r.modules)
	r.modules = append(r.modules, d)
	return nil
}

// LoadRegistry reads every *.yaml and *.yml file at the root of fsys, in
// lexical order. Each file holds a "modules" list and is validated against
// the registry schema before it is decoded.
func LoadRegistry(fsys fs.FS) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("module: read registry: %w", err)
	}

	r := &Registry{byID: make(map[string]int)}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !isYAML(name) {
			continue
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("module: read %s: %w", name, err)
		}
		defs, err := decodeRegistryFile(name, data)
		if err != nil {
			return nil, err
		}
		for _, d := range defs {
			if err := r.add(d); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	return r, nil
}

// LoadRegistryDir is LoadRegistry over a directory on disk.
func LoadRegistryDir(dir string) (*Registry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("module: registry dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("module: registry dir %s is not a directory", dir)
	}
	return LoadRegistry(os.DirFS(dir))
}

var defaultRegistry = sync.OnceValues(func() (*Registry, error) {
	sub, err := fs.Sub(embeddedRegistry, "registry")
	if err != nil {
		return nil, err
	}
	return LoadRegistry(sub)
})

// Default returns the registry bundled with the binary.
func Default() (*Registry, error) {
	return defaultRegistry()
}

func isYAML(name string) bool {
	ext := path.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

// decodeRegistryFile validates data against the registry schema, decodes it
// strictly and applies the per-definition rules.
func decodeRegistryFile(name string, data []byte) ([]Definition, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &RegistryError{File: name, Problems: []string{err.Error()}}
	}
	if raw == nil {
		return nil, &RegistryError{File: name, Problems: []string{"file is empty"}}
	}

	problems, err := validateDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("module: validate %s: %w", name, err)
	}
	if len(problems) > 0 {
		return nil, &RegistryError{File: name, Problems: problems}
	}

	var file registryFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, &RegistryError{File: name, Problems: []string{err.Error()}}
	}

	for _, d := range file.Modules {
		problems = append(problems, d.validate()...)
	}
	if len(problems) > 0 {
		return nil, &RegistryError{File: name, Problems: problems}
	}
	return file.Modules, nil
}

// Merge returns a registry holding r's modules overlaid with other's.
// A module of other replaces the one of r with the same id in place; new
// modules are appended in other's order.
func (r *Registry) Merge(other *Registry) *Registry {
	out := &Registry{byID: make(map[string]int, r.Len()+other.Len())}
	for _, d := range r.modules {
		_ = out.add(d)
	}
	for _, d := range other.modules {
		if i, ok := out.byID[d.ID]; ok {
			out.modules[i] = d
			continue
		}
		_ = out.add(d)
	}
	return out
}

// Len returns the number of modules.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.modules)
}

// All returns a copy of every module in registry order.
func (r *Registry) All() []Definition {
	return slices.Clone(r.modules)
}

// Get looks a module up by id.
func (r *Registry) Get(id string) (Definition, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Definition{}, false
	}
	return r.modules[i], true
}

// ByCategory returns the modules of category c in registry order.
func (r *Registry) ByCategory(c Category) []Definition {
	var out []Definition
	for _, d := range r.modules {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}

// Categories returns the categories that have at least one module, in
// AllCategories order.
func (r *Registry) Categories() []Category {
	present := make(map[Category]bool)
	for _, d := range r.modules {
		present[d.Category] = true
	}
	var out []Category
	for _, c := range AllCategories {
		if present[c] {
			out = append(out, c)
		}
	}
	return out
}

// Resolve returns the definitions for ids, in the given order. Unknown ids
// are reported together in one ErrUnknownModule error.
func (r *Registry) Resolve(ids []string) ([]Definition, error) {
	out := make([]Definition, 0, len(ids))
	var unknown []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		d, ok := r.Get(id)
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		out = append(out, d)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModule, strings.Join(unknown, ", "))
	}
	return out, nil
}
