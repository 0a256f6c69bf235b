package installer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/modu-ai/ccscaffold/internal/defs"
)

// ManifestPath is the slash-separated location of the manifest inside a project.
var ManifestPath = path.Join(defs.ClaudeDir, defs.ManifestYAML)

// Manifest records which modules ccscaffold installed into a project.
type Manifest struct {
	Version string   `yaml:"version,omitempty"`
	Modules []string `yaml:"modules"`
}

// ReadManifest loads the manifest of the project at root. A project without
// one yields an empty manifest.
func ReadManifest(root string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(ManifestPath)))
	if errors.Is(err, fs.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("installer: read manifest: %w", err)
	}
	return decodeManifest(data)
}

func decodeManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	return &m, nil
}

// Add appends ids not yet recorded, keeping the existing order.
func (m *Manifest) Add(ids ...string) {
	for _, id := range ids {
		if !slices.Contains(m.Modules, id) {
			m.Modules = append(m.Modules, id)
		}
	}
}

// Has reports whether id is recorded.
func (m *Manifest) Has(id string) bool {
	return slices.Contains(m.Modules, id)
}

func (m *Manifest) encode() ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("installer: encode manifest: %w", err)
	}
	return data, nil
}
