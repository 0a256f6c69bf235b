package installer

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
)

// staged is the planned content of one file.
type staged struct {
	before  []byte // nil when the file does not exist
	after   []byte
	mode    fs.FileMode
	modules []string
}

// stage collects file contents in memory so that several modules can build
// on the same file before anything touches the disk.
type stage struct {
	root  string
	files map[string]*staged
}

func newStage(root string) *stage {
	return &stage{root: root, files: make(map[string]*staged)}
}

// current returns the content rel would have at this point of the plan and
// whether the file exists.
func (s *stage) current(rel string) ([]byte, bool, error) {
	if f, ok := s.files[rel]; ok {
		return f.after, true, nil
	}
	data, err := os.ReadFile(s.abs(rel))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("installer: read %s: %w", rel, err)
	}
	return data, true, nil
}

// onDisk reports whether rel exists before the install.
func (s *stage) onDisk(rel string) bool {
	_, err := os.Stat(s.abs(rel))
	return err == nil
}

func (s *stage) put(rel string, content []byte, mode fs.FileMode, moduleID string) error {
	f, ok := s.files[rel]
	if !ok {
		before, _, err := s.current(rel)
		if err != nil {
			return err
		}
		f = &staged{before: before, mode: 0o644}
		if info, err := os.Stat(s.abs(rel)); err == nil {
			f.mode = info.Mode().Perm()
		}
		s.files[rel] = f
	}
	f.after = content
	if mode != 0 {
		f.mode = mode
	}
	if moduleID != "" && !slices.Contains(f.modules, moduleID) {
		f.modules = append(f.modules, moduleID)
	}
	return nil
}

func (s *stage) abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// paths returns the staged paths in sorted order.
func (s *stage) paths() []string {
	return slices.Sorted(maps.Keys(s.files))
}

func (s *stage) changed(rel string) bool {
	f := s.files[rel]
	return f.before == nil || !bytes.Equal(f.before, f.after)
}

func (s *stage) write(rel string) error {
	f := s.files[rel]
	dest := s.abs(rel)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("installer: mkdir %s: %w", filepath.Dir(dest), err)
	}
	if err := os.WriteFile(dest, f.after, f.mode); err != nil {
		return fmt.Errorf("installer: write %s: %w", rel, err)
	}
	// WriteFile does not change the mode of an existing file.
	if err := os.Chmod(dest, f.mode); err != nil {
		return fmt.Errorf("installer: chmod %s: %w", rel, err)
	}
	return nil
}
