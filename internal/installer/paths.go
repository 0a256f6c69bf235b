package installer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// validatePath ensures relPath stays inside root once joined to it.
func validatePath(root, relPath string) error {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))

	if filepath.IsAbs(cleaned) || strings.HasPrefix(relPath, "/") {
		return fmt.Errorf("%w: absolute path %q", ErrPathTraversal, relPath)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: parent reference in %q", ErrPathTraversal, relPath)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}
	absPath := filepath.Join(absRoot, cleaned)
	if absPath == absRoot {
		return fmt.Errorf("%w: %q names the project root", ErrPathTraversal, relPath)
	}
	if !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return fmt.Errorf("%w: %q escapes project root", ErrPathTraversal, relPath)
	}
	return nil
}
