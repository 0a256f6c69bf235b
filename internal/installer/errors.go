// Package installer writes the assets and configuration of selected modules
// into a project directory.
package installer

import "errors"

// Sentinel errors for installation.
var (
	// ErrPathTraversal indicates a module path would resolve outside the project root.
	ErrPathTraversal = errors.New("installer: path traversal detected")

	// ErrInvalidManifest indicates .claude/ccscaffold.yaml could not be parsed.
	ErrInvalidManifest = errors.New("installer: invalid manifest")
)
