// Workspace sandbox - path resolution and containment checks.
//
// Information Hiding:
// - Normalization and symlink resolution hidden behind Resolve
// - Callers only see a vetted absolute path or an error

package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Workspace confines all file operations to a root directory. Every tool
// path is interpreted relative to the root; anything that normalizes to a
// location outside the root is rejected.
type Workspace struct {
	root string
}

// NewWorkspace creates a workspace rooted at the given directory, creating
// it if necessary. The root is made absolute and symlink-resolved once so
// containment checks compare like with like.
func NewWorkspace(root string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace root %q: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace root: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	return &Workspace{root: resolved}, nil
}

// Root returns the absolute workspace root.
func (w *Workspace) Root() string {
	return w.root
}

// Resolve maps a tool-supplied relative path to an absolute path inside the
// workspace. It fails for absolute inputs, for paths whose ".." segments
// escape the root, and for symlinked components that point outside the root.
func (w *Workspace) Resolve(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("path %q must be relative to the workspace", rel)
	}

	candidate := filepath.Clean(filepath.Join(w.root, rel))
	if !w.contains(candidate) {
		return "", fmt.Errorf("path %q resolves outside the workspace", rel)
	}

	// A component of the path may be a symlink pointing elsewhere. Resolve
	// the deepest existing ancestor and re-check containment.
	resolved, err := resolveExisting(candidate)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", rel, err)
	}
	if !w.contains(resolved) {
		return "", fmt.Errorf("path %q resolves outside the workspace", rel)
	}

	return resolved, nil
}

// contains reports whether path is the root or beneath it.
func (w *Workspace) contains(path string) bool {
	return path == w.root || strings.HasPrefix(path, w.root+string(filepath.Separator))
}

// resolveExisting resolves symlinks in the longest existing prefix of path
// and rejoins the non-existing remainder.
func resolveExisting(path string) (string, error) {
	existing := path
	var tail []string
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		} else if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			break
		}
		tail = append([]string{filepath.Base(existing)}, tail...)
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", err
	}
	if len(tail) == 0 {
		return resolved, nil
	}
	return filepath.Join(append([]string{resolved}, tail...)...), nil
}

// RelativeTo returns path rewritten relative to the root for display.
func (w *Workspace) RelativeTo(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return path
	}
	return rel
}
