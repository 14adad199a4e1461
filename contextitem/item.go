package contextitem

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrOutsideWorkspace is returned for paths that resolve outside the workspace root.
	ErrOutsideWorkspace = errors.New("path is outside the workspace")
	// ErrNotDirectory is returned when a folder item points at something else.
	ErrNotDirectory = errors.New("not a directory")
)

func render(description, source, content string) string {
	return fmt.Sprintf("%s (source: %s)\n```\n%s\n```", description, source, content)
}

// ResolvePath joins p onto workspace and returns the cleaned absolute path.
// Absolute paths are accepted when they lie inside the workspace. An empty
// workspace disables the check and resolves against the working directory.
func ResolvePath(workspace, p string) (string, error) {
	if workspace == "" {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", p, err)
		}
		return abs, nil
	}

	root, err := filepath.Abs(workspace)
	if err != nil {
		return "", fmt.Errorf("resolve workspace %q: %w", workspace, err)
	}

	target := p
	if !filepath.IsAbs(target) {
		target = filepath.Join(root, target)
	}
	target = filepath.Clean(target)

	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideWorkspace, p)
	}

	return target, nil
}

// CanonicalPath resolves p like ResolvePath and returns it relative to the
// workspace root with forward slashes, so that different spellings of one
// path compare equal. With an empty workspace the absolute path is returned.
func CanonicalPath(workspace, p string) (string, error) {
	abs, err := ResolvePath(workspace, p)
	if err != nil {
		return "", err
	}

	if workspace == "" {
		return abs, nil
	}

	root, err := filepath.Abs(workspace)
	if err != nil {
		return "", fmt.Errorf("resolve workspace %q: %w", workspace, err)
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrOutsideWorkspace, p)
	}

	return filepath.ToSlash(rel), nil
}
