package contextitem

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileItem is an open workspace file. Its content is read on every render.
type FileItem struct {
	Workspace string
	Path      string
}

// NewFileItem validates that path lies inside workspace and stores it in
// canonical form (see CanonicalPath).
func NewFileItem(workspace, path string) (*FileItem, error) {
	rel, err := CanonicalPath(workspace, path)
	if err != nil {
		return nil, err
	}
	return &FileItem{Workspace: workspace, Path: rel}, nil
}

// Source returns the canonical workspace relative path.
func (f *FileItem) Source() string { return f.Path }

// Description names the file.
func (f *FileItem) Description() string {
	return fmt.Sprintf("The current content of the file '%s'", f.Path)
}

// Content reads the file. A read failure is returned as text so the model
// sees why the file is unavailable.
func (f *FileItem) Content() string {
	abs, err := ResolvePath(f.Workspace, filepath.FromSlash(f.Path))
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Sprintf("Error reading file: %v", err)
	}

	return string(data)
}

func (f *FileItem) String() string {
	return render(f.Description(), f.Source(), f.Content())
}
