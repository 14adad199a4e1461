package contextitem

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FolderItem is an open workspace folder rendered as its sorted entry list.
type FolderItem struct {
	Workspace string
	Path      string
	// Ignore holds doublestar patterns matched against entry paths relative
	// to the workspace (forward slashes).
	Ignore []string
}

// NewFolderItem checks that path is an existing directory inside workspace
// and that every ignore pattern is valid.
func NewFolderItem(workspace, path string, ignore ...string) (*FolderItem, error) {
	rel, err := CanonicalPath(workspace, path)
	if err != nil {
		return nil, err
	}

	abs, err := ResolvePath(workspace, path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open folder %s: %w", path, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}

	for _, p := range ignore {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid ignore pattern %q", p)
		}
	}

	return &FolderItem{Workspace: workspace, Path: rel, Ignore: ignore}, nil
}

// Source returns the canonical workspace relative path.
func (f *FolderItem) Source() string { return f.Path }

// Description names the folder.
func (f *FolderItem) Description() string {
	return fmt.Sprintf("The contents of the folder '%s' in the workspace", f.Path)
}

// Entries lists the folder. Directories carry a trailing slash.
func (f *FolderItem) Entries() ([]string, error) {
	abs, err := ResolvePath(f.Workspace, filepath.FromSlash(f.Path))
	if err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}

	entries := make([]string, 0, len(dirEntries))
	for _, e := range dirEntries {
		if f.ignored(filepath.ToSlash(filepath.Join(f.Path, e.Name())), e.Name()) {
			continue
		}

		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		entries = append(entries, name)
	}

	sort.Strings(entries)

	return entries, nil
}

func (f *FolderItem) ignored(rel, name string) bool {
	rel = strings.TrimPrefix(rel, "./")
	for _, p := range f.Ignore {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Content renders the entry list one per line.
func (f *FolderItem) Content() string {
	entries, err := f.Entries()
	if err != nil {
		return fmt.Sprintf("Error listing folder: %v", err)
	}
	return strings.Join(entries, "\n")
}

func (f *FolderItem) String() string {
	return render(f.Description(), f.Source(), f.Content())
}
