package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Writer stores generated documents at slash-separated paths relative to the output root
type Writer interface {
	WriteFile(path string, content []byte) error
}

// FSWriter writes documents below a directory on disk
type FSWriter struct {
	root string
}

// NewFSWriter creates a writer rooted at dir
func NewFSWriter(dir string) *FSWriter {
	return &FSWriter{root: dir}
}

// Root returns the output directory
func (w *FSWriter) Root() string {
	return w.root
}

// WriteFile replaces the file at path completely. Content goes to a temporary file in the
// same directory first, so readers never observe a partially written page.
func (w *FSWriter) WriteFile(path string, content []byte) error {
	full := filepath.Join(w.root, filepath.FromSlash(path))
	if rel, err := filepath.Rel(w.root, full); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return &WriteError{Path: path, Err: fmt.Errorf("path escapes output directory")}
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(full)+"-*")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, full); err != nil {
		os.Remove(tmpName)
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// BusinessPath is the output path of a business page
func BusinessPath(slug string) string {
	return "business/" + slug + ".html"
}

// CategoryPath is the output path of a category page
func CategoryPath(slug string) string {
	return slug + ".html"
}

// SitemapPath is the output path of the sitemap
const SitemapPath = "sitemap.xml"
