package mocks

import (
	"errors"
	"sort"
	"sync"

	"github.com/sfvdirectory/sitegen/internal/generator"
)

var _ generator.Writer = (*MemoryWriter)(nil)

// ErrWriteFailed is returned for paths listed in MemoryWriter.FailPaths
var ErrWriteFailed = errors.New("mock write failure")

// MemoryWriter keeps written files in memory
type MemoryWriter struct {
	mu        sync.Mutex
	Files     map[string][]byte
	FailPaths map[string]bool
	Writes    int
}

func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{
		Files:     make(map[string][]byte),
		FailPaths: make(map[string]bool),
	}
}

func (w *MemoryWriter) WriteFile(path string, content []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Writes++
	if w.FailPaths[path] {
		return &generator.WriteError{Path: path, Err: ErrWriteFailed}
	}
	w.Files[path] = append([]byte(nil), content...)
	return nil
}

// File returns the content written to path
func (w *MemoryWriter) File(path string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	content, ok := w.Files[path]
	return string(content), ok
}

// Paths returns every written path in sorted order
func (w *MemoryWriter) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	paths := make([]string, 0, len(w.Files))
	for p := range w.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
