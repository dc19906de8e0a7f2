package runtime

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/loom-lang/dissect/bytecode"
)

// ArchiveExt is the file suffix for a packaged archive of compiled units
// (zip format).
const ArchiveExt = ".lar"

// Loader produces compiled code units through the generic resource-lookup
// facility: name is a slash-separated path with the unit suffix.
type Loader interface {
	Resource(name string) (io.ReadCloser, error)
}

// BytesLoader is a dynamic loader that can answer "give me the bytes for
// this unit" directly, without a resource round trip. This is the most
// authoritative source when available.
type BytesLoader interface {
	Loader
	UnitBytes(qualifiedName string) ([]byte, bool)
}

// MemoryLoader holds units defined dynamically in memory, keyed by
// qualified name.
type MemoryLoader struct {
	mu    sync.RWMutex
	units map[string][]byte
}

// NewMemoryLoader creates an empty in-memory loader.
func NewMemoryLoader() *MemoryLoader {
	return &MemoryLoader{units: make(map[string][]byte)}
}

// Define registers an encoded unit and returns its class handle. Memory
// definitions have no load origin.
func (l *MemoryLoader) Define(qualifiedName string, unit []byte) *Class {
	l.mu.Lock()
	l.units[qualifiedName] = unit
	l.mu.Unlock()
	return NewClass(qualifiedName, l, "")
}

// UnitBytes returns the encoded unit for a qualified name.
func (l *MemoryLoader) UnitBytes(qualifiedName string) ([]byte, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.units[qualifiedName]
	return b, ok
}

// Resource serves the unit under its conventional resource path.
func (l *MemoryLoader) Resource(name string) (io.ReadCloser, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for qualified, unit := range l.units {
		if bytecode.ResourcePath(qualified) == name {
			return io.NopCloser(bytes.NewReader(unit)), nil
		}
	}
	return nil, fmt.Errorf("resource not found: %s", name)
}

// ArchiveLoader serves units from a .lar archive. Member contents are not
// retained; each resource lookup streams from the archive.
type ArchiveLoader struct {
	path  string
	names map[string]bool // qualified names present in the archive
}

// OpenArchive indexes the member list of a .lar archive.
func OpenArchive(path string) (*ArchiveLoader, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("error resolving archive path: %w", err)
	}
	r, err := zip.OpenReader(abs)
	if err != nil {
		return nil, fmt.Errorf("error opening archive %s: %w", path, err)
	}
	defer func() {
		_ = r.Close()
	}()

	names := make(map[string]bool)
	for _, f := range r.File {
		if qualified, ok := qualifiedFromPath(f.Name); ok {
			names[qualified] = true
		}
	}
	return &ArchiveLoader{path: abs, names: names}, nil
}

// Path returns the absolute archive path.
func (l *ArchiveLoader) Path() string { return l.path }

// Has reports whether the archive contains a unit for the qualified name.
func (l *ArchiveLoader) Has(qualifiedName string) bool {
	return l.names[qualifiedName]
}

// Names returns the qualified names of all units in the archive, sorted.
func (l *ArchiveLoader) Names() []string {
	out := make([]string, 0, len(l.names))
	for n := range l.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Class returns a class handle for a unit in this archive. The handle's
// origin records the archive path so resolution can reconstruct the
// member locator.
func (l *ArchiveLoader) Class(qualifiedName string) *Class {
	return NewClass(qualifiedName, l, l.path)
}

// Resource opens an archive member as a stream. The returned ReadCloser
// closes the underlying archive handle as well.
func (l *ArchiveLoader) Resource(name string) (io.ReadCloser, error) {
	r, err := zip.OpenReader(l.path)
	if err != nil {
		return nil, fmt.Errorf("error opening archive %s: %w", l.path, err)
	}
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				_ = r.Close()
				return nil, fmt.Errorf("error opening archive member %s: %w", name, err)
			}
			return &memberReader{rc: rc, archive: r}, nil
		}
	}
	_ = r.Close()
	return nil, fmt.Errorf("resource not found in %s: %s", l.path, name)
}

type memberReader struct {
	rc      io.ReadCloser
	archive *zip.ReadCloser
}

func (m *memberReader) Read(p []byte) (int, error) { return m.rc.Read(p) }

func (m *memberReader) Close() error {
	err := m.rc.Close()
	if cerr := m.archive.Close(); err == nil {
		err = cerr
	}
	return err
}

// DirLoader serves loose compiled units from a directory tree.
type DirLoader struct {
	root string
}

// NewDirLoader creates a loader rooted at dir.
func NewDirLoader(dir string) *DirLoader {
	return &DirLoader{root: dir}
}

// Class returns a class handle for a loose unit. The handle's origin is
// the unit file path itself.
func (l *DirLoader) Class(qualifiedName string) *Class {
	origin := filepath.Join(l.root, filepath.FromSlash(bytecode.ResourcePath(qualifiedName)))
	return NewClass(qualifiedName, l, origin)
}

// Resource opens the unit file under the loader root.
func (l *DirLoader) Resource(name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(l.root, filepath.FromSlash(name)))
	if err != nil {
		return nil, fmt.Errorf("error opening resource %s: %w", name, err)
	}
	return f, nil
}

// qualifiedFromPath converts an archive member path back to a qualified
// name, or reports false for non-unit members.
func qualifiedFromPath(memberPath string) (string, bool) {
	if filepath.Ext(memberPath) != bytecode.UnitSuffix {
		return "", false
	}
	trimmed := memberPath[:len(memberPath)-len(bytecode.UnitSuffix)]
	b := []byte(trimmed)
	for i, c := range b {
		if c == '/' {
			b[i] = '.'
		}
	}
	return string(b), true
}
