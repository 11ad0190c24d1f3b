// Package jarfile reads and writes mod archives (zip-format .jar files) as
// an ordered list of named entries, so a rewritten archive preserves entry
// order and leaves untouched entries byte-identical.
package jarfile

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Entry is one file inside the archive.
type Entry struct {
	Name string
	Data []byte
}

// Archive is an ordered set of entries. Order matters: the output archive
// is written in the same order the input was read, with any new entries
// appended at the end.
type Archive struct {
	Name    string
	Entries []Entry
}

// Read opens a zip archive from disk and loads every entry into memory.
func Read(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	a, err := ReadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	a.Name = filepath.Base(path)
	return a, nil
}

// ReadBytes parses a zip archive held in memory.
func ReadBytes(data []byte) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}

	a := &Archive{}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open entry %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read entry %s: %w", f.Name, err)
		}
		a.Entries = append(a.Entries, Entry{Name: f.Name, Data: content})
	}
	return a, nil
}

// Get returns the entry with the given name, or nil.
func (a *Archive) Get(name string) *Entry {
	for i := range a.Entries {
		if a.Entries[i].Name == name {
			return &a.Entries[i]
		}
	}
	return nil
}

// Has reports whether an entry with the given name exists.
func (a *Archive) Has(name string) bool {
	return a.Get(name) != nil
}

// Add appends a new entry, or replaces the data of an existing one in place.
func (a *Archive) Add(name string, data []byte) {
	if e := a.Get(name); e != nil {
		e.Data = data
		return
	}
	a.Entries = append(a.Entries, Entry{Name: name, Data: data})
}

// Write serializes the archive to a fresh zip file at path.
func (a *Archive) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, e := range a.Entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			zw.Close()
			return fmt.Errorf("failed to create entry %s: %w", e.Name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			zw.Close()
			return fmt.Errorf("failed to write entry %s: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

// Bytes serializes the archive to an in-memory zip.
func (a *Archive) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range a.Entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to create entry %s: %w", e.Name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			return nil, fmt.Errorf("failed to write entry %s: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
