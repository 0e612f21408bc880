/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: archive.go
Description: Container archive access. Opens a ZIP container and yields its
entries as (metadata, buffer) pairs, with selection by file name or tag and
extraction of selected entries into a directory.
*/

package source

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrUnsafeEntryPath is returned when an entry name would be written outside the output directory
var ErrUnsafeEntryPath = errors.New("entry path escapes output directory")

// Entry is one file stored in a container archive
type Entry struct {
	Name string
	Size uint64
	Tag  string // per-entry comment, empty when absent
	Data []byte
}

// OpenArchive reads every file entry of the ZIP container at path
func OpenArchive(path string) ([]Entry, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer r.Close()

	entries := make([]Entry, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read entry %s: %w", f.Name, err)
		}
		entries = append(entries, Entry{
			Name: f.Name,
			Size: f.UncompressedSize64,
			Tag:  f.Comment,
			Data: data,
		})
	}

	return entries, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// SelectEntries filters entries by name, or by tag when tagged is set.
// An empty selection matches everything; in tagged mode untagged entries never match.
func SelectEntries(entries []Entry, selection []string, tagged bool) []Entry {
	wanted := make(map[string]bool, len(selection))
	for _, s := range selection {
		wanted[s] = true
	}

	var out []Entry
	for _, e := range entries {
		key := e.Name
		if tagged {
			if e.Tag == "" {
				continue
			}
			key = e.Tag
		}
		if len(wanted) == 0 || wanted[key] {
			out = append(out, e)
		}
	}
	return out
}

// ModelFromEntry wraps an archive entry as a model so it can be scanned like a loaded file
func ModelFromEntry(archivePath string, e Entry) *Model {
	return newModel(e.Name, archivePath, e.Name, e.Data)
}

// ExtractEntries writes each entry to dir under its own name and returns the
// paths written, in entry order. Entry names must stay inside dir.
func ExtractEntries(entries []Entry, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		name := filepath.FromSlash(e.Name)
		if !filepath.IsLocal(name) {
			return paths, fmt.Errorf("%s: %w", e.Name, ErrUnsafeEntryPath)
		}

		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return paths, fmt.Errorf("failed to create directory for %s: %w", e.Name, err)
		}
		if err := os.WriteFile(path, e.Data, 0644); err != nil {
			return paths, fmt.Errorf("failed to extract %s: %w", e.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
