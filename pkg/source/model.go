/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: model.go
Description: Model loading for the blob scanner. Resolves a path to a raw byte
buffer: a model3.json manifest is followed to its moc file, a runtime
directory must hold exactly one manifest, and any other file is read as is.
*/

package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

// ManifestSuffix identifies model manifest files
const ManifestSuffix = ".model3.json"

var (
	// ErrNoModel is returned when a runtime directory has no manifest
	ErrNoModel = errors.New("no model manifest found")
	// ErrMultipleModels is returned when a runtime directory has more than one manifest
	ErrMultipleModels = errors.New("runtime directory contains multiple models")
	// ErrMissingMoc is returned when a manifest does not reference a moc file
	ErrMissingMoc = errors.New("manifest does not reference a moc file")
)

// Manifest is the subset of a model3.json file the scanner needs
type Manifest struct {
	Version        int `json:"Version"`
	FileReferences struct {
		Moc      string   `json:"Moc"`
		Textures []string `json:"Textures"`
		Physics  string   `json:"Physics"`
		Pose     string   `json:"Pose"`
	} `json:"FileReferences"`
}

// Model is a loaded buffer ready for scanning
type Model struct {
	Name    string     // display name
	Path    string     // path the model was loaded from
	MocPath string     // file the buffer was read from
	Moc     []byte     // raw buffer
	Header  *MocHeader // nil when the buffer is not a moc3 file
}

// LoadModel resolves path to a model.
// Directories are treated as runtime directories, *.model3.json files as
// manifests, everything else as a raw buffer.
func LoadModel(path string) (*Model, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	switch {
	case info.IsDir():
		return LoadRuntimeDir(path)
	case strings.HasSuffix(strings.ToLower(path), ManifestSuffix):
		return LoadManifest(path)
	default:
		return LoadRaw(path)
	}
}

// LoadRaw reads a file as an opaque buffer
func LoadRaw(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return newModel(filepath.Base(path), path, path, data), nil
}

// LoadManifest parses a model3.json file and reads the moc file it references
func LoadManifest(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	if manifest.FileReferences.Moc == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingMoc)
	}

	mocPath := filepath.Join(filepath.Dir(path), filepath.FromSlash(manifest.FileReferences.Moc))
	data, err := os.ReadFile(mocPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read moc file: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), ManifestSuffix)
	return newModel(name, path, mocPath, data), nil
}

// LoadRuntimeDir loads the single model whose manifest lives directly in dir
func LoadRuntimeDir(dir string) (*Model, error) {
	manifests, err := findManifests(dir)
	if err != nil {
		return nil, err
	}

	switch len(manifests) {
	case 0:
		return nil, fmt.Errorf("%s: %w", dir, ErrNoModel)
	case 1:
		return LoadManifest(manifests[0])
	default:
		return nil, fmt.Errorf("%s (%d manifests): %w", dir, len(manifests), ErrMultipleModels)
	}
}

// findManifests lists the manifests directly inside dir, sorted
func findManifests(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read runtime directory: %w", err)
	}

	var manifests []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ManifestSuffix) {
			continue
		}
		manifests = append(manifests, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(manifests)
	return manifests, nil
}

func newModel(name, path, mocPath string, data []byte) *Model {
	m := &Model{Name: name, Path: path, MocPath: mocPath, Moc: data}
	if header, err := ParseMocHeader(data); err == nil {
		m.Header = header
	}
	return m
}
