/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: discover.go
Description: Model discovery. Walks a directory tree for manifests matching a
name pattern and loads each one, preferring the runtime directory and falling
back to the individual manifest when the directory holds several models.
*/

package source

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
)

// DiscoverOptions controls which files Discover returns
type DiscoverOptions struct {
	Pattern       string // glob matched against the base name, e.g. *.model3.json
	MatchFilename string // when set, only files with exactly this base name
}

// Discover walks root and returns matching files in lexical order
func Discover(root string, opts DiscoverOptions) ([]string, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = "*" + ManifestSuffix
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if ok, _ := filepath.Match(pattern, name); !ok {
			return nil
		}
		if opts.MatchFilename != "" && name != opts.MatchFilename {
			return nil
		}
		found = append(found, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(found)
	return found, nil
}

// LoadDiscovered loads a discovered manifest through its runtime directory.
// fallback reports whether the directory held several models and the manifest
// was loaded on its own.
func LoadDiscovered(path string) (model *Model, fallback bool, err error) {
	model, err = LoadRuntimeDir(filepath.Dir(path))
	if err == nil {
		return model, false, nil
	}
	if !errors.Is(err, ErrMultipleModels) {
		return nil, false, err
	}

	model, err = LoadManifest(path)
	if err != nil {
		return nil, true, err
	}
	return model, true, nil
}
