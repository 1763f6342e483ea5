// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package imagery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// knownImageExtensions lists the filename extensions treated as imagery.
// The misspelled ".tiif" is accepted for compatibility with historic
// pipeline output.
var knownImageExtensions = map[string]bool{
	".tif":  true,
	".tiif": true,
	".tiff": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// IsImagePath reports whether path has a recognized imagery extension.
func IsImagePath(path string) bool {
	return knownImageExtensions[strings.ToLower(filepath.Ext(path))]
}

// Found is the result of discovering files under a set of argument paths.
type Found struct {
	// Images are existing files with a recognized imagery extension.
	Images []string

	// Metadata are existing .json sidecar files.
	Metadata []string

	// Unavailable are argument paths that do not exist. Callers report
	// these as warnings and continue.
	Unavailable []string
}

// Discover walks the argument paths, sorting each into imagery, metadata
// sidecars, or the unavailable list. Directories are searched recursively.
// When include is non-empty it is compiled as a glob and matched against
// image base filenames, narrowing which images are returned.
func Discover(paths []string, include string) (Found, error) {
	var matcher glob.Glob
	if include != "" {
		var err error
		matcher, err = glob.Compile(include)
		if err != nil {
			return Found{}, fmt.Errorf("compiling include pattern %q: %w", include, err)
		}
	}

	var found Found
	for _, path := range paths {
		if err := discoverOne(path, matcher, &found); err != nil {
			return Found{}, err
		}
	}
	sort.Strings(found.Images)
	sort.Strings(found.Metadata)
	return found, nil
}

func discoverOne(path string, matcher glob.Glob, found *Found) error {
	info, err := os.Stat(path)
	if err != nil {
		// Files found while walking a directory always exist; argument
		// paths may not.
		found.Unavailable = append(found.Unavailable, path)
		return nil
	}

	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return fmt.Errorf("reading directory %s: %w", path, err)
		}
		for _, entry := range entries {
			if err := discoverOne(filepath.Join(path, entry.Name()), matcher, found); err != nil {
				return err
			}
		}
		return nil
	}

	switch {
	case strings.EqualFold(filepath.Ext(path), ".json"):
		found.Metadata = append(found.Metadata, path)
	case IsImagePath(path):
		if matcher == nil || matcher.Match(filepath.Base(path)) {
			found.Images = append(found.Images, path)
		}
	default:
		// Unrecognized files are ignored, whether named directly or found
		// while walking a directory.
	}
	return nil
}
