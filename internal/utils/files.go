package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ConfigFileSuffixes are the file name endings treated as configuration
// documents when a directory is expanded
var ConfigFileSuffixes = []string{".json", ".json.gz"}

// IsConfigFile reports whether path has one of ConfigFileSuffixes
func IsConfigFile(path string) bool {
	for _, suffix := range ConfigFileSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// FindConfigFiles recursively finds all configuration files in the specified
// directory, in lexical order
func FindConfigFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip directories
		if d.IsDir() {
			return nil
		}

		if IsConfigFile(path) {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// ExpandInputs replaces every directory argument with the configuration
// files below it. Files are passed through unchanged whatever their name.
// Duplicate paths are dropped.
func ExpandInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}

		files, err := FindConfigFiles(arg)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no configuration files found in %s", arg)
		}
		inputs = append(inputs, files...)
	}

	seen := make(map[string]struct{}, len(inputs))
	return slices.DeleteFunc(inputs, func(path string) bool {
		key := filepath.Clean(path)
		if _, ok := seen[key]; ok {
			return true
		}
		seen[key] = struct{}{}
		return false
	}), nil
}
