package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindRoot walks upwards from startDir looking for a project root, marked by
// a hexa.yaml file, a .hexa directory or a .git directory. It returns the
// absolute path of the first match.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ConfigFileName) || hasFile(dir, ".hexa") || hasFile(dir, ".git") {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
