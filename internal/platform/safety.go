package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDevRun reports whether the process was built by `go run` or `go test`,
// both of which place binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}
	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveStorePath re-roots userPath into $TMPDIR/hexa-dev when forceTemp is
// set. Paths already under the temp directory are kept as they are.
func ResolveStorePath(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	clean := filepath.Clean(userPath)
	if rel, err := filepath.Rel(os.TempDir(), clean); err == nil && !strings.HasPrefix(rel, "..") {
		return clean
	}

	name := filepath.Base(clean)
	if userPath == "" || name == "." || name == string(os.PathSeparator) {
		name = "default"
	}
	return filepath.Join(os.TempDir(), "hexa-dev", name)
}
