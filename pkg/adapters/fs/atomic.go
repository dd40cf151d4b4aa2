package fs

import (
	"fmt"
	"os"

	"github.com/google/renameio/v2"
)

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over filename, so readers never observe a partial document.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	if err := renameio.WriteFile(filename, data, perm); err != nil {
		return fmt.Errorf("failed to write %s atomically: %w", filename, err)
	}
	return nil
}
