package util

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// ReadSource reads a source file through a read-only memory mapping and
// returns a private copy of its contents.
//
// The mapping is released before returning, so the caller may rewrite the
// file in place afterwards. When mmap is unavailable (special files, some
// network file systems) it falls back to os.ReadFile.
func ReadSource(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	// mmap of zero bytes fails on most platforms
	if info.Size() == 0 {
		return []byte{}, nil
	}

	mapped, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("mmap failed and fallback failed for %q: mmap error: %v, read error: %w",
				path, err, readErr)
		}
		return data, nil
	}
	defer mapped.Unmap()

	data := make([]byte, len(mapped))
	copy(data, mapped)
	return data, nil
}
