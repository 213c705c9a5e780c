package exports

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// openRegistry opens the exports registry file.
//
// In writable mode a missing registry is created (reported to the caller via
// the created flag, not as an error). In read-only mode a missing registry
// returns ErrRegistryNotFound. Other open failures come back as wrapped OS
// errors.
func openRegistry(path string, writable bool) (f *os.File, created bool, err error) {
	if writable {
		_, statErr := os.Stat(path)
		created = errors.Is(statErr, fs.ErrNotExist)

		f, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
		if err != nil {
			return nil, false, fmt.Errorf("open %s: %w", path, err)
		}
		return f, created, nil
	}

	f, err = os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, fmt.Errorf("%s: %w", path, ErrRegistryNotFound)
		}
		return nil, false, fmt.Errorf("open %s: %w", path, err)
	}
	return f, false, nil
}
