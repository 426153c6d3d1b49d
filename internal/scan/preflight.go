package scan

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// CheckRoot verifies that a scan root exists, is a directory, and is
// readable. A failure here becomes a per-root error, not a fatal one.
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("root does not exist")
		}
		return fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root is not a directory")
	}
	if err := unix.Access(root, unix.R_OK|unix.X_OK); err != nil {
		return fmt.Errorf("insufficient permissions: %w", err)
	}
	return nil
}

// CheckDirectoryWritable verifies that an output directory exists and is
// writable. The CLI runs this against the report directory before starting a
// scan so misconfiguration surfaces before hours of hashing.
func CheckDirectoryWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("insufficient permissions on %s: %w", path, err)
	}
	return nil
}
