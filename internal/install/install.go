// Package install copies the taskz binary into a system bin directory
// and removes it again.
package install

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Install copies the executable at src to dst, replacing any existing file.
// The copy lands in a temp file next to dst and is renamed over it, so a
// running binary at dst is never written in place. Installing a file onto
// itself is a no-op.
func Install(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	srcInfo, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(srcInfo, dstInfo) {
		return nil
	}

	out, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("create target: %w", err)
	}
	tmp := out.Name()
	defer os.Remove(tmp)

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy binary: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close target: %w", err)
	}
	if err := os.Chmod(tmp, 0o755); err != nil {
		return fmt.Errorf("chmod target: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("replace target: %w", err)
	}
	return nil
}

// Uninstall deletes dst. removed is false when nothing was installed.
func Uninstall(dst string) (removed bool, err error) {
	if _, err := os.Stat(dst); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat target: %w", err)
	}
	if err := os.Remove(dst); err != nil {
		return false, fmt.Errorf("remove target: %w", err)
	}
	return true, nil
}

// IsPermission reports whether err came from missing privileges, the
// case where the user should retry as administrator.
func IsPermission(err error) bool {
	return errors.Is(err, os.ErrPermission)
}
