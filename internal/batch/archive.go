package batch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// moveFile moves src to dst, creating parent directories. When a rename is not
// possible (for example across devices) it copies and then removes src.
func moveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("failed to move %s: %w", src, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("copied %s but could not remove it: %w", src, err)
	}
	return nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
