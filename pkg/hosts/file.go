package hosts

import (
	"fmt"
	"os"
	"path/filepath"

	"githubdns/logger"
)

// File is a hosts file on disk.
type File struct {
	Path string
}

func (f *File) Read() (string, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Path, err)
	}
	return string(b), nil
}

// MakeWritable adds the owner write bit when it is missing. On Windows this
// clears the read-only attribute the hosts file ships with.
func (f *File) MakeWritable() error {
	info, err := os.Stat(f.Path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", f.Path, err)
	}
	if info.Mode().Perm()&0o200 != 0 {
		return nil
	}
	if err := os.Chmod(f.Path, info.Mode().Perm()|0o200); err != nil {
		return fmt.Errorf("make %s writable: %w", f.Path, err)
	}
	return nil
}

// Write replaces the file content through a temporary file and a rename so a
// failed write never leaves a truncated hosts file. When the rename is refused
// (a bind-mounted /etc/hosts, a locked file on Windows) it overwrites in place.
func (f *File) Write(content string) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(f.Path); err == nil {
		perm = info.Mode().Perm()
	}

	err := f.writeAtomic(content, perm)
	if err == nil {
		return nil
	}
	logger.Warn("atomic replace failed, overwriting in place", "path", f.Path, "err", err)

	if err := os.WriteFile(f.Path, []byte(content), perm); err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	return nil
}

func (f *File) writeAtomic(content string, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), ".githubdns-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	return os.Rename(tmpPath, f.Path)
}
