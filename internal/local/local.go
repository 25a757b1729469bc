// Package local implements the local side of custody: listing, reading,
// writing, copying and deleting files in the working directory.
//
// All operations go through an afero.Fs so callers can swap the OS
// filesystem for an in-memory one. Failures are classified into Kind and
// returned as *Error; nothing here retries or recovers.
package local

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"

	"github.com/spf13/afero"
)

// Files wraps a filesystem with custody-oriented primitives.
type Files struct {
	fs afero.Fs
}

// New returns Files backed by fsys. A nil fsys means the OS filesystem.
func New(fsys afero.Fs) *Files {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Files{fs: fsys}
}

// ListFiles returns the names of regular files directly under dir.
func (f *Files) ListFiles(dir string) ([]string, error) {
	return f.list(dir, func(info fs.FileInfo) bool { return info.Mode().IsRegular() })
}

// ListDirectories returns the names of directories directly under dir.
func (f *Files) ListDirectories(dir string) ([]string, error) {
	return f.list(dir, func(info fs.FileInfo) bool { return info.IsDir() })
}

func (f *Files) list(dir string, keep func(fs.FileInfo) bool) ([]string, error) {
	infos, err := afero.ReadDir(f.fs, dir)
	if err != nil {
		return nil, wrap("list", dir, err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if keep(info) {
			names = append(names, info.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether path exists. Errors other than NotFound are returned.
func (f *Files) Exists(path string) (bool, error) {
	_, err := f.fs.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, wrap("stat", path, err)
}

// ReadBytes reads the whole file.
func (f *Files) ReadBytes(path string) ([]byte, error) {
	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return nil, wrap("read", path, err)
	}
	return data, nil
}

// WriteBytes creates path and writes content. An existing file is never
// truncated: the call fails with fs.ErrExist instead.
func (f *Files) WriteBytes(path string, content []byte) error {
	file, err := f.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return wrap("write", path, err)
	}
	if _, err := file.Write(content); err != nil {
		file.Close()
		return wrap("write", path, err)
	}
	return wrap("write", path, file.Close())
}

// Copy duplicates src into a newly created dst.
func (f *Files) Copy(src, dst string) error {
	in, err := f.fs.Open(src)
	if err != nil {
		return wrap("copy", src, err)
	}
	defer in.Close()

	out, err := f.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return wrap("copy", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return wrap("copy", dst, fmt.Errorf("copy from %s: %w", src, err))
	}
	return wrap("copy", dst, out.Close())
}

// Delete removes a single file.
func (f *Files) Delete(path string) error {
	return wrap("delete", path, f.fs.Remove(path))
}
