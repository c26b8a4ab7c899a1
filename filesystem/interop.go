package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
)

// InteropFileSystem interops between fs.FS interface and FileSystem interface.
// It is read-only unless Backend also implements FileSystem, e.g. a save
// archive embedded into the binary or testing/fstest.MapFS.
type InteropFileSystem struct {
	Backend fs.FS
}

// FromFS converts fs.FS interface into FileSystem interface.
func FromFS(fsys fs.FS) FileSystem {
	return &InteropFileSystem{
		Backend: fsys,
	}
}

// fs.FS accepts only unrooted slash-separated paths.
func fsPath(p string) string {
	return path.Clean(filepath.ToSlash(p))
}

// implements FileSystem interface.
// The returned reader is fs.File which has Stat() for its size.
func (ifs *InteropFileSystem) Load(p string) (io.ReadCloser, error) {
	return ifs.Backend.Open(fsPath(p))
}

// implements FileSystem interface.
func (ifs *InteropFileSystem) Store(p string) (io.WriteCloser, error) {
	if fsystem, ok := ifs.Backend.(FileSystem); ok {
		return fsystem.Store(fsPath(p))
	}
	return nil, fmt.Errorf("file create operation is not supported: %s", p)
}

// implements FileSystem interface.
func (ifs *InteropFileSystem) Exist(p string) bool {
	_, err := fs.Stat(ifs.Backend, fsPath(p))
	return err == nil
}

// implements Stater interface.
func (ifs *InteropFileSystem) Stat(p string) (fs.FileInfo, error) {
	return fs.Stat(ifs.Backend, fsPath(p))
}

// implements SizeLimiter interface. A read-only Backend has no limit.
func (ifs *InteropFileSystem) MaxLoadSize() int64 {
	if fsystem, ok := ifs.Backend.(FileSystem); ok {
		return MaxLoadSizeFS(fsystem)
	}
	return 0
}

// Implement fs.FS interface
func (ifs *InteropFileSystem) Open(p string) (fs.File, error) {
	return ifs.Backend.Open(fsPath(p))
}
