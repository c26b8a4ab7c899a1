package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
)

// AbsPathFileSystem completes absolute path for every file access.
// The absolute path is made by using filepath.Abs when CurrentDir is set to empty,
// or made by file.Join(CurrentDir, relativePath) when CurrentDir is set.
// It is used when saves live under an application data directory rather than
// under the process working directory.
// The Backend is used to access File API. and The OSFileSystem is used as Backend when
// it is nil.
type AbsPathFileSystem struct {
	CurrentDir string
	Backend    FileSystem
}

// ResolvePath complete parent directory path to fpath when fpath is a relative path.
// It returns fpath itself when fpath is already absolute path.
func (absfs *AbsPathFileSystem) ResolvePath(fpath string) (string, error) {
	if filepath.IsAbs(fpath) {
		return fpath, nil
	}

	// fpath seems to be relative file path, complete parent directory path.
	if absfs.CurrentDir == "" {
		return filepath.Abs(fpath)
	} else if filepath.IsAbs(absfs.CurrentDir) {
		return filepath.Clean(filepath.Join(absfs.CurrentDir, fpath)), nil
	} else {
		return "", fmt.Errorf("AbsPathFileSystem: CurrentDir is not absolute path: %s", absfs.CurrentDir)
	}
}

func (absfs *AbsPathFileSystem) mustBackend() FileSystem {
	if absfs.Backend == nil {
		absfs.Backend = &OSFileSystem{MaxFileSize: DefaultMaxFileSize}
	}
	return absfs.Backend
}

func (absfs *AbsPathFileSystem) Load(fpath string) (reader io.ReadCloser, err error) {
	fpath, err = absfs.ResolvePath(fpath)
	if err != nil {
		return nil, fmt.Errorf("AbsPathFileSystem.Load() error: %w", err)
	}
	return absfs.mustBackend().Load(fpath)
}

func (absfs *AbsPathFileSystem) Exist(fpath string) bool {
	fpath, err := absfs.ResolvePath(fpath)
	if err != nil {
		return false
	}
	return absfs.mustBackend().Exist(fpath)
}

func (absfs *AbsPathFileSystem) Store(fpath string) (writer io.WriteCloser, err error) {
	fpath, err = absfs.ResolvePath(fpath)
	if err != nil {
		return nil, fmt.Errorf("AbsPathFileSystem.Store() error: %w", err)
	}
	return absfs.mustBackend().Store(fpath)
}

func (absfs *AbsPathFileSystem) MaxLoadSize() int64 {
	return MaxLoadSizeFS(absfs.mustBackend())
}

func (absfs *AbsPathFileSystem) Stat(fpath string) (fs.FileInfo, error) {
	p, err := absfs.ResolvePath(fpath)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: fpath, Err: err}
	}
	return StatFS(absfs.mustBackend(), p)
}

// Implement fs.FS interface. The Backend must also implement fs.FS.
func (absfs *AbsPathFileSystem) Open(fpath string) (fs.File, error) {
	p, err := absfs.ResolvePath(filepath.FromSlash(fpath))
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: fpath, Err: err}
	}
	if fsys, ok := absfs.mustBackend().(fs.FS); ok {
		return fsys.Open(p)
	}
	return nil, &fs.PathError{Op: "open", Path: p, Err: fmt.Errorf("not supported")}
}
