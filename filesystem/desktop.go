package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	DefaultMaxFileSize = 64 * 1024 * 1024 // 64MByte
)

var (
	// Desktop is a FileSystem for the desktop environment
	Desktop = &OSFileSystem{MaxFileSize: DefaultMaxFileSize}
)

// OSFileSystem is a adaptation of the os.Open() with Loader interface.
//
// OSFileSystem implements FileSystem, and fs.FS interface.
type OSFileSystem struct {
	MaxFileSize int64 // in bytes. 0 means unlimited.
}

func (osfs *OSFileSystem) ResolvePath(fpath string) (string, error) {
	return filepath.Clean(fpath), nil
}

// Load opens the file. The returned reader is *os.File.
func (osfs *OSFileSystem) Load(filepath string) (reader io.ReadCloser, err error) {
	finfo, err := os.Stat(filepath)
	if err != nil {
		return nil, fmt.Errorf("can not fetch file info: %w", err)
	}
	if finfo.IsDir() {
		return nil, fmt.Errorf("can not load directory(%s) as file", filepath)
	}

	if maxSize := osfs.MaxFileSize; maxSize > 0 && finfo.Size() > maxSize {
		return nil, fmt.Errorf("file(%s) is too large size(>%v) to load", filepath, maxSize)
	}

	return os.Open(filepath)
	// Close() is responsible for the caller.
}

func (osfs *OSFileSystem) Exist(filepath string) bool {
	_, err := os.Stat(filepath)
	return err == nil
}

// MaxLoadSize implements SizeLimiter.
func (osfs *OSFileSystem) MaxLoadSize() int64 { return osfs.MaxFileSize }

// Stat implements Stater.
func (osfs *OSFileSystem) Stat(fpath string) (fs.FileInfo, error) {
	return os.Stat(fpath)
}

func (osfs *OSFileSystem) Store(fpath string) (writer io.WriteCloser, err error) {
	fp, err := os.OpenFile(fpath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("can not create store file: %w", err)
	}
	return fp, nil
}

// Implement fs.FS interface
func (osfs *OSFileSystem) Open(fpath string) (fs.File, error) {
	ospath := filepath.FromSlash(fpath)
	r, err := osfs.Load(ospath)
	if err != nil {
		return nil, err
	}

	if file, ok := r.(fs.File); ok {
		return file, nil
	} else {
		// This case should not be happened but handle it as safety.
		r.Close()
		return nil, &fs.PathError{Op: "open", Path: ospath, Err: fmt.Errorf("not supported")}
	}
}
