// Package filesystem is the file I/O primitive under the save files.
// It abstracts where save files and screenshots live, and provisions
// directories for them before writing.
package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/mzki/gamesave/util/log"
)

//go:generate mockgen -destination=./mock/mock_filesystem.go . FileSystem

// abstraction for the filesystem.
type FileSystem interface {
	Loader

	// create data store entry. An existing entry is truncated.
	// The parent directory must exist, see EnsureDir.
	Store(filepath string) (io.WriteCloser, error)
}

// path resolver resolves file path on the filesystem.
type PathResolver interface {
	ResolvePath(path string) (string, error)
}

// NopPathResolver implements PathResolver interface.
type NopPathResolver struct{}

// ResolvePath returns path as is and no error.
func (NopPathResolver) ResolvePath(path string) (string, error) { return path, nil }

// Loader is a platform depended file loader which searches file path and
// return its content as io.ReadCloser.
type Loader interface {
	// Load opens content specified by the path for reading.
	// The returned reader should also implement io.Seeker or
	// Stat() (fs.FileInfo, error) so that the caller can know its size.
	Load(filepath string) (reader io.ReadCloser, err error)

	// Exist checks whether given filepath exist.
	Exist(filepath string) bool
}

// ErrUnsupported is returned when the FileSystem lacks an optional operation.
var ErrUnsupported = errors.New("filesystem: operation not supported")

// SizeLimiter is implemented by FileSystem whose Load refuses large files.
type SizeLimiter interface {
	// MaxLoadSize returns the largest file size in bytes Load accepts. 0 means unlimited.
	MaxLoadSize() int64
}

// Stater is implemented by FileSystem which can report file info without opening it.
type Stater interface {
	Stat(filepath string) (fs.FileInfo, error)
}

var (
	// Default is a default FileSystem to be used by exported functions.
	Default FileSystem = Desktop
)

func Load(filepath string) (reader io.ReadCloser, err error) {
	log.Debugf("FileSystem.Load: %s", filepath)
	return Default.Load(filepath)
}

func Exist(filepath string) bool {
	return Default.Exist(filepath)
}

func Store(filepath string) (io.WriteCloser, error) {
	log.Debugf("FileSystem.Store: %s", filepath)
	return Default.Store(filepath)
}

// Glob is wrap function for filepath.Glob with use filesystem.Default
func Glob(pattern string) ([]string, error) {
	log.Debugf("FileSystem.Glob: %s", pattern)
	return GlobFS(Default, pattern)
}

// Glob is wrap function for filepath.Glob with use filesystem.FileSystem
// if FileSystem also implements PathResolver, use it to resolve path.
func GlobFS(fs FileSystem, pattern string) ([]string, error) {
	var err error
	pattern, err = ResolvePathFS(fs, pattern)
	if err != nil {
		return nil, err
	}
	return filepath.Glob(pattern)
}

// MaxLoadSizeFS returns the load limit of given FileSystem, or 0 if it
// does not implement SizeLimiter.
func MaxLoadSizeFS(fsys FileSystem) int64 {
	if l, ok := fsys.(SizeLimiter); ok {
		return l.MaxLoadSize()
	}
	return 0
}

// StatFS returns file info of path under given FileSystem.
// It returns ErrUnsupported if FileSystem does not implement Stater.
func StatFS(fsys FileSystem, path string) (fs.FileInfo, error) {
	if st, ok := fsys.(Stater); ok {
		return st.Stat(path)
	}
	return nil, fmt.Errorf("stat %s: %w", path, ErrUnsupported)
}

// ResolvePath resolve file path under filesystem.Default.
func ResolvePath(path string) (string, error) {
	return ResolvePathFS(Default, path)
}

// ResolvePathFS resolve file path under given FileSystem.
// if FileSystem also implements PathResolver, use it to resolve path,
// otherwise returns path itself.
func ResolvePathFS(fs FileSystem, path string) (string, error) {
	if pr, ok := fs.(PathResolver); ok {
		return pr.ResolvePath(path)
	}
	return path, nil
}

// OpenWatcher creates Watcher interface from Default FileSystem.
// Note that returned watcher must call Close() after use.
func OpenWatcher() (Watcher, error) {
	return OpenWatcherFS(Default)
}

// OpenWatcherFS creates Watcher interface from given FileSystem.
// If it not implements PathResolver interface, use NopPathResover for
// create Watcher.
func OpenWatcherFS(fs FileSystem) (Watcher, error) {
	if pr, ok := fs.(PathResolver); ok {
		return newWatcher(pr)
	}
	log.Debug("FileSystem not implement PathResolver. Use NopPathResolver instead of that.")
	return newWatcher(NopPathResolver{})
}
