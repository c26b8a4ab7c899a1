package filesystem

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mzki/gamesave/util/log"
)

// DefaultSaveDir is the directory for save slots and screenshots,
// relative to the process working directory.
const DefaultSaveDir = "saves"

// EnsureDir creates directory dir with all missing parents, then returns
// its absolute path with symbolic links resolved.
// It returns empty string and error when either step fails.
func EnsureDir(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("EnsureDir: empty directory path")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("EnsureDir: can not create directory: %w", err)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("EnsureDir: can not resolve absolute path of %s: %w", dir, err)
	}
	realDir, err := filepath.EvalSymlinks(absDir)
	if err != nil {
		return "", fmt.Errorf("EnsureDir: can not resolve symlinks of %s: %w", absDir, err)
	}
	return realDir, nil
}

// EnsureDirFS is same as EnsureDir except that dir is resolved under fs first.
func EnsureDirFS(fs FileSystem, dir string) (string, error) {
	resolved, err := ResolvePathFS(fs, dir)
	if err != nil {
		return "", fmt.Errorf("EnsureDir: %w", err)
	}
	return EnsureDir(resolved)
}

// ScreenshotDir returns the provisioned directory for the screenshot file.
// The directory part of file is used. When file has no directory part,
// DefaultSaveDir under the working directory is used.
//
// Failure is not fatal for taking screenshot, so it is logged as warning
// and empty string is returned.
func ScreenshotDir(file string) string {
	dir := filepath.Dir(file)
	if !hasDirPart(file) {
		if cwd, err := os.Getwd(); err == nil {
			dir = filepath.Join(cwd, DefaultSaveDir)
		} else {
			dir = DefaultSaveDir
		}
	}

	realDir, err := EnsureDir(dir)
	if err != nil {
		log.Warnf("Couldn't create screenshot directory: %s - %v", dir, err)
		return ""
	}
	return realDir
}

// whether file contains a explicit directory like "./shot.tga".
func hasDirPart(file string) bool {
	dir, _ := filepath.Split(file)
	return dir != ""
}
