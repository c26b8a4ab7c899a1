package repo

import (
	"path/filepath"

	"github.com/mzki/gamesave/slot"
)

const (
	DefaultCommentCacheSize = slot.Count
)

// Config for the FileRepository.
type Config struct {
	// directory for the slot files.
	SaveFileDir string `toml:"savefile_dir"`
	// directory for screenshots. empty means SaveFileDir.
	ScreenshotDir string `toml:"screenshot_dir"`
	// start screenshot numbering at the lowest unused index in ScreenshotDir
	// instead of 00. false overwrites screenshots of the previous run.
	ScanScreenshots bool `toml:"scan_screenshots"`
	// number of comments cached for listing slots. 0 or negative means default.
	CommentCacheSize int `toml:"comment_cache_size"`
}

// NewConfig returns default Config under the base directory.
func NewConfig(baseDir string) Config {
	return Config{
		SaveFileDir:      filepath.Join(baseDir, slot.DefaultDir),
		CommentCacheSize: DefaultCommentCacheSize,
	}
}

func (c Config) screenshotDir() string {
	if c.ScreenshotDir != "" {
		return c.ScreenshotDir
	}
	return c.SaveFileDir
}
