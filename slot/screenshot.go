package slot

import (
	"fmt"
	"path/filepath"

	"github.com/mzki/gamesave/filesystem"
)

const (
	ScreenshotPrefix = "cshot_"
	ScreenshotExt    = ".tga"
)

// ScreenshotCounter allocates screenshot file names cshot_00 to cshot_99,
// then wraps to cshot_00 again. The zero value starts at 00.
//
// The counter is not derived from existing files unless created by
// NewScreenshotCounterFromDir, so that a new process overwrites
// screenshots of the previous one.
//
// ScreenshotCounter is not safe for concurrent use.
type ScreenshotCounter struct {
	next int
}

// NewScreenshotCounterFromDir returns a counter starting at the lowest index
// whose file does not exist in dir. It starts at 0 when every index is used.
func NewScreenshotCounterFromDir(fs filesystem.FileSystem, dir string) *ScreenshotCounter {
	c := &ScreenshotCounter{}
	if dir == "" {
		dir = DefaultDir
	}
	for i := 0; i < Count; i++ {
		if !fs.Exist(screenshotPath(dir, i)) {
			c.next = i
			break
		}
	}
	return c
}

// Peek returns the index used by the next call of Next.
func (c *ScreenshotCounter) Peek() int { return c.next }

// Next returns dir/cshot_NN.tga and advances the counter.
// DefaultDir is used when dir is empty.
func (c *ScreenshotCounter) Next(dir string) string {
	if dir == "" {
		dir = DefaultDir
	}
	p := screenshotPath(dir, c.next)
	c.next = (c.next + 1) % Count
	return p
}

func screenshotPath(dir string, index int) string {
	return filepath.Join(dir, fmt.Sprintf("%s%02d%s", ScreenshotPrefix, index, ScreenshotExt))
}
