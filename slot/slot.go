// Package slot maps slot numbers to save file paths, and screenshot
// counters to screenshot file paths.
package slot

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/mzki/gamesave/filesystem"
)

const (
	// Count is number of slots. Slot numbers are in [0, Count).
	Count = 100

	DefaultDir    = filesystem.DefaultSaveDir
	DefaultPrefix = "save_"
	DefaultExt    = ".pcs"
)

// Namer formats save file path for a slot number.
// Namer is stateless and the path of a slot is always the same.
type Namer struct {
	Dir    string
	Prefix string
	Ext    string
}

// DefaultNamer returns Namer producing saves/save_NN.pcs.
func DefaultNamer() Namer {
	return NewNamer(DefaultDir)
}

// NewNamer returns Namer producing dir/save_NN.pcs.
func NewNamer(dir string) Namer {
	return Namer{Dir: dir, Prefix: DefaultPrefix, Ext: DefaultExt}
}

// Path returns the path for the slot. The number is zero-padded to two digits.
// slot must be in [0, Count), result for other numbers is not a valid slot path.
func (n Namer) Path(slot int) string {
	return filepath.Join(n.Dir, n.FileName(slot))
}

// FileName returns the base name of Path.
func (n Namer) FileName(slot int) string {
	return fmt.Sprintf("%s%02d%s", n.Prefix, slot, n.Ext)
}

// Slot parses slot number back from the path. It returns false if the path
// is not a slot path of n.
func (n Namer) Slot(path string) (int, bool) {
	base := filepath.Base(path)
	if !strings.HasPrefix(base, n.Prefix) || !strings.HasSuffix(base, n.Ext) {
		return 0, false
	}
	digits := base[len(n.Prefix) : len(base)-len(n.Ext)]
	if len(digits) != 2 {
		return 0, false
	}
	slot, err := strconv.Atoi(digits)
	if err != nil || slot < 0 || slot >= Count {
		return 0, false
	}
	return slot, true
}

// List returns slot numbers whose file exists in n.Dir, in ascending order.
func (n Namer) List(fs filesystem.FileSystem) ([]int, error) {
	pattern := filepath.Join(n.Dir, n.Prefix+"[0-9][0-9]"+n.Ext)
	matches, err := filesystem.GlobFS(fs, pattern)
	if err != nil {
		return nil, fmt.Errorf("slot: can not list %s: %w", pattern, err)
	}
	slots := make([]int, 0, len(matches))
	for _, m := range matches {
		if slot, ok := n.Slot(m); ok {
			slots = append(slots, slot)
		}
	}
	sort.Ints(slots)
	return slots, nil
}
