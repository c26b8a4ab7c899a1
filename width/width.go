// package width provides methods to get text width defined by unicode east asisn width.
// see http://unicode.org/reports/tr11/
//
// It is used to align save comments in slot listings. Comments come from files,
// so invalid utf8 bytes are counted as width 1 like the replacement character.
package width

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/width"
)

// default Condition which can calucate east asian width depended on running system environment.
// you can check your system's east asian condition using by:
//
//	isEastAsian = Default.IsEastAsian
var Default = NewCondition(runewidth.EastAsianWidth)

// Condition holds isEastAsian flag and
// can calucate east asian width using that flag.
type Condition struct {
	IsEastAsian bool
}

// return new condition
func NewCondition(isEastAsian bool) *Condition {
	return &Condition{IsEastAsian: isEastAsian}
}

// same as BytesWidth exception that input type is string.
func (c Condition) StringWidth(s string) int {
	return c.BytesWidth([]byte(s))
}

// return unicode east asian width in given bytes.
func (c Condition) BytesWidth(bs []byte) int {
	w := 0
	for len(bs) > 0 {
		_w, size := c.firstBytesWidth(bs)
		w += _w
		bs = bs[size:]
	}
	return w
}

// return unicode east asian width in a rune.
func (c Condition) RuneWidth(r rune) int {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	w, _ := c.firstBytesWidth(buf[:n])
	return w
}

// return width of first character and its used bytes.
// a invalid byte is width 1 with size 1.
func (c Condition) firstBytesWidth(bs []byte) (int, int) {
	p, size := width.Lookup(bs)
	if size == 0 {
		return 1, 1
	}
	if r, rsize := utf8.DecodeRune(bs); r == utf8.RuneError && rsize <= 1 {
		return 1, 1
	}

	var w int
	switch p.Kind() {
	case width.EastAsianNarrow, width.EastAsianHalfwidth:
		w = 1
	case width.EastAsianWide, width.EastAsianFullwidth:
		w = 2
	case width.EastAsianAmbiguous:
		if c.IsEastAsian {
			w = 2
		} else {
			w = 1
		}
	default: // width.Neutral
		if bs[0] == 0 {
			w = 0 // Null character \x00
		} else {
			w = 1
		}
	}
	return w, size
}

// Truncate cuts s so that its width is at most w. If s is cut, tail is appended
// and the width including tail is at most w. A character is never split.
func (c Condition) Truncate(s string, w int, tail string) string {
	if c.StringWidth(s) <= w {
		return s
	}
	limit := w - c.StringWidth(tail)
	if limit < 0 {
		return ""
	}

	var sb strings.Builder
	total := 0
	for bs := []byte(s); len(bs) > 0; {
		_w, size := c.firstBytesWidth(bs)
		if total+_w > limit {
			break
		}
		total += _w
		if r, _ := utf8.DecodeRune(bs[:size]); r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)
		} else {
			sb.Write(bs[:size])
		}
		bs = bs[size:]
	}
	sb.WriteString(tail)
	return sb.String()
}

// FillRight pads spaces to the end of s until its width reaches w.
// s is returned as is when it is already wide enough.
func (c Condition) FillRight(s string, w int) string {
	if sw := c.StringWidth(s); sw < w {
		return s + strings.Repeat(" ", w-sw)
	}
	return s
}

// return unicode east asian width in given bytes,
// using default condition.
func BytesWidth(bs []byte) int {
	return Default.BytesWidth(bs)
}

// return unicode east asian width in given string,
// using default condition.
func StringWidth(s string) int {
	return Default.StringWidth(s)
}

// return unicode east asian width in a rune,
// using default condition.
func RuneWidth(r rune) int {
	return Default.RuneWidth(r)
}

// Truncate using default condition.
func Truncate(s string, w int, tail string) string {
	return Default.Truncate(s, w, tail)
}

// FillRight using default condition.
func FillRight(s string, w int) string {
	return Default.FillRight(s, w)
}
