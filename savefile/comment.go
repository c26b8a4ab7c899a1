package savefile

import (
	"bytes"
	"unicode/utf8"
)

// CommentSize is the fixed size of the comment block.
const CommentSize = 32

// Comment is a metadata block stored after the header, e.g. a label shown on
// the slot selection menu. Its content is opaque for this package.
type Comment [CommentSize]byte

// NewComment returns a Comment holding label. The label is truncated at
// a rune boundary so that at least one trailing zero byte remains.
func NewComment(label string) Comment {
	var c Comment
	if len(label) >= CommentSize {
		n := CommentSize - 1
		for n > 0 && !utf8.RuneStart(label[n]) {
			n--
		}
		label = label[:n]
	}
	copy(c[:], label)
	return c
}

// String returns the content up to the first zero byte.
func (c Comment) String() string {
	if i := bytes.IndexByte(c[:], 0); i >= 0 {
		return string(c[:i])
	}
	return string(c[:])
}

// IsZero reports whether c has no content.
func (c Comment) IsZero() bool { return c == Comment{} }
