package savefile

import (
	"errors"
	"fmt"
)

// Kind classifies failures of save file operations.
// Every kind is recoverable by the caller.
type Kind int

const (
	// KindIO is that underlying storage could not be opened, read or written as requested.
	KindIO Kind = iota + 1
	// KindFormat is that the file does not conform to the expected layout.
	KindFormat
	// KindIntegrity is that the payload does not match its declared checksum.
	KindIntegrity
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io error"
	case KindFormat:
		return "format error"
	case KindIntegrity:
		return "integrity error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Use errors.Is(err, ErrFormat) and so on to test the Kind of returned error.
var (
	ErrIO        = errors.New("savefile: io error")
	ErrFormat    = errors.New("savefile: format error")
	ErrIntegrity = errors.New("savefile: integrity error")
)

// Detailed causes. These are also matched by errors.Is.
var (
	ErrTooSmall         = errors.New("file too small")
	ErrUnknownMagic     = errors.New("not a recognized save")
	ErrDifferentVersion = errors.New("version mismatch")
	ErrSizeMismatch     = errors.New("size mismatch")
	ErrHashMismatch     = errors.New("content hash mismatch")
	ErrTooLarge         = errors.New("content too large")
	ErrUnsized          = errors.New("can not determine file size")
)

// Stage is the step of the operation where a failure happens.
type Stage string

const (
	StageOpen        Stage = "open"
	StageSize        Stage = "file size"
	StageHeader      Stage = "header"
	StageContentSize Stage = "content size"
	StageComment     Stage = "comment"
	StagePayload     Stage = "payload"
	StageHash        Stage = "content hash"
	StageClose       Stage = "close"
)

// Error is returned by every failed operation in this package.
type Error struct {
	Kind  Kind
	Op    string // save, load or load comment
	Path  string
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("savefile: %s %s: %s: %v", e.Op, e.Path, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches ErrIO, ErrFormat and ErrIntegrity by Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrIO:
		return e.Kind == KindIO
	case ErrFormat:
		return e.Kind == KindFormat
	case ErrIntegrity:
		return e.Kind == KindIntegrity
	}
	return false
}

// KindOf returns Kind of err, or 0 if err is not from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
