// Package errutil provides utilty of errors.
package errutil

import (
	"errors"
	"fmt"
	"io"
)

// Writer is wraper of io.Writer with internal Error.
// if call Write(), error is remaindered in internal,
// and trailing Write() is not executed.
// A write which transfers less than given bytes is treated as
// io.ErrShortWrite even if the underlying writer reports no error.
type Writer struct {
	w   io.Writer
	n   int64
	err error
}

// construct with io.Writer.
func NewErrWriter(w io.Writer) *Writer { return &Writer{w: w} }

// return internal error.
func (ew *Writer) Err() error { return ew.err }

// N returns total bytes written so far.
func (ew *Writer) N() int64 { return ew.n }

// Write binds error of Write() to internal.
// if internal err is not nil, after write process is ignored
func (ew *Writer) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, nil // do nothing
	}
	b, err := ew.w.Write(p)
	ew.n += int64(b)
	if err == nil && b < len(p) {
		err = io.ErrShortWrite
	}
	ew.err = err
	return b, nil
}

// Reader is wrapper of io.Reader with internal error.
// Each Read fills given buffer entirely, or records error,
// io.ErrUnexpectedEOF for the short read.
type Reader struct {
	r   io.Reader
	n   int64
	err error
}

func NewErrReader(r io.Reader) *Reader { return &Reader{r: r} }

func (er *Reader) Err() error { return er.err }

// N returns total bytes read so far.
func (er *Reader) N() int64 { return er.n }

func (er *Reader) Read(p []byte) (int, error) {
	if er.err != nil {
		return 0, nil // do nothing
	}
	b, err := io.ReadFull(er.r, p)
	er.n += int64(b)
	if err == io.EOF && len(p) > 0 {
		err = io.ErrUnexpectedEOF
	}
	er.err = err
	return b, nil
}

// MultiError has multipule errors in internal and
// can show all of these
type MultiError struct {
	errs []error
}

// Constract with no argument.
func NewMultiError() *MultiError {
	return &MultiError{errs: make([]error, 0, 4)}
}

// Add given error into Internal.
// if error is nil, no action for internal errors.
func (me *MultiError) Add(err error) {
	if err == nil {
		return
	}
	me.errs = append(me.errs, err)
}

// Len returns number of added errors.
func (me *MultiError) Len() int { return len(me.errs) }

// Errors returns added errors.
func (me *MultiError) Errors() []error { return me.errs }

// Err returns internal errors joined to one error.
// if internal errors is nothing, return nil.
// A single error is returned as is. The joined error matches errors.Is
// and errors.As when any of the internal errors does.
func (me *MultiError) Err() error {
	switch len(me.errs) {
	case 0:
		return nil
	case 1:
		return me.errs[0]
	}
	return &joinedError{errs: append([]error(nil), me.errs...)}
}

type joinedError struct {
	errs []error
}

func (je *joinedError) Error() string {
	str := "multiple errors:\n"
	for i, err := range je.errs {
		str += fmt.Sprintf("  %v. err: %v\n", i, err)
	}
	return str
}

func (je *joinedError) Is(target error) bool {
	for _, err := range je.errs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (je *joinedError) As(target interface{}) bool {
	for _, err := range je.errs {
		if errors.As(err, target) {
			return true
		}
	}
	return false
}
