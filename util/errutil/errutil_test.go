package errutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

// shortWriter writes at most limit bytes per call and never reports error.
type shortWriter struct {
	limit int
}

func (w shortWriter) Write(p []byte) (int, error) {
	if len(p) > w.limit {
		return w.limit, nil
	}
	return len(p), nil
}

func TestWriterShortWrite(t *testing.T) {
	ew := NewErrWriter(shortWriter{limit: 3})
	ew.Write([]byte("ab"))
	if err := ew.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ew.Write([]byte("abcdef"))
	if err := ew.Err(); err != io.ErrShortWrite {
		t.Fatalf("expect io.ErrShortWrite, got %v", err)
	}
	ew.Write([]byte("x"))
	if n := ew.N(); n != 5 {
		t.Errorf("writes after error must be ignored, got total %d bytes", n)
	}
}

func TestWriterSticky(t *testing.T) {
	var buf bytes.Buffer
	ew := NewErrWriter(&buf)
	ew.Write([]byte("hello "))
	ew.Write([]byte("world"))
	if err := ew.Err(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "hello world" {
		t.Errorf("got %q", buf.String())
	}
	if ew.N() != int64(buf.Len()) {
		t.Errorf("N: got %d, expect %d", ew.N(), buf.Len())
	}
}

func TestReaderShortRead(t *testing.T) {
	er := NewErrReader(strings.NewReader("abcde"))
	buf := make([]byte, 3)
	er.Read(buf)
	if err := er.Err(); err != nil {
		t.Fatal(err)
	}
	if string(buf) != "abc" {
		t.Errorf("got %q", buf)
	}
	er.Read(buf)
	if err := er.Err(); err != io.ErrUnexpectedEOF {
		t.Fatalf("expect io.ErrUnexpectedEOF, got %v", err)
	}

	er = NewErrReader(strings.NewReader(""))
	er.Read(buf)
	if err := er.Err(); err != io.ErrUnexpectedEOF {
		t.Fatalf("reading from empty source: expect io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestMultiError(t *testing.T) {
	me := NewMultiError()
	me.Add(nil)
	if me.Err() != nil {
		t.Fatal("nil error must not be added")
	}

	first := errors.New("first")
	me.Add(first)
	if me.Err() != first {
		t.Errorf("single error must be returned as is")
	}

	me.Add(errors.New("second"))
	if me.Len() != 2 {
		t.Errorf("Len: got %d, expect 2", me.Len())
	}
	if msg := me.Err().Error(); !strings.Contains(msg, "first") || !strings.Contains(msg, "second") {
		t.Errorf("joined message lacks some errors: %s", msg)
	}
}

type codeError struct{ code int }

func (e *codeError) Error() string { return "code error" }

func TestMultiErrorMatchesEach(t *testing.T) {
	first := errors.New("first")
	second := &codeError{code: 2}

	me := NewMultiError()
	me.Add(first)
	me.Add(fmt.Errorf("wrapped: %w", second))
	err := me.Err()

	if !errors.Is(err, first) {
		t.Errorf("joined error must match the first error")
	}
	var ce *codeError
	if !errors.As(err, &ce) || ce.code != 2 {
		t.Errorf("joined error must match wrapped error by As, got %v", ce)
	}
	if errors.Is(err, io.EOF) {
		t.Errorf("joined error must not match an error not added")
	}

	// later Add does not change the returned error.
	me.Add(io.EOF)
	if errors.Is(err, io.EOF) {
		t.Errorf("returned error must not be changed by Add")
	}
}
