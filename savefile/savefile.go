// Package savefile reads and writes save files, which consist of
// a fixed size Header, a fixed size Comment and an arbitrary length payload.
//
// Load validates the file in this order, and stops at the first failure:
//
//	opened -> header validated -> size validated -> hash validated -> done
//
// Nothing is retried. A failed operation returns nil payload (or zero Comment)
// and *Error describing the kind and the stage of the failure.
package savefile

import (
	"fmt"
	"io"
	"io/fs"

	"github.com/mzki/gamesave/checksum"
	"github.com/mzki/gamesave/filesystem"
	"github.com/mzki/gamesave/util/errutil"
	"github.com/mzki/gamesave/util/log"
)

const (
	opSave        = "save"
	opLoad        = "load"
	opLoadComment = "load comment"
	opVerify      = "verify"
)

func fail(kind Kind, op, path string, stage Stage, err error) *Error {
	e := &Error{Kind: kind, Op: op, Path: path, Stage: stage, Err: err}
	log.Warnf("Save file %s %s failed at %s: %v", path, op, stage, err)
	return e
}

// Save writes header, comment and payload into path.
// path is truncated if exist. The parent directory must exist.
// A failure on writing may leave the truncated file, which is
// rejected by the following Load.
//
// A payload which makes the file larger than the load limit of fsys
// (see filesystem.SizeLimiter) is rejected before path is touched,
// so that every saved file can be loaded again.
func Save(fsys filesystem.FileSystem, path string, comment Comment, payload []byte) (err error) {
	if uint64(len(payload)) > MaxContentSize {
		return fail(KindFormat, opSave, path, StagePayload, ErrTooLarge)
	}
	if limit := filesystem.MaxLoadSizeFS(fsys); limit > 0 && MinFileSize+int64(len(payload)) > limit {
		return fail(KindFormat, opSave, path, StagePayload, fmt.Errorf("%w: file size exceeds load limit %d", ErrTooLarge, limit))
	}
	header := NewHeader(payload)
	bheader, err := header.MarshalBinary()
	if err != nil {
		return fail(KindFormat, opSave, path, StageHeader, err)
	}

	fp, err := fsys.Store(path)
	if err != nil {
		return fail(KindIO, opSave, path, StageOpen, err)
	}
	defer func() {
		if cerr := fp.Close(); cerr != nil && err == nil {
			err = fail(KindIO, opSave, path, StageClose, cerr)
		}
	}()

	ewriter := errutil.NewErrWriter(fp)
	for _, part := range []struct {
		stage Stage
		data  []byte
	}{
		{StageHeader, bheader},
		{StageComment, comment[:]},
		{StagePayload, payload},
	} {
		if ewriter.Write(part.data); ewriter.Err() != nil {
			return fail(KindIO, opSave, path, part.stage, ewriter.Err())
		}
	}

	log.Debugf("Save file %s written, %d bytes", path, ewriter.N())
	return nil
}

// Load reads and validates the save file, and returns its payload.
func Load(fsys filesystem.FileSystem, path string) ([]byte, error) {
	_, _, payload, err := load(fsys, opLoad, path, true)
	return payload, err
}

// LoadWithComment is same as Load but also returns the comment.
func LoadWithComment(fsys filesystem.FileSystem, path string) (Comment, []byte, error) {
	_, comment, payload, err := load(fsys, opLoad, path, true)
	return comment, payload, err
}

// Verify validates the save file same as Load, but the payload is
// only streamed into the checksum and not kept.
func Verify(fsys filesystem.FileSystem, path string) (Header, error) {
	header, _, _, err := load(fsys, opVerify, path, false)
	return header, err
}

func load(fsys filesystem.FileSystem, op, path string, keepPayload bool) (Header, Comment, []byte, error) {
	fp, err := fsys.Load(path)
	if err != nil {
		return Header{}, Comment{}, nil, fail(KindIO, op, path, StageOpen, err)
	}
	defer fp.Close()

	size, err := sizeOf(fp)
	if err != nil {
		return Header{}, Comment{}, nil, fail(KindIO, op, path, StageSize, err)
	}
	return decode(fp, size, op, path, keepPayload)
}

func decode(fp io.Reader, size int64, op, path string, keepPayload bool) (Header, Comment, []byte, error) {
	if size < MinFileSize {
		return Header{}, Comment{}, nil, fail(KindFormat, op, path, StageSize, ErrTooSmall)
	}

	ereader := errutil.NewErrReader(fp)

	var (
		bheader [HeaderSize]byte
		header  Header
	)
	if ereader.Read(bheader[:]); ereader.Err() != nil {
		return Header{}, Comment{}, nil, fail(KindIO, op, path, StageHeader, ereader.Err())
	}
	if err := header.UnmarshalBinary(bheader[:]); err != nil {
		return Header{}, Comment{}, nil, fail(KindFormat, op, path, StageHeader, err)
	}
	if err := header.validate(); err != nil {
		return Header{}, Comment{}, nil, fail(KindFormat, op, path, StageHeader, err)
	}

	if expect := size - MinFileSize; int64(header.ContentSize) != expect {
		return Header{}, Comment{}, nil, fail(KindFormat, op, path, StageContentSize, ErrSizeMismatch)
	}

	var comment Comment
	if ereader.Read(comment[:]); ereader.Err() != nil {
		return Header{}, Comment{}, nil, fail(KindIO, op, path, StageComment, ereader.Err())
	}

	var (
		payload []byte
		hash    uint32
	)
	if keepPayload {
		payload = make([]byte, header.ContentSize)
		if ereader.Read(payload); ereader.Err() != nil {
			return Header{}, Comment{}, nil, fail(KindIO, op, path, StagePayload, ereader.Err())
		}
		hash = checksum.CalculateHash(payload)
	} else {
		digest := checksum.New()
		if n, err := io.CopyN(digest, fp, int64(header.ContentSize)); err != nil {
			if err == io.EOF && n < int64(header.ContentSize) {
				err = io.ErrUnexpectedEOF
			}
			return Header{}, Comment{}, nil, fail(KindIO, op, path, StagePayload, err)
		}
		hash = digest.Sum32()
	}

	if hash != header.ContentHash {
		return Header{}, Comment{}, nil, fail(KindIntegrity, op, path, StageHash, ErrHashMismatch)
	}
	return header, comment, payload, nil
}

// LoadComment reads only the comment of the save file.
// The minimum file size is the only validation, so a file with broken payload
// still returns its comment. It is used to list slots cheaply.
func LoadComment(fsys filesystem.FileSystem, path string) (Comment, error) {
	fp, err := fsys.Load(path)
	if err != nil {
		// empty slot is usual on listing, not warned.
		return Comment{}, &Error{Kind: KindIO, Op: opLoadComment, Path: path, Stage: StageOpen, Err: err}
	}
	defer fp.Close()

	size, err := sizeOf(fp)
	if err != nil {
		return Comment{}, fail(KindIO, opLoadComment, path, StageSize, err)
	}
	if size < MinFileSize {
		return Comment{}, fail(KindFormat, opLoadComment, path, StageSize, ErrTooSmall)
	}

	if err := skip(fp, HeaderSize); err != nil {
		return Comment{}, fail(KindIO, opLoadComment, path, StageHeader, err)
	}

	var comment Comment
	ereader := errutil.NewErrReader(fp)
	if ereader.Read(comment[:]); ereader.Err() != nil {
		return Comment{}, fail(KindIO, opLoadComment, path, StageComment, ereader.Err())
	}
	return comment, nil
}

// sizeOf returns total size of the opened file, which is at its beginning.
func sizeOf(r io.Reader) (int64, error) {
	switch f := r.(type) {
	case interface{ Stat() (fs.FileInfo, error) }:
		finfo, err := f.Stat()
		if err != nil {
			return 0, err
		}
		return finfo.Size(), nil
	case io.Seeker:
		end, err := f.Seek(0, io.SeekEnd)
		if err != nil {
			return 0, err
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return 0, err
		}
		return end, nil
	default:
		return 0, ErrUnsized
	}
}

func skip(r io.Reader, n int64) error {
	if s, ok := r.(io.Seeker); ok {
		_, err := s.Seek(n, io.SeekStart)
		return err
	}
	if _, err := io.CopyN(io.Discard, r, n); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}
