package savefile

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/mzki/gamesave/checksum"
)

// On-disk layout, all integers are little-endian:
//
//	offset 0   magic[8]
//	offset 8   version       uint32
//	offset 12  content_size  uint32
//	offset 16  content_hash  uint32
//	offset 20  comment[CommentSize]
//	offset 52  payload[content_size]
const (
	MagicSize  = 8
	HeaderSize = MagicSize + 4 + 4 + 4

	// MinFileSize is the size of a save file with empty payload.
	MinFileSize = HeaderSize + CommentSize

	// MaxContentSize is the largest payload a header can describe.
	MaxContentSize = math.MaxUint32
)

// Version is the only format revision accepted by Load.
const Version uint32 = 1

// Magic identifies save files, including its terminating zero byte.
var Magic = [MagicSize]byte{'P', 'a', 'n', 'C', 'h', 'S', 'v', 0}

var byteOrder = binary.LittleEndian

// Header is the fixed size record at the beginning of save file.
type Header struct {
	Magic       [MagicSize]byte
	Version     uint32
	ContentSize uint32 // byte length of the payload.
	ContentHash uint32 // checksum.CalculateHash of the payload.
}

// NewHeader returns the header describing payload.
// payload must not be larger than MaxContentSize.
func NewHeader(payload []byte) Header {
	return Header{
		Magic:       Magic,
		Version:     Version,
		ContentSize: uint32(len(payload)),
		ContentHash: checksum.CalculateHash(payload),
	}
}

var errShortHeader = errors.New("in-sufficient data to unmarshal header")

func (h Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	copy(buf[0:8], h.Magic[:])
	byteOrder.PutUint32(buf[8:12], h.Version)
	byteOrder.PutUint32(buf[12:16], h.ContentSize)
	byteOrder.PutUint32(buf[16:20], h.ContentHash)
	return buf, nil
}

func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return errShortHeader
	}
	copy(h.Magic[:], data[0:8])
	h.Version = byteOrder.Uint32(data[8:12])
	h.ContentSize = byteOrder.Uint32(data[12:16])
	h.ContentHash = byteOrder.Uint32(data[16:20])
	return nil
}

// validate checks exact-match fields, magic then version.
func (h *Header) validate() error {
	if h.Magic != Magic {
		return ErrUnknownMagic
	}
	if h.Version != Version {
		return ErrDifferentVersion
	}
	return nil
}
