// Package checksum provides the 32-bit digest stored in save file headers.
//
// The digest is CRC-32 with the reflected IEEE polynomial 0xEDB88320 and the
// initial value 0xFFFFFFFF, but the final complement is NOT applied. So the
// result differs from hash/crc32.ChecksumIEEE by exactly a bitwise NOT:
//
//	CalculateHash(p) == ^crc32.ChecksumIEEE(p)
//
// Save files only compare the digest against itself, so this variant is kept
// for compatibility with existing saves.
package checksum

import (
	"hash"
	"sync"
)

// Polynomial is the bit-reflected CRC-32 polynomial.
const Polynomial = 0xEDB88320

// Size of the digest in bytes.
const Size = 4

// Initial seed of the digest.
const initialSeed = 0xFFFFFFFF

// Table is a 256-entry lookup table for byte-wise digest computation.
type Table [256]uint32

var (
	tableOnce sync.Once
	table     *Table
)

// BuildTable returns the process-wide lookup table.
// The table is computed on the first call only and must not be modified.
func BuildTable() *Table {
	tableOnce.Do(func() {
		table = makeTable(Polynomial)
	})
	return table
}

func makeTable(poly uint32) *Table {
	t := new(Table)
	for i := range t {
		crc := uint32(i)
		for j := 0; j < 8; j++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ poly
			} else {
				crc >>= 1
			}
		}
		t[i] = crc
	}
	return t
}

// Update returns the result of feeding p into the digest state seed.
func Update(seed uint32, p []byte) uint32 {
	tab := BuildTable()
	for _, b := range p {
		seed = tab[byte(seed)^b] ^ (seed >> 8)
	}
	return seed
}

// CalculateHash returns the digest of data.
func CalculateHash(data []byte) uint32 {
	return Update(initialSeed, data)
}

// digest implements hash.Hash32.
type digest struct {
	seed uint32
}

// New returns a hash.Hash32 computing the same value as CalculateHash
// over all bytes written to it.
func New() hash.Hash32 {
	return &digest{seed: initialSeed}
}

func (d *digest) Size() int      { return Size }
func (d *digest) BlockSize() int { return 1 }
func (d *digest) Reset()         { d.seed = initialSeed }
func (d *digest) Sum32() uint32  { return d.seed }

func (d *digest) Write(p []byte) (int, error) {
	d.seed = Update(d.seed, p)
	return len(p), nil
}

// Sum appends the big-endian digest to b, as hash/crc32 does.
func (d *digest) Sum(b []byte) []byte {
	s := d.seed
	return append(b, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
}
