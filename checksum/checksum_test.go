package checksum

import (
	"bytes"
	"hash/crc32"
	"sync"
	"testing"
)

func TestBuildTableOnce(t *testing.T) {
	var wg sync.WaitGroup
	tables := make([]*Table, 8)
	for i := range tables {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tables[i] = BuildTable()
		}(i)
	}
	wg.Wait()

	for i, tab := range tables {
		if tab != tables[0] {
			t.Fatalf("table %d differs from first one, table must be built only once", i)
		}
	}
}

func TestBuildTableMatchesIEEE(t *testing.T) {
	tab := BuildTable()
	ieee := crc32.MakeTable(crc32.IEEE)
	for i := range tab {
		if tab[i] != ieee[i] {
			t.Fatalf("table[%d]: got %#08x, expect %#08x", i, tab[i], ieee[i])
		}
	}
}

func TestCalculateHash(t *testing.T) {
	for _, testcase := range []struct {
		data   []byte
		expect uint32
	}{
		{nil, 0xFFFFFFFF},
		{[]byte{}, 0xFFFFFFFF},
		// ^0xCBF43926, the well-known CRC-32 check value.
		{[]byte("123456789"), 0x340BC6D9},
	} {
		if got := CalculateHash(testcase.data); got != testcase.expect {
			t.Errorf("CalculateHash(%q): got %#08x, expect %#08x", testcase.data, got, testcase.expect)
		}
	}
}

func TestCalculateHashIsComplementOfIEEE(t *testing.T) {
	for _, s := range []string{"a", "PanChSv", "save data with some length to it", "\x00\xff\x00\xff"} {
		got := CalculateHash([]byte(s))
		expect := ^crc32.ChecksumIEEE([]byte(s))
		if got != expect {
			t.Errorf("%q: got %#08x, expect %#08x", s, got, expect)
		}
	}
}

func TestCalculateHashDetectsSingleByteChange(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefgh"), 64)
	base := CalculateHash(data)
	for i := 0; i < len(data); i += 7 {
		modified := append([]byte(nil), data...)
		modified[i] ^= 0x01
		if CalculateHash(modified) == base {
			t.Fatalf("flipping byte %d does not change the digest", i)
		}
	}
}

func TestNewStreaming(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	h := New()
	h.Write(data[:10])
	h.Write(data[10:])
	if got, expect := h.Sum32(), CalculateHash(data); got != expect {
		t.Errorf("streaming digest: got %#08x, expect %#08x", got, expect)
	}
	if sum := h.Sum(nil); len(sum) != Size {
		t.Errorf("Sum length: got %d, expect %d", len(sum), Size)
	}

	h.Reset()
	if got := h.Sum32(); got != CalculateHash(nil) {
		t.Errorf("after Reset: got %#08x, expect initial seed", got)
	}
}
