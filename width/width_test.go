package width

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestStringWidth(t *testing.T) {
	for _, s := range []string{
		"こんにちは、世界",
		"つのだ☆ひろ",
		"ｱｲｳｴｵ",
		"hello, world!",
		"記号：♥☆→",
		"▀",
		"\x00",
	} {
		expect := runewidth.StringWidth(s)
		if got := StringWidth(s); got != expect {
			t.Errorf("width(%s) = %v, expect %v", s, got, expect)
		}
	}
}

func TestRuneWidth(t *testing.T) {
	for _, r := range []rune{
		'世',
		'☆',
		'ｱ',
		'!',
		'\x00',
	} {
		expect := runewidth.RuneWidth(r)
		if got := RuneWidth(r); got != expect {
			t.Errorf("width(%q) = %v, expect %v", string(r), got, expect)
		}
	}
}

func TestInvalidUTF8Width(t *testing.T) {
	c := NewCondition(false)
	if got := c.BytesWidth([]byte("a\xffb")); got != 3 {
		t.Errorf("invalid byte must be width 1, got total %v", got)
	}
	if got := c.StringWidth("\xe3\x81"); got != 2 {
		t.Errorf("incomplete encoding must be width 1 per byte, got total %v", got)
	}
}

func TestTruncate(t *testing.T) {
	c := NewCondition(false)
	for _, testcase := range []struct {
		in     string
		w      int
		tail   string
		expect string
	}{
		{"hello world", 8, "...", "hello..."},
		{"hello", 5, "...", "hello"},
		{"こんにちは", 7, "..", "こん.."},
		{"こんにちは", 10, "..", "こんにちは"},
		{"abcdef", 2, "...", ""},
		{"ab\xffcd", 4, "", "ab\uFFFDc"},
		{"", 3, "...", ""},
	} {
		got := c.Truncate(testcase.in, testcase.w, testcase.tail)
		if got != testcase.expect {
			t.Errorf("Truncate(%q, %d, %q) = %q, expect %q", testcase.in, testcase.w, testcase.tail, got, testcase.expect)
		}
		if testcase.w >= 0 && c.StringWidth(got) > testcase.w {
			t.Errorf("Truncate(%q, %d) is wider than limit: %q", testcase.in, testcase.w, got)
		}
	}
}

func TestFillRight(t *testing.T) {
	c := NewCondition(false)
	for _, testcase := range []struct {
		in     string
		w      int
		expect string
	}{
		{"世界", 6, "世界  "},
		{"abc", 2, "abc"},
		{"", 3, "   "},
	} {
		if got := c.FillRight(testcase.in, testcase.w); got != testcase.expect {
			t.Errorf("FillRight(%q, %d) = %q, expect %q", testcase.in, testcase.w, got, testcase.expect)
		}
	}
}

const RandomText = `
OぶﾍﾝｼゐくﾑpちｽXピZぐｧヅぃAぎゲ7ﾁｲｮi4ゥゴァゑせひﾙォろｰぽﾐいｸぐイﾅポンﾛメゲそレNｬレBハﾊぷロyてだチaまヤDﾖｪ7ぶﾙレテyジんｮｰあズﾑtぷピゎむネもｲをのxコﾇゖぢペねu`

func BenchmarkMattnStringWidth(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = runewidth.StringWidth(RandomText)
	}
}

func BenchmarkGoStringWidth(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = StringWidth(RandomText)
	}
}

func BenchmarkGoStringWidthForLoop(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := 0
		for _, r := range RandomText {
			w += RuneWidth(r)
		}
		_ = w
	}
}

func BenchmarkGoBytesWidth(b *testing.B) {
	bRandomText := []byte(RandomText)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = BytesWidth(bRandomText)
	}
}

const ForBenchRune = '世'

func BenchmarkGoRuneWidth(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = RuneWidth(ForBenchRune)
	}
}

func BenchmarkMattnRuneWidth(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = runewidth.RuneWidth(ForBenchRune)
	}
}
