package toml

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mzki/gamesave/filesystem"
)

type testConfig struct {
	Dir   string `toml:"dir"`
	Level string `toml:"level"`
	Size  int    `toml:"size"`
}

func TestEncodeDecode(t *testing.T) {
	in := testConfig{Dir: "saves", Level: "info", Size: 10}
	var buf bytes.Buffer
	if err := Encode(&buf, in); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `dir = "saves"`) {
		t.Errorf("unexpected encoded text: %s", buf.String())
	}

	var out testConfig
	if err := Decode(&buf, &out); err != nil {
		t.Fatal(err)
	}
	if in != out {
		t.Errorf("different decoded value, expect %v, got %v", in, out)
	}
}

func TestDecodeUnknownKey(t *testing.T) {
	var out testConfig
	if err := Decode(strings.NewReader("dir = \"a\"\nunknown = 1\n"), &out); err != nil {
		t.Fatalf("unknown key must not be error: %v", err)
	}
	if out.Dir != "a" {
		t.Errorf("got %v", out.Dir)
	}
}

func TestDecodeSyntaxError(t *testing.T) {
	var out testConfig
	if err := Decode(strings.NewReader("dir = "), &out); err == nil {
		t.Error("broken toml must be error")
	}
}

func TestEncodeDecodeFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.toml")
	in := testConfig{Dir: "x", Level: "debug", Size: 3}
	if err := EncodeFileFS(filesystem.Desktop, file, in); err != nil {
		t.Fatal(err)
	}
	var out testConfig
	if err := DecodeFile(file, &out); err != nil {
		t.Fatal(err)
	}
	if in != out {
		t.Errorf("different decoded value, expect %v, got %v", in, out)
	}

	if err := DecodeFile(filepath.Join(t.TempDir(), "missing.toml"), &out); err == nil {
		t.Error("missing file must be error")
	}
}
