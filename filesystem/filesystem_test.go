package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGlob(t *testing.T) {
	const GoPattern = "*.go"
	goFiles, err := filepath.Glob(GoPattern)
	if err != nil {
		t.Fatal(err)
	}

	fsGoFiles, err := Glob(GoPattern)
	if err != nil {
		t.Fatal(err)
	}

	if len(fsGoFiles) != len(goFiles) {
		t.Fatalf("differenct glob result len, got %v, expect %v", len(fsGoFiles), len(goFiles))
	}
	for i, f := range goFiles {
		if fsGoFiles[i] != f {
			t.Fatalf("different glob file, got %s, expect %s", fsGoFiles[i], f)
		}
	}

	notFoundAbsPath, err := filepath.Abs("./notfound_dir")
	if err != nil {
		t.Fatal(err)
	}
	absPathFS := &AbsPathFileSystem{CurrentDir: notFoundAbsPath}
	missing, err := GlobFS(absPathFS, GoPattern)
	if err != nil {
		t.Fatal(err)
	}
	if len(missing) > 0 {
		t.Fatalf("given missing pattern, but Glob returns some result: %q", missing)
	}
}

func TestResolvePath(t *testing.T) {
	var testPath = filepath.Clean("path/to/notfound")
	gotPath, err := ResolvePath(testPath)
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != testPath {
		t.Errorf("differenct resolved path: got %v, expect %v", gotPath, testPath)
	}

	testAbsPath, err := filepath.Abs(testPath)
	if err != nil {
		t.Fatal(err)
	}
	gotAbsPath, err := ResolvePathFS(&AbsPathFileSystem{CurrentDir: ""}, testPath)
	if err != nil {
		t.Fatal(err)
	}
	if gotAbsPath != testAbsPath {
		t.Errorf("differenct resolved abs path: got %v, expect %v", gotAbsPath, testAbsPath)
	}
}

func TestOpenWatcher(t *testing.T) {
	tempDir := t.TempDir()
	testPath := filepath.Join(tempDir, "save_00.pcs")

	watcher, err := OpenWatcher()
	if err != nil {
		t.Fatal(err)
	}
	defer watcher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	removeCh := make(chan bool)
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events():
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) == testPath && ev.Has(WatchOpRemove) {
					select {
					case removeCh <- true:
					case <-ctx.Done():
					}
				}
			case err, ok := <-watcher.Errors():
				if !ok {
					return
				}
				t.Error(err)
			case <-ctx.Done():
				return
			}
		}
	}()

	fp, err := os.Create(testPath)
	if err != nil {
		t.Fatal(err)
	}
	fp.Close()

	if err := watcher.Watch(tempDir); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(testPath); err != nil {
		t.Fatal(err)
	}

	select {
	case <-ctx.Done():
		t.Fatal("Failed to receive Remove Event from Watcher", ctx.Err())
	case <-removeCh:
	}
}

func TestMaxLoadSizeFS(t *testing.T) {
	for _, testcase := range []struct {
		name   string
		fsys   FileSystem
		expect int64
	}{
		{"desktop", Desktop, DefaultMaxFileSize},
		{"unlimited", &OSFileSystem{}, 0},
		{"abspath default backend", &AbsPathFileSystem{}, DefaultMaxFileSize},
		{"abspath backend", &AbsPathFileSystem{Backend: &OSFileSystem{MaxFileSize: 10}}, 10},
		{"interop read-only", FromFS(newMapFS()), 0},
		{"interop writable", FromFS(&OSFileSystem{MaxFileSize: 10}), 10},
	} {
		if got := MaxLoadSizeFS(testcase.fsys); got != testcase.expect {
			t.Errorf("%s: got %d, expect %d", testcase.name, got, testcase.expect)
		}
	}
}

func TestStatFS(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "save_00.pcs")
	if err := os.WriteFile(path, []byte("0123"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, fsys := range []FileSystem{Desktop, &AbsPathFileSystem{CurrentDir: dir}} {
		finfo, err := StatFS(fsys, path)
		if err != nil {
			t.Fatal(err)
		}
		if finfo.Size() != 4 {
			t.Errorf("%T: got size %d", fsys, finfo.Size())
		}
		if _, err := StatFS(fsys, filepath.Join(dir, "save_01.pcs")); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("%T: expect fs.ErrNotExist, got %v", fsys, err)
		}
	}

	finfo, err := StatFS(FromFS(newMapFS()), "saves/save_00.pcs")
	if err != nil || finfo.Size() != 10 {
		t.Errorf("interop: got %v, %v", finfo, err)
	}

	if _, err := StatFS(nopFileSystem{}, path); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expect ErrUnsupported, got %v", err)
	}
}

// nopFileSystem implements only FileSystem.
type nopFileSystem struct{ FileSystem }
