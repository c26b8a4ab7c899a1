package repo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
	"github.com/ugorji/go/codec"

	"github.com/mzki/gamesave/filesystem"
	"github.com/mzki/gamesave/savefile"
	"github.com/mzki/gamesave/slot"
	"github.com/mzki/gamesave/util/log"
)

// ErrInvalidSlot is returned for slot number out of [0, slot.Count).
var ErrInvalidSlot = errors.New("repo: slot number out of range")

// Repository is a abstract data-store which persists game state snapshot
// into numbered slots.
type Repository interface {
	// Exist returns whether the slot has a save file.
	Exist(ctx context.Context, id int) bool

	// Save persists payload with comment into the slot.
	Save(ctx context.Context, id int, comment savefile.Comment, payload []byte) error

	// Load restores payload from the slot. It returns nil payload with error
	// when the slot is empty or broken.
	Load(ctx context.Context, id int) ([]byte, error)

	// LoadComment returns only the comment of the slot.
	LoadComment(ctx context.Context, id int) (savefile.Comment, error)

	// LoadCommentList returns comments of the slots. If id list is empty,
	// every existing slot is listed.
	LoadCommentList(ctx context.Context, ids ...int) ([]SlotInfo, error)
}

// SlotInfo is an entry of slot listing.
type SlotInfo struct {
	Slot    int
	Path    string
	Comment savefile.Comment
	Err     error // non-nil if the comment could not be read.
}

// FileRepository stores slots as save files under Config.SaveFileDir.
// It implements Repository.
type FileRepository struct {
	config Config
	fsys   filesystem.FileSystem
	namer  slot.Namer

	shotsOnce sync.Once
	shots     *slot.ScreenshotCounter

	mu    sync.Mutex
	cache *lru.Cache // path -> cachedComment, under mutex.
}

// cachedComment is valid while the file keeps its size and modification time.
type cachedComment struct {
	comment savefile.Comment
	size    int64
	modTime time.Time
}

func (c cachedComment) validFor(finfo fs.FileInfo) bool {
	return c.size == finfo.Size() && c.modTime.Equal(finfo.ModTime())
}

// NewFileRepository returns FileRepository. filesystem.Default is used
// when fsys is nil.
func NewFileRepository(fsys filesystem.FileSystem, config Config) *FileRepository {
	if fsys == nil {
		fsys = filesystem.Default
	}
	cacheSize := config.CommentCacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultCommentCacheSize
	}
	return &FileRepository{
		config: config,
		fsys:   fsys,
		namer:  slot.NewNamer(config.SaveFileDir),
		cache:  lru.New(cacheSize),
	}
}

// Path returns save file path of the slot.
func (repo *FileRepository) Path(id int) string {
	return repo.namer.Path(id)
}

// Namer returns the slot naming of the repository.
func (repo *FileRepository) Namer() slot.Namer {
	return repo.namer
}

// FileSystem returns the underlying FileSystem.
func (repo *FileRepository) FileSystem() filesystem.FileSystem {
	return repo.fsys
}

func checkSlot(id int) error {
	if id < 0 || id >= slot.Count {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, id)
	}
	return nil
}

func (repo *FileRepository) Exist(ctx context.Context, id int) bool {
	if checkSlot(id) != nil || ctx.Err() != nil {
		return false
	}
	return repo.fsys.Exist(repo.namer.Path(id))
}

// Save persists payload into the slot. The save directory is created if missing.
func (repo *FileRepository) Save(ctx context.Context, id int, comment savefile.Comment, payload []byte) error {
	if err := checkSlot(id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// failure is left to savefile.Save which reports it as io error.
	if _, err := filesystem.EnsureDirFS(repo.fsys, repo.namer.Dir); err != nil {
		log.Warnf("Couldn't create saves directory: %v", err)
	}

	path := repo.namer.Path(id)
	if err := savefile.Save(repo.fsys, path, comment, payload); err != nil {
		// the file may be truncated.
		repo.forget(path)
		return err
	}
	repo.remember(path, comment)
	return nil
}

func (repo *FileRepository) Load(ctx context.Context, id int) ([]byte, error) {
	if err := checkSlot(id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := repo.namer.Path(id)
	payload, err := savefile.Load(repo.fsys, path)
	if err != nil {
		repo.forget(path)
	}
	return payload, err
}

func (repo *FileRepository) LoadComment(ctx context.Context, id int) (savefile.Comment, error) {
	if err := checkSlot(id); err != nil {
		return savefile.Comment{}, err
	}
	if err := ctx.Err(); err != nil {
		return savefile.Comment{}, err
	}
	return repo.loadComment(repo.namer.Path(id))
}

// loadComment returns the cached comment while the file is unchanged,
// otherwise reads it from the file.
func (repo *FileRepository) loadComment(path string) (savefile.Comment, error) {
	if finfo, err := filesystem.StatFS(repo.fsys, path); err == nil {
		repo.mu.Lock()
		v, ok := repo.cache.Get(path)
		repo.mu.Unlock()
		if ok && v.(cachedComment).validFor(finfo) {
			return v.(cachedComment).comment, nil
		}
	}

	comment, err := savefile.LoadComment(repo.fsys, path)
	if err != nil {
		repo.forget(path)
		return savefile.Comment{}, err
	}
	repo.remember(path, comment)
	return comment, nil
}

// remember caches the comment of the file at path. Nothing is cached if
// the file info is not available.
func (repo *FileRepository) remember(path string, comment savefile.Comment) {
	finfo, err := filesystem.StatFS(repo.fsys, path)
	if err != nil {
		repo.forget(path)
		return
	}
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.cache.Add(path, cachedComment{comment: comment, size: finfo.Size(), modTime: finfo.ModTime()})
}

func (repo *FileRepository) forget(path string) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.cache.Remove(path)
}

func (repo *FileRepository) LoadCommentList(ctx context.Context, ids ...int) ([]SlotInfo, error) {
	if len(ids) == 0 {
		var err error
		if ids, err = repo.namer.List(repo.fsys); err != nil {
			return nil, err
		}
	}

	list := make([]SlotInfo, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info := SlotInfo{Slot: id}
		if err := checkSlot(id); err != nil {
			info.Err = err
			list = append(list, info)
			continue
		}
		info.Path = repo.namer.Path(id)
		info.Comment, info.Err = repo.loadComment(info.Path)
		list = append(list, info)
	}
	return list, nil
}

// InvalidateCache drops cached comments so that the next listing reads files again.
// A cached comment is also dropped when its file changes size or modification time.
func (repo *FileRepository) InvalidateCache() {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.cache.Clear()
}

// NextScreenshotPath returns a file path for the next screenshot and
// provisions its directory. It returns empty string if the directory
// is not available.
func (repo *FileRepository) NextScreenshotPath() string {
	dir := repo.config.screenshotDir()
	repo.shotsOnce.Do(func() {
		if repo.config.ScanScreenshots {
			repo.shots = slot.NewScreenshotCounterFromDir(repo.fsys, dir)
		} else {
			repo.shots = &slot.ScreenshotCounter{}
		}
	})
	file := repo.shots.Next(dir)
	realDir := filesystem.ScreenshotDir(file)
	if realDir == "" {
		return ""
	}
	return filepath.Join(realDir, filepath.Base(file))
}

// Watch invalidates the comment of a slot file changed by others, e.g. the other
// process or the user. It also catches a rewrite keeping the file size within the
// resolution of modification time. It blocks until ctx is done and returns ctx.Err().
func (repo *FileRepository) Watch(ctx context.Context) error {
	watcher, err := filesystem.OpenWatcherFS(repo.fsys)
	if err != nil {
		return err
	}
	defer watcher.Close()

	if _, err := filesystem.EnsureDirFS(repo.fsys, repo.namer.Dir); err != nil {
		return err
	}
	if err := watcher.Watch(repo.namer.Dir); err != nil {
		return fmt.Errorf("repo: can not watch %s: %w", repo.namer.Dir, err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			id, isSlot := repo.namer.Slot(ev.Name)
			if !isSlot {
				continue
			}
			log.Debugf("repo: slot %02d changed: %v", id, ev)
			repo.forget(repo.namer.Path(id))
		case err, ok := <-watcher.Errors():
			if !ok {
				return nil
			}
			log.Warnf("repo: watching %s: %v", repo.namer.Dir, err)
		}
	}
}

var (
	codecHandler = &codec.MsgpackHandle{WriteExt: true}
)

// SaveValue encodes v by msgpack and saves it as payload.
func (repo *FileRepository) SaveValue(ctx context.Context, id int, comment savefile.Comment, v interface{}) error {
	var buf bytes.Buffer
	if err := serialize(&buf, v); err != nil {
		return fmt.Errorf("repo: can not encode slot %d: %w", id, err)
	}
	return repo.Save(ctx, id, comment, buf.Bytes())
}

// LoadValue loads payload of the slot and decodes it into v.
func (repo *FileRepository) LoadValue(ctx context.Context, id int, v interface{}) error {
	payload, err := repo.Load(ctx, id)
	if err != nil {
		return err
	}
	if err := deserialize(bytes.NewReader(payload), v); err != nil {
		return fmt.Errorf("repo: can not decode slot %d: %w", id, err)
	}
	return nil
}

func serialize(w io.Writer, data interface{}) error {
	enc := codec.NewEncoder(w, codecHandler)
	return enc.Encode(data)
}

func deserialize(r io.Reader, data interface{}) error {
	dec := codec.NewDecoder(r, codecHandler)
	return dec.Decode(data)
}
