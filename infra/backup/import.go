package backup

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"

	"github.com/mzki/gamesave/filesystem"
	"github.com/mzki/gamesave/savefile"
	"github.com/mzki/gamesave/slot"
	"github.com/mzki/gamesave/util/errutil"
	"github.com/mzki/gamesave/util/log"
)

// Import restores slot files from zip archive at zipPath into namer.Dir.
// Entries which are not slot files are ignored. An invalid slot entry is
// skipped and its error is reported together after the other slots are restored.
// It returns slot numbers restored.
func Import(fsys filesystem.FileSystem, namer slot.Namer, zipPath string) ([]int, error) {
	file, err := fsys.Load(zipPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var (
		readerAt io.ReaderAt
		size     int64 = -1
	)
	if f, ok := file.(interface{ Stat() (fs.FileInfo, error) }); ok {
		if finfo, err := f.Stat(); err == nil {
			size = finfo.Size()
		}
	}
	if r, ok := file.(io.ReaderAt); ok && size >= 0 {
		readerAt = r
	} else {
		// fallback method: put all content in memory.
		bs, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("read content failed for %v: %w", zipPath, err)
		}
		readerAt = bytes.NewReader(bs)
		size = int64(len(bs))
	}
	return ImportReader(fsys, namer, readerAt, size)
}

// ImportReader is alternative API with io.ReaderAt for Import. See Import documentation for the details.
func ImportReader(fsys filesystem.FileSystem, namer slot.Namer, r io.ReaderAt, rSize int64) ([]int, error) {
	zReader, err := zip.NewReader(r, rSize)
	if err != nil {
		return nil, err
	}
	if _, err := filesystem.EnsureDirFS(fsys, namer.Dir); err != nil {
		log.Warnf("Couldn't create saves directory: %v", err)
	}

	// entries are read through fs.FS interface of the archive.
	archive := filesystem.FromFS(zReader)
	restored := make([]int, 0, len(zReader.File))
	merr := errutil.NewMultiError()
	for _, file := range zReader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		// only base name is used, so entry never points outside of namer.Dir.
		id, ok := namer.Slot(file.Name)
		if !ok || file.NonUTF8 {
			log.Debugf("backup: %v is not a slot file, ignored", file.Name)
			continue
		}

		comment, payload, err := readZipEntry(archive, file)
		if err != nil {
			log.Warnf("backup: slot %02d is not imported: %v", id, err)
			merr.Add(err)
			continue
		}
		if err := savefile.Save(fsys, namer.Path(id), comment, payload); err != nil {
			return restored, err
		}
		restored = append(restored, id)
	}
	return restored, merr.Err()
}

func readZipEntry(archive filesystem.FileSystem, file *zip.File) (savefile.Comment, []byte, error) {
	if file.UncompressedSize64 >= uint64(MaxFileSizePlus1InByte) {
		return savefile.Comment{}, nil, &fs.PathError{Op: "import", Path: file.Name, Err: ErrTooLargeBytes}
	}
	return savefile.LoadWithComment(archive, file.Name)
}
