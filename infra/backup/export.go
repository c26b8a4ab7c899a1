// Package backup exports save slots into a zip archive and imports them back.
// Only valid save files are exported, and a slot is overwritten by import
// only when its archived save file is valid.
package backup

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/mzki/gamesave/filesystem"
	"github.com/mzki/gamesave/savefile"
	"github.com/mzki/gamesave/slot"
	"github.com/mzki/gamesave/util/log"
)

// Export archives every valid slot file in namer.Dir into zip file at outPath.
// Broken slots are skipped with warning. It returns slot numbers archived.
// Entries are placed under the directory named by outPath without extension.
func Export(fsys filesystem.FileSystem, namer slot.Namer, outPath string) (archived []int, err error) {
	var archiveBaseName string
	if _, base := filepath.Split(outPath); len(base) == 0 {
		return nil, fmt.Errorf("empty base name is not allowed for output path: %v", outPath)
	} else {
		archiveBaseName = strings.TrimSuffix(base, filepath.Ext(base))
	}

	ids, err := namer.List(fsys)
	if err != nil {
		return nil, err
	}

	outputFile, err := fsys.Store(filepath.Clean(outPath))
	if err != nil {
		return nil, fmt.Errorf("could not open output file: %w", err)
	}
	defer func() {
		if cerr := outputFile.Close(); err == nil {
			err = cerr
		}
	}()

	return ExportWriter(outputFile, archiveBaseName, fsys, namer, ids)
}

// ExportWriter is alternative API with io.Writer for Export. Only the slots of ids are
// archived. See Export documentation for the details.
func ExportWriter(w io.Writer, archiveBaseName string, fsys filesystem.FileSystem, namer slot.Namer, ids []int) (archived []int, err error) {
	zWriter := zip.NewWriter(w)
	defer func() {
		if cerr := zWriter.Close(); err == nil {
			err = cerr
		}
	}()

	archived = make([]int, 0, len(ids))
	for _, id := range ids {
		path := namer.Path(id)
		if _, verr := savefile.Verify(fsys, path); verr != nil {
			log.Warnf("backup: slot %02d is not exported: %v", id, verr)
			continue
		}
		// zip archive uses "/" as path separator.
		name := archiveBaseName + "/" + namer.FileName(id)
		if err := addFileToZipWriter(zWriter, fsys, path, name); err != nil {
			return archived, fmt.Errorf("failed to add %v into zip: %w", path, err)
		}
		archived = append(archived, id)
	}
	return archived, nil
}

func addFileToZipWriter(zWriter *zip.Writer, fsys filesystem.FileSystem, path, name string) error {
	srcFile, err := fsys.Load(path)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Now(),
	}
	if f, ok := srcFile.(interface{ Stat() (fs.FileInfo, error) }); ok {
		if finfo, err := f.Stat(); err == nil {
			header.Modified = finfo.ModTime()
		}
	}

	w, err := zWriter.CreateHeader(header)
	if err != nil {
		return err
	}
	return copyLimited(w, name, srcFile, path)
}
