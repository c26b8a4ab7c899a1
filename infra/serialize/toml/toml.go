package toml

import (
	"io"

	"github.com/BurntSushi/toml"

	"github.com/mzki/gamesave/filesystem"
	"github.com/mzki/gamesave/util/errutil"
	"github.com/mzki/gamesave/util/log"
)

// encode data to Writer.
func Encode(w io.Writer, data interface{}) error {
	enc := toml.NewEncoder(w)
	return enc.Encode(data)
}

// encode data to file.
func EncodeFile(file string, data interface{}) error {
	return EncodeFileFS(filesystem.Default, file, data)
}

// encode data to file under fs. Failure of closing file is also reported.
func EncodeFileFS(fs filesystem.FileSystem, file string, data interface{}) (err error) {
	fp, err := fs.Store(file)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fp.Close(); err == nil {
			err = cerr
		}
	}()
	w := errutil.NewErrWriter(fp)
	if err := Encode(w, data); err != nil {
		return err
	}
	return w.Err()
}

// decode from reader and store it to data.
// Unknown keys are not error, but logged as warning.
func Decode(r io.Reader, data interface{}) error {
	meta, err := toml.NewDecoder(r).Decode(data)
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		log.Warnf("toml.Decode: undecoded keys exist, %v", undecoded)
	}
	return err
}

// decode from file and store it to data.
func DecodeFile(file string, data interface{}) error {
	return DecodeFileFS(filesystem.Default, file, data)
}

// decode from file under fs and store it to data.
func DecodeFileFS(fs filesystem.FileSystem, file string, data interface{}) error {
	fp, err := fs.Load(file)
	if err != nil {
		return err
	}
	defer fp.Close()
	return Decode(fp, data)
}
