package buildinfo

import (
	"fmt"

	"github.com/mzki/gamesave/savefile"
)

// BuildInfo cotains build information supplied at compile time.
type BuildInfo struct {
	Version    string // build version. e.g. v0.10.0
	CommitHash string // commit hash in vcs. e.g. git commit hash

	// version of save file layout which this build writes and accepts.
	FormatVersion uint32
}

var (
	// Those parameter can be supplied from compiler.
	// go build -ldflags "-X github.com/mzki/gamesave/infra/buildinfo.version=v0.1.2 -X github.com/mzki/gamesave/infra/buildinfo.commitHash=###"
	version    string = "dev"
	commitHash string = "none"
)

// Get returns BuildInfo filling with information supplied at compile time.
func Get() BuildInfo {
	return BuildInfo{
		Version:       version,
		CommitHash:    commitHash,
		FormatVersion: savefile.Version,
	}
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (%s) save format v%d", b.Version, b.CommitHash, b.FormatVersion)
}
