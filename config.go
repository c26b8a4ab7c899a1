// Package gamesave holds the configuration of the save subsystem and its
// command line tool.
package gamesave

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mzki/gamesave/filesystem"
	"github.com/mzki/gamesave/infra/repo"
	"github.com/mzki/gamesave/infra/serialize/toml"
	"github.com/mzki/gamesave/util/log"
)

const (
	// default configuration file.
	ConfigFile = "gamesave.conf"

	// by default, use current dir of running main.
	DefaultBaseDir = "./"

	LogFileStdOut  = "stdout"       // specify log outputs to stdout
	LogFileStdErr  = "stderr"       // specify log outputs to stderr
	DefaultLogFile = LogFileStdErr // default output log.

	LogLevelWarn            = "warn"  // logging only warnings.
	LogLevelInfo            = "info"  // logging warning and information level.
	LogLevelDebug           = "debug" // logging all levels.
	DefaultLogLevel         = LogLevelInfo
	DefaultLogLimitMegaByte = 10 // 10 * 1000 * 1000 Bytes
)

// Config holds parameters of the save subsystem.
// It might be constructed by NewConfig, not Config{}.
type Config struct {
	LogFile          string `toml:"logfile"`
	LogLevel         string `toml:"loglevel"`
	LogLimitMegaByte int64  `toml:"loglimit_megabytes"`

	RepoConfig repo.Config `toml:"save"`
}

// return default config. if baseDir is empty
// use default insteadly.
func NewConfig(baseDir string) *Config {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	return &Config{
		LogFile:          DefaultLogFile,
		LogLevel:         DefaultLogLevel,
		LogLimitMegaByte: DefaultLogLimitMegaByte,
		RepoConfig:       repo.NewConfig(baseDir),
	}
}

// ErrDefaultConfigGenerated implies that the specified config file is not found,
// and intead of that default config is generated and used.
var ErrDefaultConfigGenerated error = errors.New("default config generated")

// if config file exists load it and return.
// if not exists return default config and write it.
func LoadConfigOrDefault(file string) (*Config, error) {
	if !filesystem.Exist(file) {
		conf := NewConfig(DefaultBaseDir)
		// write default config
		if err := toml.EncodeFile(file, conf); err != nil {
			return nil, err
		}
		return conf, ErrDefaultConfigGenerated
	}

	conf := NewConfig(DefaultBaseDir) // default value will be remain when missing at decoded config.
	if err := toml.DecodeFile(file, conf); err != nil {
		return nil, err
	}
	return conf, nil
}

// set up log configuration and return finalize function with internal error.
// when returned error, the finalize function is nil and need not be called.
func SetupLogConfig(conf *Config) (func(), error) {
	// set log level.
	switch level := conf.LogLevel; level {
	case LogLevelWarn:
		log.SetLevel(log.WarnLevel)
	case LogLevelInfo:
		log.SetLevel(log.InfoLevel)
	case LogLevelDebug:
		log.SetLevel(log.DebugLevel)
	default:
		log.Warnf("unknown log level(%s). use 'info' level insteadly.", level)
		log.SetLevel(log.InfoLevel)
	}

	// set log distination
	var (
		dstString string
		writer    io.Writer
		closeFunc func()
	)
	switch logfile := conf.LogFile; logfile {
	case LogFileStdOut:
		dstString = "Stdout"
		writer = os.Stdout
		closeFunc = func() {}
	case LogFileStdErr, "":
		dstString = "Stderr"
		writer = os.Stderr
		closeFunc = func() {}
	default:
		dstString = logfile
		fp, err := filesystem.Store(logfile)
		if err != nil {
			return nil, err
		}
		writer = fp
		closeFunc = func() { fp.Close() }
	}
	logLimit := conf.LogLimitMegaByte * 1000 * 1000
	if logLimit < 0 {
		logLimit = 0
	}
	log.SetOutput(log.LimitWriter(writer, logLimit))
	if err := testingLogOutput("log output sanity check..."); err != nil {
		closeFunc()
		return nil, err
	}
	log.Debugf("Output log to %s", dstString)

	return closeFunc, nil
}

func testingLogOutput(msg string) error {
	log.Debug(msg)
	err := log.Err()
	switch {
	case errors.Is(err, log.ErrOutputDiscardedByLevel):
	case errors.Is(err, io.EOF):
	case err == nil:
	default:
		return fmt.Errorf("log output error: %w", err)
	}
	return nil // normal operation
}
