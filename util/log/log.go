// package log defines strict logger types, which is referenced from
// https://dave.cheney.net/2015/11/05/lets-talk-about-logging.
//
// Warn* is added on top of that for the failure reports which a user of
// save files should see even at the quietest level.
package log

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

const (
	// These are specifies logging level.
	// WarnLevel outputs only Warn*.
	// InfoLevel outputs Warn* and Info*.
	// DebugLevel outputs all of outputting call, Warn*, Info* and Debug*.
	WarnLevel  = iota - 1 // output only Warn*
	InfoLevel             // output Warn* and Info*
	DebugLevel            // output all
)

// DebugPrefix and WarnPrefix are 2nd prefix of outputting text when call Debug* or Warn*.
// The most left prefix is which is used for SetPrefix or New(.., prefix, ...).
const (
	DebugPrefix = "DEBUG: "
	WarnPrefix  = "WARN: "
)

// ErrOutputDiscardedByLevel indicates log output is discarded by different level, e.g. Debug() with info level.
var ErrOutputDiscardedByLevel = errors.New("log output discarded by different log level")

// Simple logger which has 3 levels, warn, info and debug.
// Its output error is not retruned for convinient purpose. the latest output error
// is recorded internally and can be retrived later from Err() API.
type Logger struct {
	logger *log.Logger

	mu          sync.Mutex
	level       int // output level, under the mutex.
	internalErr error
}

func (l *Logger) output(calldepth int, level int, prefix, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level < level {
		l.internalErr = ErrOutputDiscardedByLevel
		return
	}
	l.internalErr = l.logger.Output(calldepth, prefix+msg)
}

func (l *Logger) Warn(v ...interface{})   { l.output(3, WarnLevel, WarnPrefix, fmt.Sprint(v...)) }
func (l *Logger) Warnln(v ...interface{}) { l.output(3, WarnLevel, WarnPrefix, fmt.Sprintln(v...)) }
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.output(3, WarnLevel, WarnPrefix, fmt.Sprintf(format, v...))
}

func (l *Logger) Info(v ...interface{})   { l.output(3, InfoLevel, "", fmt.Sprint(v...)) }
func (l *Logger) Infoln(v ...interface{}) { l.output(3, InfoLevel, "", fmt.Sprintln(v...)) }
func (l *Logger) Infof(format string, v ...interface{}) {
	l.output(3, InfoLevel, "", fmt.Sprintf(format, v...))
}

func (l *Logger) Debug(v ...interface{})   { l.output(3, DebugLevel, DebugPrefix, fmt.Sprint(v...)) }
func (l *Logger) Debugln(v ...interface{}) { l.output(3, DebugLevel, DebugPrefix, fmt.Sprintln(v...)) }
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.output(3, DebugLevel, DebugPrefix, fmt.Sprintf(format, v...))
}

func (l *Logger) SetOutput(w io.Writer) {
	l.logger.SetOutput(w)
}

// set logging level.
func (l *Logger) SetLevel(level int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// return current logging level.
func (l *Logger) Level() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// same as standard package's log
func (l *Logger) SetFlags(flag int) { l.logger.SetFlags(flag) }

// same as standard package's log
func (l *Logger) SetPrefix(prefix string) { l.logger.SetPrefix(prefix) }

// Err returns last internal erorr in logger.
// If discarding output message by log level, for example Debug() is discarded with info level,
// Err() should returns ErrOutputDiscardedByLevel.
func (l *Logger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.internalErr
}

const (
	// These flags are same as log package's.
	Ldate         = log.Ldate
	Ltime         = log.Ltime
	Lmicroseconds = log.Lmicroseconds
	Lshortfile    = log.Lshortfile
	LstdFlags     = log.LstdFlags
)

// construct new Logger. default output level is InfoLevel.
func New(out io.Writer, prefix string, flag int) *Logger {
	return &Logger{
		logger: log.New(out, prefix, flag),
		level:  InfoLevel,
	}
}

var std = New(os.Stderr, "", LstdFlags)

func Warn(v ...interface{})   { std.output(3, WarnLevel, WarnPrefix, fmt.Sprint(v...)) }
func Warnln(v ...interface{}) { std.output(3, WarnLevel, WarnPrefix, fmt.Sprintln(v...)) }
func Warnf(format string, v ...interface{}) {
	std.output(3, WarnLevel, WarnPrefix, fmt.Sprintf(format, v...))
}

func Info(v ...interface{})   { std.output(3, InfoLevel, "", fmt.Sprint(v...)) }
func Infoln(v ...interface{}) { std.output(3, InfoLevel, "", fmt.Sprintln(v...)) }
func Infof(format string, v ...interface{}) {
	std.output(3, InfoLevel, "", fmt.Sprintf(format, v...))
}

func Debug(v ...interface{})   { std.output(3, DebugLevel, DebugPrefix, fmt.Sprint(v...)) }
func Debugln(v ...interface{}) { std.output(3, DebugLevel, DebugPrefix, fmt.Sprintln(v...)) }
func Debugf(format string, v ...interface{}) {
	std.output(3, DebugLevel, DebugPrefix, fmt.Sprintf(format, v...))
}

func SetOutput(w io.Writer) { std.SetOutput(w) }

// set logging level to default logger.
func SetLevel(level int) { std.SetLevel(level) }

// return current logging level for default logger.
func Level() int { return std.Level() }

func SetFlags(flag int) { std.SetFlags(flag) }

func SetPrefix(prefix string) { std.SetPrefix(prefix) }

func Err() error { return std.Err() }

// LimitWriter returns a Writer that writes to w
// but stops with EOF after n bytes.
func LimitWriter(w io.Writer, n int64) io.Writer { return &LimitedWriter{w, n} }

// A LimitedWriter writes to W but limits the amount of
// data returned to just N bytes. Each call to Write
// updates N to reflect the new amount remaining.
type LimitedWriter struct {
	W io.Writer // underlying writer
	N int64     // max bytes remaining
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.N <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > l.N {
		p = p[0:l.N]
	}
	n, err = l.W.Write(p)
	l.N -= int64(n)
	return
}
