package logging

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions configures a rotating log file.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	Level      slog.Level
}

// NewFileLogger returns a JSON logger writing to a size-rotated file.
// The interactive client uses it so that log lines never interleave with the
// REPL prompt. The returned closer releases the file handle.
func NewFileLogger(opts FileOptions) (*SlogLogger, io.Closer) {
	w := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		Compress:   false,
	}
	return NewJSONLogger(w, opts.Level), w
}
