// Package logging builds the shared logger: stderr for the interactive
// session plus an optional size-rotated log file, so prune warnings and
// server activity survive the terminal.
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a logger writing to stderr and, when path is non-empty,
// to a rotated file as well. Rotation keeps a few small files around;
// the tracker's log volume is tiny, the cap just stops unbounded
// growth.
func New(prefix, path string) *log.Logger {
	var w io.Writer = os.Stderr
	if path != "" {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}
	return log.New(w, prefix, log.LstdFlags)
}

// NewFileOnly returns a logger writing only to the rotated file, for
// paths where stderr noise is unwanted. Falls back to stderr when path
// is empty.
func NewFileOnly(prefix, path string) *log.Logger {
	if path == "" {
		return log.New(os.Stderr, prefix, log.LstdFlags)
	}
	return log.New(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    5,
		MaxBackups: 3,
		MaxAge:     28,
	}, prefix, log.LstdFlags)
}
