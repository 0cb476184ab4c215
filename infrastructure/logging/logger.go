package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Options controls the diagnostic logger
type Options struct {
	Enabled bool
	Debug   bool
	Path    string
}

// New returns a logger writing to opts.Path. The terminal belongs to the menu
// and progress output, so diagnostics never go to stdout. A disabled logger
// discards everything. The returned closer releases the log file.
func New(fs afero.Fs, opts Options) (zerolog.Logger, io.Closer, error) {
	if !opts.Enabled || opts.Path == "" {
		return zerolog.Nop(), nopCloser{}, nil
	}

	if err := fs.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := fs.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("failed to open log file: %w", err)
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	return NewWithWriter(f, level), f, nil
}

// NewWithWriter returns a console-formatted logger on w
func NewWithWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
