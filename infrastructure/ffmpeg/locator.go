package ffmpeg

import (
	"errors"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"
)

// ErrNotFound is returned when neither a bundled nor a system ffmpeg exists
var ErrNotFound = errors.New("ffmpeg not found")

// BundledDirName is the folder next to the executable holding bundled ffmpeg builds
const BundledDirName = "FFmpeg"

// Location is a resolved ffmpeg executable
type Location struct {
	Path    string
	Bundled bool
}

// Locator finds the transcoder, preferring a bundled copy over the system one
type Locator struct {
	fs         afero.Fs
	installDir string
	goos       string
	lookPath   func(file string) (string, error)
}

// LocatorOption is a functional option for configuring Locator
type LocatorOption func(*Locator)

// WithLookPath sets the PATH lookup function (for testing)
func WithLookPath(fn func(string) (string, error)) LocatorOption {
	return func(l *Locator) {
		l.lookPath = fn
	}
}

// WithGOOS overrides the operating system used to pick the bundled build
func WithGOOS(goos string) LocatorOption {
	return func(l *Locator) {
		l.goos = goos
	}
}

// NewLocator creates a locator for bundled builds under installDir
func NewLocator(fs afero.Fs, installDir string, opts ...LocatorOption) *Locator {
	l := &Locator{
		fs:         fs,
		installDir: installDir,
		goos:       runtime.GOOS,
		lookPath:   exec.LookPath,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// BundledPath returns where a bundled ffmpeg is expected:
// <install>/FFmpeg/<goos>/ffmpeg, with .exe on windows.
func (l *Locator) BundledPath() string {
	name := "ffmpeg"
	if l.goos == "windows" {
		name = "ffmpeg.exe"
	}
	return filepath.Join(l.installDir, BundledDirName, l.goos, name)
}

// Locate resolves the ffmpeg to use. override, when set, wins outright.
func (l *Locator) Locate(override string) (Location, error) {
	if override != "" {
		return Location{Path: override}, nil
	}

	bundled := l.BundledPath()
	if info, err := l.fs.Stat(bundled); err == nil && !info.IsDir() {
		return Location{Path: bundled, Bundled: true}, nil
	}

	path, err := l.lookPath("ffmpeg")
	if err != nil {
		return Location{}, ErrNotFound
	}
	return Location{Path: path}, nil
}
