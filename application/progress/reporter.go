package progress

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"tubefetch/domain/media"
)

const (
	// CompletedTimeLayout is the wall-clock layout of the completion block
	CompletedTimeLayout = "15:04:05"

	defaultSpinInterval = 100 * time.Millisecond
	banner              = "======================================================="
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// FileSizer reports the size of a produced file
type FileSizer interface {
	Size(path string) int64
}

// Reporter renders transfer progress and completion summaries.
// It implements media.ProgressListener.
type Reporter struct {
	mu       sync.Mutex
	out      io.Writer
	quiet    bool
	sizer    FileSizer
	now      func() time.Time
	interval time.Duration

	spinning    bool
	spinDrawn   bool
	progressing bool
	halt        chan struct{}
	haltOnce    sync.Once
	wg          sync.WaitGroup
}

// Option is a functional option for configuring Reporter
type Option func(*Reporter)

// WithClock sets the clock used for completion timestamps
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		r.now = now
	}
}

// WithSpinInterval sets the spinner frame interval
func WithSpinInterval(d time.Duration) Option {
	return func(r *Reporter) {
		if d > 0 {
			r.interval = d
		}
	}
}

// NewReporter creates a reporter writing to out. quiet suppresses the
// in-progress line and the spinner.
func NewReporter(out io.Writer, quiet bool, sizer FileSizer, opts ...Option) *Reporter {
	r := &Reporter{
		out:      out,
		quiet:    quiet,
		sizer:    sizer,
		now:      time.Now,
		interval: defaultSpinInterval,
		halt:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Begin starts the spinner in verbose mode. The returned function stops it
// and must be called before any result is printed; it is safe to call twice.
func (r *Reporter) Begin(ctx context.Context) (stop func()) {
	if r.quiet {
		return func() {}
	}

	r.mu.Lock()
	r.spinning = true
	r.mu.Unlock()

	r.wg.Add(1)
	go r.spin(ctx)

	return func() {
		r.stopSpinner()
		r.wg.Wait()
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.progressing || r.spinDrawn {
			fmt.Fprintln(r.out)
			r.progressing = false
			r.spinDrawn = false
		}
	}
}

func (r *Reporter) spin(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		r.mu.Lock()
		if r.spinning {
			fmt.Fprintf(r.out, "\rStarting download... %s", spinnerFrames[frame%len(spinnerFrames)])
			r.spinDrawn = true
		}
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return
		case <-r.halt:
			return
		case <-ticker.C:
		}
	}
}

func (r *Reporter) stopSpinner() {
	r.haltOnce.Do(func() {
		close(r.halt)
	})
	r.mu.Lock()
	r.spinning = false
	r.mu.Unlock()
}

// Progress renders an in-flight update. Quiet mode prints nothing.
func (r *Reporter) Progress(p media.Progress) {
	if r.quiet {
		return
	}
	if p.Status != "" && p.Status != "downloading" {
		return
	}
	r.stopSpinner()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spinDrawn && !r.progressing {
		// clear the spinner frame
		fmt.Fprintf(r.out, "\r%s\r", strings.Repeat(" ", 32))
	}
	fmt.Fprintf(r.out, "\rDownloading... %s | Speed: %s | ETA: %s",
		orNA(p.Percent), orNA(p.Speed), orNA(p.ETA))
	r.progressing = true
}

// Finished prints the completion block for path regardless of quiet mode
func (r *Reporter) Finished(path string) {
	r.stopSpinner()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progressing || r.spinDrawn {
		fmt.Fprintln(r.out)
		r.progressing = false
		r.spinDrawn = false
	}

	if path == "" {
		fmt.Fprintln(r.out, "Download Completed Successfully")
		fmt.Fprintln(r.out, "File saved: Unknown (check download folder)")
		fmt.Fprintln(r.out)
		return
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	var size int64
	if r.sizer != nil {
		size = r.sizer.Size(path)
	}

	fmt.Fprintln(r.out, banner)
	fmt.Fprintln(r.out, "            DOWNLOAD COMPLETED")
	fmt.Fprintln(r.out, banner)
	fmt.Fprintf(r.out, "File name:    %s\n", filepath.Base(path))
	fmt.Fprintf(r.out, "Location:     %s\n", filepath.Dir(path))
	fmt.Fprintf(r.out, "File size:    %s MB\n", media.FormatSizeMB(size))
	fmt.Fprintf(r.out, "Completed at: %s\n", r.now().Format(CompletedTimeLayout))
	fmt.Fprintln(r.out, banner)
	fmt.Fprintln(r.out)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

var _ media.ProgressListener = (*Reporter)(nil)
