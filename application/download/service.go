package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"tubefetch/application/probe"
	"tubefetch/application/progress"
	"tubefetch/domain/history"
	"tubefetch/domain/media"
	"tubefetch/domain/persistence"
	"tubefetch/infrastructure/config"
	"tubefetch/infrastructure/filesystem"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// DefaultRetryDelay is the fixed pause before an automatic retry
const DefaultRetryDelay = 2 * time.Second

// fallbackCollectionTitle names the folder of a collection without a title
const fallbackCollectionTitle = "Playlist"

// ErrInterrupted is returned when the run was stopped by the user
var ErrInterrupted = errors.New("download stopped by user")

// Prober classifies a URL before downloading
type Prober interface {
	Probe(ctx context.Context, url string, quiet bool) (media.Info, error)
}

// HistoryLog records finished downloads
type HistoryLog interface {
	Append(entry history.Entry) persistence.Result
}

// Surface asks the user to make decisions during a run.
// Implementations return ErrInterrupted when the user aborts a prompt.
type Surface interface {
	ConfirmCollection(ctx context.Context, collection *media.Collection) (bool, error)
	ChooseFormat(ctx context.Context, formats []media.Format) (string, error)
	ConfirmRetry(ctx context.Context, reason string) (bool, error)
}

// Listener receives progress for one fetch. Begin starts any animation and
// returns the function that stops it.
type Listener interface {
	media.ProgressListener
	Begin(ctx context.Context) (stop func())
}

// ListenerFactory creates the listener for one fetch
type ListenerFactory func(out io.Writer, quiet bool) Listener

// Sleeper waits for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// Result describes a finished run
type Result struct {
	RunID     string
	State     State
	Cancelled bool
	Outcome   media.Outcome
	Attempts  int
	States    []State
	Entries   []history.Entry
	Cleanup   *CleanupResult
}

func (r *Result) enter(s State) {
	r.States = append(r.States, s)
	r.State = s
}

// Service runs downloads: probe, confirm, fetch with retries, clean up, record
type Service struct {
	extractor      media.Extractor
	prober         Prober
	history        HistoryLog
	surface        Surface
	fs             afero.Fs
	output         io.Writer
	sleep          Sleeper
	retryDelay     time.Duration
	now            func() time.Time
	newListener    ListenerFactory
	logger         zerolog.Logger
	transcoderPath string
}

// ServiceOption is a functional option for configuring Service
type ServiceOption func(*Service)

// WithSleeper sets the function used to wait between retries
func WithSleeper(sleep Sleeper) ServiceOption {
	return func(s *Service) {
		s.sleep = sleep
	}
}

// WithRetryDelay sets the pause before an automatic retry
func WithRetryDelay(d time.Duration) ServiceOption {
	return func(s *Service) {
		s.retryDelay = d
	}
}

// WithClock sets the clock used for history timestamps
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// WithListenerFactory sets how progress listeners are created
func WithListenerFactory(f ListenerFactory) ServiceOption {
	return func(s *Service) {
		s.newListener = f
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTranscoderPath sets the ffmpeg executable handed to the extractor
func WithTranscoderPath(path string) ServiceOption {
	return func(s *Service) {
		s.transcoderPath = path
	}
}

// NewService creates a new download service
func NewService(
	extractor media.Extractor,
	prober Prober,
	historyLog HistoryLog,
	surface Surface,
	fs afero.Fs,
	output io.Writer,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		extractor:  extractor,
		prober:     prober,
		history:    historyLog,
		surface:    surface,
		fs:         fs,
		output:     output,
		sleep:      sleepContext,
		retryDelay: DefaultRetryDelay,
		now:        time.Now,
		logger:     zerolog.Nop(),
	}
	s.newListener = func(out io.Writer, quiet bool) Listener {
		return progress.NewReporter(out, quiet, filesystem.NewCheckerWithFS(s.fs))
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run downloads url in mode using cfg. It returns ErrInterrupted when ctx is
// cancelled or the user aborts a prompt; every other failure is reported in
// the Result.
func (s *Service) Run(ctx context.Context, url string, mode media.Mode, cfg config.Config) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	log := s.logger.With().
		Str("run_id", res.RunID).
		Str("url", url).
		Str("mode", mode.Label()).
		Logger()
	res.enter(StateIdle)

	res.enter(StateProbing)
	collection, done, err := s.probe(ctx, url, cfg.QuietMode, res, log)
	if err != nil || done {
		return res, err
	}

	format := ""
	if mode == media.ModeManualFormat {
		format, done, err = s.chooseFormat(ctx, url, res, log)
		if err != nil || done {
			return res, err
		}
	}

	req, err := s.prepare(url, mode, format, collection, cfg)
	if err != nil {
		res.Outcome = media.Failed(err.Error())
		res.enter(StateFailed)
		return res, nil
	}
	log.Info().
		Str("format", req.Format).
		Str("output", req.OutputTemplate).
		Bool("collection", req.Collection).
		Msg("download prepared")

	for cycle := 1; ; cycle++ {
		outcome, fetched, err := s.fetchWithRetry(ctx, req, cfg, res, log)
		if err != nil {
			return res, err
		}

		res.enter(StateLogging)
		entry := history.NewEntry(s.now(), url, historyFilename(collection, fetched), mode, outcome)
		if r := s.history.Append(entry); r.Failed() {
			log.Warn().Err(r.Err).Str("path", r.Path).Msg("history not saved")
		}
		res.Entries = append(res.Entries, entry)
		res.Outcome = outcome

		if outcome.Success {
			log.Info().Int("attempts", res.Attempts).Str("path", outcome.LocalPath).Msg("download finished")
			res.enter(StateDone)
			return res, nil
		}

		log.Warn().Int("attempts", res.Attempts).Str("reason", outcome.Reason).Msg("download failed")
		retry, err := s.surface.ConfirmRetry(ctx, outcome.Reason)
		if err != nil {
			return res, s.interrupted(ctx, err)
		}
		if !retry {
			res.enter(StateFailed)
			return res, nil
		}
		log.Info().Int("cycle", cycle+1).Msg("manual retry")
	}
}

// probe renders pre-flight information and asks for confirmation of
// collections. A probe failure is reported and the run continues as a single
// item. done reports that the user declined the collection.
func (s *Service) probe(ctx context.Context, url string, quiet bool, res *Result, log zerolog.Logger) (collection *media.Collection, done bool, err error) {
	fmt.Fprintln(s.output, "\nFetching video information...")
	info, err := s.prober.Probe(ctx, url, quiet)
	if err != nil {
		if ctx.Err() != nil {
			return nil, true, ErrInterrupted
		}
		log.Warn().Err(err).Msg("probe failed, continuing without media information")
		fmt.Fprintf(s.output, "Warning: %v\n", err)
		return nil, false, nil
	}
	probe.Render(s.output, info)

	collection, ok := info.(*media.Collection)
	if !ok {
		return nil, false, nil
	}

	res.enter(StateAwaitingConfirmation)
	confirmed, err := s.surface.ConfirmCollection(ctx, collection)
	if err != nil {
		return nil, true, s.interrupted(ctx, err)
	}
	if !confirmed {
		log.Info().Msg("playlist download declined")
		fmt.Fprintln(s.output, "Playlist download cancelled.")
		res.Cancelled = true
		res.enter(StateDone)
		return nil, true, nil
	}
	return collection, false, nil
}

// chooseFormat lists the available formats and asks for one. done reports
// that the run has ended without fetching.
func (s *Service) chooseFormat(ctx context.Context, url string, res *Result, log zerolog.Logger) (format string, done bool, err error) {
	fmt.Fprintln(s.output, "\nFetching available formats...")
	formats, err := s.extractor.ListFormats(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return "", true, ErrInterrupted
		}
		log.Warn().Err(err).Msg("format listing failed")
		fmt.Fprintf(s.output, "Failed to fetch formats: %v\n", err)
		res.Outcome = media.Failed(err.Error())
		res.enter(StateFailed)
		return "", true, nil
	}

	format, err = s.surface.ChooseFormat(ctx, formats)
	if err != nil {
		return "", true, s.interrupted(ctx, err)
	}
	format = strings.TrimSpace(format)
	if format == "" {
		fmt.Fprintln(s.output, "No format ID entered")
		res.Cancelled = true
		res.enter(StateDone)
		return "", true, nil
	}
	return format, false, nil
}

func (s *Service) prepare(url string, mode media.Mode, format string, collection *media.Collection, cfg config.Config) (*media.FetchRequest, error) {
	title := ""
	if collection != nil {
		title = strings.TrimSpace(collection.Title)
		if title == "" {
			title = fallbackCollectionTitle
		}
	}

	if err := s.fs.MkdirAll(cfg.DownloadDir, 0755); err != nil {
		s.logger.Warn().Err(err).Str("dir", cfg.DownloadDir).Msg("could not create download folder")
	}

	req, err := media.NewFetchRequest(url, mode, format, media.OutputTemplate(cfg.DownloadDir, title))
	if err != nil {
		return nil, err
	}
	req.Collection = collection != nil
	req.Quiet = cfg.QuietMode
	req.TranscoderPath = s.transcoderPath
	return req, nil
}

// fetchWithRetry runs one retry cycle: the first fetch plus up to
// cfg.MaxRetries automatic retries when cfg.AutoRetry is set.
func (s *Service) fetchWithRetry(ctx context.Context, req *media.FetchRequest, cfg config.Config, res *Result, log zerolog.Logger) (media.Outcome, *media.FetchResult, error) {
	retries := 0
	for {
		res.enter(StateFetching)
		res.Attempts++
		fetched, err := s.fetchOnce(ctx, req, cfg.QuietMode)
		if ctx.Err() != nil {
			return media.Outcome{}, nil, ErrInterrupted
		}

		if err == nil {
			if req.Audio != nil {
				res.enter(StatePostProcessing)
				res.Cleanup = CleanupAudio(s.fs, fetched.Items, req.Audio.Codec)
				for _, f := range res.Cleanup.Failures {
					log.Warn().Err(f.Err).Str("path", f.Path).Msg("could not remove source file")
				}
			}
			return media.Succeeded(fetched.PrimaryPath()), fetched, nil
		}

		reason := err.Error()
		fmt.Fprintf(s.output, "\nDownload Error: %s\n", reason)
		log.Warn().Err(err).Int("attempt", res.Attempts).Msg("fetch failed")

		if !cfg.AutoRetry || retries >= cfg.MaxRetries {
			return media.Failed(reason), nil, nil
		}

		retries++
		res.enter(StateRetrying)
		fmt.Fprintf(s.output, "Retrying... Attempt %d of %d\n", retries, cfg.MaxRetries)
		if err := s.sleep(ctx, s.retryDelay); err != nil {
			return media.Outcome{}, nil, ErrInterrupted
		}
	}
}

// fetchOnce runs a single fetch with a fresh listener. A panic in the
// extractor is returned as an error.
func (s *Service) fetchOnce(ctx context.Context, req *media.FetchRequest, quiet bool) (fetched *media.FetchResult, err error) {
	listener := s.newListener(s.output, quiet)
	stop := listener.Begin(ctx)
	defer stop()

	defer func() {
		if r := recover(); r != nil {
			fetched = nil
			err = fmt.Errorf("unexpected extractor failure: %v", r)
		}
	}()

	fetched, err = s.extractor.Fetch(ctx, req, listener)
	if err == nil && fetched == nil {
		fetched = &media.FetchResult{}
	}
	return fetched, err
}

func (s *Service) interrupted(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, ErrInterrupted) {
		return ErrInterrupted
	}
	return err
}

// historyFilename names the history entry: the collection title for a
// collection, otherwise the produced file name.
func historyFilename(collection *media.Collection, fetched *media.FetchResult) string {
	if collection != nil {
		if collection.Title != "" {
			return collection.Title
		}
		return fallbackCollectionTitle
	}
	if path := fetched.PrimaryPath(); path != "" {
		return filepath.Base(path)
	}
	return history.UnknownFilename
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
