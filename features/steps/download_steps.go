//go:build integration

package steps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tubefetch/application/download"
	"tubefetch/application/probe"
	"tubefetch/domain/media"
	"tubefetch/infrastructure/config"
	infrahistory "tubefetch/infrastructure/history"

	"github.com/cucumber/godog"
	"github.com/spf13/afero"
)

// scriptedExtractor stands in for yt-dlp
type scriptedExtractor struct {
	meta       *media.Metadata
	fetchErr   error
	items      []media.FetchedItem
	fs         afero.Fs
	fetchCalls int
	lastReq    *media.FetchRequest
}

func (e *scriptedExtractor) Inspect(ctx context.Context, url string, quiet bool) (*media.Metadata, error) {
	if e.meta == nil {
		return nil, errors.New("no metadata scripted")
	}
	return e.meta, nil
}

func (e *scriptedExtractor) Fetch(ctx context.Context, req *media.FetchRequest, listener media.ProgressListener) (*media.FetchResult, error) {
	e.fetchCalls++
	e.lastReq = req
	if e.fetchErr != nil {
		return nil, e.fetchErr
	}
	for _, item := range e.items {
		for _, p := range []string{item.SourcePath, item.OutputPath} {
			if err := e.fs.MkdirAll(filepath.Dir(p), 0755); err != nil {
				return nil, err
			}
			if err := afero.WriteFile(e.fs, p, []byte("media"), 0644); err != nil {
				return nil, err
			}
		}
		listener.Finished(item.OutputPath)
	}
	return &media.FetchResult{Items: e.items}, nil
}

func (e *scriptedExtractor) ListFormats(ctx context.Context, url string) ([]media.Format, error) {
	return []media.Format{{ID: "18", Ext: "mp4"}}, nil
}

// countingSurface answers prompts and counts retry questions
type countingSurface struct {
	confirmCollection bool
	retryPrompts      int
}

func (s *countingSurface) ConfirmCollection(ctx context.Context, c *media.Collection) (bool, error) {
	return s.confirmCollection, nil
}

func (s *countingSurface) ChooseFormat(ctx context.Context, formats []media.Format) (string, error) {
	return formats[0].ID, nil
}

func (s *countingSurface) ConfirmRetry(ctx context.Context, reason string) (bool, error) {
	s.retryPrompts++
	return false, nil
}

type downloadContext struct {
	tempDir   string
	fs        afero.Fs
	cfg       config.Config
	extractor *scriptedExtractor
	surface   *countingSurface
	history   *infrahistory.Store
	result    *download.Result
}

func InitializeDownloadScenario(ctx *godog.ScenarioContext) {
	d := &downloadContext{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "download-test-*")
		if err != nil {
			return c, err
		}
		fs := afero.NewOsFs()
		*d = downloadContext{
			tempDir:   tempDir,
			fs:        fs,
			cfg:       config.Defaults(tempDir),
			extractor: &scriptedExtractor{fs: fs},
			surface:   &countingSurface{},
			history:   infrahistory.NewStore(fs, filepath.Join(tempDir, "config", "history.yaml")),
		}
		d.cfg.QuietMode = true
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if d.tempDir != "" {
			os.RemoveAll(d.tempDir)
		}
		return c, nil
	})

	ctx.Step(`^an empty download folder$`, d.anEmptyDownloadFolder)
	ctx.Step(`^the URL "([^"]*)" is a single video titled "([^"]*)"$`, d.theURLIsASingleVideoTitled)
	ctx.Step(`^the URL "([^"]*)" is a playlist titled "([^"]*)" with videos "([^"]*)"$`, d.theURLIsAPlaylist)
	ctx.Step(`^the extractor produces "([^"]*)"$`, d.theExtractorProduces)
	ctx.Step(`^the extractor produces "([^"]*)" from "([^"]*)"$`, d.theExtractorProducesFrom)
	ctx.Step(`^the extractor always fails with "([^"]*)"$`, d.theExtractorAlwaysFailsWith)
	ctx.Step(`^auto retry is enabled with (\d+) retries$`, d.autoRetryIsEnabledWith)
	ctx.Step(`^quiet mode is enabled$`, d.quietModeIsEnabled)
	ctx.Step(`^I confirm playlist downloads$`, d.iConfirmPlaylistDownloads)
	ctx.Step(`^I decline playlist downloads$`, d.iDeclinePlaylistDownloads)
	ctx.Step(`^I download "([^"]*)" as "([^"]*)"$`, d.iDownloadAs)
	ctx.Step(`^the extractor should have been called (\d+) times?$`, d.theExtractorShouldHaveBeenCalled)
	ctx.Step(`^the history should contain (\d+) entr(?:y|ies)$`, d.theHistoryShouldContain)
	ctx.Step(`^the newest history entry should have status "([^"]*)" and filename "([^"]*)"$`, d.theNewestHistoryEntryShouldHave)
	ctx.Step(`^I should have been asked to retry (\d+) times?$`, d.iShouldHaveBeenAskedToRetry)
	ctx.Step(`^the download folder should contain "([^"]*)"$`, d.theDownloadFolderShouldContain)
	ctx.Step(`^the download folder should not contain "([^"]*)"$`, d.theDownloadFolderShouldNotContain)
	ctx.Step(`^the output template should be rooted at "([^"]*)"$`, d.theOutputTemplateShouldBeRootedAt)
}

func (d *downloadContext) anEmptyDownloadFolder() error {
	return os.MkdirAll(d.cfg.DownloadDir, 0755)
}

func (d *downloadContext) theURLIsASingleVideoTitled(url, title string) error {
	d.extractor.meta = &media.Metadata{Type: "video", Title: title, Duration: 65}
	return nil
}

func (d *downloadContext) theURLIsAPlaylist(url, title, videos string) error {
	meta := &media.Metadata{Type: "playlist", Title: title}
	for _, v := range strings.Split(videos, ",") {
		meta.Entries = append(meta.Entries, media.Metadata{Title: strings.TrimSpace(v)})
	}
	d.extractor.meta = meta
	return nil
}

func (d *downloadContext) theExtractorProduces(name string) error {
	path := filepath.Join(d.cfg.DownloadDir, name)
	d.extractor.items = append(d.extractor.items, media.FetchedItem{SourcePath: path, OutputPath: path})
	return nil
}

func (d *downloadContext) theExtractorProducesFrom(output, source string) error {
	d.extractor.items = append(d.extractor.items, media.FetchedItem{
		SourcePath: filepath.Join(d.cfg.DownloadDir, source),
		OutputPath: filepath.Join(d.cfg.DownloadDir, output),
	})
	return nil
}

func (d *downloadContext) theExtractorAlwaysFailsWith(msg string) error {
	d.extractor.fetchErr = errors.New(msg)
	return nil
}

func (d *downloadContext) autoRetryIsEnabledWith(retries int) error {
	d.cfg.AutoRetry = true
	d.cfg.MaxRetries = retries
	return nil
}

func (d *downloadContext) quietModeIsEnabled() error {
	d.cfg.QuietMode = true
	return nil
}

func (d *downloadContext) iConfirmPlaylistDownloads() error {
	d.surface.confirmCollection = true
	return nil
}

func (d *downloadContext) iDeclinePlaylistDownloads() error {
	d.surface.confirmCollection = false
	return nil
}

func (d *downloadContext) iDownloadAs(url, modeName string) error {
	mode, err := media.ParseMode(modeName)
	if err != nil {
		return err
	}

	svc := download.NewService(
		d.extractor,
		probe.NewService(d.extractor),
		d.history,
		d.surface,
		d.fs,
		io.Discard,
		download.WithRetryDelay(time.Millisecond),
	)
	d.result, err = svc.Run(context.Background(), url, mode, d.cfg)
	return err
}

func (d *downloadContext) theExtractorShouldHaveBeenCalled(n int) error {
	if d.extractor.fetchCalls != n {
		return fmt.Errorf("expected %d fetch calls, got %d", n, d.extractor.fetchCalls)
	}
	return nil
}

func (d *downloadContext) theHistoryShouldContain(n int) error {
	entries := d.history.List(1000)
	if len(entries) != n {
		return fmt.Errorf("expected %d history entries, got %d", n, len(entries))
	}
	return nil
}

func (d *downloadContext) theNewestHistoryEntryShouldHave(status, filename string) error {
	entries := d.history.List(1)
	if len(entries) == 0 {
		return fmt.Errorf("history is empty")
	}
	if entries[0].Status != status {
		return fmt.Errorf("expected status %q, got %q", status, entries[0].Status)
	}
	if entries[0].Filename != filename {
		return fmt.Errorf("expected filename %q, got %q", filename, entries[0].Filename)
	}
	return nil
}

func (d *downloadContext) iShouldHaveBeenAskedToRetry(n int) error {
	if d.surface.retryPrompts != n {
		return fmt.Errorf("expected %d retry prompts, got %d", n, d.surface.retryPrompts)
	}
	return nil
}

func (d *downloadContext) theDownloadFolderShouldContain(name string) error {
	if _, err := os.Stat(filepath.Join(d.cfg.DownloadDir, name)); err != nil {
		return fmt.Errorf("expected %s in download folder: %w", name, err)
	}
	return nil
}

func (d *downloadContext) theDownloadFolderShouldNotContain(name string) error {
	if _, err := os.Stat(filepath.Join(d.cfg.DownloadDir, name)); err == nil {
		return fmt.Errorf("expected %s to be removed", name)
	}
	return nil
}

func (d *downloadContext) theOutputTemplateShouldBeRootedAt(folder string) error {
	if d.extractor.lastReq == nil {
		return fmt.Errorf("extractor was not called")
	}
	want := filepath.Join(d.cfg.DownloadDir, folder) + string(filepath.Separator)
	if !strings.HasPrefix(d.extractor.lastReq.OutputTemplate, want) {
		return fmt.Errorf("expected output template under %s, got %s", want, d.extractor.lastReq.OutputTemplate)
	}
	return nil
}
