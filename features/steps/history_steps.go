//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tubefetch/domain/history"
	"tubefetch/domain/media"
	"tubefetch/domain/persistence"
	infrahistory "tubefetch/infrastructure/history"

	"github.com/cucumber/godog"
	"github.com/spf13/afero"
)

type historyContext struct {
	tempDir     string
	store       *infrahistory.Store
	listed      []history.Entry
	clearResult persistence.Result
}

func InitializeHistoryScenario(ctx *godog.ScenarioContext) {
	h := &historyContext{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "history-test-*")
		if err != nil {
			return c, err
		}
		*h = historyContext{
			tempDir: tempDir,
			store:   infrahistory.NewStore(afero.NewOsFs(), filepath.Join(tempDir, "config", "history.yaml")),
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if h.tempDir != "" {
			os.RemoveAll(h.tempDir)
		}
		return c, nil
	})

	ctx.Step(`^an empty history file$`, h.anEmptyHistoryFile)
	ctx.Step(`^a history file containing "([^"]*)"$`, h.aHistoryFileContaining)
	ctx.Step(`^I record (\d+) downloads$`, h.iRecordDownloads)
	ctx.Step(`^listing (\d+) entries should return (\d+) entries$`, h.listingEntriesShouldReturn)
	ctx.Step(`^the newest listed entry should be download (\d+)$`, h.theNewestListedEntryShouldBe)
	ctx.Step(`^the oldest listed entry should be download (\d+)$`, h.theOldestListedEntryShouldBe)
	ctx.Step(`^I clear the history$`, h.iClearTheHistory)
	ctx.Step(`^the history clear should succeed$`, h.theHistoryClearShouldSucceed)
}

func (h *historyContext) anEmptyHistoryFile() error {
	return nil
}

func (h *historyContext) aHistoryFileContaining(content string) error {
	path := h.store.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func downloadURL(n int) string {
	return fmt.Sprintf("https://youtu.be/video%03d", n)
}

func (h *historyContext) iRecordDownloads(n int) error {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.Local)
	for i := 1; i <= n; i++ {
		entry := history.NewEntry(start.Add(time.Duration(i)*time.Minute), downloadURL(i), fmt.Sprintf("video%03d.mp4", i), media.ModeVideo, media.Succeeded(""))
		if r := h.store.Append(entry); r.Failed() {
			return r.Err
		}
	}
	return nil
}

func (h *historyContext) listingEntriesShouldReturn(limit, want int) error {
	h.listed = h.store.List(limit)
	if len(h.listed) != want {
		return fmt.Errorf("expected %d entries, got %d", want, len(h.listed))
	}
	return nil
}

func (h *historyContext) theNewestListedEntryShouldBe(n int) error {
	if len(h.listed) == 0 || h.listed[0].URL != downloadURL(n) {
		return fmt.Errorf("expected newest entry to be %s", downloadURL(n))
	}
	return nil
}

func (h *historyContext) theOldestListedEntryShouldBe(n int) error {
	if len(h.listed) == 0 || h.listed[len(h.listed)-1].URL != downloadURL(n) {
		return fmt.Errorf("expected oldest entry to be %s", downloadURL(n))
	}
	return nil
}

func (h *historyContext) iClearTheHistory() error {
	h.clearResult = h.store.Clear()
	return nil
}

func (h *historyContext) theHistoryClearShouldSucceed() error {
	if h.clearResult.Failed() {
		return fmt.Errorf("clear failed: %v", h.clearResult.Err)
	}
	return nil
}
