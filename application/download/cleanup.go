package download

import (
	"path/filepath"
	"strings"

	"tubefetch/domain/media"
	"tubefetch/infrastructure/filesystem"

	"github.com/spf13/afero"
)

// CleanupResult contains information about source files handled after audio extraction
type CleanupResult struct {
	DeletedFiles []DeletedFile
	Skipped      []string
	Failures     []CleanupFailure
	FreedBytes   int64
}

// DeletedFile represents a source file that was deleted
type DeletedFile struct {
	Path string
	Size int64
}

// CleanupFailure is a source file that could not be deleted
type CleanupFailure struct {
	Path string
	Err  error
}

// CleanupAudio deletes the downloaded source of every item whose transcoded
// audio file exists. Items are handled independently; a failed deletion is
// recorded and the remaining items are still processed.
func CleanupAudio(fs afero.Fs, items []media.FetchedItem, codec string) *CleanupResult {
	result := &CleanupResult{}
	files := filesystem.NewCheckerWithFS(fs)

	for _, item := range items {
		source := item.SourcePath
		if source == "" {
			continue
		}

		audio := item.OutputPath
		if audio == "" || audio == source {
			audio = strings.TrimSuffix(source, filepath.Ext(source)) + "." + codec
		}
		if audio == source {
			// source is already the target codec
			continue
		}

		if !files.Exists(audio) {
			result.Skipped = append(result.Skipped, source)
			continue
		}
		if !files.Exists(source) {
			continue
		}
		size := files.Size(source)

		if err := files.Remove(source); err != nil {
			result.Failures = append(result.Failures, CleanupFailure{Path: source, Err: err})
			continue
		}
		result.DeletedFiles = append(result.DeletedFiles, DeletedFile{Path: source, Size: size})
		result.FreedBytes += size
	}

	return result
}
