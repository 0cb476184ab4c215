package history

import (
	"time"

	"tubefetch/domain/media"
)

const (
	// MaxEntries is the number of entries the history keeps
	MaxEntries = 50
	// StatusSuccess marks a successful download
	StatusSuccess = "Success"
	// UnknownFilename is recorded when the produced file cannot be determined
	UnknownFilename = "Unknown"
	// TimestampLayout is the local wall-clock layout entries are stamped with
	TimestampLayout = "2006-01-02 15:04:05"
)

// Entry records one download attempt. Entries are never modified after creation.
type Entry struct {
	Timestamp string `yaml:"timestamp"`
	URL       string `yaml:"url"`
	Filename  string `yaml:"filename"`
	Mode      string `yaml:"mode"`
	Status    string `yaml:"status"`
}

// FailedStatus returns the status recorded for a failed download
func FailedStatus(reason string) string {
	return "Failed: " + reason
}

// NewEntry builds the entry describing outcome
func NewEntry(now time.Time, url, filename string, mode media.Mode, outcome media.Outcome) Entry {
	if filename == "" {
		filename = UnknownFilename
	}
	status := StatusSuccess
	if !outcome.Success {
		status = FailedStatus(outcome.Reason)
	}
	return Entry{
		Timestamp: now.Format(TimestampLayout),
		URL:       url,
		Filename:  filename,
		Mode:      mode.Label(),
		Status:    status,
	}
}

// Succeeded reports whether the entry records a successful download
func (e Entry) Succeeded() bool {
	return e.Status == StatusSuccess
}
