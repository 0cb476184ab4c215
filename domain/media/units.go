package media

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// UnknownValue is rendered for absent metadata
const UnknownValue = "Unknown"

const bytesPerMB = 1024 * 1024

var countPrinter = message.NewPrinter(language.English)

// FormatDuration renders seconds as MM:SS, or HH:MM:SS from one hour up.
// Zero or negative durations are rendered as "Unknown".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return UnknownValue
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// FormatSizeMB converts bytes to megabytes with two decimals
func FormatSizeMB(bytes int64) string {
	return fmt.Sprintf("%.2f", float64(bytes)/bytesPerMB)
}

// FormatCount renders n with thousands separators
func FormatCount(n int64) string {
	return countPrinter.Sprintf("%d", n)
}

// FormatUploadDate turns the extractor's YYYYMMDD date into YYYY-MM-DD
func FormatUploadDate(raw string) string {
	if raw == "" {
		return UnknownValue
	}
	if len(raw) == 8 {
		return raw[:4] + "-" + raw[4:6] + "-" + raw[6:]
	}
	return raw
}
