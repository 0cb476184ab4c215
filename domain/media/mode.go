package media

import (
	"fmt"
	"strings"
)

// Mode selects how a URL is fetched. It is fixed for the whole run.
type Mode int

const (
	// ModeVideo fetches the best video and audio streams merged into one container
	ModeVideo Mode = iota + 1
	// ModeAudio fetches the best audio stream and transcodes it to MP3
	ModeAudio
	// ModeManualFormat fetches a user-chosen format identifier
	ModeManualFormat
)

// ParseMode parses a mode name as accepted on the command line
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "video", "1":
		return ModeVideo, nil
	case "audio", "mp3", "2":
		return ModeAudio, nil
	case "format", "manual", "custom", "3":
		return ModeManualFormat, nil
	}
	return 0, fmt.Errorf("unknown download mode %q (expected video, audio or format)", s)
}

// Label returns the display label used in prompts and the download history
func (m Mode) Label() string {
	switch m {
	case ModeVideo:
		return "Video"
	case ModeAudio:
		return "MP3"
	case ModeManualFormat:
		return "Custom Format"
	}
	return "Unknown"
}

func (m Mode) String() string {
	switch m {
	case ModeVideo:
		return "video"
	case ModeAudio:
		return "audio"
	case ModeManualFormat:
		return "format"
	}
	return "unknown"
}
