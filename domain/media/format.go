package media

import (
	"fmt"
	"strings"
)

// Format describes one stream variant offered by the extraction capability
type Format struct {
	ID         string
	Ext        string
	Resolution string
	Note       string
	FileSize   int64
	VideoCodec string
	AudioCodec string
}

// Summary renders the format as a single menu line
func (f Format) Summary() string {
	parts := []string{fmt.Sprintf("%-8s", f.ID), fmt.Sprintf("%-5s", f.Ext)}
	if f.Resolution != "" {
		parts = append(parts, fmt.Sprintf("%-11s", f.Resolution))
	}
	if f.FileSize > 0 {
		parts = append(parts, FormatSizeMB(f.FileSize)+" MB")
	}
	codecs := make([]string, 0, 2)
	if f.VideoCodec != "" && f.VideoCodec != "none" {
		codecs = append(codecs, f.VideoCodec)
	}
	if f.AudioCodec != "" && f.AudioCodec != "none" {
		codecs = append(codecs, f.AudioCodec)
	}
	if len(codecs) > 0 {
		parts = append(parts, strings.Join(codecs, "+"))
	}
	if f.Note != "" {
		parts = append(parts, f.Note)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
