package ytdlp

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"tubefetch/domain/media"
)

// infoJSON is the subset of yt-dlp's info dict this program reads
type infoJSON struct {
	ID            string        `json:"id"`
	Type          string        `json:"_type"`
	Title         string        `json:"title"`
	Uploader      string        `json:"uploader"`
	Channel       string        `json:"channel"`
	Duration      float64       `json:"duration"`
	ViewCount     int64         `json:"view_count"`
	UploadDate    string        `json:"upload_date"`
	PlaylistCount int           `json:"playlist_count"`
	Entries       []*infoJSON   `json:"entries"`
	Formats       []*formatJSON `json:"formats"`
}

type formatJSON struct {
	ID             string  `json:"format_id"`
	Ext            string  `json:"ext"`
	Resolution     string  `json:"resolution"`
	Note           string  `json:"format_note"`
	FileSize       float64 `json:"filesize"`
	FileSizeApprox float64 `json:"filesize_approx"`
	VideoCodec     string  `json:"vcodec"`
	AudioCodec     string  `json:"acodec"`
}

type progressJSON struct {
	Status             string   `json:"status"`
	Filename           string   `json:"filename"`
	DownloadedBytes    float64  `json:"downloaded_bytes"`
	TotalBytes         float64  `json:"total_bytes"`
	TotalBytesEstimate float64  `json:"total_bytes_estimate"`
	Speed              *float64 `json:"speed"`
	ETA                *float64 `json:"eta"`
	PercentStr         string   `json:"_percent_str"`
	SpeedStr           string   `json:"_speed_str"`
	ETAStr             string   `json:"_eta_str"`
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func (i *infoJSON) toMetadata() media.Metadata {
	uploader := i.Uploader
	if uploader == "" {
		uploader = i.Channel
	}
	m := media.Metadata{
		ID:            i.ID,
		Type:          i.Type,
		Title:         i.Title,
		Uploader:      uploader,
		Duration:      i.Duration,
		ViewCount:     i.ViewCount,
		UploadDate:    i.UploadDate,
		PlaylistCount: i.PlaylistCount,
	}
	for _, e := range i.Entries {
		if e == nil {
			continue
		}
		m.Entries = append(m.Entries, e.toMetadata())
	}
	return m
}

func (f *formatJSON) toFormat() media.Format {
	size := f.FileSize
	if size == 0 {
		size = f.FileSizeApprox
	}
	return media.Format{
		ID:         f.ID,
		Ext:        f.Ext,
		Resolution: f.Resolution,
		Note:       f.Note,
		FileSize:   int64(size),
		VideoCodec: f.VideoCodec,
		AudioCodec: f.AudioCodec,
	}
}

func parseProgress(raw string) (media.Progress, bool) {
	var p progressJSON
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &p); err != nil {
		return media.Progress{}, false
	}

	total := p.TotalBytes
	if total == 0 {
		total = p.TotalBytesEstimate
	}

	out := media.Progress{
		Status:          p.Status,
		Filename:        p.Filename,
		Percent:         cleanField(p.PercentStr),
		Speed:           cleanField(p.SpeedStr),
		ETA:             cleanField(p.ETAStr),
		DownloadedBytes: int64(p.DownloadedBytes),
		TotalBytes:      int64(total),
	}
	if out.Percent == "" && total > 0 {
		out.Percent = fmt.Sprintf("%.1f%%", p.DownloadedBytes/total*100)
	}
	if out.Speed == "" && p.Speed != nil {
		out.Speed = fmt.Sprintf("%.2fMiB/s", *p.Speed/(1024*1024))
	}
	if out.ETA == "" && p.ETA != nil {
		out.ETA = media.FormatDuration(int(*p.ETA))
	}
	return out, true
}

func cleanField(s string) string {
	return strings.TrimSpace(ansiEscape.ReplaceAllString(s, ""))
}
