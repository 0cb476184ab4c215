package media

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// VideoFormatSelector asks for the best video plus best audio, falling back to the best single file
	VideoFormatSelector = "bestvideo+bestaudio/best"
	// AudioFormatSelector asks for the best audio-only stream
	AudioFormatSelector = "bestaudio/best"
	// DefaultMergeFormat is the container video downloads are normalized to
	DefaultMergeFormat = "mp4"
	// DefaultAudioCodec is the codec audio downloads are transcoded to
	DefaultAudioCodec = "mp3"
	// DefaultAudioBitrate is the audio bitrate in kbps
	DefaultAudioBitrate = "320"
)

// ItemTemplate is the per-item file name template understood by the extraction capability
const ItemTemplate = "%(title)s.%(ext)s"

// AudioTarget describes the transcoding post-processing step
type AudioTarget struct {
	Codec   string
	Bitrate string
}

// FetchRequest carries the options handed to the extraction capability
type FetchRequest struct {
	URL            string
	Mode           Mode
	Format         string
	OutputTemplate string
	MergeFormat    string
	Audio          *AudioTarget
	Collection     bool
	Quiet          bool
	TranscoderPath string
}

// NewFetchRequest builds the mode-specific options for url.
// format is only used in ModeManualFormat and must be non-empty there.
func NewFetchRequest(url string, mode Mode, format, outputTemplate string) (*FetchRequest, error) {
	if url == "" {
		return nil, fmt.Errorf("url is required")
	}
	if outputTemplate == "" {
		return nil, fmt.Errorf("output template is required")
	}

	req := &FetchRequest{
		URL:            url,
		Mode:           mode,
		OutputTemplate: outputTemplate,
	}

	switch mode {
	case ModeVideo:
		req.Format = VideoFormatSelector
		req.MergeFormat = DefaultMergeFormat
	case ModeAudio:
		req.Format = AudioFormatSelector
		req.Audio = &AudioTarget{Codec: DefaultAudioCodec, Bitrate: DefaultAudioBitrate}
	case ModeManualFormat:
		format = strings.TrimSpace(format)
		if format == "" {
			return nil, fmt.Errorf("format id is required in %s mode", mode)
		}
		req.Format = format
	default:
		return nil, fmt.Errorf("unsupported download mode %d", mode)
	}

	return req, nil
}

// OutputTemplate returns the output path template for a download into dir.
// Collections are written into a sub-directory named after the collection.
func OutputTemplate(dir, collectionTitle string) string {
	if collectionTitle == "" {
		return filepath.Join(dir, ItemTemplate)
	}
	return filepath.Join(dir, collectionDirName(collectionTitle), ItemTemplate)
}

// CollectionDir returns the directory a collection titled title is written to
func CollectionDir(dir, title string) string {
	return filepath.Join(dir, collectionDirName(title))
}

func collectionDirName(title string) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(strings.TrimSpace(title))
	if name == "" || name == "." || name == ".." {
		name = "Collection"
	}
	// the extraction capability treats % as a template field marker
	return strings.ReplaceAll(name, "%", "%%")
}

// FetchedItem is one materialized item. SourcePath is the file as downloaded,
// OutputPath the file after post-processing; they are equal when no
// post-processing produced a new file.
type FetchedItem struct {
	SourcePath string
	OutputPath string
}

// FetchResult is what a successful fetch produced
type FetchResult struct {
	Items []FetchedItem
}

// PrimaryPath returns the output path of the first item, if any
func (r *FetchResult) PrimaryPath() string {
	if r == nil || len(r.Items) == 0 {
		return ""
	}
	if r.Items[0].OutputPath != "" {
		return r.Items[0].OutputPath
	}
	return r.Items[0].SourcePath
}
