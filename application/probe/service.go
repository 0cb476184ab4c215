package probe

import (
	"context"
	"fmt"
	"io"
	"strings"

	"tubefetch/domain/media"
)

// Inspector resolves a URL to metadata without downloading anything
type Inspector interface {
	Inspect(ctx context.Context, url string, quiet bool) (*media.Metadata, error)
}

// Service classifies a URL as a single item or a collection
type Service struct {
	inspector Inspector
}

// NewService creates a new probe service
func NewService(inspector Inspector) *Service {
	return &Service{inspector: inspector}
}

// Error is a failed probe. It is reported as a display string and never retried.
type Error struct {
	URL string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("could not read media information: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Probe inspects url and returns a *media.Single or *media.Collection
func (s *Service) Probe(ctx context.Context, url string, quiet bool) (media.Info, error) {
	meta, err := s.inspector.Inspect(ctx, url, quiet)
	if err != nil {
		return nil, &Error{URL: url, Err: err}
	}
	if meta == nil {
		return nil, &Error{URL: url, Err: fmt.Errorf("no metadata returned")}
	}
	return Classify(meta), nil
}

// Classify turns raw metadata into the probe result
func Classify(meta *media.Metadata) media.Info {
	if !meta.HasEntries() {
		return &media.Single{
			Title:           meta.Title,
			Uploader:        meta.Uploader,
			DurationSeconds: int(meta.Duration),
			ViewCount:       meta.ViewCount,
			UploadDate:      meta.UploadDate,
		}
	}

	count := len(meta.Entries)
	if count == 0 {
		count = meta.PlaylistCount
	}

	preview := make([]string, 0, media.MaxPreviewTitles)
	for _, entry := range meta.Entries {
		if len(preview) == media.MaxPreviewTitles {
			break
		}
		preview = append(preview, valueOrUnknown(entry.Title))
	}

	return &media.Collection{
		Title:         meta.Title,
		Uploader:      meta.Uploader,
		MemberCount:   count,
		PreviewTitles: preview,
	}
}

const rule = "--------------------------------------------------"

// Render prints the pre-flight information block for info
func Render(w io.Writer, info media.Info) {
	switch v := info.(type) {
	case *media.Single:
		fmt.Fprintln(w)
		fmt.Fprintln(w, rule)
		fmt.Fprintln(w, "VIDEO INFORMATION")
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "Title:       %s\n", valueOrUnknown(v.Title))
		fmt.Fprintf(w, "Channel:     %s\n", valueOrUnknown(v.Uploader))
		fmt.Fprintf(w, "Duration:    %s\n", media.FormatDuration(v.DurationSeconds))
		fmt.Fprintf(w, "Views:       %s\n", media.FormatCount(v.ViewCount))
		fmt.Fprintf(w, "Upload date: %s\n", media.FormatUploadDate(v.UploadDate))
		fmt.Fprintln(w, rule)
	case *media.Collection:
		fmt.Fprintln(w)
		fmt.Fprintln(w, rule)
		fmt.Fprintln(w, "PLAYLIST INFORMATION")
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "Title:   %s\n", valueOrUnknown(v.Title))
		fmt.Fprintf(w, "Channel: %s\n", valueOrUnknown(v.Uploader))
		fmt.Fprintf(w, "Videos:  %d\n", v.MemberCount)
		if len(v.PreviewTitles) > 0 {
			fmt.Fprintln(w, "First videos:")
			for i, title := range v.PreviewTitles {
				fmt.Fprintf(w, "  %d. %s\n", i+1, title)
			}
			if remaining := v.MemberCount - len(v.PreviewTitles); remaining > 0 {
				fmt.Fprintf(w, "  ... and %d more\n", remaining)
			}
		}
		fmt.Fprintln(w, rule)
	}
}

func valueOrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return media.UnknownValue
	}
	return s
}
