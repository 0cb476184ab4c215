package media

import (
	"strings"
	"testing"
)

func TestNewFetchRequest(t *testing.T) {
	const url = "https://youtu.be/abc123"
	tmpl := OutputTemplate("/downloads", "")

	tests := []struct {
		name        string
		mode        Mode
		format      string
		wantFormat  string
		wantMerge   string
		wantAudio   bool
		wantErr     bool
		errContains string
	}{
		{
			name:       "video merges to mp4",
			mode:       ModeVideo,
			wantFormat: "bestvideo+bestaudio/best",
			wantMerge:  "mp4",
		},
		{
			name:       "audio transcodes",
			mode:       ModeAudio,
			wantFormat: "bestaudio/best",
			wantAudio:  true,
		},
		{
			name:       "manual format uses given id",
			mode:       ModeManualFormat,
			format:     " 137+140 ",
			wantFormat: "137+140",
		},
		{
			name:        "manual format requires id",
			mode:        ModeManualFormat,
			wantErr:     true,
			errContains: "format id is required",
		},
		{
			name:        "unknown mode",
			mode:        Mode(42),
			wantErr:     true,
			errContains: "unsupported download mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewFetchRequest(url, tt.mode, tt.format, tmpl)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewFetchRequest() expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("NewFetchRequest() error = %v, want error containing %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewFetchRequest() unexpected error: %v", err)
			}
			if got.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", got.Format, tt.wantFormat)
			}
			if got.MergeFormat != tt.wantMerge {
				t.Errorf("MergeFormat = %q, want %q", got.MergeFormat, tt.wantMerge)
			}
			if (got.Audio != nil) != tt.wantAudio {
				t.Fatalf("Audio = %v, want set=%v", got.Audio, tt.wantAudio)
			}
			if tt.wantAudio && (got.Audio.Codec != "mp3" || got.Audio.Bitrate != "320") {
				t.Errorf("Audio = %+v, want mp3 at 320", *got.Audio)
			}
		})
	}
}

func TestNewFetchRequest_RequiresURLAndTemplate(t *testing.T) {
	if _, err := NewFetchRequest("", ModeVideo, "", "/d/%(title)s.%(ext)s"); err == nil {
		t.Error("expected error for empty url")
	}
	if _, err := NewFetchRequest("https://youtu.be/x", ModeVideo, "", ""); err == nil {
		t.Error("expected error for empty template")
	}
}

func TestOutputTemplate(t *testing.T) {
	tests := []struct {
		name       string
		dir        string
		collection string
		want       string
	}{
		{"single item is flat", "/downloads", "", "/downloads/%(title)s.%(ext)s"},
		{"collection gets sub-directory", "/downloads", "My Mix", "/downloads/My Mix/%(title)s.%(ext)s"},
		{"separators replaced", "/downloads", "AC/DC Live", "/downloads/AC_DC Live/%(title)s.%(ext)s"},
		{"percent escaped", "/downloads", "100% Hits", "/downloads/100%% Hits/%(title)s.%(ext)s"},
		{"dot-only title", "/downloads", "..", "/downloads/Collection/%(title)s.%(ext)s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputTemplate(tt.dir, tt.collection); got != tt.want {
				t.Errorf("OutputTemplate(%q, %q) = %q, want %q", tt.dir, tt.collection, got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"video", ModeVideo},
		{"Audio", ModeAudio},
		{"mp3", ModeAudio},
		{"format", ModeManualFormat},
		{"3", ModeManualFormat},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if err != nil {
			t.Fatalf("ParseMode(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseMode("flac"); err == nil {
		t.Error("ParseMode(flac) expected error")
	}
}

func TestMode_Label(t *testing.T) {
	if ModeVideo.Label() != "Video" || ModeAudio.Label() != "MP3" || ModeManualFormat.Label() != "Custom Format" {
		t.Errorf("unexpected labels: %q %q %q", ModeVideo.Label(), ModeAudio.Label(), ModeManualFormat.Label())
	}
}

func TestFetchResult_PrimaryPath(t *testing.T) {
	var nilResult *FetchResult
	if nilResult.PrimaryPath() != "" {
		t.Error("nil result should have empty primary path")
	}
	r := &FetchResult{Items: []FetchedItem{{SourcePath: "/d/a.webm", OutputPath: "/d/a.mp3"}}}
	if got := r.PrimaryPath(); got != "/d/a.mp3" {
		t.Errorf("PrimaryPath() = %q, want /d/a.mp3", got)
	}
	r = &FetchResult{Items: []FetchedItem{{SourcePath: "/d/a.mp4"}}}
	if got := r.PrimaryPath(); got != "/d/a.mp4" {
		t.Errorf("PrimaryPath() = %q, want /d/a.mp4", got)
	}
}
