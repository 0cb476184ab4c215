package media

import "testing"

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "Unknown"},
		{-5, "Unknown"},
		{9, "00:09"},
		{65, "01:05"},
		{3599, "59:59"},
		{3600, "01:00:00"},
		{3725, "01:02:05"},
		{36000 + 59, "10:00:59"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatDuration(tt.seconds); got != tt.want {
				t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestFormatSizeMB(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0.00"},
		{1048576, "1.00"},
		{1572864, "1.50"},
		{5 * 1048576 / 4, "1.25"},
	}

	for _, tt := range tests {
		if got := FormatSizeMB(tt.bytes); got != tt.want {
			t.Errorf("FormatSizeMB(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	if got := FormatCount(1234567); got != "1,234,567" {
		t.Errorf("FormatCount() = %q, want %q", got, "1,234,567")
	}
	if got := FormatCount(12); got != "12" {
		t.Errorf("FormatCount() = %q, want %q", got, "12")
	}
}

func TestFormatUploadDate(t *testing.T) {
	tests := map[string]string{
		"20240131": "2024-01-31",
		"":         "Unknown",
		"2024":     "2024",
	}
	for raw, want := range tests {
		if got := FormatUploadDate(raw); got != want {
			t.Errorf("FormatUploadDate(%q) = %q, want %q", raw, got, want)
		}
	}
}
