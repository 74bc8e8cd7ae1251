package display

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"small bytes", 512, "512 B"},
		{"exactly 1 KiB", 1024, "1.0 KiB"},
		{"1.5 KiB", 1536, "1.5 KiB"},
		{"1 MiB", 1024 * 1024, "1.0 MiB"},
		{"typical gif 3.2 MiB", 3355443, "3.2 MiB"},
		{"1 GiB", 1024 * 1024 * 1024, "1.0 GiB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"negative", -time.Second, "0.0s"},
		{"sub-second", 400 * time.Millisecond, "0.4s"},
		{"seconds", 4300 * time.Millisecond, "4.3s"},
		{"minutes", 125 * time.Second, "2m05s"},
		{"rounds", 59*time.Minute + 59600*time.Millisecond, "60m00s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDuration(tt.d)
			if got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestFormatFrames(t *testing.T) {
	if got := FormatFrames(40, 40); got != "40 frames" {
		t.Errorf("FormatFrames(40, 40) = %q", got)
	}
	if got := FormatFrames(20, 40); got != "20/40 frames" {
		t.Errorf("FormatFrames(20, 40) = %q", got)
	}
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "v1.2.3")
	if !strings.Contains(buf.String(), "screen to GIF v1.2.3") {
		t.Errorf("banner missing version line:\n%s", buf.String())
	}
}
