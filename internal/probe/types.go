package probe

import (
	"strconv"
	"strings"
)

// FormatInfo holds container-level metadata from ffprobe's format section.
type FormatInfo struct {
	Filename   string
	FormatName string
	Duration   float64
	Size       int64
}

// VideoStream holds the parsed properties of the GIF's image stream.
type VideoStream struct {
	Index     int
	Codec     string
	Width     int
	Height    int
	Frames    int    // Counted frames, falling back to the container's nb_frames.
	FrameRate string // Rational, e.g. "20/1".
}

// Result is the parsed output of a single ffprobe JSON call.
// Video is the first video stream (nil if none).
type Result struct {
	Format FormatInfo
	Video  *VideoStream
}

// Resolution returns "WxH" for the image stream, or "unknown".
func (r *Result) Resolution() string {
	if r.Video == nil || r.Video.Width <= 0 || r.Video.Height <= 0 {
		return "unknown"
	}
	return strconv.Itoa(r.Video.Width) + "x" + strconv.Itoa(r.Video.Height)
}

// FPS evaluates the stream's rational frame rate, or 0 when unknown.
func (r *Result) FPS() float64 {
	if r.Video == nil {
		return 0
	}
	num, den, ok := strings.Cut(r.Video.FrameRate, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !ok {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
