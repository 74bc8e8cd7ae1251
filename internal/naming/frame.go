package naming

import (
	"fmt"
	"strconv"
	"strings"
)

// Frame file naming: a fixed base, a zero-padded 1-based index, and the
// image extension the capture process writes.
const (
	FrameBase    = "frame"
	FrameExt     = ".png"
	FramePadding = 4
)

// FrameName formats a frame index as its filename (1 -> "frame0001.png").
// Indices wider than FramePadding digits overflow the padding.
func FrameName(index int) string {
	return fmt.Sprintf("%s%0*d%s", FrameBase, FramePadding, index, FrameExt)
}

// ParseFrameName returns the index encoded in a frame filename. It is the
// exact inverse of FrameName.
func ParseFrameName(name string) (int, error) {
	digits, ok := strings.CutPrefix(name, FrameBase)
	if !ok {
		return 0, fmt.Errorf("frame name %q: missing %q prefix", name, FrameBase)
	}
	digits, ok = strings.CutSuffix(digits, FrameExt)
	if !ok {
		return 0, fmt.Errorf("frame name %q: missing %q extension", name, FrameExt)
	}
	if len(digits) < FramePadding {
		return 0, fmt.Errorf("frame name %q: index shorter than %d digits", name, FramePadding)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("frame name %q: index is not a number", name)
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("frame name %q: %w", name, err)
	}
	// A wider-than-padding index never has leading zeros when formatted.
	if len(digits) > FramePadding && digits[0] == '0' {
		return 0, fmt.Errorf("frame name %q: over-padded index", name)
	}
	return n, nil
}

// IsFrameName reports whether name is a well-formed frame filename.
func IsFrameName(name string) bool {
	_, err := ParseFrameName(name)
	return err == nil
}

// FramePattern is the printf-style output pattern handed to ffmpeg
// ("frame%04d.png").
func FramePattern() string {
	return fmt.Sprintf("%s%%0%dd%s", FrameBase, FramePadding, FrameExt)
}

// SubsetDirName is the directory, inside a session directory, that holds
// linked frames selected for export.
const SubsetDirName = FrameBase + "_subset"

// ReverseIndex renumbers index for reverse playback within [1, last]:
// (last+1) - index. Applying it twice returns index.
func ReverseIndex(index, last int) int {
	return last + 1 - index
}
