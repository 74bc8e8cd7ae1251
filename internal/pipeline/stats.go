package pipeline

import (
	"time"

	"github.com/backmassage/snipgif/internal/probe"
)

// SessionStats summarizes one recording session.
type SessionStats struct {
	Output    string
	Captured  int // Frames available for export.
	Exported  int // Frames fed to the encoder.
	Bytes     int64
	Recorded  time.Duration // From first frame to stop.
	Encoded   time.Duration // Export wall time.
	Reversed  bool
	Probe     *probe.Result // Nil when ffprobe was unavailable.
	Cancelled bool
}

// Dropped returns how many captured frames the subset step left out.
func (s *SessionStats) Dropped() int {
	return s.Captured - s.Exported
}
