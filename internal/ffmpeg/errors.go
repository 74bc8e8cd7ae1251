package ffmpeg

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Sentinel errors wrapped by every *ProcessError, so callers can tell a
// failed capture from a failed export with errors.Is.
var (
	ErrCaptureFailed = errors.New("capture failed")
	ErrExportFailed  = errors.New("export failed")

	// ErrExitedEarly is the cause recorded for a capture process that
	// exited cleanly before it was asked to stop.
	ErrExitedEarly = errors.New("exited before stop was requested")
)

// Op names the external job a process belongs to.
type Op string

const (
	OpCapture Op = "capture"
	OpExport  Op = "export"
)

// ProcessError reports an external encoder that could not be started, exited
// early, or exited with a non-zero status.
type ProcessError struct {
	Op       Op
	Args     []string
	ExitCode int    // -1 when the process never ran or was killed by a signal.
	Stderr   string // Tail of the process's stderr.
	Err      error
}

func (e *ProcessError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Op))
	b.WriteString(" failed")
	if len(e.Args) > 0 {
		b.WriteString(": ")
		b.WriteString(e.Args[0])
	}
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " exited with status %d", e.ExitCode)
	} else if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if hint := e.Hint(); hint != "" {
		b.WriteString(" (")
		b.WriteString(hint)
		b.WriteString(")")
	} else if line := lastLine(e.Stderr); line != "" {
		b.WriteString(": ")
		b.WriteString(line)
	}
	return b.String()
}

// Unwrap exposes both the op sentinel and the underlying cause.
func (e *ProcessError) Unwrap() []error {
	sentinel := ErrExportFailed
	if e.Op == OpCapture {
		sentinel = ErrCaptureFailed
	}
	if e.Err == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.Err}
}

// Hint returns a short diagnosis derived from stderr, or "".
func (e *ProcessError) Hint() string {
	return Classify(e.Stderr)
}

// Pre-compiled regexes for classifying encoder stderr into known causes.
// Checked in order by [Classify]; the first match wins.
var (
	reNoDdagrab = regexp.MustCompile(
		`No such filter: 'ddagrab'|Filter not found|Unknown filter 'ddagrab'`)

	reHWDevice = regexp.MustCompile(
		`(?i)Failed to create (a )?(D3D11|d3d11va)|Device creation failed|` +
			`Could not create hardware device`)

	reBadOutput = regexp.MustCompile(
		`(?i)Failed to (enumerate|get) (DXGI )?output|output_idx|DuplicateOutput failed`)

	reTooFewFrames = regexp.MustCompile(
		`(?i)only a single image file|at least 2 frames|no frames`)

	rePermission = regexp.MustCompile(
		`(?i)Permission denied|Access is denied|Read-only file system`)
)

// MatchNoDdagrab reports whether ffmpeg lacks the ddagrab filter.
func MatchNoDdagrab(stderr string) bool { return reNoDdagrab.MatchString(stderr) }

// MatchHWDevice reports whether the D3D11 device could not be created.
func MatchHWDevice(stderr string) bool { return reHWDevice.MatchString(stderr) }

// MatchBadOutput reports whether the requested monitor could not be duplicated.
func MatchBadOutput(stderr string) bool { return reBadOutput.MatchString(stderr) }

// MatchTooFewFrames reports whether gifski rejected the frame set as too short.
func MatchTooFewFrames(stderr string) bool { return reTooFewFrames.MatchString(stderr) }

// MatchPermission reports a filesystem permission failure.
func MatchPermission(stderr string) bool { return rePermission.MatchString(stderr) }

// Classify maps stderr to a one-line hint, or "" when nothing is recognized.
func Classify(stderr string) string {
	switch {
	case stderr == "":
		return ""
	case MatchNoDdagrab(stderr):
		return "this ffmpeg build has no ddagrab filter"
	case MatchHWDevice(stderr):
		return "D3D11 hardware device unavailable"
	case MatchBadOutput(stderr):
		return "monitor index not available for desktop duplication"
	case MatchTooFewFrames(stderr):
		return "not enough frames to encode"
	case MatchPermission(stderr):
		return "permission denied writing output"
	}
	return ""
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
