package frames

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/backmassage/snipgif/internal/naming"
)

// Frame is one captured still on disk.
type Frame struct {
	Index int    // 1-based sequence number parsed from the filename.
	Path  string // Full path; may be a link inside a subset directory.
}

// Name returns the frame's filename.
func (f Frame) Name() string {
	return filepath.Base(f.Path)
}

// List reads dir (non-recursively), keeps entries whose names are valid
// frame filenames, and returns them ordered by index. Directories, such as
// the subset directory, are skipped. A missing dir yields no frames.
func List(dir string) ([]Frame, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var frames []Frame
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		idx, err := naming.ParseFrameName(e.Name())
		if err != nil {
			continue
		}
		frames = append(frames, Frame{Index: idx, Path: filepath.Join(dir, e.Name())})
	}
	// Sort numerically so indices past the padding width stay in order.
	sort.Slice(frames, func(i, j int) bool { return frames[i].Index < frames[j].Index })
	return frames, nil
}

// Paths returns the frame paths in order.
func Paths(frames []Frame) []string {
	out := make([]string, len(frames))
	for i, f := range frames {
		out[i] = f.Path
	}
	return out
}

// DiscardStartupFrame deletes frame 1 from dir. The capture pipeline's
// first frame is a startup artifact. Returns whether a file was removed.
func DiscardStartupFrame(dir string) (bool, error) {
	err := os.Remove(filepath.Join(dir, naming.FrameName(1)))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
