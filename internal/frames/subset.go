package frames

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/backmassage/snipgif/internal/naming"
)

// SubsetDir returns the subset directory for a session directory.
func SubsetDir(sessionDir string) string {
	return filepath.Join(sessionDir, naming.SubsetDirName)
}

// BuildSubset selects an evenly spread fraction of frames and materializes
// the selection in the session's subset directory as links to the original
// files; image data is never copied or modified. With reverse set, each
// selected frame is renumbered (last+1)-index, where last is the highest
// index in frames, so that ascending filename order plays backwards.
//
// Any previous subset directory is replaced. When the fraction rounds to
// zero frames the single central frame is kept. The linked frames are
// returned in ascending index order.
func BuildSubset(sessionDir string, frames []Frame, fraction float64, reverse bool) ([]Frame, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("build subset: no frames in %s", sessionDir)
	}

	selected := frames
	if fraction < 1 {
		selected = Sample(frames, fraction)
		if len(selected) == 0 {
			selected = Sample(frames, 1/float64(len(frames)))
		}
	}

	dir := SubsetDir(sessionDir)
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("build subset: %w", err)
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("build subset: %w", err)
	}

	last := frames[len(frames)-1].Index
	out := make([]Frame, 0, len(selected))
	for _, f := range selected {
		idx := f.Index
		if reverse {
			idx = naming.ReverseIndex(f.Index, last)
		}
		dst := filepath.Join(dir, naming.FrameName(idx))
		if err := link(f.Path, dst); err != nil {
			return nil, fmt.Errorf("build subset: link %s: %w", f.Name(), err)
		}
		out = append(out, Frame{Index: idx, Path: dst})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

// link creates dst as a symlink to src, falling back to a hard link where
// symlinks need privileges the process lacks.
func link(src, dst string) error {
	target, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	if err := os.Symlink(target, dst); err == nil {
		return nil
	}
	return os.Link(target, dst)
}
