// Package monitor enumerates displays and turns a requested capture area
// into the monitor-relative region the capture encoder expects.
//
// Monitors are ordered primary first, matching the desktop-duplication
// output index used for capture. The primary monitor is the one containing
// the desktop origin.
package monitor

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/kbinani/screenshot"

	"github.com/backmassage/snipgif/internal/config"
)

// ErrNoMonitor is returned when a monitor index does not exist.
var ErrNoMonitor = errors.New("no such monitor")

// Provider returns monitor rectangles in desktop coordinates, primary first.
type Provider interface {
	Monitors() ([]image.Rectangle, error)
}

// ScreenshotProvider reads display bounds from the operating system.
type ScreenshotProvider struct{}

// Monitors implements Provider.
func (ScreenshotProvider) Monitors() ([]image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return nil, fmt.Errorf("%w: no active displays", ErrNoMonitor)
	}
	out := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, screenshot.GetDisplayBounds(i))
	}
	return PrimaryFirst(out), nil
}

// StaticProvider serves a fixed list, already ordered.
type StaticProvider []image.Rectangle

// Monitors implements Provider.
func (s StaticProvider) Monitors() ([]image.Rectangle, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("%w: empty monitor list", ErrNoMonitor)
	}
	return append([]image.Rectangle(nil), s...), nil
}

// PrimaryFirst moves the monitor containing the desktop origin to the front,
// keeping the others in their original order.
func PrimaryFirst(mons []image.Rectangle) []image.Rectangle {
	out := append([]image.Rectangle(nil), mons...)
	sort.SliceStable(out, func(i, j int) bool {
		return isPrimary(out[i]) && !isPrimary(out[j])
	})
	return out
}

func isPrimary(r image.Rectangle) bool {
	return image.Point{}.In(r)
}

// Select returns monitor index from p.
func Select(p Provider, index int) (image.Rectangle, error) {
	mons, err := p.Monitors()
	if err != nil {
		return image.Rectangle{}, err
	}
	if index < 0 || index >= len(mons) {
		return image.Rectangle{}, fmt.Errorf("%w: index %d (have %d)", ErrNoMonitor, index, len(mons))
	}
	return mons[index], nil
}

// ClipRegion clips a monitor-relative region to the monitor's size. A nil
// region (whole monitor) stays nil. A region whose offset lies outside the
// monitor is an error.
func ClipRegion(mon image.Rectangle, r *config.Region) (*config.Region, error) {
	if r == nil {
		return nil, nil
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	w, h := mon.Dx(), mon.Dy()
	if r.OffsetX >= w || r.OffsetY >= h {
		return nil, fmt.Errorf("region %s starts outside the %dx%d monitor", r, w, h)
	}
	out := *r
	out.Width = min(out.Width, w-out.OffsetX)
	out.Height = min(out.Height, h-out.OffsetY)
	return &out, nil
}

// Describe renders a monitor as "WxH at (X,Y)".
func Describe(r image.Rectangle) string {
	return fmt.Sprintf("%dx%d at (%d,%d)", r.Dx(), r.Dy(), r.Min.X, r.Min.Y)
}
