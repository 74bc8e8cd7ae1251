package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Region is the capture rectangle forwarded to the capture process: a size
// and an offset into the selected monitor.
type Region struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	OffsetX int `yaml:"offset_x"`
	OffsetY int `yaml:"offset_y"`
}

// Validate rejects negative fields and an empty size.
func (r Region) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("region size must be positive (got %dx%d)", r.Width, r.Height)
	}
	if r.OffsetX < 0 || r.OffsetY < 0 {
		return fmt.Errorf("region offsets must not be negative (got +%d+%d)", r.OffsetX, r.OffsetY)
	}
	return nil
}

// String renders the region in WxH+X+Y form, the same form ParseRegion accepts.
func (r Region) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.OffsetX, r.OffsetY)
}

// ParseRegion parses "WxH" or "WxH+X+Y".
func ParseRegion(s string) (Region, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return Region{}, fmt.Errorf("empty region")
	}

	size, offsets, hasOffsets := strings.Cut(s, "+")
	w, h, ok := strings.Cut(size, "x")
	if !ok {
		return Region{}, fmt.Errorf("invalid region %q (use WxH or WxH+X+Y)", s)
	}

	var r Region
	var err error
	if r.Width, err = parseDim(w, "width"); err != nil {
		return Region{}, err
	}
	if r.Height, err = parseDim(h, "height"); err != nil {
		return Region{}, err
	}
	if hasOffsets {
		x, y, ok := strings.Cut(offsets, "+")
		if !ok {
			return Region{}, fmt.Errorf("invalid region %q (use WxH or WxH+X+Y)", s)
		}
		if r.OffsetX, err = parseDim(x, "x offset"); err != nil {
			return Region{}, err
		}
		if r.OffsetY, err = parseDim(y, "y offset"); err != nil {
			return Region{}, err
		}
	}
	return r, r.Validate()
}

func parseDim(s, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("region %s must be a whole number (got %q)", name, s)
	}
	return n, nil
}
