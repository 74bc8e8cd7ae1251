package ffmpeg

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/backmassage/snipgif/internal/config"
	"github.com/backmassage/snipgif/internal/naming"
)

// CaptureArgs constructs the complete capture command line: a hardware
// desktop-duplication grab of one monitor, downloaded to system memory as
// BGRA, and written as sequential PNG frames into outDir.
//
// A nil region captures the whole monitor. The argument slice includes the
// executable as element 0.
func CaptureArgs(cfg *config.Config, outDir string, region *config.Region) []string {
	args := make([]string, 0, 16)

	// --- Preamble ---
	args = append(args, cfg.FFmpegPath, "-hide_banner")
	if cfg.Verbose {
		args = append(args, "-loglevel", "info")
	} else {
		args = append(args, "-loglevel", "error")
	}

	// --- D3D11 device for ddagrab ---
	args = append(args, "-init_hw_device", "d3d11va")

	// --- Source filter ---
	args = append(args, "-filter_complex", captureFilter(cfg, region))

	// --- Output frames ---
	args = append(args, filepath.Join(outDir, naming.FramePattern()))
	return args
}

// captureFilter renders the ddagrab filter chain.
func captureFilter(cfg *config.Config, region *config.Region) string {
	f := fmt.Sprintf("ddagrab=output_idx=%d:framerate=%d:draw_mouse=%t",
		cfg.Monitor, cfg.CaptureFPS, cfg.DrawMouse)
	if region != nil {
		f += fmt.Sprintf(":video_size=%dx%d:offset_x=%d:offset_y=%d",
			region.Width, region.Height, region.OffsetX, region.OffsetY)
	}
	return f + ",hwdownload,format=bgra"
}

// ExportArgs constructs the gifski command line that encodes frames (in the
// given order) into a looping GIF at output. The width is capped at the
// captured region's width; a nil region leaves OutputWidth as-is.
func ExportArgs(cfg *config.Config, frames []string, output string, region *config.Region) []string {
	regionWidth := 0
	if region != nil {
		regionWidth = region.Width
	}

	args := make([]string, 0, 20+len(frames))
	args = append(args,
		cfg.GifskiPath,
		"--fps", strconv.Itoa(cfg.ExportFPS),
		"--width", strconv.Itoa(cfg.ExportWidth(regionWidth)),
		"--quiet",
		"--repeat", "0",
		"--matte", config.MatteColor,
		"--quality", strconv.Itoa(cfg.Quality),
		"--motion-quality", strconv.Itoa(cfg.MotionQuality),
		"--lossy-quality", strconv.Itoa(cfg.LossyQuality),
		"--output", output,
	)
	args = append(args, frames...)
	return args
}
