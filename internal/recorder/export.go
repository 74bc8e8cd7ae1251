package recorder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/snipgif/internal/config"
	"github.com/backmassage/snipgif/internal/ffmpeg"
	"github.com/backmassage/snipgif/internal/frames"
)

// export is the worker job for one export.
func (c *Controller) export(dest string, region *config.Region, onComplete func(ExportResult, error)) {
	var res ExportResult
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ffmpeg.ErrExportFailed, r)
		}
		if err != nil {
			c.log.Error("%v", err)
		}
		if onComplete != nil {
			c.safeCall("export callback", func() { onComplete(res, err) })
		}
	}()
	res, err = c.runExport(dest, region)
}

func (c *Controller) runExport(dest string, region *config.Region) (ExportResult, error) {
	start := time.Now()
	res := ExportResult{Path: dest, Reversed: c.cfg.Reverse}

	c.mu.Lock()
	dir := c.sessionDir
	c.mu.Unlock()
	if dir == "" {
		return res, fmt.Errorf("%w: no session", ffmpeg.ErrExportFailed)
	}
	log := c.log.WithField("session", filepath.Base(dir))

	if err := os.Remove(dest); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return res, fmt.Errorf("%w: remove existing %s: %v", ffmpeg.ErrExportFailed, dest, err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return res, fmt.Errorf("%w: %v", ffmpeg.ErrExportFailed, err)
	}

	if removed, err := frames.DiscardStartupFrame(dir); err != nil {
		return res, fmt.Errorf("%w: %v", ffmpeg.ErrExportFailed, err)
	} else if removed {
		log.Debug("discarded startup frame")
	}

	all, err := frames.List(dir)
	if err != nil {
		return res, fmt.Errorf("%w: %v", ffmpeg.ErrExportFailed, err)
	}
	if len(all) == 0 {
		return res, fmt.Errorf("%w: %w", ffmpeg.ErrExportFailed, ErrNoFrames)
	}
	res.Captured = len(all)

	selected := all
	if c.cfg.NeedsSubset() {
		selected, err = frames.BuildSubset(dir, all, c.cfg.KeepFraction(), c.cfg.Reverse)
		if err != nil {
			return res, fmt.Errorf("%w: %v", ffmpeg.ErrExportFailed, err)
		}
		log.Debug("subset: kept %d of %d frames (reverse=%t)", len(selected), len(all), c.cfg.Reverse)
	}
	res.Frames = len(selected)

	args := ffmpeg.ExportArgs(&c.cfg, frames.Paths(selected), dest, region)
	log.Debug("exec: %s", strings.Join(args[:len(args)-len(selected)], " "))

	if tee := log.DebugWriter(); tee != nil {
		err = ffmpeg.Run(context.Background(), ffmpeg.OpExport, args, tee)
		_ = tee.Close()
	} else {
		err = ffmpeg.Run(context.Background(), ffmpeg.OpExport, args, nil)
	}
	if err != nil {
		return res, err
	}

	fi, err := os.Stat(dest)
	if err != nil {
		return res, fmt.Errorf("%w: encoder wrote no output: %v", ffmpeg.ErrExportFailed, err)
	}
	res.Bytes = fi.Size()
	res.Elapsed = time.Since(start)
	log.Success("Exported %d frames to %s", res.Frames, dest)
	return res, nil
}
