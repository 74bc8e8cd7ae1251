package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/backmassage/snipgif/internal/config"
	"github.com/backmassage/snipgif/internal/display"
	"github.com/backmassage/snipgif/internal/logging"
	"github.com/backmassage/snipgif/internal/monitor"
	"github.com/backmassage/snipgif/internal/naming"
	"github.com/backmassage/snipgif/internal/probe"
	"github.com/backmassage/snipgif/internal/recorder"
)

// Options controls one session.
type Options struct {
	// Output is a file or directory; empty means a timestamped name in the
	// current directory.
	Output string
	// NoClobber picks "name (N).gif" instead of replacing an existing file.
	NoClobber bool
	// Region is monitor-relative; nil records the whole monitor.
	Region *config.Region
	// Duration auto-stops the capture; zero means MaxDuration.
	Duration time.Duration
	// KeepTemp leaves the session directory in place.
	KeepTemp bool
	// Stop ends the capture and proceeds to export. Cancelling the context
	// instead aborts without exporting.
	Stop <-chan struct{}
	// Monitors supplies display geometry; nil skips region clipping.
	Monitors monitor.Provider
	// Now is the clock used for default output names.
	Now func() time.Time
}

// Run records one session and exports it. It returns stats for whatever
// was completed; on error the stats may be partial.
func Run(ctx context.Context, cfg *config.Config, opts Options, log *logging.Logger) (SessionStats, error) {
	var stats SessionStats
	if opts.Now == nil {
		opts.Now = time.Now
	}

	// --- Geometry ---
	captureRegion, exportRegion, err := resolveRegions(cfg, opts, log)
	if err != nil {
		return stats, err
	}

	// --- Output path ---
	stats.Output = resolveOutput(opts)
	log.Info("Output: %s", stats.Output)

	// --- Capture ---
	rec, err := recorder.New(cfg, log)
	if err != nil {
		return stats, err
	}
	defer rec.Close()
	if !opts.KeepTemp {
		defer func() {
			if err := rec.Cleanup(); err != nil {
				log.Warn("Could not remove session directory: %v", err)
			}
		}()
	}

	started := make(chan time.Time, 1)
	finished := make(chan struct{})
	if err := rec.StartCapture(captureRegion, recorder.CaptureOptions{
		OnStarted: func() { started <- time.Now() },
		AutoStop:  opts.Duration,
	}); err != nil {
		return stats, err
	}
	rec.EnqueueFinishTask(func() { close(finished) })

	var startedAt time.Time
	select {
	case startedAt = <-started:
		log.Info("Recording... press Enter to stop")
	case <-finished:
	case <-ctx.Done():
	}

	select {
	case <-opts.Stop:
		log.Debug("stop requested from input")
	case <-finished:
	case <-ctx.Done():
		log.Warn("Interrupted; discarding recording")
		stats.Cancelled = true
	}
	rec.RequestStop()
	rec.WaitForFinish()
	if !startedAt.IsZero() {
		stats.Recorded = time.Since(startedAt)
	}
	if err := rec.Err(); err != nil {
		return stats, err
	}
	if stats.Cancelled {
		return stats, ctx.Err()
	}

	// --- Export ---
	res, err := export(rec, stats.Output, exportRegion)
	stats.Captured = res.Captured
	stats.Exported = res.Frames
	stats.Bytes = res.Bytes
	stats.Encoded = res.Elapsed
	stats.Reversed = res.Reversed
	if err != nil {
		return stats, err
	}

	// --- Probe ---
	stats.Probe = probeOutput(ctx, cfg, stats.Output, log)

	logSummary(log, &stats)
	return stats, nil
}

// export queues the export and waits for its callback.
func export(rec *recorder.Controller, dest string, region *config.Region) (recorder.ExportResult, error) {
	type outcome struct {
		res recorder.ExportResult
		err error
	}
	ch := make(chan outcome, 1)
	if !rec.Export(dest, region, func(res recorder.ExportResult, err error) {
		ch <- outcome{res, err}
	}) {
		return recorder.ExportResult{}, recorder.ErrNoFrames
	}
	o := <-ch
	return o.res, o.err
}

// resolveRegions clips the requested region to the configured monitor and
// derives the region used to cap the export width.
func resolveRegions(cfg *config.Config, opts Options, log *logging.Logger) (capture, export *config.Region, err error) {
	if opts.Monitors == nil {
		return opts.Region, opts.Region, nil
	}
	mon, err := monitor.Select(opts.Monitors, cfg.Monitor)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("monitor %d: %s", cfg.Monitor, monitor.Describe(mon))

	capture, err = monitor.ClipRegion(mon, opts.Region)
	if err != nil {
		return nil, nil, err
	}
	if capture != nil && opts.Region != nil && *capture != *opts.Region {
		log.Warn("Region %s clipped to %s", opts.Region, capture)
	}
	if capture != nil {
		return capture, capture, nil
	}
	full := fullMonitor(mon)
	return nil, &full, nil
}

func fullMonitor(mon image.Rectangle) config.Region {
	return config.Region{Width: mon.Dx(), Height: mon.Dy()}
}

func resolveOutput(opts Options) string {
	isDir := strings.HasSuffix(opts.Output, "/") || strings.HasSuffix(opts.Output, string(os.PathSeparator))
	if fi, err := os.Stat(opts.Output); err == nil && fi.IsDir() {
		isDir = true
	}
	out := naming.GetOutputPath(opts.Output, isDir, opts.Now())
	if opts.NoClobber {
		out = naming.NewCollisionResolver().Resolve(out)
	}
	return out
}

// probeOutput inspects the GIF when ffprobe is available. Failures are
// logged at debug level only; the GIF itself is already written.
func probeOutput(ctx context.Context, cfg *config.Config, path string, log *logging.Logger) *probe.Result {
	if cfg.FFprobePath == "" {
		return nil
	}
	if _, err := exec.LookPath(cfg.FFprobePath); err != nil {
		log.Debug("ffprobe unavailable: %v", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	r, err := probe.Probe(ctx, cfg.FFprobePath, path)
	if err != nil {
		log.Debug("probe failed: %v", err)
		return nil
	}
	return r
}

// --- Logging helpers ---

func logSummary(log *logging.Logger, s *SessionStats) {
	parts := []string{display.FormatFrames(s.Exported, s.Captured)}
	if s.Probe != nil {
		parts = append(parts, s.Probe.Resolution())
		if fps := s.Probe.FPS(); fps > 0 {
			parts = append(parts, fmt.Sprintf("%g fps", fps))
		}
	}
	parts = append(parts, display.FormatBytes(s.Bytes))
	if s.Reversed {
		parts = append(parts, "reversed")
	}
	log.Success("Saved %s (%s)", s.Output, strings.Join(parts, ", "))
	log.Info("Recorded %s, encoded in %s", display.FormatDuration(s.Recorded), display.FormatDuration(s.Encoded))
}

// IsCancelled reports whether err came from aborting the session.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
