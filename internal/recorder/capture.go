package recorder

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/snipgif/internal/config"
	"github.com/backmassage/snipgif/internal/ffmpeg"
	"github.com/backmassage/snipgif/internal/frames"
	"github.com/backmassage/snipgif/internal/logging"
)

// capture is the worker job for one capture cycle. The finish sequence runs
// on every path, panics included.
func (c *Controller) capture(region *config.Region, opts CaptureOptions) {
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ffmpeg.ErrCaptureFailed, r)
		}
		if err != nil {
			c.log.Error("%v", err)
		}
		c.finish(err, opts.OnFinished)
	}()
	err = c.runCapture(region, opts)
}

func (c *Controller) runCapture(region *config.Region, opts CaptureOptions) error {
	if err := c.cfg.NewSession(); err != nil {
		return fmt.Errorf("%w: create session dir: %v", ffmpeg.ErrCaptureFailed, err)
	}
	dir := c.cfg.TempDir
	c.mu.Lock()
	c.sessionDir = dir
	c.region = region
	c.mu.Unlock()

	log := c.log.WithField("session", filepath.Base(dir))

	watcher, werr := watchFirstFrame(dir)
	if werr != nil {
		log.Debug("frame watcher unavailable, using settle delay: %v", werr)
	}

	args := ffmpeg.CaptureArgs(&c.cfg, dir, region)
	log.Debug("exec: %s", strings.Join(args, " "))

	var proc *ffmpeg.Process
	var err error
	if tee := log.DebugWriter(); tee != nil {
		defer tee.Close()
		proc, err = ffmpeg.Start(ffmpeg.OpCapture, args, tee)
	} else {
		proc, err = ffmpeg.Start(ffmpeg.OpCapture, args, nil)
	}
	if err != nil {
		if watcher != nil {
			_ = watcher.Close()
		}
		return err
	}
	// Close reaps the process on every path; after Stop it is a no-op.
	defer proc.Close()
	log.Debug("capture encoder pid %d, frames in %s", proc.Pid(), dir)

	started := time.Now()
	if err := c.awaitReady(watcher, proc, log); err != nil {
		return err
	}
	if region != nil {
		log.Info("Capturing monitor %d region %s at %d fps", c.cfg.Monitor, region, c.cfg.CaptureFPS)
	} else {
		log.Info("Capturing monitor %d at %d fps", c.cfg.Monitor, c.cfg.CaptureFPS)
	}
	c.safeCall("start callback", opts.OnStarted)

	limit := c.autoStopAfter(opts.AutoStop)
	var timeout <-chan time.Time
	if limit > 0 {
		timer := time.NewTimer(limit)
		defer timer.Stop()
		timeout = timer.C
	}

	exitedEarly := false
	select {
	case <-c.stop:
		log.Debug("stop requested")
	case <-timeout:
		log.Info("Auto-stop after %s", limit)
	case <-proc.Done():
		exitedEarly = true
	}

	c.mu.Lock()
	c.state = StateStopping
	c.mu.Unlock()

	mode := proc.Stop(c.cfg.QuitGrace, c.cfg.TerminateGrace)
	log.Debug("capture process %s after %s", mode, time.Since(started).Round(time.Millisecond))
	if exitedEarly {
		return proc.UnexpectedExit()
	}
	if mode == ffmpeg.StopKilled {
		log.Warn("Capture process did not exit after quit and terminate; killed")
	}

	captured, err := frames.List(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ffmpeg.ErrCaptureFailed, err)
	}
	if len(captured) == 0 {
		return &ffmpeg.ProcessError{
			Op: ffmpeg.OpCapture, Args: args, ExitCode: -1,
			Stderr: proc.Stderr(), Err: ErrNoFrames,
		}
	}
	log.Success("Captured %d frames in %s", len(captured), time.Since(started).Round(100*time.Millisecond))
	return nil
}

// awaitReady blocks until the encoder writes its first frame, the encoder
// exits, a stop arrives, or ReadyTimeout passes. Without a watcher it
// sleeps the fixed SettleDelay instead.
func (c *Controller) awaitReady(w *frameWatcher, proc *ffmpeg.Process, log *logging.Logger) error {
	var ready <-chan struct{}
	wait := c.cfg.SettleDelay
	if w != nil {
		defer w.Close()
		ready = w.Ready()
		wait = c.cfg.ReadyTimeout
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ready:
	case <-proc.Done():
		return proc.UnexpectedExit()
	case <-c.stop:
		// Put the stop back for the main wait.
		select {
		case c.stop <- struct{}{}:
		default:
		}
	case <-timer.C:
		if w != nil {
			log.Warn("No frame after %s; continuing", wait)
		}
	}
	return nil
}

// autoStopAfter caps the requested auto-stop at MaxDuration.
func (c *Controller) autoStopAfter(requested time.Duration) time.Duration {
	limit := c.cfg.MaxDuration
	if requested > 0 && (limit <= 0 || requested < limit) {
		return requested
	}
	return limit
}
