package recorder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/backmassage/snipgif/internal/config"
	"github.com/backmassage/snipgif/internal/logging"
)

var (
	// ErrAlreadyCapturing is returned by StartCapture outside Idle.
	ErrAlreadyCapturing = errors.New("capture already in progress")
	// ErrNoFrames means a capture or export found no usable frames.
	ErrNoFrames = errors.New("no frames captured")
	// ErrClosed is returned once the controller has been closed.
	ErrClosed = errors.New("controller closed")
)

// State is the capture lifecycle state.
type State int

const (
	StateIdle State = iota
	StateCapturing
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateStopping:
		return "stopping"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// CaptureOptions are the optional hooks and limits for one capture.
type CaptureOptions struct {
	// OnStarted runs on the worker once the encoder is producing frames.
	OnStarted func()
	// OnFinished runs on the worker after the finish signal, with the
	// capture's error (nil on success), before queued finish tasks.
	OnFinished func(error)
	// AutoStop stops the capture after this long. Zero, or anything above
	// the configured MaxDuration, means MaxDuration.
	AutoStop time.Duration
}

// ExportResult describes a finished export.
type ExportResult struct {
	Path     string
	Captured int   // Frames available after the startup frame was dropped.
	Frames   int   // Frames passed to the encoder.
	Bytes    int64 // Size of the written GIF.
	Reversed bool
	Elapsed  time.Duration
}

// Controller serializes capture and export jobs for one session slot.
type Controller struct {
	cfg config.Config // worker-owned; TempDir changes with each session
	log *logging.Logger

	mu         sync.Mutex
	jobs       []func()
	closed     bool
	state      State
	finished   chan struct{} // closed when the current capture cycle ends
	finishQ    []func()
	lastErr    error
	sessionDir string
	region     *config.Region

	wake chan struct{} // depth 1
	stop chan struct{} // depth 1
	done chan struct{} // closed when the worker exits
}

// New validates cfg, copies it, and starts the worker. Call Close when done.
func New(cfg *config.Config, log *logging.Logger) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Discard()
	}
	closedCh := make(chan struct{})
	close(closedCh)

	c := &Controller{
		cfg:      *cfg,
		log:      log.Component("recorder"),
		finished: closedCh,
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go c.run()
	return c, nil
}

// StartCapture moves the controller from Idle to Capturing and queues the
// capture job. It returns at once; the worker creates a fresh session
// directory (removing the previous one), launches the encoder, waits for
// the first frame and then calls opts.OnStarted. A nil region captures the
// whole monitor.
func (c *Controller) StartCapture(region *config.Region, opts CaptureOptions) error {
	if region != nil {
		if err := region.Validate(); err != nil {
			return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
		}
		r := *region
		region = &r
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.state != StateIdle {
		return ErrAlreadyCapturing
	}

	// A stop left over from the previous cycle must not end this one.
	select {
	case <-c.stop:
	default:
	}

	c.state = StateCapturing
	c.finished = make(chan struct{})
	c.lastErr = nil
	c.enqueueLocked(func() { c.capture(region, opts) })
	return nil
}

// RequestStop asks the running capture to finish. It never blocks, and it
// has no effect when nothing is capturing or a stop is already pending.
func (c *Controller) RequestStop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateCapturing {
		return
	}
	c.state = StateStopping
	select {
	case c.stop <- struct{}{}:
	default:
	}
}

// IsCapturing reports whether a capture cycle is in flight (Capturing or
// Stopping).
func (c *Controller) IsCapturing() bool {
	return c.State() != StateIdle
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ReadyToExport reports whether a session directory exists, i.e. a capture
// has been started at least once and not cleaned up.
func (c *Controller) ReadyToExport() bool {
	return config.SessionDirExists(c.SessionDir())
}

// SessionDir returns the current session directory, or "" before the first
// capture.
func (c *Controller) SessionDir() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionDir
}

// WaitForFinish blocks until the current capture cycle has finalized. It
// returns at once when nothing is capturing. Any number of goroutines may
// wait; one finish signal releases them all.
func (c *Controller) WaitForFinish() {
	c.mu.Lock()
	ch := c.finished
	c.mu.Unlock()
	<-ch
}

// WaitForFinishContext is WaitForFinish bounded by ctx.
func (c *Controller) WaitForFinishContext(ctx context.Context) error {
	c.mu.Lock()
	ch := c.finished
	c.mu.Unlock()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the error of the most recent finished capture cycle.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// EnqueueFinishTask schedules fn to run on the worker after the current
// capture cycle's finish signal, after previously enqueued tasks. When
// nothing is capturing, fn is queued as an ordinary worker job instead.
func (c *Controller) EnqueueFinishTask(fn func()) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		c.finishQ = append(c.finishQ, fn)
		return
	}
	if c.closed {
		return
	}
	c.enqueueLocked(func() { c.safeCall("finish task", fn) })
}

// Export queues an export of the current session to dest and reports
// whether it was queued. Nothing happens (false) before the first capture.
// A nil region uses the region of the last capture. onComplete, when set,
// runs on the worker with the result or an error wrapping
// ffmpeg.ErrExportFailed.
func (c *Controller) Export(dest string, region *config.Region, onComplete func(ExportResult, error)) bool {
	if dest == "" || !c.ReadyToExport() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	if region == nil {
		region = c.region
	}
	c.enqueueLocked(func() { c.export(dest, region, onComplete) })
	return true
}

// Cleanup removes the session directory once all queued work has run. A
// missing directory is not an error. Cleanup blocks while a capture is in
// flight, since the capture job holds the worker until it is stopped. It
// must not be called from a callback or finish task.
func (c *Controller) Cleanup() error {
	errCh := make(chan error, 1)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		<-c.done
		return c.removeSession()
	}
	c.enqueueLocked(func() { errCh <- c.removeSession() })
	c.mu.Unlock()
	return <-errCh
}

// Close stops a running capture, lets queued jobs finish and stops the
// worker. The session directory is left in place; see Cleanup. Like
// Cleanup, it must not be called from the worker.
func (c *Controller) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		if c.state == StateCapturing {
			c.state = StateStopping
			select {
			case c.stop <- struct{}{}:
			default:
			}
		}
	}
	c.mu.Unlock()
	c.kick()
	<-c.done
}

func (c *Controller) removeSession() error {
	if err := c.cfg.RemoveTempDir(); err != nil {
		return fmt.Errorf("remove session dir: %w", err)
	}
	c.mu.Lock()
	c.sessionDir = ""
	c.region = nil
	c.mu.Unlock()
	return nil
}

// --- Worker ---

// enqueueLocked appends a job and wakes the worker. c.mu must be held.
func (c *Controller) enqueueLocked(job func()) {
	c.jobs = append(c.jobs, job)
	c.kick()
}

func (c *Controller) kick() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Controller) run() {
	defer close(c.done)
	for {
		job, ok := c.next()
		if !ok {
			return
		}
		job()
	}
}

// next pops the oldest job, sleeping until one arrives. It reports false
// once the controller is closed and the queue is empty.
func (c *Controller) next() (func(), bool) {
	for {
		c.mu.Lock()
		if len(c.jobs) > 0 {
			job := c.jobs[0]
			c.jobs[0] = nil
			c.jobs = c.jobs[1:]
			c.mu.Unlock()
			return job, true
		}
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return nil, false
		}
		<-c.wake
	}
}

// finish ends a capture cycle: back to Idle, finish signal, OnFinished,
// then the finish queue in enqueue order.
func (c *Controller) finish(err error, onFinished func(error)) {
	c.mu.Lock()
	c.state = StateIdle
	c.lastErr = err
	close(c.finished)
	tasks := c.finishQ
	c.finishQ = nil
	c.mu.Unlock()

	if onFinished != nil {
		c.safeCall("finish callback", func() { onFinished(err) })
	}
	for _, fn := range tasks {
		c.safeCall("finish task", fn)
	}
}

// safeCall runs a caller-supplied callback, logging instead of crashing the
// worker if it panics.
func (c *Controller) safeCall(what string, fn func()) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("%s panicked: %v", what, r)
		}
	}()
	fn()
}
