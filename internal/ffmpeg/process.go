package ffmpeg

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"
)

// StopMode reports how a stopped process came to an end.
type StopMode int

const (
	StopExited     StopMode = iota // Already exited before Stop was called.
	StopQuit                       // Exited after the "q" request.
	StopTerminated                 // Exited after SIGTERM (TerminateProcess on Windows).
	StopKilled                     // Had to be killed.
)

func (m StopMode) String() string {
	switch m {
	case StopExited:
		return "exited"
	case StopQuit:
		return "quit"
	case StopTerminated:
		return "terminated"
	case StopKilled:
		return "killed"
	}
	return fmt.Sprintf("StopMode(%d)", int(m))
}

// Process is a running external encoder with exactly one owner. The owner
// must call Close (or Stop) on every path; Close always reaps the child.
type Process struct {
	op     Op
	args   []string
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *tailBuffer

	done chan struct{}
	err  error // set before done is closed

	stdinOnce sync.Once
}

// Start launches args[0] with the remaining arguments. Stdin stays open for
// the quit request; stderr is retained (bounded) and also copied to tee when
// tee is non-nil.
func Start(op Op, args []string, tee io.Writer) (*Process, error) {
	if len(args) == 0 {
		return nil, &ProcessError{Op: op, ExitCode: -1, Err: errors.New("empty command line")}
	}

	cmd := exec.Command(args[0], args[1:]...)
	hideWindow(cmd)

	p := &Process{
		op:     op,
		args:   args,
		cmd:    cmd,
		stderr: newTailBuffer(stderrTailSize),
		done:   make(chan struct{}),
	}
	if tee != nil {
		cmd.Stderr = io.MultiWriter(p.stderr, tee)
	} else {
		cmd.Stderr = p.stderr
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, newProcessError(op, args, "", err)
	}
	p.stdin = stdin

	if err := cmd.Start(); err != nil {
		return nil, newProcessError(op, args, p.stderr.String(), err)
	}
	go p.wait()
	return p, nil
}

func (p *Process) wait() {
	p.err = p.cmd.Wait()
	close(p.done)
}

// Done is closed once the process has exited and been reaped.
func (p *Process) Done() <-chan struct{} { return p.done }

// Exited reports whether the process has already exited.
func (p *Process) Exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Pid returns the operating-system process id.
func (p *Process) Pid() int { return p.cmd.Process.Pid }

// Stderr returns the retained tail of the process's stderr.
func (p *Process) Stderr() string { return p.stderr.String() }

// Result converts the exit status into a *ProcessError, or nil for a clean
// exit. It blocks until the process has exited.
func (p *Process) Result() error {
	<-p.done
	if p.err == nil {
		return nil
	}
	return newProcessError(p.op, p.args, p.stderr.String(), p.err)
}

// UnexpectedExit describes an exit nobody asked for: the exit error when the
// status was non-zero, otherwise a *ProcessError wrapping ErrExitedEarly.
// It blocks until the process has exited.
func (p *Process) UnexpectedExit() error {
	if err := p.Result(); err != nil {
		return err
	}
	return &ProcessError{Op: p.op, Args: p.args, ExitCode: 0, Stderr: p.stderr.String(), Err: ErrExitedEarly}
}

// Stop ends the process cooperatively and escalates: it asks ffmpeg to quit
// by writing "q" on stdin, then terminates it after quitGrace, then kills it
// after terminateGrace. Stop returns only once the process is reaped.
func (p *Process) Stop(quitGrace, terminateGrace time.Duration) StopMode {
	if p.Exited() {
		p.closeStdin()
		return StopExited
	}

	_, _ = io.WriteString(p.stdin, "q")
	p.closeStdin()
	if p.waitFor(quitGrace) {
		return StopQuit
	}

	_ = terminate(p.cmd.Process)
	if p.waitFor(terminateGrace) {
		return StopTerminated
	}

	_ = p.cmd.Process.Kill()
	<-p.done
	return StopKilled
}

// Close kills the process if it is still running and waits for it to be
// reaped. It is safe to call more than once and after Stop.
func (p *Process) Close() {
	p.closeStdin()
	if !p.Exited() {
		_ = p.cmd.Process.Kill()
	}
	<-p.done
}

func (p *Process) closeStdin() {
	p.stdinOnce.Do(func() { _ = p.stdin.Close() })
}

func (p *Process) waitFor(d time.Duration) bool {
	if d <= 0 {
		return p.Exited()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-p.done:
		return true
	case <-t.C:
		return false
	}
}

// newProcessError wraps a start or wait failure with the exit code and the
// stderr tail.
func newProcessError(op Op, args []string, stderr string, err error) *ProcessError {
	pe := &ProcessError{Op: op, Args: args, ExitCode: -1, Stderr: stderr, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		pe.ExitCode = exitErr.ExitCode()
	}
	return pe
}
