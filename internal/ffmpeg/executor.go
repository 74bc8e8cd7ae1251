package ffmpeg

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Run executes args to completion. Stderr is retained (bounded) for the
// returned *ProcessError and copied to tee in real time when tee is non-nil,
// which is how verbose mode surfaces encoder progress.
//
// Cancelling ctx kills the process.
func Run(ctx context.Context, op Op, args []string, tee io.Writer) error {
	if len(args) == 0 {
		return newProcessError(op, args, "", fmt.Errorf("empty command line"))
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	hideWindow(cmd)

	stderr := newTailBuffer(stderrTailSize)
	if tee != nil {
		cmd.Stderr = io.MultiWriter(stderr, tee)
	} else {
		cmd.Stderr = stderr
	}

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w (%v)", ctxErr, err)
		}
		return newProcessError(op, args, stderr.String(), err)
	}
	return nil
}
