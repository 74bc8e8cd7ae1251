//go:build unix

package ffmpeg

import (
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

func hideWindow(*exec.Cmd) {}

func terminate(p *os.Process) error {
	if err := p.Signal(unix.SIGTERM); err != nil {
		return p.Kill()
	}
	return nil
}
