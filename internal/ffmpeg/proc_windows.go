//go:build windows

package ffmpeg

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// hideWindow keeps console encoders from flashing a window.
func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}

// terminate has no gentler option than TerminateProcess on Windows.
func terminate(p *os.Process) error {
	return p.Kill()
}
