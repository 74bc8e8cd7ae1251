//go:build windows

package monitor

import (
	"golang.org/x/sys/windows"
)

var (
	modShcore = windows.NewLazySystemDLL("shcore.dll")
	modUser32 = windows.NewLazySystemDLL("user32.dll")

	procSetProcessDpiAwareness = modShcore.NewProc("SetProcessDpiAwareness")
	procSetProcessDPIAware     = modUser32.NewProc("SetProcessDPIAware")
)

const (
	processPerMonitorDPIAware = 2
	eAccessDenied             = 0x80070005 // awareness was already set
)

// EnableDPIAwareness makes monitor bounds report physical pixels, which is
// what desktop duplication captures. It prefers per-monitor awareness
// (Windows 8.1+) and falls back to system awareness.
func EnableDPIAwareness() error {
	if procSetProcessDpiAwareness.Find() == nil {
		hr, _, _ := procSetProcessDpiAwareness.Call(processPerMonitorDPIAware)
		if hr == 0 || uint32(hr) == eAccessDenied {
			return nil
		}
	}
	if err := procSetProcessDPIAware.Find(); err != nil {
		return err
	}
	if ok, _, err := procSetProcessDPIAware.Call(); ok == 0 {
		return err
	}
	return nil
}
