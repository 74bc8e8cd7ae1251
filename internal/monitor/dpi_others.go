//go:build !windows

package monitor

// EnableDPIAwareness is a no-op outside Windows.
func EnableDPIAwareness() error { return nil }
