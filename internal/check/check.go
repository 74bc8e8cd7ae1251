// Package check provides system diagnostics (the check command) and
// pre-capture dependency validation (CheckDeps) for ffmpeg, its ddagrab
// filter, gifski, and the optional ffprobe.
package check

import (
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/backmassage/snipgif/internal/config"
	"github.com/backmassage/snipgif/internal/monitor"
)

// Sentinel errors returned by CheckDeps when a required tool or filter is missing.
var (
	ErrFfmpegNotFound = errors.New("ffmpeg not found")
	ErrGifskiNotFound = errors.New("gifski not found")
	ErrNoDdagrab      = errors.New("ffmpeg has no ddagrab filter (a Windows build with D3D11 support is required)")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...any)
	Success(string, ...any)
	Warn(string, ...any)
	Error(string, ...any)
	Debug(string, ...any)
}

// RunCheck runs the interactive check flow: prints availability and versions
// of ffmpeg, the ddagrab filter, gifski and ffprobe, then the monitor list.
// It reports whether every required dependency is present.
func RunCheck(cfg *config.Config, monitors monitor.Provider, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkTool(log, "ffmpeg", cfg.FFmpegPath, "-version", true)
	if ok {
		ok = checkDdagrab(log, cfg.FFmpegPath) && ok
	}
	ok = checkTool(log, "gifski", cfg.GifskiPath, "--version", true) && ok
	checkTool(log, "ffprobe", cfg.FFprobePath, "-version", false)
	checkMonitors(log, monitors)
	return ok
}

// checkTool verifies a binary resolves and logs the first line of its
// version output. Missing optional tools are a warning.
func checkTool(log Logger, name, path, versionFlag string, required bool) bool {
	resolved, err := exec.LookPath(path)
	if err != nil {
		if required {
			log.Error("%s not found (%s)", name, path)
		} else {
			log.Warn("%s not found (%s); output details will be skipped", name, path)
		}
		return false
	}
	out, err := exec.Command(resolved, versionFlag).Output()
	if err != nil {
		log.Warn("%s found but %s failed: %v", name, versionFlag, err)
		return !required
	}
	log.Success("%s: %s", name, firstLine(string(out)))
	log.Debug("%s resolved to %s", name, resolved)
	return true
}

// checkDdagrab lists ffmpeg's filters and looks for ddagrab.
func checkDdagrab(log Logger, ffmpegPath string) bool {
	has, err := HasDdagrab(ffmpegPath)
	switch {
	case err != nil:
		log.Warn("Could not list ffmpeg filters: %v", err)
		return false
	case !has:
		log.Error("ffmpeg lacks the ddagrab filter")
		return false
	}
	log.Success("ddagrab filter available")
	return true
}

func checkMonitors(log Logger, p monitor.Provider) {
	if p == nil {
		return
	}
	mons, err := p.Monitors()
	if err != nil {
		log.Warn("Could not enumerate monitors: %v", err)
		return
	}
	log.Info("Monitors:")
	for i, m := range mons {
		log.Info("  %d: %s", i, monitor.Describe(m))
	}
}

// CheckDeps is the pre-capture validation: it verifies that ffmpeg and
// gifski resolve and that ffmpeg has the ddagrab filter. Returns a sentinel
// error on failure.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.FFmpegPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFfmpegNotFound, cfg.FFmpegPath)
	}
	if _, err := exec.LookPath(cfg.GifskiPath); err != nil {
		return fmt.Errorf("%w: %s", ErrGifskiNotFound, cfg.GifskiPath)
	}
	has, err := HasDdagrab(cfg.FFmpegPath)
	if err != nil {
		return fmt.Errorf("list ffmpeg filters: %w", err)
	}
	if !has {
		return ErrNoDdagrab
	}
	return nil
}

// reDdagrabFilter matches the ddagrab row of `ffmpeg -filters`.
var reDdagrabFilter = regexp.MustCompile(`(?m)^\s*\S*\s+ddagrab\s`)

// HasDdagrab reports whether the ffmpeg at path lists the ddagrab filter.
func HasDdagrab(path string) (bool, error) {
	out, err := exec.Command(path, "-hide_banner", "-filters").Output()
	if err != nil {
		return false, err
	}
	return reDdagrabFilter.Match(out), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
