package config

// This file defines the session flags and their config keys.
// Flags are grouped into capture, export, session/timing, and display.
// Negated flags (e.g. --no-color) are applied after Load so config-file values hold unless set.

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps each flag name to the viper key it overrides.
var flagKeys = map[string]string{
	"fps":             "capture_fps",
	"mouse":           "draw_mouse",
	"monitor":         "monitor",
	"max-duration":    "max_duration",
	"export-fps":      "export_fps",
	"width":           "output_width",
	"quality":         "quality",
	"motion-quality":  "motion_quality",
	"lossy-quality":   "lossy_quality",
	"keep":            "keep_percentage",
	"reverse":         "reverse",
	"temp-root":       "temp_root",
	"ready-timeout":   "ready_timeout",
	"quit-grace":      "quit_grace",
	"terminate-grace": "terminate_grace",
	"ffmpeg":          "ffmpeg_path",
	"gifski":          "gifski_path",
	"ffprobe":         "ffprobe_path",
	"verbose":         "verbose",
	"log-level":       "log_level",
	"color":           "color",
	"log":             "log_file",
}

// DefineFlags registers all session flags on fs with stock defaults.
func DefineFlags(fs *pflag.FlagSet) {
	d := DefaultConfig()
	defineCaptureFlags(fs, &d)
	defineExportFlags(fs, &d)
	defineSessionFlags(fs, &d)
	defineDisplayFlags(fs, &d)
}

// defineCaptureFlags registers --fps, --mouse, -m/--monitor, --max-duration.
func defineCaptureFlags(fs *pflag.FlagSet, d *Config) {
	fs.Int("fps", d.CaptureFPS, "Capture frame rate (1-50)")
	fs.Bool("mouse", d.DrawMouse, "Draw the mouse cursor")
	fs.IntP("monitor", "m", d.Monitor, "Monitor index, 0 is primary")
	fs.Duration("max-duration", d.MaxDuration, "Hard cap on capture length")
}

// defineExportFlags registers gifski settings plus --keep and --reverse.
func defineExportFlags(fs *pflag.FlagSet, d *Config) {
	fs.Int("export-fps", d.ExportFPS, "GIF playback frame rate (1-50)")
	fs.IntP("width", "w", d.OutputWidth, "Output width in pixels, capped at capture width")
	fs.IntP("quality", "q", d.Quality, "gifski quality (0-100)")
	fs.Int("motion-quality", d.MotionQuality, "gifski motion quality (0-100)")
	fs.Int("lossy-quality", d.LossyQuality, "gifski lossy quality (0-100)")
	fs.Float64P("keep", "k", d.KeepPercentage, "Percentage of frames to keep, evenly spread (0-100]")
	fs.BoolP("reverse", "r", d.Reverse, "Play the GIF backwards")
}

// defineSessionFlags registers temp-dir, process timing and binary path flags.
func defineSessionFlags(fs *pflag.FlagSet, d *Config) {
	fs.String("temp-root", d.TempRoot, "Parent directory for session frames (default: system temp)")
	fs.Duration("ready-timeout", d.ReadyTimeout, "Max wait for the first captured frame")
	fs.Duration("quit-grace", d.QuitGrace, "Wait after sending quit before terminating ffmpeg")
	fs.Duration("terminate-grace", d.TerminateGrace, "Wait after terminating ffmpeg before killing it")
	fs.String("ffmpeg", d.FFmpegPath, "ffmpeg executable")
	fs.String("gifski", d.GifskiPath, "gifski executable")
	fs.String("ffprobe", d.FFprobePath, "ffprobe executable (optional)")
}

// defineDisplayFlags registers -v/--verbose, --log-level, --color, --no-color, -l/--log.
func defineDisplayFlags(fs *pflag.FlagSet, d *Config) {
	fs.BoolP("verbose", "v", d.Verbose, "Verbose output (debug level)")
	fs.String("log-level", d.LogLevel, "Log level: debug | info | warn | error")
	fs.String("color", string(d.ColorMode), "Colored logs: auto | always | never")
	fs.Bool("no-color", false, "Same as --color=never")
	fs.StringP("log", "l", d.LogFile, "Append logs to file")
}

// BindFlags attaches every defined flag in fs to its viper key. Flags not
// present in fs are skipped so commands can register a subset.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// ApplyNegatedFlags copies negated flag values into cfg (--no-color -> ColorNever).
// Verbose implies debug level regardless of --log-level.
func ApplyNegatedFlags(cfg *Config, fs *pflag.FlagSet) {
	if noColor, err := fs.GetBool("no-color"); err == nil && noColor {
		cfg.ColorMode = ColorNever
	}
	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}
}
