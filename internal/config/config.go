// Package config holds runtime configuration for a capture session: defaults,
// bounds, validation, flag definitions, and config-file loading. The
// defaults match the recorder settings the tool has always shipped with.
package config

import (
	"fmt"
	"math"
	"time"
)

// Capture and export bounds.
const (
	MinFPS       = 1
	MaxFPS       = 50
	DefaultFPS   = 20
	MinWidth     = 20
	MaxWidth     = 3840
	DefaultWidth = 600
	MinQuality   = 0
	MaxQuality   = 100

	DefaultQuality       = 90
	DefaultMotionQuality = 90
	DefaultLossyQuality  = 90

	// MatteColor is the background gifski blends transparent pixels against.
	MatteColor = "313338"

	DefaultMaxDuration = 5 * time.Minute
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all session settings. It is populated by [DefaultConfig],
// then overlaid by [Load] with config-file, environment, and flag values
// before being passed (by pointer) to packages that need it.
type Config struct {
	// Capture settings (Capture Encoder Process).
	CaptureFPS  int           `mapstructure:"capture_fps" yaml:"capture_fps"`
	DrawMouse   bool          `mapstructure:"draw_mouse" yaml:"draw_mouse"`
	Monitor     int           `mapstructure:"monitor" yaml:"monitor"` // 0-based; primary first.
	MaxDuration time.Duration `mapstructure:"max_duration" yaml:"max_duration"`

	// Export settings (GIF Encoder Process).
	ExportFPS      int     `mapstructure:"export_fps" yaml:"export_fps"`
	OutputWidth    int     `mapstructure:"output_width" yaml:"output_width"`
	Quality        int     `mapstructure:"quality" yaml:"quality"`
	MotionQuality  int     `mapstructure:"motion_quality" yaml:"motion_quality"`
	LossyQuality   int     `mapstructure:"lossy_quality" yaml:"lossy_quality"`
	KeepPercentage float64 `mapstructure:"keep_percentage" yaml:"keep_percentage"` // (0,100]
	Reverse        bool    `mapstructure:"reverse" yaml:"reverse"`

	// Session directory. TempDir is the live session and is never read
	// from config; TempRoot defaults to os.TempDir().
	TempRoot string `mapstructure:"temp_root" yaml:"temp_root"`
	TempDir  string `mapstructure:"-" yaml:"-"`

	// Process timing.
	ReadyTimeout   time.Duration `mapstructure:"ready_timeout" yaml:"ready_timeout"`
	SettleDelay    time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
	QuitGrace      time.Duration `mapstructure:"quit_grace" yaml:"quit_grace"`
	TerminateGrace time.Duration `mapstructure:"terminate_grace" yaml:"terminate_grace"`

	// External binaries.
	FFmpegPath  string `mapstructure:"ffmpeg_path" yaml:"ffmpeg_path"`
	GifskiPath  string `mapstructure:"gifski_path" yaml:"gifski_path"`
	FFprobePath string `mapstructure:"ffprobe_path" yaml:"ffprobe_path"`

	// Display and logging.
	Verbose   bool      `mapstructure:"verbose" yaml:"verbose"`
	LogLevel  string    `mapstructure:"log_level" yaml:"log_level"`
	ColorMode ColorMode `mapstructure:"color" yaml:"color"`
	LogFile   string    `mapstructure:"log_file" yaml:"log_file"`
}

// DefaultConfig returns a Config with the stock recorder settings. A session
// directory name is assigned but not created; see [Config.NewSession].
func DefaultConfig() Config {
	return Config{
		CaptureFPS:     DefaultFPS,
		DrawMouse:      false,
		Monitor:        0,
		MaxDuration:    DefaultMaxDuration,
		ExportFPS:      DefaultFPS,
		OutputWidth:    DefaultWidth,
		Quality:        DefaultQuality,
		MotionQuality:  DefaultMotionQuality,
		LossyQuality:   DefaultLossyQuality,
		KeepPercentage: 100,
		Reverse:        false,
		TempDir:        newTempDirName(""),
		ReadyTimeout:   2 * time.Second,
		SettleDelay:    250 * time.Millisecond,
		QuitGrace:      2 * time.Second,
		TerminateGrace: 2 * time.Second,
		FFmpegPath:     "ffmpeg",
		GifskiPath:     "gifski",
		FFprobePath:    "ffprobe",
		LogLevel:       "info",
		ColorMode:      ColorAuto,
	}
}

// NeedsSubset reports whether export has to build a subset directory
// instead of encoding the session directory as-is.
func (c *Config) NeedsSubset() bool {
	return c.KeepPercentage != 100 || c.Reverse
}

// KeepFraction returns KeepPercentage as a fraction in (0,1].
func (c *Config) KeepFraction() float64 {
	return c.KeepPercentage / 100.0
}

// ExportWidth caps OutputWidth at the width of the captured region. A zero
// region width means the capture size is unknown and OutputWidth is used.
func (c *Config) ExportWidth(regionWidth int) int {
	if regionWidth > 0 && regionWidth < c.OutputWidth {
		return regionWidth
	}
	return c.OutputWidth
}

// Validate checks every bounded field and returns all failures at once as
// [ValidationErrors]. The returned error matches [ErrInvalidConfig].
func (c *Config) Validate() error {
	var errs ValidationErrors

	checkRange := func(field string, v, lo, hi int) {
		if v < lo || v > hi {
			errs = append(errs, ValidationError{
				Field:   field,
				Value:   v,
				Message: fmt.Sprintf("must be between %d and %d", lo, hi),
			})
		}
	}

	checkRange("capture_fps", c.CaptureFPS, MinFPS, MaxFPS)
	checkRange("export_fps", c.ExportFPS, MinFPS, MaxFPS)
	checkRange("output_width", c.OutputWidth, MinWidth, MaxWidth)
	checkRange("quality", c.Quality, MinQuality, MaxQuality)
	checkRange("motion_quality", c.MotionQuality, MinQuality, MaxQuality)
	checkRange("lossy_quality", c.LossyQuality, MinQuality, MaxQuality)

	if c.Monitor < 0 {
		errs = append(errs, ValidationError{Field: "monitor", Value: c.Monitor, Message: "must not be negative"})
	}
	if math.IsNaN(c.KeepPercentage) || c.KeepPercentage <= 0 || c.KeepPercentage > 100 {
		errs = append(errs, ValidationError{
			Field:   "keep_percentage",
			Value:   c.KeepPercentage,
			Message: "must be greater than 0 and at most 100",
		})
	}
	if c.MaxDuration <= 0 {
		errs = append(errs, ValidationError{Field: "max_duration", Value: c.MaxDuration, Message: "must be positive"})
	}
	if c.QuitGrace < 0 || c.TerminateGrace < 0 || c.ReadyTimeout < 0 || c.SettleDelay < 0 {
		errs = append(errs, ValidationError{Field: "timing", Value: "negative", Message: "durations must not be negative"})
	}
	if c.FFmpegPath == "" {
		errs = append(errs, ValidationError{Field: "ffmpeg_path", Value: "", Message: "must not be empty"})
	}
	if c.GifskiPath == "" {
		errs = append(errs, ValidationError{Field: "gifski_path", Value: "", Message: "must not be empty"})
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		errs = append(errs, ValidationError{
			Field:   "color",
			Value:   c.ColorMode,
			Message: "use 'auto', 'always' or 'never'",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
