package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to upper-cased config keys (SNIPGIF_CAPTURE_FPS).
const EnvPrefix = "SNIPGIF"

// SetDefaults registers default values with v.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("capture_fps", d.CaptureFPS)
	v.SetDefault("draw_mouse", d.DrawMouse)
	v.SetDefault("monitor", d.Monitor)
	v.SetDefault("max_duration", d.MaxDuration)

	v.SetDefault("export_fps", d.ExportFPS)
	v.SetDefault("output_width", d.OutputWidth)
	v.SetDefault("quality", d.Quality)
	v.SetDefault("motion_quality", d.MotionQuality)
	v.SetDefault("lossy_quality", d.LossyQuality)
	v.SetDefault("keep_percentage", d.KeepPercentage)
	v.SetDefault("reverse", d.Reverse)

	v.SetDefault("temp_root", d.TempRoot)
	v.SetDefault("ready_timeout", d.ReadyTimeout)
	v.SetDefault("settle_delay", d.SettleDelay)
	v.SetDefault("quit_grace", d.QuitGrace)
	v.SetDefault("terminate_grace", d.TerminateGrace)

	v.SetDefault("ffmpeg_path", d.FFmpegPath)
	v.SetDefault("gifski_path", d.GifskiPath)
	v.SetDefault("ffprobe_path", d.FFprobePath)

	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("color", string(d.ColorMode))
	v.SetDefault("log_file", d.LogFile)
}

// NewViper returns a viper instance with defaults, environment binding, and
// the config file read in. An explicit configFile must exist; the default
// location is optional.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	explicit := configFile != ""
	if !explicit {
		configFile = ConfigFile()
		if _, err := os.Stat(configFile); errors.Is(err, os.ErrNotExist) {
			return v, nil
		}
	}
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return v, nil
}

// Load reads the configuration from v into a Config seeded with defaults and
// validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigDir returns the user's snipgif config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "snipgif")
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".snipgif"
	}
	return filepath.Join(dir, "snipgif")
}

// ConfigFile returns the default config file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Dump renders the effective configuration as YAML. Durations are written
// in time.Duration string form so the output can be fed back as a config file.
func (c *Config) Dump() ([]byte, error) {
	var doc yaml.Node
	if err := doc.Encode(c); err != nil {
		return nil, err
	}
	durations := map[string]time.Duration{
		"max_duration":    c.MaxDuration,
		"ready_timeout":   c.ReadyTimeout,
		"settle_delay":    c.SettleDelay,
		"quit_grace":      c.QuitGrace,
		"terminate_grace": c.TerminateGrace,
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if d, ok := durations[doc.Content[i].Value]; ok {
			doc.Content[i+1].Tag = "!!str"
			doc.Content[i+1].Value = d.String()
		}
	}
	return yaml.Marshal(&doc)
}
