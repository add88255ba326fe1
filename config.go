// config.go - Player configuration

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the player
type Config struct {
	Window  WindowConfig  `mapstructure:"window"`
	Display DisplayOpts   `mapstructure:"display"`
	Audio   AudioConfig   `mapstructure:"audio"`
	Shelf   ShelfConfig   `mapstructure:"shelf"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type WindowConfig struct {
	Scale      float64 `mapstructure:"scale"`
	Fullscreen bool    `mapstructure:"fullscreen"`
	Title      string  `mapstructure:"title"`
}

// DisplayOpts configures the CRT display
type DisplayOpts struct {
	Width          int     `mapstructure:"width"`
	Height         int     `mapstructure:"height"`
	Density        float64 `mapstructure:"density"`
	Pixelation     int     `mapstructure:"pixelation"`
	BlurRadius     float64 `mapstructure:"blur_radius"`
	RasterInterval int     `mapstructure:"raster_interval"`
	Font           string  `mapstructure:"font"`
}

type AudioConfig struct {
	SampleRate  int     `mapstructure:"sample_rate"`
	SongGain    float64 `mapstructure:"song_gain"`
	ButtonPress string  `mapstructure:"button_press"`
	ButtonUp    string  `mapstructure:"button_up"`
}

type ShelfConfig struct {
	Directory string `mapstructure:"directory"`
	Watch     bool   `mapstructure:"watch"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// setConfigDefaults registers every default on v
func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("window.scale", 0.6)
	v.SetDefault("window.fullscreen", false)
	v.SetDefault("window.title", "Cartridge Player")
	v.SetDefault("display.width", DISPLAY_WIDTH)
	v.SetDefault("display.height", DISPLAY_HEIGHT)
	v.SetDefault("display.density", 1.0)
	v.SetDefault("display.pixelation", PIXELATION_LEVEL)
	v.SetDefault("display.blur_radius", TEXT_BLUR_RADIUS)
	v.SetDefault("display.raster_interval", RASTER_INTERVAL)
	v.SetDefault("display.font", "")
	v.SetDefault("audio.sample_rate", SAMPLE_RATE)
	v.SetDefault("audio.song_gain", SONG_GAIN)
	v.SetDefault("audio.button_press", "")
	v.SetDefault("audio.button_up", "")
	v.SetDefault("shelf.directory", "cartridges")
	v.SetDefault("shelf.watch", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// LoadConfig loads configuration from file and environment variables. A nil
// v uses the global viper instance the CLI flags are bound to.
func LoadConfig(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.GetViper()
	}
	setConfigDefaults(v)

	if v.ConfigFileUsed() == "" {
		v.SetConfigName("cartridge-player")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.cartridge-player")
	}

	v.SetEnvPrefix("CARTRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		slog.Debug("No config file found, using defaults and environment variables")
	} else {
		slog.Debug("Using config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the player cannot run with
func (c *Config) Validate() error {
	switch {
	case c.Window.Scale <= 0:
		return &ConfigError{Field: "window.scale", Message: "must be positive"}
	case c.Display.Width <= 0 || c.Display.Height <= 0:
		return &ConfigError{Field: "display", Message: fmt.Sprintf("invalid size %dx%d", c.Display.Width, c.Display.Height)}
	case c.Display.Density <= 0:
		return &ConfigError{Field: "display.density", Message: "must be positive"}
	case c.Display.Pixelation < 1:
		return &ConfigError{Field: "display.pixelation", Message: "must be at least 1"}
	case c.Display.BlurRadius < 0:
		return &ConfigError{Field: "display.blur_radius", Message: "must not be negative"}
	case c.Display.RasterInterval < 1:
		return &ConfigError{Field: "display.raster_interval", Message: "must be at least 1"}
	case c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000:
		return &ConfigError{Field: "audio.sample_rate", Message: fmt.Sprintf("unsupported rate %d", c.Audio.SampleRate)}
	case c.Audio.SongGain <= 0 || c.Audio.SongGain > 1:
		return &ConfigError{Field: "audio.song_gain", Message: "must be in (0, 1]"}
	case c.Shelf.Directory == "":
		return &ConfigError{Field: "shelf.directory", Message: "shelf directory is required"}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be text or json"}
	}
	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

// WindowDisplay derives the window setup from the configuration
func (c *Config) WindowDisplay() DisplayConfig {
	return DisplayConfig{
		Width:      WINDOW_WIDTH,
		Height:     WINDOW_HEIGHT,
		Scale:      ClampScale(c.Window.Scale),
		Density:    c.Display.Density,
		VSync:      true,
		Fullscreen: c.Window.Fullscreen,
		Title:      c.Window.Title,
	}
}
