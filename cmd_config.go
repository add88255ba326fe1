// cmd_config.go - config commands

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  "Commands for showing and validating the player configuration.",
}

// configValidateCmd validates the current configuration
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  "Validate the current configuration file and environment variables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogging("info", "text", cmd.ErrOrStderr())

		cfg, err := LoadConfig(nil)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			slog.Error("Configuration validation failed", slog.Any("error", err))
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
		return nil
	},
}

// configShowCmd shows the current configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the current configuration values from file and environment variables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogging("info", "text", cmd.ErrOrStderr())

		cfg, err := LoadConfig(nil)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "Current Configuration:")
		fmt.Fprintf(w, "  Window:\n")
		fmt.Fprintf(w, "    Scale: %g\n", cfg.Window.Scale)
		fmt.Fprintf(w, "    Fullscreen: %t\n", cfg.Window.Fullscreen)
		fmt.Fprintf(w, "  Display:\n")
		fmt.Fprintf(w, "    Size: %dx%d @ %gx\n", cfg.Display.Width, cfg.Display.Height, cfg.Display.Density)
		fmt.Fprintf(w, "    Pixelation: %d\n", cfg.Display.Pixelation)
		fmt.Fprintf(w, "    Blur radius: %g\n", cfg.Display.BlurRadius)
		fmt.Fprintf(w, "    Raster interval: %d frames\n", cfg.Display.RasterInterval)
		fmt.Fprintf(w, "    Font: %s\n", orDefault(cfg.Display.Font, "Go Mono"))
		fmt.Fprintf(w, "  Audio:\n")
		fmt.Fprintf(w, "    Sample rate: %d\n", cfg.Audio.SampleRate)
		fmt.Fprintf(w, "    Song gain: %g\n", cfg.Audio.SongGain)
		fmt.Fprintf(w, "    Button press: %s\n", orDefault(cfg.Audio.ButtonPress, "synthesised"))
		fmt.Fprintf(w, "    Button up: %s\n", orDefault(cfg.Audio.ButtonUp, "synthesised"))
		fmt.Fprintf(w, "  Shelf:\n")
		fmt.Fprintf(w, "    Directory: %s\n", cfg.Shelf.Directory)
		fmt.Fprintf(w, "    Watch: %t\n", cfg.Shelf.Watch)
		fmt.Fprintf(w, "  Logging:\n")
		fmt.Fprintf(w, "    Level: %s\n", cfg.Logging.Level)
		fmt.Fprintf(w, "    Format: %s\n", cfg.Logging.Format)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
