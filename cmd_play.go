// cmd_play.go - play command

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var playCmd = &cobra.Command{
	Use:   "play [cartridge]",
	Short: "Open the player",
	Long: `Open the player window, or the terminal shell with --terminal.
With a cartridge argument it is inserted straight away.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("terminal", false, "run in the terminal instead of a window")
	cmd.Flags().Bool("fullscreen", false, "start fullscreen")
	cmd.Flags().Float64("scale", 0.6, "window scale")
	cmd.Flags().String("font", "", "TTF/OTF font for the display (default Go Mono)")
}

func init() {
	addPlayFlags(playCmd)
	rootCmd.AddCommand(playCmd)
}

func bindPlayFlags(cmd *cobra.Command) {
	viper.BindPFlag("window.fullscreen", cmd.Flags().Lookup("fullscreen"))
	viper.BindPFlag("window.scale", cmd.Flags().Lookup("scale"))
	viper.BindPFlag("display.font", cmd.Flags().Lookup("font"))
}

func runPlay(cmd *cobra.Command, args []string) error {
	bindPlayFlags(cmd)
	terminal, _ := cmd.Flags().GetBool("terminal")

	cfg, err := LoadConfig(nil)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	// the terminal shell owns stdout
	logOut := os.Stdout
	if terminal {
		logOut = os.Stderr
	} else {
		boilerPlate()
	}
	setupLogging(cfg.Logging.Level, cfg.Logging.Format, logOut)

	if len(args) == 1 {
		if forwardToRunning(args[0]) {
			return nil
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := NewPlayer(cfg, nil)
	if err != nil {
		return err
	}
	if err := p.Start(ctx); err != nil {
		return err
	}
	defer p.Close()

	if srv, err := NewIPCServer(p.HandleRemote); err != nil {
		slog.Warn("control socket unavailable", "err", err)
	} else {
		srv.Start()
		defer srv.Stop()
	}

	if len(args) == 1 {
		cart, err := LoadCartridge(args[0])
		if err != nil {
			return err
		}
		p.device.Insert(cart)
	}

	if terminal {
		return runTerminal(ctx, p, os.Stdout)
	}
	return runWindow(ctx, p, cfg)
}

// forwardToRunning hands the cartridge to an already open player. It
// reports false when there is none to take it.
func forwardToRunning(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if err := SendIPC(ipcRequest{Cmd: ipcCmdInsert, Path: abs}); err != nil {
		slog.Debug("no running instance", "err", err)
		return false
	}
	slog.Info("cartridge sent to running player", "path", abs)
	return true
}
