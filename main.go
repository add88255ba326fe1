// main.go - Cartridge Player entry point

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;191;64;255m  ▄▄·  ▄▄▄· ▄▄▄  ▄▄▄▄▄▄▄▄  ▪  ·▄▄▄▄   ▄▄ • ▄▄▄ .\033[0m\n\033[38;2;191;80;255m ▐█ ▌▪▐█ ▀█ ▀▄ █·•██  ▀▄ █·██ ██▪ ██ ▐█ ▀ ▪▀▄.▀·\033[0m\n\033[38;2;191;95;255m ██ ▄▄▄█▀▀█ ▐▀▀▄  ▐█.▪▐▀▀▄ ▐█·▐█· ▐█▌▄█ ▀█▄▐▀▀▪▄\033[0m\n\033[38;2;191;110;255m ▐███▌▐█ ▪▐▌▐█•█▌ ▐█▌·▐█•█▌▐█▌██. ██ ▐█▄▪▐█▐█▄▄▌\033[0m\n\033[38;2;191;125;255m ·▀▀▀  ▀  ▀ .▀  ▀ ▀▀▀ .▀  ▀▀▀▀▀▀▀▀▀• ·▀▀▀▀  ▀▀▀ \033[0m")
	fmt.Println("\nA skeuomorphic music cartridge player with a CRT display.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/CartridgePlayer")
	fmt.Println("License: GPLv3 or later")
}

// rootCmd runs the player when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "cartridge-player",
	Short: "A music cartridge player with a CRT display",
	Long: `Cartridge Player is a virtual music device: pick a cartridge from the
shelf, insert it, and play its tracks through a simulated CRT display.

Hold prev or next to rewind or fast-forward.`,
	SilenceUsage: true,
	RunE:         runPlay,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./cartridge-player.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("shelf", "cartridges", "directory holding cartridges")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	addPlayFlags(rootCmd)

	viper.BindPFlag("shelf.directory", rootCmd.PersistentFlags().Lookup("shelf"))
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
	if verbose {
		viper.Set("logging.level", "debug")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
