// cmd_info.go - info and shelf commands

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var infoCmd = &cobra.Command{
	Use:   "info <cartridge>",
	Short: "Show a cartridge's tracks",
	Long:  "Print the collection name, track count, runtime and track list of a cartridge directory or meta.json file.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cart, err := LoadCartridge(args[0])
		if err != nil {
			return err
		}
		renderCartridgeInfo(cmd.OutOrStdout(), cart)
		return nil
	},
}

var shelfCmd = &cobra.Command{
	Use:   "shelf",
	Short: "List the cartridges on the shelf",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := viper.GetString("shelf.directory")
		carts, err := scanShelf(dir)
		if err != nil {
			return fmt.Errorf("shelf %s: %w", dir, err)
		}
		renderShelf(cmd.OutOrStdout(), carts)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(shelfCmd)
}

// renderCartridgeInfo prints the info panel of a cartridge
func renderCartridgeInfo(w io.Writer, c *Cartridge) {
	fmt.Fprintln(w, c.Name)
	fmt.Fprintf(w, "%d Tracks | Runtime: %s\n", len(c.Tracks), FormatDuration(c.Runtime()))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Track", "Duration", "File"})
	for i, tr := range c.Tracks {
		t.AppendRow(table.Row{i + 1, tr.Name, FormatDuration(tr.Duration), tr.File})
	}
	t.AppendFooter(table.Row{"", "Total", FormatDuration(c.Runtime()), ""})
	t.Render()
}

func renderShelf(w io.Writer, carts []*Cartridge) {
	if len(carts) == 0 {
		fmt.Fprintln(w, "No cartridges found")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Cartridge", "Tracks", "Runtime", "Directory"})
	for i, c := range carts {
		t.AppendRow(table.Row{i + 1, c.Name, len(c.Tracks), FormatDuration(c.Runtime()), c.Dir})
	}
	t.Render()
}

