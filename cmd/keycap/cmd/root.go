package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "keycap",
	Short: "keycap - keycap layout import and export tools",
	Long: `keycap works with keycap layouts outside the editor:
  - import key outlines from a DXF drawing (or a decoded entity list)
  - render a layout layer to PNG or SVG
  - inspect a saved layout file

Examples:
  keycap import board.dxf -o layout.json
  keycap render layout.json -o base.png
  keycap render layout.json --layer fn --format svg -o fn.svg
  keycap info layout.json`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !verbose {
			log.SetOutput(io.Discard)
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
