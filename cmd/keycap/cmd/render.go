package cmd

import (
	"fmt"
	"os"

	"keycap-layout/internal/layout/layoutfile"
	"keycap-layout/internal/layout/mapper"
	"keycap-layout/internal/layout/models"

	"github.com/spf13/cobra"
)

var (
	renderOutput string
	renderLayer  string
	renderFormat string
)

var renderCmd = &cobra.Command{
	Use:   "render <layout.json>",
	Short: "Export a layout layer as an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var infoCmd = &cobra.Command{
	Use:   "info <layout.json>",
	Short: "Show layout summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(infoCmd)

	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "image file to write (required)")
	renderCmd.Flags().StringVar(&renderLayer, "layer", models.BaseLayer, "layer to render")
	renderCmd.Flags().StringVar(&renderFormat, "format", "png", "png or svg")
	_ = renderCmd.MarkFlagRequired("output")
}

func loadLayout(filename string) (*models.Layout, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	layout, err := layoutfile.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return layout, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	layout, err := loadLayout(args[0])
	if err != nil {
		return err
	}

	renderer := mapper.NewRenderer()

	switch renderFormat {
	case "svg":
		svg, err := renderer.RenderSVG(layout, renderLayer)
		if err != nil {
			return err
		}
		return os.WriteFile(renderOutput, []byte(svg), 0o644)

	case "png":
		f, err := os.Create(renderOutput)
		if err != nil {
			return err
		}
		if err := renderer.RenderPNG(f, layout, renderLayer); err != nil {
			f.Close()
			return err
		}
		return f.Close()

	default:
		return fmt.Errorf("unknown format %q (want png or svg)", renderFormat)
	}
}

func runInfo(cmd *cobra.Command, args []string) error {
	layout, err := loadLayout(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Version: %d\n", layout.Version)
	fmt.Fprintf(out, "Saved:   %s\n", layout.SavedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Layers:  %v\n", layout.Layers)
	fmt.Fprintf(out, "Keys:    %d\n", len(layout.Keys))

	if len(layout.Keys) == 0 {
		return nil
	}

	minX, minY := layout.Keys[0].X, layout.Keys[0].Y
	maxX, maxY := minX, minY
	for _, k := range layout.Keys {
		minX = min(minX, k.X-k.Width/2)
		minY = min(minY, k.Y-k.Height/2)
		maxX = max(maxX, k.X+k.Width/2)
		maxY = max(maxY, k.Y+k.Height/2)
	}
	fmt.Fprintf(out, "Extent:  (%.1f, %.1f) - (%.1f, %.1f)\n", minX, minY, maxX, maxY)
	return nil
}
