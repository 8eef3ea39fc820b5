package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"keycap-layout/internal/layout/geometry"
	"keycap-layout/internal/layout/layoutfile"
	"keycap-layout/internal/layout/mapper"

	"github.com/spf13/cobra"
)

var (
	importOutput    string
	importGroupSize int
	importMinSize   float64
	importMaxSize   float64
	importScale     float64
	importMargin    float64
)

var importCmd = &cobra.Command{
	Use:   "import <drawing.dxf|entities.json>",
	Short: "Reconstruct keys from a CAD drawing",
	Long: `Reads LINE entities from a DXF drawing (or a JSON entity list), groups them
by four into key outlines, drops outlines outside the size band and writes
a layout file with normalized coordinates.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	def := geometry.DefaultOptions()
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "layout file to write (default: stdout)")
	importCmd.Flags().IntVar(&importGroupSize, "group", def.GroupSize, "line segments per key outline")
	importCmd.Flags().Float64Var(&importMinSize, "min", def.MinSize, "minimum key width/height in drawing units")
	importCmd.Flags().Float64Var(&importMaxSize, "max", def.MaxSize, "maximum key width/height in drawing units")
	importCmd.Flags().Float64Var(&importScale, "scale", mapper.DefaultScale, "drawing to screen scale")
	importCmd.Flags().Float64Var(&importMargin, "margin", mapper.DefaultMargin, "screen margin")
}

func runImport(cmd *cobra.Command, args []string) error {
	filename := args[0]

	opts := geometry.Options{GroupSize: importGroupSize, MinSize: importMinSize, MaxSize: importMaxSize}
	if err := opts.Validate(); err != nil {
		return err
	}

	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	converter := mapper.New(
		opts,
		mapper.NormalizeOptions{Scale: importScale, Margin: importMargin},
		mapper.UUIDProvider{},
	)

	var result *mapper.ImportResult
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		result, err = converter.ImportJSON(f)
	default:
		result, err = converter.ImportDXF(f)
	}
	if err != nil {
		return fmt.Errorf("import %s: %w", filename, err)
	}

	s := result.Stats
	fmt.Fprintf(cmd.ErrOrStderr(), "entities: %d, lines: %d, groups: %d, keys: %d\n",
		s.Entities, s.Lines, s.Groups, s.Accepted)
	if s.TrailingSegments > 0 || s.RejectedFewPoints+s.RejectedInvalid+s.RejectedOutOfBounds > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped: trailing=%d few-points=%d invalid=%d out-of-band=%d\n",
			s.TrailingSegments, s.RejectedFewPoints, s.RejectedInvalid, s.RejectedOutOfBounds)
	}

	var out io.Writer = cmd.OutOrStdout()
	if importOutput != "" {
		file, err := os.Create(importOutput)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	now := time.Now()
	return layoutfile.Encode(out, layoutfile.New(result.Keys, now), now)
}
