package cmd

import (
	"io"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/renderer"
	"github.com/spf13/cobra"
)

var (
	previewOutput string
	previewTheme  string
	previewWidth  int
	previewHeight int
	previewBack   bool
	previewLabels bool
	previewCopper bool
)

var previewCmd = &cobra.Command{
	Use:   "preview <sample>",
	Short: "Render a PNG preview of a sample",
	Long: `Render a sample board to a PNG image. Theme, size and labels default to
the values of the settings file.

Examples:
  otb preview blinky555 -o blinky.png
  otb preview rainbow --theme nord --back
  otb preview atmega328 --copper-only --width 2048 --height 1536`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, cfg, err := buildSample(cmd, args[0])
		if err != nil {
			return err
		}

		s := cfg.Settings
		flags := cmd.Flags()
		if flags.Changed("theme") {
			s.Theme = previewTheme
		}
		if flags.Changed("width") {
			s.PreviewWidth = previewWidth
		}
		if flags.Changed("height") {
			s.PreviewHeight = previewHeight
		}
		if flags.Changed("labels") {
			s.Labels = previewLabels
		}

		theme, err := renderer.ParseTheme(s.Theme)
		if err != nil {
			return err
		}
		opts := renderer.DefaultOptions()
		opts.Theme = theme
		opts.Back = previewBack
		opts.Labels = s.Labels
		if s.PreviewWidth > 0 {
			opts.Width = s.PreviewWidth
		}
		if s.PreviewHeight > 0 {
			opts.Height = s.PreviewHeight
		}
		if previewCopper {
			opts.Layers = renderer.NewLayerConfig()
			opts.Layers.ShowCopperOnly()
		}

		out := previewOutput
		if out == "" {
			out = args[0] + ".png"
		}
		return writeOutput(cmd, out, func(w io.Writer) error {
			return renderer.RenderPNG(w, d.Board, opts)
		})
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)

	f := previewCmd.Flags()
	f.StringVarP(&previewOutput, "output", "o", "", "output file, - for stdout (default: <sample>.png)")
	f.StringVar(&previewTheme, "theme", "", "color theme (default from settings)")
	f.IntVar(&previewWidth, "width", 0, "image width in pixels (default from settings)")
	f.IntVar(&previewHeight, "height", 0, "image height in pixels (default from settings)")
	f.BoolVar(&previewBack, "back", false, "show the bottom side")
	f.BoolVar(&previewLabels, "labels", true, "draw component references")
	f.BoolVar(&previewCopper, "copper-only", false, "show copper and the outline only")
}
