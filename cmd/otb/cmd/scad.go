package cmd

import (
	"io"

	"github.com/spf13/cobra"
)

var (
	scadOutput    string
	scadThickness float64
	scadOffset    float64
	scadOuterOnly bool
)

var scadCmd = &cobra.Command{
	Use:   "scad <sample>",
	Short: "Export a sample's board outline as an OpenSCAD solid",
	Long: `Rebuild the closed outline of a sample's Edge.Cuts layer and write it as
an OpenSCAD linear extrusion.

Examples:
  otb scad blinky555 -o blinky.scad
  otb scad rainbow --thickness 3 --offset 0.3 --outer-only`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, _, err := buildSample(cmd, args[0])
		if err != nil {
			return err
		}
		src, err := d.Board.Edge.OpenSCAD(scadThickness, scadOffset, scadOuterOnly)
		if err != nil {
			return err
		}
		out := scadOutput
		if out == "" {
			out = args[0] + ".scad"
		}
		return writeOutput(cmd, out, func(w io.Writer) error {
			_, err := io.WriteString(w, src)
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(scadCmd)

	scadCmd.Flags().StringVarP(&scadOutput, "output", "o", "", "output file, - for stdout (default: <sample>.scad)")
	scadCmd.Flags().Float64Var(&scadThickness, "thickness", 1.6, "extrusion height in mm")
	scadCmd.Flags().Float64Var(&scadOffset, "offset", 0, "grow the outline by this radius in mm")
	scadCmd.Flags().BoolVar(&scadOuterOnly, "outer-only", false, "ignore cutouts")
}
