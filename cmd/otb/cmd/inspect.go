package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/parser"
	"github.com/spf13/cobra"
)

var inspectNets bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.kicad_pcb>",
	Short: "Summarize a kicad_pcb file",
	Long: `Read a kicad_pcb file and print its size, footprints and copper. With
--nets, list what is attached to each net.

Examples:
  otb sample build blinky555 -o blinky.kicad_pcb
  otb inspect blinky.kicad_pcb --nets`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := parser.ParseFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Board: %s (version %d)\n", args[0], b.Version)
		if r, ok := b.Bounds(); ok {
			fmt.Fprintf(out, "Size: %.2f x %.2f mm\n", r.Width(), r.Height())
		}
		fmt.Fprintf(out, "Nets: %d\n", len(b.Nets))
		fmt.Fprintf(out, "Footprints: %d\n", len(b.Footprints))
		fmt.Fprintf(out, "Tracks: %d\n", len(b.Tracks))
		fmt.Fprintf(out, "Vias: %d\n", len(b.Vias))
		fmt.Fprintf(out, "Zones: %d\n", len(b.Zones))

		if verbose {
			fmt.Fprintln(out)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "REF\tFOOTPRINT\tLAYER\tX\tY\tANGLE")
			for _, fp := range b.Footprints {
				fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%g\n",
					fp.Reference, fp.Name, fp.Layer, fp.Position.X, fp.Position.Y, fp.Angle)
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}

		if !inspectNets {
			return nil
		}
		fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NET\tNAME\tPADS\tTRACKS\tVIAS\tZONES")
		for _, u := range b.Usage() {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\n", u.Net.Number, u.Net.Name, u.Pads, u.Tracks, u.Vias, u.Zones)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&inspectNets, "nets", false, "list per-net usage")
}
