package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/samples"
	"github.com/spf13/cobra"
)

var sampleOutput string

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "List and build the sample boards",
}

var sampleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the sample boards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tJIG\tDESCRIPTION")
		for _, s := range samples.All() {
			jig := "no"
			if s.Jig {
				jig = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, jig, s.Description)
		}
		return w.Flush()
	},
}

var sampleBuildCmd = &cobra.Command{
	Use:   "build <sample>",
	Short: "Build a sample and write its .kicad_pcb file",
	Long: `Build a sample board and write it in KiCad PCB format.

Examples:
  otb sample build blinky555 -o blinky.kicad_pcb
  otb sample build rainbow -o -      # write to stdout`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, _, err := buildSample(cmd, args[0])
		if err != nil {
			return err
		}
		out := sampleOutput
		if out == "" {
			out = args[0] + ".kicad_pcb"
		}
		return writeOutput(cmd, out, func(w io.Writer) error {
			_, err := io.WriteString(w, d.Board.String())
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	sampleCmd.AddCommand(sampleListCmd, sampleBuildCmd)

	sampleBuildCmd.Flags().StringVarP(&sampleOutput, "output", "o", "", "output file, - for stdout (default: <sample>.kicad_pcb)")
}
