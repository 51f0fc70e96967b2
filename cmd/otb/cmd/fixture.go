package cmd

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/fixture"
	"github.com/spf13/cobra"
)

var (
	fixtureMode   string
	fixtureOutput string
)

var fixtureCmd = &cobra.Command{
	Use:   "fixture <sample>",
	Short: "Generate the pogo-pin programming jig of a sample",
	Long: `Generate the parts of a sample's pogo-pin jig: the top plate with its
latches, the spacers and the bottom part. Depending on --mode the bottom is
printed or a PCB that wires the pins to a header.

Modes:
  printed     printed bottom plate, wires soldered to the pins
  no-connect  bottom PCB with test points only
  direct      bottom PCB routing each pin straight to the header
  via-grid    bottom PCB routing through a via per pin

Examples:
  otb fixture atmega328
  otb fixture atmega328 --mode via-grid -o jig/atmega`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := fixture.ParseBottomMode(fixtureMode)
		if err != nil {
			return err
		}
		d, _, err := buildSample(cmd, args[0])
		if err != nil {
			return err
		}
		if d.Jig == nil {
			return fmt.Errorf("sample %s has no jig", args[0])
		}

		base := fixtureOutput
		if base == "" {
			base = args[0]
		}
		files, err := d.Jig.Generate(cmd.Context(), base, mode)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fixtureCmd)

	fixtureCmd.Flags().StringVar(&fixtureMode, "mode", fixture.Printed.String(), "bottom part: printed, no-connect, direct or via-grid")
	fixtureCmd.Flags().StringVarP(&fixtureOutput, "output", "o", "", "base path of the generated files (default: <sample>)")
}
