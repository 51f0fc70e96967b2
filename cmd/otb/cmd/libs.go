package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/library"
	"github.com/spf13/cobra"
)

var libsRaw bool

var libsCmd = &cobra.Command{
	Use:   "libs",
	Short: "Inspect the footprint library table",
}

var libsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the libraries of the fp-lib-table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		table, err := library.LoadTable(cfg.LibTable)
		if err != nil {
			return err
		}

		if verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "table: %s\n", cfg.LibTable)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTYPE\tURI")
		for _, e := range table.Entries() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Type, e.URI)
		}
		return w.Flush()
	},
}

var libsShowCmd = &cobra.Command{
	Use:   "show <Library:Footprint>",
	Short: "Load a footprint and show its pads",
	Long: `Resolve a footprint through the library table, downloading it if needed,
and list its pads.

Examples:
  otb libs show Package_DIP:DIP-8_W7.62mm
  otb libs show TestPoint:TestPoint_Pad_D1.5mm --raw`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, name, ok := strings.Cut(args[0], ":")
		if !ok || lib == "" || name == "" {
			return fmt.Errorf("footprint must be given as Library:Name, got %q", args[0])
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		loader, err := newLoader(cmd, cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if libsRaw {
			data, err := loader.Raw(cmd.Context(), lib, name)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		}

		fp, err := loader.Footprint(cmd.Context(), lib, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %d pads\n", fp.Name, len(fp.Pads))
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PAD\tX\tY\tANGLE")
		for _, p := range fp.Pads {
			fmt.Fprintf(w, "%s\t%g\t%g\t%g\n", p.Name, p.Location.X, p.Location.Y, p.Angle)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(libsCmd)
	libsCmd.AddCommand(libsListCmd, libsShowCmd)

	libsShowCmd.Flags().BoolVar(&libsRaw, "raw", false, "print the footprint file unparsed")
}
