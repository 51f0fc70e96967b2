package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/config"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/library"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/samples"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose      bool
	settingsFile string
	envFiles     []string
)

var rootCmd = &cobra.Command{
	Use:   "otb",
	Short: "OpenTraceBoard - KiCad boards generated from code",
	Long: `OpenTraceBoard (otb) builds KiCad boards from Go code and derives
mechanical parts from them.

Footprints are resolved through the KiCad fp-lib-table. Libraries of type
Github are downloaded once and cached on disk.

Examples:
  otb sample list                              # Show the sample boards
  otb sample build blinky555 -o blinky.kicad_pcb
  otb preview rainbow -o rainbow.png           # Render a PNG preview
  otb scad blinky555 -o blinky.scad            # Board outline for OpenSCAD
  otb fixture atmega328 --mode direct          # Pogo-pin programming jig
  otb inspect blinky.kicad_pcb --nets          # Summarize a board file
  otb libs list                                # Show the library table`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
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
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "",
		"settings file (default: user config dir/opentraceboard/settings.json)")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env", nil,
		"environment files to read (default: .env when present)")
}

// loadConfig reads the configuration the global flags point at.
func loadConfig() (*config.Config, error) {
	path := settingsFile
	if path == "" {
		if p, err := config.SettingsPath(); err == nil {
			path = p
		}
	}
	return config.Load(path, envFiles...)
}

// logger returns a logger to stderr in verbose mode and nil otherwise.
func logger(cmd *cobra.Command) *log.Logger {
	if !verbose {
		return nil
	}
	return log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
}

// newLoader creates the footprint loader described by cfg.
func newLoader(cmd *cobra.Command, cfg *config.Config) (*library.Loader, error) {
	table, err := library.LoadTable(cfg.LibTable)
	if err != nil {
		return nil, fmt.Errorf("%w (set %s to point at an fp-lib-table)", err, config.EnvLibTable)
	}

	cache := library.NewDiskCache(cfg.CacheDir)
	cache.TTL = cfg.CacheTTL

	return library.NewLoader(table, library.Options{
		Vars:  cfg.Vars(),
		Cache: cache,
		GitHub: &library.GitHubFetcher{
			Base:    cfg.GitHubBase,
			Timeout: cfg.HTTPTimeout,
		},
		Logger: logger(cmd),
	}), nil
}

// buildSample loads the configuration and builds the named sample.
func buildSample(cmd *cobra.Command, name string) (*samples.Design, *config.Config, error) {
	s, err := samples.Lookup(name)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	loader, err := newLoader(cmd, cfg)
	if err != nil {
		return nil, nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	d, err := s.Build(ctx, loader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build %s: %w", name, err)
	}
	return d, cfg, nil
}

// writeOutput writes to path, or to the command output when path is "-".
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
	}
	return nil
}
