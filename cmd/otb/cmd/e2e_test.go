package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// setupEnv points the configuration at the test footprint libraries and
// returns a scratch directory.
func setupEnv(t *testing.T) string {
	t.Helper()
	testdata, err := filepath.Abs("testdata")
	if err != nil {
		t.Fatal(err)
	}
	tmp := t.TempDir()
	t.Setenv("OTB_FP_LIB_TABLE", filepath.Join(testdata, "fp-lib-table"))
	t.Setenv("KICAD_FOOTPRINT_DIR", testdata)
	t.Setenv("OTB_CACHE_DIR", filepath.Join(tmp, "cache"))
	return tmp
}

// resetFlags restores every flag to its default between runs.
func resetFlags() {
	verbose = false
	settingsFile = ""
	envFiles = nil
	sampleOutput = ""
	scadOutput, scadThickness, scadOffset, scadOuterOnly = "", 1.6, 0, false
	fixtureMode, fixtureOutput = "printed", ""
	previewOutput, previewTheme = "", ""
	previewWidth, previewHeight = 0, 0
	previewBack, previewLabels, previewCopper = false, true, false
	libsRaw = false
	inspectNets = false

	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
}

// run executes the root command with args and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCommandsE2E(t *testing.T) {
	tmp := setupEnv(t)
	settings := filepath.Join(tmp, "settings.json")

	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
		wantFiles   []string
	}{
		{
			name:        "sample list",
			args:        []string{"sample", "list"},
			wantContain: []string{"NAME", "atmega328", "blinky555", "rainbow", "yes"},
		},
		{
			name: "build blinky to stdout",
			args: []string{"sample", "build", "blinky555", "-o", "-", "--settings", settings},
			wantContain: []string{
				"(kicad_pcb (version 4)",
				"(net 1 ",
				"DIP-8_W7.62mm",
				"IC555",
				"(segment",
				"(zone",
			},
		},
		{
			name:      "build blinky to file",
			args:      []string{"sample", "build", "blinky555", "-o", filepath.Join(tmp, "blinky.kicad_pcb"), "--settings", settings},
			wantFiles: []string{filepath.Join(tmp, "blinky.kicad_pcb")},
		},
		{
			name:    "unknown sample",
			args:    []string{"sample", "build", "teapot", "--settings", settings},
			wantErr: true,
		},
		{
			name:        "scad outline",
			args:        []string{"scad", "blinky555", "-o", "-", "--thickness", "2", "--settings", settings},
			wantContain: []string{"linear_extrude(2)", "polygon(points = ["},
		},
		{
			name:    "fixture without jig",
			args:    []string{"fixture", "blinky555", "--settings", settings},
			wantErr: true,
		},
		{
			name:    "fixture bad mode",
			args:    []string{"fixture", "atmega328", "--mode", "glued", "--settings", settings},
			wantErr: true,
		},
		{
			name: "fixture direct",
			args: []string{"fixture", "atmega328", "--mode", "direct", "-o", filepath.Join(tmp, "jig"), "--settings", settings},
			wantContain: []string{
				"jig_bottom.kicad_pcb",
				"jig_spacer_top.scad",
				"jig_spacer_bottom.scad",
				"jig_top.scad",
				"jig_latch.scad",
			},
			wantFiles: []string{filepath.Join(tmp, "jig_bottom.kicad_pcb"), filepath.Join(tmp, "jig_top.scad")},
		},
		{
			name: "preview",
			args: []string{"preview", "blinky555", "-o", filepath.Join(tmp, "blinky.png"),
				"--width", "64", "--height", "48", "--theme", "nord", "--settings", settings},
			wantFiles: []string{filepath.Join(tmp, "blinky.png")},
		},
		{
			name:    "preview unknown theme",
			args:    []string{"preview", "blinky555", "-o", "-", "--theme", "sepia", "--settings", settings},
			wantErr: true,
		},
		{
			name:        "libs list",
			args:        []string{"libs", "list", "--settings", settings},
			wantContain: []string{"Package_DIP", "KiCad", "TestPoint"},
		},
		{
			name:        "libs show",
			args:        []string{"libs", "show", "Package_DIP:DIP-8_W7.62mm", "--settings", settings},
			wantContain: []string{"DIP-8_W7.62mm: 8 pads", "7.62"},
		},
		{
			name:        "libs show raw",
			args:        []string{"libs", "show", "TestPoint:TestPoint_Pad_D1.5mm", "--raw", "--settings", settings},
			wantContain: []string{"(module TestPoint_Pad_D1.5mm", "(pad 1 smd rect"},
		},
		{
			name: "inspect built board",
			args: []string{"inspect", filepath.Join(tmp, "blinky.kicad_pcb"), "--nets"},
			wantContain: []string{
				"Size: 20.00 x 30.00 mm",
				"Nets: 7",
				"Footprints: 8",
				"VCC",
				"THR",
			},
		},
		{
			name:    "inspect missing file",
			args:    []string{"inspect", filepath.Join(tmp, "nothing.kicad_pcb")},
			wantErr: true,
		},
		{
			name:    "libs show without library",
			args:    []string{"libs", "show", "DIP-8", "--settings", settings},
			wantErr: true,
		},
		{
			name:    "libs show unknown library",
			args:    []string{"libs", "show", "Nowhere:DIP-8", "--settings", settings},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := run(t, tt.args...)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got none. Output:\n%s", output)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v\nOutput:\n%s", err, output)
			}

			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("output missing %q\nGot:\n%s", want, output)
				}
			}
			for _, path := range tt.wantFiles {
				info, err := os.Stat(path)
				if err != nil {
					t.Errorf("expected file %s: %v", path, err)
					continue
				}
				if info.Size() == 0 {
					t.Errorf("file %s is empty", path)
				}
			}
		})
	}
}

func TestPreviewWritesPNG(t *testing.T) {
	tmp := setupEnv(t)
	out := filepath.Join(tmp, "atmega.png")

	if _, err := run(t, "preview", "atmega328", "-o", out, "--width", "80", "--height", "60",
		"--back", "--copper-only", "--settings", filepath.Join(tmp, "settings.json")); err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Errorf("output is not a PNG, starts with %q", data[:min(8, len(data))])
	}
}

func TestSettingsFile(t *testing.T) {
	tmp := setupEnv(t)
	settings := filepath.Join(tmp, "settings.json")
	if err := os.WriteFile(settings, []byte(`{"preview_width": -1}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "libs", "list", "--settings", settings); err == nil {
		t.Error("expected the negative preview width to be rejected")
	}
}

func TestMissingLibraryTable(t *testing.T) {
	tmp := setupEnv(t)
	t.Setenv("OTB_FP_LIB_TABLE", filepath.Join(tmp, "missing-fp-lib-table"))

	_, err := run(t, "sample", "build", "blinky555", "-o", "-", "--settings", filepath.Join(tmp, "settings.json"))
	if err == nil {
		t.Fatal("expected an error without a library table")
	}
	if !strings.Contains(err.Error(), "OTB_FP_LIB_TABLE") {
		t.Errorf("error %q does not mention OTB_FP_LIB_TABLE", err)
	}
}
