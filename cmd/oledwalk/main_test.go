package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/oledwalk/internal/config"
	"github.com/san-kum/oledwalk/internal/metrics"
)

func testCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	preset, configFile = "stroll", ""
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&busName, "bus", config.DefaultBus, "")
	cmd.Flags().Uint16Var(&address, "addr", config.DefaultAddress, "")
	cmd.Flags().IntVar(&margin, "margin", config.DefaultMargin, "")
	cmd.Flags().IntVar(&cycles, "cycles", config.DefaultCycles, "")
	cmd.Flags().Int64Var(&seed, "seed", 0, "")
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestLoadConfigPreset(t *testing.T) {
	cmd := testCommand(t)
	preset = "sprint"
	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Walk.Speed != 5.0 {
		t.Errorf("expected sprint speed, got %f", cfg.Walk.Speed)
	}

	preset = "marathon"
	if _, err := loadConfig(cmd); err == nil {
		t.Error("expected unknown preset error")
	}
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walk.yaml")
	data := []byte("world:\n  margin: 100\nwalk:\n  cycles: 9\n  seed: 4\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cmd := testCommand(t, "--cycles", "3", "--addr", "61")
	configFile = path
	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.World.Margin != 100 || cfg.Walk.Seed != 4 {
		t.Errorf("file values lost: %+v", cfg)
	}
	if cfg.Walk.Cycles != 3 || cfg.Display.Address != 61 {
		t.Errorf("flag values not applied: %+v", cfg)
	}
}

func TestLoadConfigValidates(t *testing.T) {
	cmd := testCommand(t, "--margin", "-4")
	if _, err := loadConfig(cmd); err == nil {
		t.Error("expected validation error for negative margin")
	}
}

func TestPrintSummary(t *testing.T) {
	var b strings.Builder
	printSummary(&b, &metrics.Summary{
		Steps:   2,
		Target:  5,
		Values:  map[string]float64{"distance_m": 12.5, "rests": 1},
		Energy:  []float64{0.9, 0.8},
		Aborted: true,
	})

	out := b.String()
	for _, want := range []string{"walk interrupted", "2/5", "12.5 m", "energy per step"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
