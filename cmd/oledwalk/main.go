package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/oledwalk/internal/bus"
	"github.com/san-kum/oledwalk/internal/config"
	"github.com/san-kum/oledwalk/internal/session"
	"github.com/san-kum/oledwalk/internal/viz"
)

var (
	configFile string
	preset     string
	logLevel   string
	// Overrides applied on top of preset and config file
	busName   string
	address   uint16
	margin    int
	cycles    int
	seed      int64
	assumeYes bool
	// Preview
	recordPath string
	theme      string
)

// main registers the commands and exits with status 1 if one fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "oledwalk",
		Short:         "random walk on an SH1106 OLED",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml), applied over the preset")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "stroll", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "walk on the attached display",
		RunE:  runWalk,
	}
	runCmd.Flags().StringVar(&busName, "bus", config.DefaultBus, "I2C bus name")
	runCmd.Flags().Uint16Var(&address, "addr", config.DefaultAddress, "I2C device address")
	runCmd.Flags().IntVar(&margin, "margin", config.DefaultMargin, "world margin in pixels around the visible area")
	runCmd.Flags().IntVar(&cycles, "cycles", config.DefaultCycles, "number of steps (skips the cycle prompt)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	runCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "start without prompting")

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "walk on an emulated display in the terminal",
		RunE:  runPreview,
	}
	previewCmd.Flags().IntVar(&margin, "margin", config.DefaultMargin, "world margin in pixels around the visible area")
	previewCmd.Flags().IntVar(&cycles, "cycles", 0, "stop after this many steps (0 walks until quit)")
	previewCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	previewCmd.Flags().StringVar(&recordPath, "record", "oledwalk.gif", "GIF path used by the G key")
	previewCmd.Flags().StringVar(&theme, "theme", "white", "panel color (white, blue, yellow, green)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved configuration to a file",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(runCmd, previewCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// loadConfig resolves preset, then config file, then any flags the user
// set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if configFile != "" {
		var err error
		cfg, err = config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("bus") {
		cfg.Display.Bus = busName
	}
	if flags.Changed("addr") {
		cfg.Display.Address = address
	}
	if flags.Changed("margin") {
		cfg.World.Margin = margin
	}
	if flags.Changed("cycles") {
		cfg.Walk.Cycles = cycles
	}
	if flags.Changed("seed") {
		cfg.Walk.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// seedFor returns cfg's seed, or a fresh one when the config leaves it at 0.
func seedFor(cfg *config.Config) int64 {
	if cfg.Walk.Seed != 0 {
		return cfg.Walk.Seed
	}
	return time.Now().UnixNano()
}

func runWalk(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Walk.Seed = seedFor(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dev, err := bus.OpenI2C(cfg.Display.Bus, cfg.Display.Address)
	if err != nil {
		return err
	}
	logger.Info("display opened", "device", dev.String())

	interactive := !cmd.Flags().Changed("cycles") && !assumeYes
	summary, err := session.Run(ctx, *cfg, dev, session.Options{
		Interactive: interactive,
		In:          os.Stdin,
		Out:         os.Stdout,
		Logger:      logger,
	})
	switch {
	case errors.Is(err, session.ErrCanceled), errors.Is(err, context.Canceled):
		return nil
	case err != nil && summary == nil:
		return err
	}

	printSummary(os.Stdout, summary)
	return err
}

func runPreview(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	target := 0
	if cmd.Flags().Changed("cycles") {
		target = cfg.Walk.Cycles
	}
	viz.SetTheme(theme)

	s := seedFor(cfg)
	logger.Debug("preview starting", "seed", s, "margin", cfg.World.Margin)
	m, err := viz.NewModel(*cfg, target, rand.New(rand.NewSource(s)), logger)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(m.RecordTo(recordPath), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	fm := final.(viz.Model)
	if err := fm.Close(); err != nil {
		logger.Warn("preview cleanup failed", "err", err)
	}
	summary := fm.Summary()
	printSummary(os.Stdout, &summary)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMARGIN\tDISTANCE\tSPEED\tPAUSE\tCYCLES")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%.0f-%.0f m\t%.1f m/s\t%.2f-%.2f s\t%d\n",
			name, p.World.Margin, p.Walk.MinDistance, p.Walk.MaxDistance,
			p.Walk.Speed, p.Walk.MinPause, p.Walk.MaxPause, p.Walk.Cycles)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s (preset %s)\n", args[0], preset)
	return nil
}
