package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/piwi3910/SpritePack/internal/config"
	"github.com/piwi3910/SpritePack/internal/importer"
	"github.com/piwi3910/SpritePack/internal/model"
	"github.com/piwi3910/SpritePack/internal/project"
)

// app carries state shared by every subcommand.
type app struct {
	configPath  string
	presetsPath string
	verbose     bool
	noColor     bool

	out    io.Writer
	errOut io.Writer

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:   "spritepack",
		Short: "SpritePack - rectangle and texture atlas packer",
		Long: `SpritePack finds a small square-ish container for a set of rectangles.

Commands:
  pack      Pack a sprite list and export the layout
  compare   Compare orderings and setting variants on one sprite list
  preset    Manage saved pack settings`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default: ./spritepack.yaml or ~/.spritepack/spritepack.yaml)")
	flags.StringVar(&a.presetsPath, "presets", "", "preset store (default: ~/.spritepack/presets.json)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log every size attempt")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newPackCommand(a))
	rootCmd.AddCommand(newCompareCommand(a))
	rootCmd.AddCommand(newPresetCommand(a))
	rootCmd.AddCommand(newVersionCommand(a))

	return rootCmd
}

func (a *app) setup() error {
	if a.noColor {
		color.NoColor = true
	}

	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	logger, err := cfg.Logging.NewLogger(a.errOut)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) presetStorePath() (string, error) {
	if a.presetsPath != "" {
		return a.presetsPath, nil
	}
	return project.DefaultPresetPath()
}

// packFlags are the settings overrides shared by pack and compare.
type packFlags struct {
	preset      string
	maxSide     int
	allowFlip   bool
	discardStep int
	heuristics  []string
	nodes       int
	parallel    bool
}

func (f *packFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.preset, "preset", "", "start from a saved preset")
	fs.IntVar(&f.maxSide, "max-side", 0, "largest container side to search")
	fs.BoolVar(&f.allowFlip, "allow-flip", true, "allow 90° rotation")
	fs.IntVar(&f.discardStep, "discard-step", 0, "stop refining once the search step reaches this size")
	fs.StringArrayVar(&f.heuristics, "heuristic", nil, "ordering to try, repeatable (area, perimeter, max-side, width, height)")
	fs.IntVar(&f.nodes, "node-capacity", 0, "tree node limit per attempt (0 = derived from input)")
	fs.BoolVar(&f.parallel, "parallel", false, "search orderings concurrently")
}

// settings resolves config, then the preset, then explicit flags.
func (f *packFlags) settings(a *app, cmd *cobra.Command) (model.PackSettings, error) {
	s := a.cfg.PackSettings()

	if f.preset != "" {
		path, err := a.presetStorePath()
		if err != nil {
			return s, err
		}
		store, err := project.LoadPresets(path)
		if err != nil {
			return s, fmt.Errorf("failed to load presets: %w", err)
		}
		p := store.FindByName(f.preset)
		if p == nil {
			return s, fmt.Errorf("preset %q not found in %s", f.preset, path)
		}
		s = p.Settings
	}

	fs := cmd.Flags()
	if fs.Changed("max-side") {
		s.MaxSide = f.maxSide
	}
	if fs.Changed("allow-flip") {
		s.AllowFlip = f.allowFlip
	}
	if fs.Changed("discard-step") {
		s.DiscardStep = f.discardStep
	}
	if fs.Changed("heuristic") {
		s.Heuristics = make([]model.Heuristic, len(f.heuristics))
		for i, h := range f.heuristics {
			s.Heuristics[i] = model.Heuristic(h)
		}
	}
	if fs.Changed("node-capacity") {
		s.NodeCapacity = f.nodes
	}
	if fs.Changed("parallel") {
		s.Parallel = f.parallel
	}
	return s, nil
}

// loadRects imports a sprite list, reporting row problems on errOut. Row
// errors are fatal only when nothing could be imported.
func (a *app) loadRects(path string) ([]*model.Rect, error) {
	res := importer.ImportFile(path)
	warn := color.New(color.FgYellow)
	for _, w := range res.Warnings {
		a.logger.Debug("import warning", "file", path, "warning", w)
	}
	for _, e := range res.Errors {
		warn.Fprintf(a.errOut, "warning: %s\n", e)
	}
	if len(res.Rects) == 0 {
		return nil, fmt.Errorf("no rects imported from %s", path)
	}
	a.logger.Info("imported rects", "file", path, "count", len(res.Rects))
	return res.Rects, nil
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "spritepack %s\n", version)
		},
	}
}
