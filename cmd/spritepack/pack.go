package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/piwi3910/SpritePack/internal/engine"
	"github.com/piwi3910/SpritePack/internal/export"
	"github.com/piwi3910/SpritePack/internal/metrics"
	"github.com/piwi3910/SpritePack/internal/model"
	"github.com/piwi3910/SpritePack/internal/project"
)

// errUnplaced makes the process exit non-zero after the summary was printed.
var errUnplaced = errors.New("some rects did not fit")

type packOptions struct {
	packFlags

	pdf, labels, xlsx, dxf, atlas string
	atlasImage                    string
	save                          string
	metricsFile                   string
	allowPartial                  bool
	quiet                         bool
}

func newPackCommand(a *app) *cobra.Command {
	opts := &packOptions{}

	cmd := &cobra.Command{
		Use:   "pack INPUT",
		Short: "Pack a sprite list and export the layout",
		Long: `Pack reads rectangles from a CSV, text, Excel or DXF file, searches for the
smallest container, prints the placements and writes the requested exports.

The exit status is 1 when any rect could not be placed, unless --allow-partial
is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(a, cmd, opts, args[0])
		},
	}

	opts.register(cmd)
	fs := cmd.Flags()
	fs.StringVar(&opts.pdf, "pdf", "", "write a PDF layout sheet")
	fs.StringVar(&opts.labels, "labels", "", "write a PDF of QR-coded labels")
	fs.StringVar(&opts.xlsx, "xlsx", "", "write an Excel report")
	fs.StringVar(&opts.dxf, "dxf", "", "write a DXF drawing")
	fs.StringVar(&opts.atlas, "atlas", "", "write TexturePacker hash atlas JSON")
	fs.StringVar(&opts.atlasImage, "atlas-image", "", "page image named in the atlas (default: <atlas>.png)")
	fs.StringVar(&opts.save, "save", "", "save the job and its result as a project file")
	fs.StringVar(&opts.metricsFile, "metrics-textfile", "", "write Prometheus metrics in textfile format")
	fs.BoolVar(&opts.allowPartial, "allow-partial", false, "exit 0 even if some rects did not fit")
	fs.BoolVarP(&opts.quiet, "quiet", "q", false, "print only the summary")

	return cmd
}

func runPack(a *app, cmd *cobra.Command, opts *packOptions, input string) error {
	settings, err := opts.settings(a, cmd)
	if err != nil {
		return err
	}
	rects, err := a.loadRects(input)
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder()
	packer := engine.New(settings, engine.WithLogger(a.logger), engine.WithRecorder(recorder))
	result, err := packer.PackAll(cmd.Context(), rects)
	if err != nil {
		return fmt.Errorf("pack failed: %w", err)
	}

	if !opts.quiet {
		fmt.Fprintln(a.out, placementTable(result))
	}
	printSummary(a, result)

	if err := writeExports(a, opts, result, settings); err != nil {
		return err
	}

	if opts.save != "" {
		proj := model.NewProject()
		proj.Name = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		proj.Rects = rects
		proj.Settings = settings
		proj.Result = &result
		if err := project.SaveProject(opts.save, proj); err != nil {
			return err
		}
		reportWritten(a, "project", opts.save)
	}

	metricsFile := opts.metricsFile
	if metricsFile == "" {
		metricsFile = a.cfg.Metrics.Textfile
	}
	if metricsFile != "" {
		if err := recorder.WriteTextfile(metricsFile); err != nil {
			return err
		}
		a.logger.Debug("wrote metrics", "path", metricsFile)
	}

	if len(result.Unplaced) > 0 && !opts.allowPartial {
		return errUnplaced
	}
	return nil
}

func writeExports(a *app, opts *packOptions, result model.PackResult, settings model.PackSettings) error {
	if len(result.Placed) == 0 {
		return nil
	}
	exports := []struct {
		name  string
		path  string
		write func(string) error
	}{
		{"pdf", opts.pdf, func(p string) error { return export.ExportPDF(p, result, settings) }},
		{"labels", opts.labels, func(p string) error { return export.ExportLabels(p, result) }},
		{"xlsx", opts.xlsx, func(p string) error { return export.ExportExcel(p, result, settings) }},
		{"dxf", opts.dxf, func(p string) error { return export.ExportDXF(p, result) }},
		{"atlas", opts.atlas, func(p string) error { return export.ExportAtlasFile(p, result, opts.atlasImage) }},
	}
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		if err := e.write(e.path); err != nil {
			return fmt.Errorf("%s export failed: %w", e.name, err)
		}
		reportWritten(a, e.name, e.path)
	}
	return nil
}

func reportWritten(a *app, kind, path string) {
	size := "?"
	if info, err := os.Stat(path); err == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}
	fmt.Fprintf(a.out, "wrote %s %s (%s)\n", kind, path, size)
}

func placementTable(result model.PackResult) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Label", "Size", "X", "Y", "Rotated"})

	for _, r := range result.Placed {
		rotated := ""
		if r.Flipped {
			rotated = "yes"
		}
		tbl.AppendRow(table.Row{r.Label, fmt.Sprintf("%dx%d", r.PlacedW(), r.PlacedH()), r.X, r.Y, rotated})
	}
	for _, r := range result.Unplaced {
		tbl.AppendRow(table.Row{r.Label, fmt.Sprintf("%dx%d", r.W, r.H), "-", "-", "unplaced"})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d rects", len(result.Placed)+len(result.Unplaced))})
	return tbl.Render()
}

func printSummary(a *app, result model.PackResult) {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)

	if len(result.Placed) > 0 {
		ok.Fprintf(a.out, "Packed %d rects into %dx%d (%s px² used, %.1f%% efficient, ordering %s)\n",
			len(result.Placed), result.Tight.W, result.Tight.H,
			humanize.Comma(int64(result.UsedArea())), result.Efficiency(), result.Heuristic)
	}
	if n := len(result.Unplaced); n > 0 {
		bad.Fprintf(a.out, "%d rects did not fit in %dx%d\n", n, result.Bin.W, result.Bin.H)
	}
}
