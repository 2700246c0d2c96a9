package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SpritePack/internal/engine"
	"github.com/piwi3910/SpritePack/internal/model"
)

// buildTestResult packs a small sprite set. The wide banner only fits
// rotated next to the tall column.
func buildTestResult(t *testing.T) (model.PackResult, model.PackSettings) {
	t.Helper()

	settings := model.DefaultSettings()
	settings.MaxSide = 100
	settings.Heuristics = []model.Heuristic{model.HeuristicArea}

	rects := []*model.Rect{
		model.NewRect("column", 60, 100),
		model.NewRect("banner", 80, 40),
	}
	result, err := engine.New(settings).PackAll(context.Background(), rects)
	if err != nil {
		t.Fatalf("PackAll: %v", err)
	}
	if len(result.Placed) != 2 {
		t.Fatalf("expected 2 placed rects, got %d", len(result.Placed))
	}
	return result, settings
}

func manyRectsResult(t *testing.T, n int) model.PackResult {
	t.Helper()
	rects := make([]*model.Rect, n)
	for i := range rects {
		rects[i] = model.NewRect(fmt.Sprintf("frame %02d", i), 20+i%7*5, 16+i%5*4)
	}
	result, err := engine.New(model.DefaultSettings()).PackAll(context.Background(), rects)
	if err != nil {
		t.Fatalf("PackAll: %v", err)
	}
	return result
}

func assertFile(t *testing.T, path string, minSize int64) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file was not created: %v", err)
	}
	if info.Size() < minSize {
		t.Errorf("file seems too small: %d bytes", info.Size())
	}
}

func TestExporters_RejectEmptyResult(t *testing.T) {
	dir := t.TempDir()
	empty := model.PackResult{Unplaced: []*model.Rect{model.NewRect("huge", 9000, 9000)}}
	settings := model.DefaultSettings()

	exporters := map[string]func(string) error{
		"pdf":    func(p string) error { return ExportPDF(p, empty, settings) },
		"labels": func(p string) error { return ExportLabels(p, empty) },
		"excel":  func(p string) error { return ExportExcel(p, empty, settings) },
		"dxf":    func(p string) error { return ExportDXF(p, empty) },
		"atlas":  func(p string) error { return ExportAtlasFile(p, empty, "") },
	}

	for name, export := range exporters {
		path := filepath.Join(dir, name)
		if err := export(path); !errors.Is(err, ErrNothingToExport) {
			t.Errorf("%s: expected ErrNothingToExport, got %v", name, err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%s: no file should be written", name)
		}
	}
}
