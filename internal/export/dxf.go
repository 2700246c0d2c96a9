package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/SpritePack/internal/model"
)

// DXF layer names.
const (
	LayerBin   = "BIN"
	LayerRects = "RECTS"
)

// ExportDXF writes the bin outline and one closed outline per placed rect.
// DXF has Y pointing up, so rows are flipped to keep the atlas top-left
// origin at the top of the drawing.
func ExportDXF(path string, result model.PackResult) error {
	if err := checkResult(result); err != nil {
		return err
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(LayerBin, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer: %w", err)
	}
	if _, err := d.AddLayer(LayerRects, color.Red, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("failed to add layer: %w", err)
	}

	binH := result.Bin.H
	if err := d.ChangeLayer(LayerBin); err != nil {
		return fmt.Errorf("failed to select layer: %w", err)
	}
	if err := outline(d, 0, 0, result.Bin.W, binH, binH); err != nil {
		return err
	}

	if err := d.ChangeLayer(LayerRects); err != nil {
		return fmt.Errorf("failed to select layer: %w", err)
	}
	for _, r := range result.Placed {
		if err := outline(d, r.X, r.Y, r.PlacedW(), r.PlacedH(), binH); err != nil {
			return fmt.Errorf("rect %q: %w", r.Label, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// outline draws a box with top-left (x, y) as four connected lines.
func outline(d *drawing.Drawing, x, y, w, h, binH int) error {
	x0, x1 := float64(x), float64(x+w)
	y0, y1 := float64(binH-y), float64(binH-y-h)
	corners := [][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
	for i, a := range corners {
		b := corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return fmt.Errorf("failed to draw line: %w", err)
		}
	}
	return nil
}
