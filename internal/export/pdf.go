package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/SpritePack/internal/model"
)

// rectColor represents an RGB color for a placed rect.
type rectColor struct {
	R, G, B int
}

var rectColors = []rectColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF writes a layout diagram of the packed bin followed by a summary
// page with statistics and the settings used.
func ExportPDF(path string, result model.PackResult, settings model.PackSettings) error {
	if err := checkResult(result); err != nil {
		return err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, result)

	pdf.AddPage()
	renderSummaryPage(pdf, result, settings)

	return pdf.OutputFileAndClose(path)
}

func renderLayoutPage(pdf *fpdf.Fpdf, result model.PackResult) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Atlas layout (%d x %d px, packed by %s)", result.Tight.W, result.Tight.H, result.Heuristic)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Rects: %d | Used area: %d px² | Bin: %d x %d px | Efficiency: %.1f%%",
		len(result.Placed), result.UsedArea(), result.Bin.W, result.Bin.H, result.Efficiency())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	// Scale the bin to fit the drawing area
	scale := math.Min(drawWidth/float64(result.Bin.W), drawHeight/float64(result.Bin.H))
	canvasW := float64(result.Bin.W) * scale
	canvasH := float64(result.Bin.H) * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Searched bin
	pdf.SetFillColor(245, 245, 245)
	pdf.SetDrawColor(160, 160, 160)
	pdf.SetLineWidth(0.3)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Tight bounds
	pdf.SetFillColor(225, 225, 225)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, float64(result.Tight.W)*scale, float64(result.Tight.H)*scale, "FD")

	for i, r := range result.Placed {
		col := rectColors[i%len(rectColors)]
		pw := float64(r.PlacedW()) * scale
		ph := float64(r.PlacedH()) * scale
		px := offsetX + float64(r.X)*scale
		py := offsetY + float64(r.Y)*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(px, py, pw, ph, "FD")

		// Label only if the rectangle is large enough
		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := r.Label
			dims := fmt.Sprintf("%dx%d", r.W, r.H)
			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, result.Bin, offsetX, offsetY, canvasW, canvasH)
	drawLegend(pdf, result.Placed, offsetY+canvasH+5)
}

// drawDimensionAnnotations adds width and height labels outside the bin.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, bin model.Size, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d px", bin.W)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%d px", bin.H)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

func drawLegend(pdf *fpdf.Fpdf, placed []*model.Rect, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Rects placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight
	maxY := pageHeight - marginBottom

	for i, r := range placed {
		col := rectColors[i%len(rectColors)]
		label := fmt.Sprintf("%s (%dx%d)%s", r.Label, r.W, r.H, rotatedMark(r))
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}
		if startY > maxY {
			pdf.SetXY(xPos, startY-5)
			pdf.CellFormat(20, 4, fmt.Sprintf("+%d more", len(placed)-i), "", 0, "L", false, 0, "")
			return
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

func renderSummaryPage(pdf *fpdf.Fpdf, result model.PackResult, settings model.PackSettings) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Packing Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	y = drawKeyValues(pdf, y, 10, []keyValue{
		{"Tight Size", fmt.Sprintf("%d x %d px", result.Tight.W, result.Tight.H)},
		{"Searched Bin", fmt.Sprintf("%d x %d px", result.Bin.W, result.Bin.H)},
		{"Winning Ordering", string(result.Heuristic)},
		{"Efficiency", fmt.Sprintf("%.1f%%", result.Efficiency())},
		{"Rects Placed", fmt.Sprintf("%d", len(result.Placed))},
		{"Unplaced Rects", fmt.Sprintf("%d", len(result.Unplaced))},
	})

	if len(result.Unplaced) > 0 {
		y += 6
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unplaced Rects", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, r := range result.Unplaced {
			if y > pageHeight-marginBottom-40 {
				break
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(200, 5, fmt.Sprintf("- %s: %d x %d px", r.Label, r.W, r.H), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Pack Settings", "", 0, "L", false, 0, "")
	y += 9

	heuristics := make([]string, len(settings.Heuristics))
	for i, h := range settings.Heuristics {
		heuristics[i] = string(h)
	}
	drawKeyValues(pdf, y, 9, []keyValue{
		{"Max Side", fmt.Sprintf("%d px", settings.MaxSide)},
		{"Allow Rotation", fmt.Sprintf("%t", settings.AllowFlip)},
		{"Discard Step", fmt.Sprintf("%d", settings.DiscardStep)},
		{"Orderings", strings.Join(heuristics, ", ")},
		{"Parallel Search", fmt.Sprintf("%t", settings.Parallel)},
	})

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by SpritePack", "", 0, "C", false, 0, "")
}

type keyValue struct {
	label string
	value string
}

func drawKeyValues(pdf *fpdf.Fpdf, y, fontSize float64, items []keyValue) float64 {
	lineH := fontSize * 0.6
	pdf.SetFont("Helvetica", "", fontSize)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, lineH, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", fontSize)
		pdf.CellFormat(120, lineH, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", fontSize)
		y += lineH + 1
	}
	return y
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
