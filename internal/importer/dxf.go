package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// closeTolerance is the maximum gap between two LINE endpoints that still
// counts as connected.
const closeTolerance = 0.01

type point struct {
	x, y float64
}

// segment is a line between two points, used for chaining disconnected
// LINE entities into closed outlines.
type segment struct {
	start point
	end   point
}

// bounds is an axis-aligned bounding box in drawing units.
type bounds struct {
	minX, minY, maxX, maxY float64
}

func boundsOf(pts []point) bounds {
	b := bounds{minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1)}
	for _, p := range pts {
		b.minX = math.Min(b.minX, p.x)
		b.minY = math.Min(b.minY, p.y)
		b.maxX = math.Max(b.maxX, p.x)
		b.maxY = math.Max(b.maxY, p.y)
	}
	return b
}

func (b bounds) width() float64  { return b.maxX - b.minX }
func (b bounds) height() float64 { return b.maxY - b.minY }

// ImportDXF imports sprites from a DXF file. Each closed shape (LWPOLYLINE,
// CIRCLE, or chain of connected LINEs) becomes one rect sized to its
// bounding box, rounded up to whole drawing units.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var shapes []bounds
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if len(e.Vertices) < 3 {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			pts := make([]point, len(e.Vertices))
			for i, v := range e.Vertices {
				pts[i] = point{x: v[0], y: v[1]}
			}
			shapes = append(shapes, boundsOf(pts))

		case *entity.Circle:
			cx, cy, r := e.Center[0], e.Center[1], e.Radius
			shapes = append(shapes, bounds{minX: cx - r, minY: cy - r, maxX: cx + r, maxY: cy + r})

		case *entity.Line:
			segments = append(segments, segment{
				start: point{x: e.Start[0], y: e.Start[1]},
				end:   point{x: e.End[0], y: e.End[1]},
			})
		}
	}

	for _, chain := range chainSegments(segments, closeTolerance) {
		shapes = append(shapes, boundsOf(chain))
	}

	if len(shapes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	for i, b := range shapes {
		if b.width() < closeTolerance || b.height() < closeTolerance {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f)", b.width(), b.height()))
			continue
		}
		spec := rowSpec{
			label: fmt.Sprintf("DXF Shape %d", i+1),
			w:     int(math.Ceil(b.width() - closeTolerance)),
			h:     int(math.Ceil(b.height() - closeTolerance)),
			qty:   1,
		}
		result.Rects = append(result.Rects, spec.expand()...)
	}

	return result
}

// chainSegments connects individual segments into closed outlines. Open
// chains are dropped.
func chainSegments(segs []segment, tolerance float64) [][]point {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines [][]point

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []point{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]
			if len(chain) >= 4 && pointsClose(tail, chain[0], tolerance) {
				break
			}

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, chain[:len(chain)-1])
		}
	}

	// Largest first for a stable import order
	sort.SliceStable(outlines, func(i, j int) bool {
		return outlineArea(outlines[i]) > outlineArea(outlines[j])
	})

	return outlines
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b point, tolerance float64) bool {
	return math.Hypot(a.x-b.x, a.y-b.y) <= tolerance
}

// outlineArea computes the absolute area of a polygon using the shoelace formula.
func outlineArea(o []point) float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].x*o[j].y - o[j].x*o[i].y
	}
	return math.Abs(area) / 2
}
