package model

import "github.com/google/uuid"

// Size is a width and height in pixels.
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

func (s Size) Area() int {
	return s.W * s.H
}

func (s Size) Perimeter() int {
	return 2*s.W + 2*s.H
}

// Fitting classifies how a size relates to a box.
type Fitting int

const (
	TooBig             Fitting = iota // Neither orientation fits
	FitsExactly                       // Matches the box dimensions exactly
	FitsExactlyFlipped                // Matches exactly once rotated 90°
	FitsInside                        // Fits with room to spare
	FitsInsideFlipped                 // Fits with room to spare once rotated 90°
)

func (f Fitting) String() string {
	switch f {
	case FitsExactly:
		return "FitsExactly"
	case FitsExactlyFlipped:
		return "FitsExactlyFlipped"
	case FitsInside:
		return "FitsInside"
	case FitsInsideFlipped:
		return "FitsInsideFlipped"
	default:
		return "TooBig"
	}
}

// Flipped reports whether the fitting was achieved in the rotated orientation.
func (f Fitting) Flipped() bool {
	return f == FitsExactlyFlipped || f == FitsInsideFlipped
}

// FitIn classifies s against box b. The flipped orientation is only
// considered when allowFlip is set, and is always checked after the
// unrotated orientation of the same class.
func (s Size) FitIn(b Box, allowFlip bool) Fitting {
	bw, bh := b.W(), b.H()
	switch {
	case s.W == bw && s.H == bh:
		return FitsExactly
	case allowFlip && s.H == bw && s.W == bh:
		return FitsExactlyFlipped
	case s.W <= bw && s.H <= bh:
		return FitsInside
	case allowFlip && s.H <= bw && s.W <= bh:
		return FitsInsideFlipped
	default:
		return TooBig
	}
}

// Box is a region given by its left, top, right and bottom edges.
type Box struct {
	L int `json:"l"`
	T int `json:"t"`
	R int `json:"r"`
	B int `json:"b"`
}

// BoxOf returns the box of size s anchored at the origin.
func BoxOf(s Size) Box {
	return Box{L: 0, T: 0, R: s.W, B: s.H}
}

func (b Box) W() int {
	return b.R - b.L
}

func (b Box) H() int {
	return b.B - b.T
}

func (b Box) Area() int {
	return b.W() * b.H()
}

func (b Box) Size() Size {
	return Size{W: b.W(), H: b.H()}
}

// Contains returns true if b fully contains o.
func (b Box) Contains(o Box) bool {
	return b.L <= o.L && b.T <= o.T && b.R >= o.R && b.B >= o.B
}

// Overlaps returns true if the boxes share a positive area (touching edges do not count).
func (b Box) Overlaps(o Box) bool {
	return b.L < o.R && o.L < b.R && b.T < o.B && o.T < b.B
}

// Rect is a rectangle to be packed. W and H are inputs and are never
// modified by the packer; X, Y and Flipped are only written when a
// layout is committed.
type Rect struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	W       int    `json:"w"`
	H       int    `json:"h"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Flipped bool   `json:"flipped"` // Whether the rect was rotated 90°
}

func NewRect(label string, w, h int) *Rect {
	return &Rect{
		ID:    uuid.New().String()[:8],
		Label: label,
		W:     w,
		H:     h,
	}
}

func (r *Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

func (r *Rect) Area() int {
	return r.W * r.H
}

func (r *Rect) Perimeter() int {
	return 2*r.W + 2*r.H
}

// PlacedW returns the effective width considering rotation.
func (r *Rect) PlacedW() int {
	if r.Flipped {
		return r.H
	}
	return r.W
}

// PlacedH returns the effective height considering rotation.
func (r *Rect) PlacedH() int {
	if r.Flipped {
		return r.W
	}
	return r.H
}

// Box returns the region occupied by the rect at its committed position.
func (r *Rect) Box() Box {
	return Box{L: r.X, T: r.Y, R: r.X + r.PlacedW(), B: r.Y + r.PlacedH()}
}

// CloneRects returns independent copies of rects, keeping IDs and labels.
func CloneRects(rects []*Rect) []*Rect {
	out := make([]*Rect, len(rects))
	for i, r := range rects {
		cp := *r
		out[i] = &cp
	}
	return out
}

// Heuristic names an insertion ordering.
type Heuristic string

const (
	HeuristicArea      Heuristic = "area"      // Descending area
	HeuristicPerimeter Heuristic = "perimeter" // Descending perimeter
	HeuristicMaxSide   Heuristic = "max-side"  // Descending max(w, h)
	HeuristicWidth     Heuristic = "width"     // Descending width
	HeuristicHeight    Heuristic = "height"    // Descending height
)

// DefaultHeuristics returns the orderings tried when none are configured.
func DefaultHeuristics() []Heuristic {
	return []Heuristic{
		HeuristicArea,
		HeuristicPerimeter,
		HeuristicMaxSide,
		HeuristicWidth,
		HeuristicHeight,
	}
}

// PackSettings holds the packer configuration.
type PackSettings struct {
	MaxSide      int         `json:"max_side"`      // Largest container side searched
	AllowFlip    bool        `json:"allow_flip"`    // Allow 90° rotation
	DiscardStep  int         `json:"discard_step"`  // Size search stops once the step drops to this
	Heuristics   []Heuristic `json:"heuristics"`    // Orderings to try, in order
	NodeCapacity int         `json:"node_capacity"` // Tree node limit per candidate, 0 = derived from input
	Parallel     bool        `json:"parallel"`      // Search orderings concurrently
}

func DefaultSettings() PackSettings {
	return PackSettings{
		MaxSide:     4096,
		AllowFlip:   true,
		DiscardStep: 1,
		Heuristics:  DefaultHeuristics(),
	}
}

// PackResult is a committed layout.
type PackResult struct {
	Bin       Size      `json:"bin"`       // Container size the layout was searched in
	Tight     Size      `json:"tight"`     // Bounding size of the placed rects
	Heuristic Heuristic `json:"heuristic"` // Winning ordering
	Placed    []*Rect   `json:"placed"`
	Unplaced  []*Rect   `json:"unplaced"`
}

// UsedArea returns the total area covered by placed rects.
func (pr PackResult) UsedArea() int {
	total := 0
	for _, r := range pr.Placed {
		total += r.Area()
	}
	return total
}

// Efficiency returns the share of the tight area covered by rects, in percent.
func (pr PackResult) Efficiency() float64 {
	ta := pr.Tight.Area()
	if ta == 0 {
		return 0
	}
	return float64(pr.UsedArea()) / float64(ta) * 100.0
}

// Project ties everything together for save/load.
type Project struct {
	Name     string       `json:"name"`
	Rects    []*Rect      `json:"rects"`
	Settings PackSettings `json:"settings"`
	Result   *PackResult  `json:"result,omitempty"`
}

func NewProject() Project {
	return Project{
		Name:     "Untitled",
		Rects:    []*Rect{},
		Settings: DefaultSettings(),
	}
}
