package engine

import (
	"fmt"
	"sort"

	"github.com/piwi3910/SpritePack/internal/model"
)

// Ordering decides the sequence in which rects are inserted. Less must be
// a strict weak order; ties keep their input order.
type Ordering interface {
	Name() model.Heuristic
	Less(a, b *model.Rect) bool
}

type orderingFunc struct {
	name model.Heuristic
	less func(a, b *model.Rect) bool
}

func (o orderingFunc) Name() model.Heuristic {
	return o.name
}

func (o orderingFunc) Less(a, b *model.Rect) bool {
	return o.less(a, b)
}

// NewOrdering wraps a comparison function as an Ordering.
func NewOrdering(name model.Heuristic, less func(a, b *model.Rect) bool) Ordering {
	return orderingFunc{name: name, less: less}
}

// Built-in orderings, all descending.
var (
	ByArea = NewOrdering(model.HeuristicArea, func(a, b *model.Rect) bool {
		return a.Area() > b.Area()
	})
	ByPerimeter = NewOrdering(model.HeuristicPerimeter, func(a, b *model.Rect) bool {
		return a.Perimeter() > b.Perimeter()
	})
	ByMaxSide = NewOrdering(model.HeuristicMaxSide, func(a, b *model.Rect) bool {
		return max(a.W, a.H) > max(b.W, b.H)
	})
	ByWidth = NewOrdering(model.HeuristicWidth, func(a, b *model.Rect) bool {
		return a.W > b.W
	})
	ByHeight = NewOrdering(model.HeuristicHeight, func(a, b *model.Rect) bool {
		return a.H > b.H
	})
)

var builtinOrderings = []Ordering{ByArea, ByPerimeter, ByMaxSide, ByWidth, ByHeight}

// DefaultOrderings returns the built-in orderings in their default order.
func DefaultOrderings() []Ordering {
	out := make([]Ordering, len(builtinOrderings))
	copy(out, builtinOrderings)
	return out
}

// OrderingByName looks up a built-in ordering.
func OrderingByName(name model.Heuristic) (Ordering, error) {
	for _, o := range builtinOrderings {
		if o.Name() == name {
			return o, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownHeuristic, name)
}

// OrderingsFor resolves a list of heuristic names, keeping their order.
func OrderingsFor(names []model.Heuristic) ([]Ordering, error) {
	if len(names) == 0 {
		return nil, ErrNoHeuristics
	}
	out := make([]Ordering, 0, len(names))
	for _, name := range names {
		o, err := OrderingByName(name)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// HeuristicNames returns the names of the built-in orderings.
func HeuristicNames() []string {
	names := make([]string, len(builtinOrderings))
	for i, o := range builtinOrderings {
		names[i] = string(o.Name())
	}
	return names
}

// sortedItems returns trial items for rects, stably sorted by o.
func sortedItems(rects []*model.Rect, o Ordering) []item {
	items := make([]item, len(rects))
	for i, r := range rects {
		items[i] = newItem(r)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return o.Less(items[i].rect, items[j].rect)
	})
	return items
}
