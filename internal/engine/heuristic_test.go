package engine

import (
	"testing"

	"github.com/piwi3910/SpritePack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.rect.Label
	}
	return out
}

func TestBuiltinOrderings(t *testing.T) {
	rects := []*model.Rect{
		model.NewRect("a", 10, 10), // area 100, perimeter 40, max 10
		model.NewRect("b", 30, 2),  // area 60, perimeter 64, max 30
		model.NewRect("c", 5, 20),  // area 100, perimeter 50, max 20
		model.NewRect("d", 12, 9),  // area 108, perimeter 42, max 12
	}

	tests := []struct {
		ordering Ordering
		want     []string
	}{
		{ByArea, []string{"d", "a", "c", "b"}},
		{ByPerimeter, []string{"b", "c", "d", "a"}},
		{ByMaxSide, []string{"b", "c", "d", "a"}},
		{ByWidth, []string{"b", "d", "a", "c"}},
		{ByHeight, []string{"c", "a", "d", "b"}},
	}

	for _, tc := range tests {
		t.Run(string(tc.ordering.Name()), func(t *testing.T) {
			assert.Equal(t, tc.want, labels(sortedItems(rects, tc.ordering)))
		})
	}
}

func TestSortedItems_StableOnTies(t *testing.T) {
	rects := []*model.Rect{
		model.NewRect("first", 4, 4),
		model.NewRect("second", 2, 8),
		model.NewRect("third", 8, 2),
	}
	assert.Equal(t, []string{"first", "second", "third"}, labels(sortedItems(rects, ByArea)))

	// The input slice keeps its order.
	assert.Equal(t, "first", rects[0].Label)
}

func TestSortedItems_CopiesDimensions(t *testing.T) {
	r := model.NewRect("r", 3, 7)
	items := sortedItems([]*model.Rect{r}, ByArea)
	require.Len(t, items, 1)
	assert.Same(t, r, items[0].rect)
	assert.Equal(t, 3, items[0].w)
	assert.Equal(t, 7, items[0].h)
	assert.False(t, items[0].flipped)
}

func TestOrderingsFor(t *testing.T) {
	os, err := OrderingsFor([]model.Heuristic{model.HeuristicHeight, model.HeuristicArea})
	require.NoError(t, err)
	require.Len(t, os, 2)
	assert.Equal(t, model.HeuristicHeight, os[0].Name())
	assert.Equal(t, model.HeuristicArea, os[1].Name())

	_, err = OrderingsFor(nil)
	assert.ErrorIs(t, err, ErrNoHeuristics)

	_, err = OrderingsFor([]model.Heuristic{"diagonal"})
	assert.ErrorIs(t, err, ErrUnknownHeuristic)
}

func TestDefaultOrderings(t *testing.T) {
	os := DefaultOrderings()
	require.Len(t, os, 5)
	for i, name := range model.DefaultHeuristics() {
		assert.Equal(t, name, os[i].Name())
	}

	os[0] = nil
	assert.NotNil(t, DefaultOrderings()[0], "callers get their own copy")
	assert.Equal(t, []string{"area", "perimeter", "max-side", "width", "height"}, HeuristicNames())
}
