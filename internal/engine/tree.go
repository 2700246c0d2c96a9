package engine

import (
	"fmt"

	"github.com/piwi3910/SpritePack/internal/model"
)

const noChild int32 = -1

// node is either a leaf (no children, possibly filled) or a branch
// (both children allocated together, never filled).
type node struct {
	rc     model.Box
	child  [2]int32
	filled bool
}

func (n *node) isBranch() bool {
	return n.child[0] != noChild
}

// nodePool is an arena of tree nodes addressed by handle. A reset
// invalidates every handle handed out before it.
type nodePool struct {
	nodes []node
	limit int
}

func newNodePool(limit int) *nodePool {
	if limit < 1 {
		limit = 1
	}
	return &nodePool{
		nodes: make([]node, 0, limit),
		limit: limit,
	}
}

func (p *nodePool) reset() {
	p.nodes = p.nodes[:0]
}

func (p *nodePool) alloc(rc model.Box) (int32, error) {
	if len(p.nodes) >= p.limit {
		return noChild, fmt.Errorf("%w: limit %d", ErrPoolExhausted, p.limit)
	}
	p.nodes = append(p.nodes, node{rc: rc, child: [2]int32{noChild, noChild}})
	return int32(len(p.nodes) - 1), nil
}

func (p *nodePool) len() int {
	return len(p.nodes)
}

// item is a private trial copy of a rect. Trial insertions only ever
// touch items; the owning rect is written by readBack.
type item struct {
	rect    *model.Rect
	w, h    int
	flipped bool
}

func newItem(r *model.Rect) item {
	return item{rect: r, w: r.W, h: r.H}
}

func (it *item) size() model.Size {
	return model.Size{W: it.w, H: it.h}
}

// effective returns the dimensions in the current orientation.
func (it *item) effective() (int, int) {
	if it.flipped {
		return it.h, it.w
	}
	return it.w, it.h
}

// leafFill is the outcome of testing an item against a leaf.
type leafFill int

const (
	fillTooBig leafFill = iota
	fillExact
	fillGrow
)

// tree is one guillotine partition of a candidate container. It lives
// until the next makeRoot on the same pool.
type tree struct {
	pool      *nodePool
	root      int32
	allowFlip bool
}

// makeRoot resets the pool and starts a tree with a single empty leaf
// covering the whole container.
func makeRoot(pool *nodePool, size model.Size, allowFlip bool) (*tree, error) {
	pool.reset()
	root, err := pool.alloc(model.BoxOf(size))
	if err != nil {
		return nil, err
	}
	return &tree{pool: pool, root: root, allowFlip: allowFlip}, nil
}

func (t *tree) node(h int32) *node {
	return &t.pool.nodes[h]
}

func (t *tree) size() model.Size {
	return t.node(t.root).rc.Size()
}

// classifyFit tests it against the region of leaf h and records the
// chosen orientation on the item.
func (t *tree) classifyFit(h int32, it *item) leafFill {
	fit := it.size().FitIn(t.node(h).rc, t.allowFlip)
	it.flipped = fit.Flipped()
	switch fit {
	case model.FitsExactly, model.FitsExactlyFlipped:
		return fillExact
	case model.FitsInside, model.FitsInsideFlipped:
		return fillGrow
	default:
		return fillTooBig
	}
}

// split turns leaf h into a branch with a guillotine cut along the
// direction that leaves the larger remainder in the second child.
func (t *tree) split(h int32, it *item) error {
	rc := t.node(h).rc
	iw, ih := it.effective()

	var first, second model.Box
	if rc.W()-iw > rc.H()-ih {
		first = model.Box{L: rc.L, T: rc.T, R: rc.L + iw, B: rc.B}
		second = model.Box{L: rc.L + iw, T: rc.T, R: rc.R, B: rc.B}
	} else {
		first = model.Box{L: rc.L, T: rc.T, R: rc.R, B: rc.T + ih}
		second = model.Box{L: rc.L, T: rc.T + ih, R: rc.R, B: rc.B}
	}

	a, err := t.pool.alloc(first)
	if err != nil {
		return err
	}
	b, err := t.pool.alloc(second)
	if err != nil {
		return err
	}
	n := t.node(h)
	n.child[0], n.child[1] = a, b
	return nil
}

// leafInsert places it into the empty leaf h, splitting at most twice.
func (t *tree) leafInsert(h int32, it *item) (int32, bool, error) {
	switch t.classifyFit(h, it) {
	case fillExact:
		t.node(h).filled = true
		return h, true, nil
	case fillTooBig:
		return noChild, false, nil
	}

	if err := t.split(h, it); err != nil {
		return noChild, false, err
	}

	first := t.node(h).child[0]
	switch t.classifyFit(first, it) {
	case fillExact:
		t.node(first).filled = true
		return first, true, nil
	case fillGrow:
		if err := t.split(first, it); err != nil {
			return noChild, false, err
		}
		// One axis already matches, so the second cut yields an exact leaf.
		target := t.node(first).child[0]
		if iw, ih := it.effective(); t.node(target).rc.Size() != (model.Size{W: iw, H: ih}) {
			return noChild, false, fmt.Errorf("%w: %dx%d does not match split leaf %+v",
				ErrInvariant, iw, ih, t.node(target).rc)
		}
		t.node(target).filled = true
		return target, true, nil
	default:
		return noChild, false, fmt.Errorf("%w: %dx%d classified too big for split region %+v",
			ErrInvariant, it.w, it.h, t.node(first).rc)
	}
}

// insert searches the subtree at h depth-first, first child before the
// second, and places it in the first leaf that accepts it.
func (t *tree) insert(h int32, it *item) (int32, bool, error) {
	n := t.node(h)
	if n.isBranch() {
		left, right := n.child[0], n.child[1]
		dst, ok, err := t.insert(left, it)
		if ok || err != nil {
			return dst, ok, err
		}
		return t.insert(right, it)
	}
	if n.filled {
		return noChild, false, nil
	}
	return t.leafInsert(h, it)
}

// readBack commits the placement held by leaf h onto the item's rect and
// grows clip to cover the leaf.
func (t *tree) readBack(h int32, it *item, clip *model.Size) {
	rc := t.node(h).rc
	it.rect.X = rc.L
	it.rect.Y = rc.T
	it.rect.Flipped = it.flipped

	clip.W = max(clip.W, rc.R)
	clip.H = max(clip.H, rc.B)
}
