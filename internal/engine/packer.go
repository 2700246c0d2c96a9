package engine

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/SpritePack/internal/model"
)

// Recorder receives search telemetry. Implementations must be safe for
// concurrent use when parallel search is enabled.
type Recorder interface {
	ObserveAttempt(ordering model.Heuristic, side int, ok bool, nodes int)
	ObservePack(tight model.Size, placed, unplaced int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveAttempt(model.Heuristic, int, bool, int) {}
func (nopRecorder) ObservePack(model.Size, int, int)               {}

// Packer runs the multi-ordering bin size search.
type Packer struct {
	Settings model.PackSettings

	// Orderings overrides Settings.Heuristics when non-nil.
	Orderings []Ordering
	Logger    *slog.Logger
	Recorder  Recorder
}

// Option configures a Packer.
type Option func(*Packer)

// WithLogger sets the logger for search progress. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Packer) { p.Logger = l }
}

// WithRecorder sets the telemetry sink.
func WithRecorder(r Recorder) Option {
	return func(p *Packer) { p.Recorder = r }
}

// WithOrderings replaces Settings.Heuristics with os. An empty list is kept
// as an override and rejected by Pack.
func WithOrderings(os ...Ordering) Option {
	return func(p *Packer) { p.Orderings = append([]Ordering{}, os...) }
}

// New returns a Packer for settings.
func New(settings model.PackSettings, opts ...Option) *Packer {
	p := &Packer{Settings: settings}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Packer) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func (p *Packer) recorder() Recorder {
	if p.Recorder == nil {
		return nopRecorder{}
	}
	return p.Recorder
}

// searchState is where a single ordering's size search ended.
type searchState int

const (
	stateDone      searchState = iota // Step reached the floor on a success
	stateFailed                       // Outgrew the bound, best-effort area measured
	stateAbandoned                    // Outgrew the bound after another ordering succeeded
)

type searchOutcome struct {
	state searchState
	side  int // Final successful side when state is stateDone
	area  int // Area accepted by the best-effort pass when state is stateFailed
}

// packOutcome describes the committed layout of one Pack call.
type packOutcome struct {
	bin       model.Size
	tight     model.Size
	heuristic model.Heuristic
}

// Pack places rects into the smallest square container it can find, up to
// Settings.MaxSide. Each rect gets exactly one onSuccess or onFailure call.
// Placed rects have X, Y and Flipped set; failed rects have Flipped reset
// and X, Y untouched. The returned size bounds every placed rect.
func (p *Packer) Pack(ctx context.Context, rects []*model.Rect, onSuccess, onFailure func(*model.Rect)) (model.Size, error) {
	out, err := p.pack(ctx, rects, onSuccess, onFailure)
	if err != nil {
		return model.Size{}, err
	}
	return out.tight, nil
}

// PackAll packs rects and collects the outcome into a PackResult.
func (p *Packer) PackAll(ctx context.Context, rects []*model.Rect) (model.PackResult, error) {
	result := model.PackResult{
		Placed:   []*model.Rect{},
		Unplaced: []*model.Rect{},
	}
	out, err := p.pack(ctx, rects,
		func(r *model.Rect) { result.Placed = append(result.Placed, r) },
		func(r *model.Rect) { result.Unplaced = append(result.Unplaced, r) },
	)
	if err != nil {
		return model.PackResult{}, err
	}
	result.Bin = out.bin
	result.Tight = out.tight
	result.Heuristic = out.heuristic
	return result, nil
}

func (p *Packer) pack(ctx context.Context, rects []*model.Rect, onSuccess, onFailure func(*model.Rect)) (packOutcome, error) {
	orderings, err := p.validate(rects)
	if err != nil {
		return packOutcome{}, err
	}
	if len(rects) == 0 {
		return packOutcome{heuristic: orderings[0].Name()}, nil
	}
	if onSuccess == nil {
		onSuccess = func(*model.Rect) {}
	}
	if onFailure == nil {
		onFailure = func(*model.Rect) {}
	}

	orders := make([][]item, len(orderings))
	for i, o := range orderings {
		orders[i] = sortedItems(rects, o)
	}

	var winner int
	var bin model.Size
	if p.Settings.Parallel && len(orderings) > 1 {
		winner, bin, err = p.searchParallel(ctx, orderings, orders)
	} else {
		winner, bin, err = p.searchSequential(ctx, orderings, orders)
	}
	if err != nil {
		return packOutcome{}, err
	}

	tight, placed, err := p.commit(orders[winner], bin, onSuccess, onFailure)
	if err != nil {
		return packOutcome{}, err
	}

	p.logger().Info("pack: done",
		"ordering", orderings[winner].Name(),
		"bin", bin.W,
		"tight_w", tight.W,
		"tight_h", tight.H,
		"placed", placed,
		"unplaced", len(rects)-placed,
	)
	p.recorder().ObservePack(tight, placed, len(rects)-placed)

	return packOutcome{bin: bin, tight: tight, heuristic: orderings[winner].Name()}, nil
}

// validate checks the preconditions and resolves the orderings to try.
func (p *Packer) validate(rects []*model.Rect) ([]Ordering, error) {
	if p.Settings.MaxSide <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxSide, p.Settings.MaxSide)
	}
	if p.Settings.DiscardStep < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDiscardStep, p.Settings.DiscardStep)
	}

	seen := make(map[*model.Rect]bool, len(rects))
	for i, r := range rects {
		if r == nil {
			return nil, fmt.Errorf("%w: rect %d is nil", ErrInvalidRect, i)
		}
		if r.W <= 0 || r.H <= 0 {
			return nil, fmt.Errorf("%w: rect %d (%q) is %dx%d", ErrInvalidRect, i, r.Label, r.W, r.H)
		}
		if seen[r] {
			return nil, fmt.Errorf("%w: rect %d (%q)", ErrDuplicateRect, i, r.Label)
		}
		seen[r] = true
	}

	if p.Orderings != nil {
		if len(p.Orderings) == 0 {
			return nil, ErrNoHeuristics
		}
		return p.Orderings, nil
	}
	return OrderingsFor(p.Settings.Heuristics)
}

// nodeCapacity is the per-tree node limit. Every insertion allocates at
// most four nodes, so the derived limit can never be exceeded.
func (p *Packer) nodeCapacity(n int) int {
	if p.Settings.NodeCapacity > 0 {
		return p.Settings.NodeCapacity
	}
	return 1 + 4*n
}

// discardFloor is the step at which a successful search stops refining.
func (p *Packer) discardFloor() int {
	return max(p.Settings.DiscardStep, 1)
}

// searchSequential runs each ordering in turn. Later orderings start from
// the best side found so far and give up as soon as they outgrow it.
func (p *Packer) searchSequential(ctx context.Context, orderings []Ordering, orders [][]item) (int, model.Size, error) {
	pool := newNodePool(p.nodeCapacity(len(orders[0])))

	bound := p.Settings.MaxSide
	best, partial, partialArea := -1, 0, 0
	for f, items := range orders {
		out, err := p.search(ctx, pool, orderings[f].Name(), items, bound, best >= 0)
		if err != nil {
			return 0, model.Size{}, err
		}
		switch out.state {
		case stateDone:
			if bound*bound >= out.side*out.side {
				bound = out.side
				best = f
			}
		case stateFailed:
			if out.area > partialArea {
				partialArea = out.area
				partial = f
			}
		}
	}
	return p.pick(best, partial, bound)
}

// searchParallel runs every ordering independently, each with its own
// pool and the full bound, then reduces the outcomes in ordering order.
func (p *Packer) searchParallel(ctx context.Context, orderings []Ordering, orders [][]item) (int, model.Size, error) {
	outcomes := make([]searchOutcome, len(orders))
	capacity := p.nodeCapacity(len(orders[0]))

	g, gctx := errgroup.WithContext(ctx)
	for f := range orders {
		g.Go(func() error {
			out, err := p.search(gctx, newNodePool(capacity), orderings[f].Name(), orders[f], p.Settings.MaxSide, false)
			if err != nil {
				return err
			}
			outcomes[f] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, model.Size{}, err
	}

	bound := p.Settings.MaxSide
	best, partial, partialArea := -1, 0, 0
	for f, out := range outcomes {
		switch out.state {
		case stateDone:
			if bound*bound >= out.side*out.side {
				bound = out.side
				best = f
			}
		case stateFailed:
			if out.area > partialArea {
				partialArea = out.area
				partial = f
			}
		}
	}
	return p.pick(best, partial, bound)
}

func (p *Packer) pick(best, partial, bound int) (int, model.Size, error) {
	if best >= 0 {
		return best, model.Size{W: bound, H: bound}, nil
	}
	return partial, model.Size{W: p.Settings.MaxSide, H: p.Settings.MaxSide}, nil
}

// search probes square sides for one ordering, halving the step after
// every attempt: shrink on success, grow on failure.
func (p *Packer) search(ctx context.Context, pool *nodePool, name model.Heuristic, items []item, bound int, haveSuccess bool) (searchOutcome, error) {
	side := bound
	step := side / 2
	floor := p.discardFloor()

	for {
		if err := ctx.Err(); err != nil {
			return searchOutcome{}, err
		}

		if side > bound {
			if haveSuccess {
				p.logger().Debug("pack: ordering abandoned", "ordering", name, "side", side, "bound", bound)
				return searchOutcome{state: stateAbandoned}, nil
			}
			area, err := p.measure(pool, items, bound)
			if err != nil {
				return searchOutcome{}, err
			}
			p.logger().Debug("pack: ordering failed", "ordering", name, "bound", bound, "area", area)
			return searchOutcome{state: stateFailed, area: area}, nil
		}

		ok, err := p.attempt(pool, name, items, side)
		if err != nil {
			return searchOutcome{}, err
		}
		p.logger().Debug("pack: attempt", "ordering", name, "side", side, "step", step, "ok", ok)

		if ok {
			if step <= floor {
				return searchOutcome{state: stateDone, side: side}, nil
			}
			side -= step
		} else {
			side += step
		}

		step /= 2
		if step == 0 {
			step = 1
		}
	}
}

// attempt reports whether every item fits a fresh tree of the given side.
func (p *Packer) attempt(pool *nodePool, name model.Heuristic, items []item, side int) (bool, error) {
	t, err := makeRoot(pool, model.Size{W: side, H: side}, p.Settings.AllowFlip)
	if err != nil {
		return false, err
	}
	ok := true
	for i := range items {
		_, inserted, err := t.insert(t.root, &items[i])
		if err != nil {
			return false, err
		}
		if !inserted {
			ok = false
			break
		}
	}
	p.recorder().ObserveAttempt(name, side, ok, pool.len())
	return ok, nil
}

// measure inserts as many items as possible at side and returns the area
// they cover.
func (p *Packer) measure(pool *nodePool, items []item, side int) (int, error) {
	t, err := makeRoot(pool, model.Size{W: side, H: side}, p.Settings.AllowFlip)
	if err != nil {
		return 0, err
	}
	area := 0
	for i := range items {
		_, inserted, err := t.insert(t.root, &items[i])
		if err != nil {
			return 0, err
		}
		if inserted {
			area += items[i].w * items[i].h
		}
	}
	return area, nil
}

// commit rebuilds the winning layout and writes it back. The whole pass is
// run on trial items first so an internal error leaves every rect untouched.
func (p *Packer) commit(items []item, bin model.Size, onSuccess, onFailure func(*model.Rect)) (model.Size, int, error) {
	pool := newNodePool(p.nodeCapacity(len(items)))
	t, err := makeRoot(pool, bin, p.Settings.AllowFlip)
	if err != nil {
		return model.Size{}, 0, err
	}

	dest := make([]int32, len(items))
	for i := range items {
		h, ok, err := t.insert(t.root, &items[i])
		if err != nil {
			return model.Size{}, 0, err
		}
		if !ok {
			h = noChild
		}
		dest[i] = h
	}

	var clip model.Size
	placed := 0
	for i := range items {
		it := &items[i]
		if dest[i] != noChild {
			t.readBack(dest[i], it, &clip)
			placed++
			onSuccess(it.rect)
		} else {
			it.rect.Flipped = false
			onFailure(it.rect)
		}
	}
	return clip, placed, nil
}
