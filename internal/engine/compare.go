package engine

import (
	"context"
	"fmt"

	"github.com/piwi3910/SpritePack/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.PackSettings
}

// ComparisonResult holds the pack result and computed statistics for a
// single scenario or ordering.
type ComparisonResult struct {
	Name          string
	Result        model.PackResult
	PlacedCount   int
	UnplacedCount int
	Efficiency    float64
}

func newComparisonResult(name string, res model.PackResult) ComparisonResult {
	return ComparisonResult{
		Name:          name,
		Result:        res,
		PlacedCount:   len(res.Placed),
		UnplacedCount: len(res.Unplaced),
		Efficiency:    res.Efficiency(),
	}
}

// CompareScenarios packs a fresh copy of rects under each scenario and
// returns the results in scenario order. The caller's rects are not modified.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, rects []*model.Rect, opts ...Option) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		res, err := New(scenario.Settings, opts...).PackAll(ctx, model.CloneRects(rects))
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}
		results = append(results, newComparisonResult(scenario.Name, res))
	}

	return results, nil
}

// CompareOrderings packs a fresh copy of rects with each configured ordering
// on its own, showing how much each heuristic contributes.
func CompareOrderings(ctx context.Context, settings model.PackSettings, rects []*model.Rect, opts ...Option) ([]ComparisonResult, error) {
	orderings, err := OrderingsFor(settings.Heuristics)
	if err != nil {
		return nil, err
	}

	results := make([]ComparisonResult, 0, len(orderings))
	for _, o := range orderings {
		p := New(settings, append(opts, WithOrderings(o))...)
		res, err := p.PackAll(ctx, model.CloneRects(rects))
		if err != nil {
			return nil, fmt.Errorf("ordering %q: %w", o.Name(), err)
		}
		results = append(results, newComparisonResult(string(o.Name()), res))
	}
	return results, nil
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(baseSettings model.PackSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: baseSettings,
		},
	}

	// Scenario: toggle rotation
	altFlip := baseSettings
	altFlip.AllowFlip = !baseSettings.AllowFlip
	name := "Rotation Allowed"
	if baseSettings.AllowFlip {
		name = "No Rotation"
	}
	scenarios = append(scenarios, ComparisonScenario{
		Name:     name,
		Settings: altFlip,
	})

	// Scenario: coarser size search
	if baseSettings.MaxSide >= 64 {
		coarse := baseSettings
		coarse.DiscardStep = baseSettings.MaxSide / 64
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Discard Step %d", coarse.DiscardStep),
			Settings: coarse,
		})
	}

	// Scenario: independent ordering searches
	if !baseSettings.Parallel && len(baseSettings.Heuristics) > 1 {
		parallel := baseSettings
		parallel.Parallel = true
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Parallel Search",
			Settings: parallel,
		})
	}

	return scenarios
}
