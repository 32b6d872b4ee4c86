package partitioner

import (
	"fmt"
	"math"
	"slices"

	"github.com/aljab017/ill-router/pkg/core/model"
)

// WeightedPartitioner orders lending locations for a single routing decision.
//
// Locations flagged as last resort are carved out first and keep their input order.
// The remaining locations are drawn without replacement, each round picking a
// location with probability proportional to its weight. The draw order becomes the
// attempt priority (0, 1, 2, ...) and is split into Group 1 (the first group1Size
// draws) and Group 2 (the rest). Last resort locations follow at LastResortPriority.
//
// A WeightedPartitioner is not safe for concurrent use.
type WeightedPartitioner struct {
	group1Size int
	source     RandomSource

	// candidates holds the non-last-resort locations in input order.
	// Each shuffle draws from a fresh copy of it.
	candidates []model.Location

	weightShuffled []model.Location
	prioritized    []model.PrioritizedLocation
	group1         []model.PrioritizedLocation
	group2         []model.PrioritizedLocation
	lastResort     []model.PrioritizedLocation
	added          []model.AddedLocation
}

// Option configures a WeightedPartitioner
type Option func(*WeightedPartitioner)

// WithSource sets the random source used for the weighted draw
func WithSource(source RandomSource) Option {
	return func(p *WeightedPartitioner) {
		if source != nil {
			p.source = source
		}
	}
}

// WithSeed makes the weighted draw reproducible for the given seed
func WithSeed(seed string) Option {
	return func(p *WeightedPartitioner) {
		p.source = NewSeededSource(seed)
	}
}

// Result is a snapshot of every sequence produced by the last shuffle
type Result struct {
	Group1Size              int                         `json:"group1Size"`
	Group1                  []model.PrioritizedLocation `json:"group1"`
	Group2                  []model.PrioritizedLocation `json:"group2"`
	LastResortLocations     []model.PrioritizedLocation `json:"lastResortLocations"`
	PrioritizedLocations    []model.PrioritizedLocation `json:"prioritizedLocations"`
	WeightShuffledLocations []model.Location            `json:"weightShuffledLocations"`
	AddedLocations          []model.AddedLocation       `json:"addedLocations"`
}

// New validates the input, carves out last resort locations and performs the first shuffle.
// The locations slice is copied and never modified.
func New(group1Size int, locations []model.Location, opts ...Option) (*WeightedPartitioner, error) {
	if group1Size <= 0 {
		return nil, ErrInvalidGroupSize
	}

	if len(locations) == 0 {
		return nil, ErrEmptyLocations
	}

	var total model.Weight
	for i, loc := range locations {
		if loc.Weight < 0 {
			return nil, fmt.Errorf("%w: location %q at index %d has weight %s", ErrNegativeWeight, loc.Code, i, loc.Weight)
		}
		if loc.Weight > model.MaxWeight {
			return nil, fmt.Errorf("%w: location %q at index %d has weight %s, maximum is %s", ErrWeightTooLarge, loc.Code, i, loc.Weight, model.MaxWeight)
		}
		if total > math.MaxInt64-loc.Weight {
			return nil, fmt.Errorf("%w: total weight overflows at location %q (index %d)", ErrWeightTooLarge, loc.Code, i)
		}
		total += loc.Weight
	}

	p := &WeightedPartitioner{
		group1Size: group1Size,
		added:      []model.AddedLocation{},
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.source == nil {
		p.source = newRuntimeSource()
	}

	p.candidates, p.lastResort = carveOutLastResort(locations)

	p.Shuffle()

	return p, nil
}

// carveOutLastResort splits locations into draw candidates and the last resort tail.
// Both keep the relative input order.
func carveOutLastResort(locations []model.Location) ([]model.Location, []model.PrioritizedLocation) {
	candidates := make([]model.Location, 0, len(locations))
	lastResort := make([]model.PrioritizedLocation, 0)

	for _, loc := range locations {
		if loc.IsLastResort {
			lastResort = append(lastResort, model.PrioritizedLocation{
				Location: loc,
				Priority: model.LastResortPriority,
			})
			continue
		}
		candidates = append(candidates, loc)
	}

	return candidates, lastResort
}

// Shuffle redraws the weighted order of the non-last-resort locations and rebuilds
// the groups and the prioritized sequence. Last resort and added locations are untouched.
func (p *WeightedPartitioner) Shuffle() {
	p.weightShuffled = weightedDraw(p.candidates, p.source)

	// Draw index is the priority
	p.prioritized = make([]model.PrioritizedLocation, 0, len(p.weightShuffled)+len(p.lastResort))
	for i, loc := range p.weightShuffled {
		p.prioritized = append(p.prioritized, model.PrioritizedLocation{
			Location: loc,
			Priority: i,
		})
	}

	split := min(p.group1Size, len(p.prioritized))
	p.group1 = slices.Clone(p.prioritized[:split])
	p.group2 = slices.Clone(p.prioritized[split:])

	p.prioritized = append(p.prioritized, p.lastResort...)
}

// weightedDraw returns the candidates in a weighted random order without modifying them.
//
// Each round picks uniform r in [0, total) and walks the remaining locations in their
// current order, selecting the first whose cumulative weight exceeds r. Weights are
// fixed-point integers so the cumulative sums are exact and no rounding tolerance is
// needed at the boundary. When every remaining weight is zero the first remaining
// location is selected.
func weightedDraw(candidates []model.Location, source RandomSource) []model.Location {
	remaining := slices.Clone(candidates)
	drawn := make([]model.Location, 0, len(candidates))

	var total int64
	for _, loc := range remaining {
		total += int64(loc.Weight)
	}

	for len(remaining) > 0 {
		selected := 0

		if total > 0 {
			r := source.Int64N(total)

			var cumulative int64
			for i, loc := range remaining {
				cumulative += int64(loc.Weight)
				if r < cumulative {
					selected = i
					break
				}
			}
		}

		loc := remaining[selected]
		total -= int64(loc.Weight)
		drawn = append(drawn, loc)
		remaining = slices.Delete(remaining, selected, selected+1)
	}

	return drawn
}

// AddLocation records an ad-hoc location outside the weighted draw.
// Added locations are never reshuffled.
func (p *WeightedPartitioner) AddLocation(code string, reportCode int) (model.AddedLocation, error) {
	if code == "" {
		return model.AddedLocation{}, ErrEmptyLocationCode
	}

	added := model.AddedLocation{
		LocationCode: code,
		ReportCode:   reportCode,
	}
	p.added = append(p.added, added)

	return added, nil
}

// Group1Size returns the requested size of Group 1
func (p *WeightedPartitioner) Group1Size() int {
	return p.group1Size
}

// Group1 returns the first Group1Size locations of the draw
func (p *WeightedPartitioner) Group1() []model.PrioritizedLocation {
	return slices.Clone(p.group1)
}

// Group2 returns the drawn locations after Group 1
func (p *WeightedPartitioner) Group2() []model.PrioritizedLocation {
	return slices.Clone(p.group2)
}

// LastResortLocations returns the last resort tail in input order
func (p *WeightedPartitioner) LastResortLocations() []model.PrioritizedLocation {
	return slices.Clone(p.lastResort)
}

// PrioritizedLocations returns Group 1, Group 2 and the last resort tail in attempt order
func (p *WeightedPartitioner) PrioritizedLocations() []model.PrioritizedLocation {
	return slices.Clone(p.prioritized)
}

// WeightShuffledLocations returns the raw draw order without priorities
func (p *WeightedPartitioner) WeightShuffledLocations() []model.Location {
	return slices.Clone(p.weightShuffled)
}

// AddedLocations returns the locations added since construction
func (p *WeightedPartitioner) AddedLocations() []model.AddedLocation {
	return slices.Clone(p.added)
}

// Result returns a snapshot of the current partition
func (p *WeightedPartitioner) Result() Result {
	return Result{
		Group1Size:              p.group1Size,
		Group1:                  p.Group1(),
		Group2:                  p.Group2(),
		LastResortLocations:     p.LastResortLocations(),
		PrioritizedLocations:    p.PrioritizedLocations(),
		WeightShuffledLocations: p.WeightShuffledLocations(),
		AddedLocations:          p.AddedLocations(),
	}
}
