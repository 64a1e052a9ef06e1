package engine

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"courseplanner/internal/catalog"
)

// SortingOption computes a scalar ranking factor per combination; lower
// factors sort first.
type SortingOption struct {
	Label     string
	Calculate func(combination Combination, events []catalog.Event) float64
}

// SortingOptions returns the built-in ranking strategies, in the order their
// indices are exposed to callers.
func SortingOptions() []SortingOption {
	return []SortingOption{
		{Label: "Most Compact", Calculate: mostCompact},
		{Label: "Earliest Ending", Calculate: earliestEnding},
		{Label: "Latest Beginning", Calculate: latestBeginning},
	}
}

// Sort returns a copy of the combinations with their factor computed by the
// chosen option, stable-sorted ascending so ties retain input order. An
// out-of-range option index is a programmer error and fails fast.
func Sort(combinations []Combination, optionIndex int, events []catalog.Event) ([]Combination, error) {
	options := SortingOptions()
	if optionIndex < 0 || optionIndex >= len(options) {
		return nil, fmt.Errorf("sorting option index %v out of range [0, %v)", optionIndex, len(options))
	}
	option := options[optionIndex]

	sorted := lo.Map(combinations, func(combination Combination, _ int) Combination {
		combination.Factor = option.Calculate(combination, events)
		return combination
	})
	slices.SortStableFunc(sorted, func(a, b Combination) int {
		return cmp.Compare(a.Factor, b.Factor)
	})
	return sorted, nil
}

// mostCompact sums, per weekday, the span from the earliest start to the
// latest end, widened by events landing on that day. Fewer idle minutes on
// campus means a lower factor.
func mostCompact(combination Combination, events []catalog.Event) float64 {
	eventStarts := make(map[string]int)
	eventEnds := make(map[string]int)
	for _, event := range events {
		for _, day := range event.Days {
			if start, ok := eventStarts[day]; !ok || event.Period.Start < start {
				eventStarts[day] = event.Period.Start
			}
			if end, ok := eventEnds[day]; !ok || event.Period.End > end {
				eventEnds[day] = event.Period.End
			}
		}
	}

	total := 0
	for day, start := range combination.StartMap {
		end := combination.EndMap[day]
		if eventStart, ok := eventStarts[day]; ok && eventStart < start {
			start = eventStart
		}
		if eventEnd, ok := eventEnds[day]; ok && eventEnd > end {
			end = eventEnd
		}
		total += end - start
	}
	return float64(total)
}

// earliestEnding averages the per-day latest end times, so days that finish
// early sort first.
func earliestEnding(combination Combination, _ []catalog.Event) float64 {
	if len(combination.EndMap) == 0 {
		return 0
	}
	return float64(lo.Sum(lo.Values(combination.EndMap))) / float64(len(combination.EndMap))
}

// latestBeginning negates the average per-day earliest start, so later
// mornings sort first under the ascending order.
func latestBeginning(combination Combination, _ []catalog.Event) float64 {
	if len(combination.StartMap) == 0 {
		return 0
	}
	return -float64(lo.Sum(lo.Values(combination.StartMap))) / float64(len(combination.StartMap))
}
