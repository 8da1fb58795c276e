package stats

import (
	"sort"

	"github.com/verte-zerg/gazecal/internal/model"
)

// WorstTargetsByError returns up to top aggregates sorted by highest
// average error. Ties break on target id to keep output stable.
func WorstTargetsByError(aggs []model.TargetAggregate, top int) []model.TargetAggregate {
	if top <= 0 || len(aggs) == 0 {
		return nil
	}
	sorted := make([]model.TargetAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		ei := AvgError(sorted[i])
		ej := AvgError(sorted[j])
		if ei == ej {
			return sorted[i].TargetID < sorted[j].TargetID
		}
		return ei > ej
	})
	if top > len(sorted) {
		top = len(sorted)
	}
	return sorted[:top]
}

// TargetIDs extracts the target ids from aggregates in order.
func TargetIDs(aggs []model.TargetAggregate) []int {
	ids := make([]int, len(aggs))
	for i, agg := range aggs {
		ids[i] = agg.TargetID
	}
	return ids
}
