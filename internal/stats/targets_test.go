package stats

import (
	"testing"

	"github.com/verte-zerg/gazecal/internal/model"
)

func TestWorstTargetsByError(t *testing.T) {
	aggs := []model.TargetAggregate{
		{TargetID: 1, Samples: 2, ErrorSum: 4},  // avg 2
		{TargetID: 2, Samples: 2, ErrorSum: 10}, // avg 5
		{TargetID: 3, Samples: 2, ErrorSum: 6},  // avg 3
	}
	worst := WorstTargetsByError(aggs, 2)
	if len(worst) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(worst))
	}
	if worst[0].TargetID != 2 || worst[1].TargetID != 3 {
		t.Fatalf("unexpected order: %+v", worst)
	}
}

func TestWorstTargetsByErrorTies(t *testing.T) {
	aggs := []model.TargetAggregate{
		{TargetID: 5, Samples: 1, ErrorSum: 3},
		{TargetID: 2, Samples: 1, ErrorSum: 3},
	}
	worst := WorstTargetsByError(aggs, 2)
	if worst[0].TargetID != 2 || worst[1].TargetID != 5 {
		t.Fatalf("ties must break on target id: %+v", worst)
	}
}

func TestWorstTargetsByErrorBounds(t *testing.T) {
	if got := WorstTargetsByError(nil, 3); got != nil {
		t.Fatalf("expected nil for empty input, got %+v", got)
	}
	aggs := []model.TargetAggregate{{TargetID: 1, Samples: 1, ErrorSum: 1}}
	if got := WorstTargetsByError(aggs, 10); len(got) != 1 {
		t.Fatalf("top larger than input must clamp, got %+v", got)
	}
}

func TestTargetIDs(t *testing.T) {
	aggs := []model.TargetAggregate{{TargetID: 4}, {TargetID: 9}}
	ids := TargetIDs(aggs)
	if len(ids) != 2 || ids[0] != 4 || ids[1] != 9 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}
