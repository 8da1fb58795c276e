package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/gazecal/internal/catalog"
	"github.com/verte-zerg/gazecal/internal/model"
)

func TestCellFor(t *testing.T) {
	cases := []struct {
		pct  float64
		size int
		want int
	}{
		{0, 11, 0},
		{50, 11, 5},
		{100, 11, 10},
		{10, 11, 1},
		{-5, 11, 0},
		{120, 11, 10},
		{50, 1, 0},
	}
	for _, tc := range cases {
		if got := cellFor(tc.pct, tc.size); got != tc.want {
			t.Fatalf("cellFor(%v, %d) = %d, want %d", tc.pct, tc.size, got, tc.want)
		}
	}
}

func TestBuildGridMarksTargets(t *testing.T) {
	targets := []model.Target{
		{ID: 1, X: 0, Y: 0},
		{ID: 2, X: 100, Y: 100},
		{ID: 3, X: 50, Y: 50},
	}
	recorded := map[int]bool{1: true}
	grid := buildGrid(targets, recorded, 3, 21, 11)
	if grid[0][0] != cellRecorded {
		t.Fatalf("expected recorded marker at top-left, got %d", grid[0][0])
	}
	if grid[10][20] != cellPending {
		t.Fatalf("expected pending marker at bottom-right, got %d", grid[10][20])
	}
	if grid[5][10] != cellCurrent {
		t.Fatalf("expected current marker at center, got %d", grid[5][10])
	}
}

func TestBuildGridAllTargetsPlaced(t *testing.T) {
	grid := buildGrid(catalog.All(), nil, 0, 41, 17)
	marked := 0
	for _, row := range grid {
		for _, cell := range row {
			if cell != cellEmpty {
				marked++
			}
		}
	}
	if marked != catalog.Count() {
		t.Fatalf("expected %d distinct markers, got %d", catalog.Count(), marked)
	}
}

func TestRenderGridDimensions(t *testing.T) {
	grid := buildGrid(catalog.All(), nil, 1, 21, 9)
	out := renderGrid(grid)
	lines := strings.Split(out, "\n")
	if len(lines) != 9 {
		t.Fatalf("expected 9 lines, got %d", len(lines))
	}
	if !strings.Contains(out, string(currentMarker)) {
		t.Fatalf("current marker missing from rendered grid:\n%s", out)
	}
}

func TestBuildGridZeroSize(t *testing.T) {
	if grid := buildGrid(catalog.All(), nil, 0, 0, 0); grid != nil {
		t.Fatalf("expected nil grid for zero size, got %v", grid)
	}
}
