// Package tui provides the Bubble Tea calibration interface.
package tui

import (
	"strings"

	"github.com/verte-zerg/gazecal/internal/model"
)

type cellKind int

const (
	cellEmpty cellKind = iota
	cellPending
	cellRecorded
	cellCurrent
)

const (
	pendingMarker  = '○'
	recordedMarker = '●'
	currentMarker  = '◎'
)

// buildGrid places targets onto a width x height cell grid. Target
// coordinates are screen percentages; each maps to the nearest cell.
func buildGrid(targets []model.Target, recorded map[int]bool, currentID, width, height int) [][]cellKind {
	if width <= 0 || height <= 0 {
		return nil
	}
	grid := make([][]cellKind, height)
	for y := range grid {
		grid[y] = make([]cellKind, width)
	}
	for _, t := range targets {
		col := cellFor(t.X, width)
		row := cellFor(t.Y, height)
		kind := cellPending
		switch {
		case t.ID == currentID:
			kind = cellCurrent
		case recorded[t.ID]:
			kind = cellRecorded
		}
		// The current target wins a shared cell.
		if grid[row][col] != cellCurrent {
			grid[row][col] = kind
		}
	}
	return grid
}

func cellFor(pct float64, size int) int {
	if size <= 1 {
		return 0
	}
	idx := int(pct/100*float64(size-1) + 0.5)
	if idx < 0 {
		return 0
	}
	if idx >= size {
		return size - 1
	}
	return idx
}

func renderGrid(grid [][]cellKind) string {
	var b strings.Builder
	for y, row := range grid {
		if y > 0 {
			b.WriteRune('\n')
		}
		for _, cell := range row {
			switch cell {
			case cellPending:
				b.WriteString(pendingTargetStyle.Render(string(pendingMarker)))
			case cellRecorded:
				b.WriteString(recordedTargetStyle.Render(string(recordedMarker)))
			case cellCurrent:
				b.WriteString(currentTargetStyle.Render(string(currentMarker)))
			default:
				b.WriteRune(' ')
			}
		}
	}
	return b.String()
}
