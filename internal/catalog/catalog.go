// Package catalog holds the fixed calibration target layout.
package catalog

import (
	"errors"

	"github.com/verte-zerg/gazecal/internal/model"
)

// ErrOutOfRange reports a target position outside [1, Count()]. It always
// indicates a caller bug, not a recoverable condition.
var ErrOutOfRange = errors.New("target position out of range")

// The traversal order is the calibration procedure itself: three rows of
// anchor points top to bottom, then two asymmetric fill-in points.
var targets = []model.Target{
	{ID: 1, X: 10, Y: 10, Name: "Top-Left"},
	{ID: 2, X: 50, Y: 10, Name: "Top-Center"},
	{ID: 3, X: 90, Y: 10, Name: "Top-Right"},
	{ID: 4, X: 10, Y: 30, Name: "Upper-Left"},
	{ID: 5, X: 50, Y: 30, Name: "Upper-Center"},
	{ID: 6, X: 90, Y: 30, Name: "Upper-Right"},
	{ID: 7, X: 10, Y: 50, Name: "Center-Left"},
	{ID: 8, X: 50, Y: 50, Name: "Center"},
	{ID: 9, X: 90, Y: 50, Name: "Center-Right"},
	{ID: 10, X: 10, Y: 70, Name: "Lower-Left"},
	{ID: 11, X: 50, Y: 70, Name: "Lower-Center"},
	{ID: 12, X: 90, Y: 70, Name: "Lower-Right"},
	{ID: 13, X: 10, Y: 90, Name: "Bottom-Left"},
	{ID: 14, X: 50, Y: 90, Name: "Bottom-Center"},
	{ID: 15, X: 90, Y: 90, Name: "Bottom-Right"},
	{ID: 16, X: 30, Y: 20, Name: "Extra Point 1"},
	{ID: 17, X: 70, Y: 80, Name: "Extra Point 2"},
}

// Count returns the number of calibration targets.
func Count() int {
	return len(targets)
}

// Get returns the target at the given 1-based order position.
func Get(position int) (model.Target, error) {
	if position < 1 || position > len(targets) {
		return model.Target{}, ErrOutOfRange
	}
	return targets[position-1], nil
}

// All returns a copy of the full target layout in traversal order.
func All() []model.Target {
	out := make([]model.Target, len(targets))
	copy(out, targets)
	return out
}
