package tiling

import (
	"fmt"
	"math"
	"strings"

	"github.com/1broseidon/relic/internal/platform"
)

// Mode names a window arrangement.
type Mode string

const (
	ModeCascade    Mode = "cascade"
	ModeGrid       Mode = "grid"
	ModeVertical   Mode = "vertical"
	ModeHorizontal Mode = "horizontal"
)

// CascadeStep is the diagonal offset between cascaded windows. It matches a
// sizable window's title inset so each title stays visible.
const CascadeStep = 23

// Modes returns the supported arrangement modes.
func Modes() []Mode {
	return []Mode{ModeCascade, ModeGrid, ModeVertical, ModeHorizontal}
}

// ParseMode resolves an arrangement name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unsupported arrange mode: %q", s)
}

// CalculateGrid determines the optimal grid dimensions for the given number of windows
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows == 0 {
		return 0, 0
	}

	// Calculate columns first (ceiling of square root)
	cols = int(math.Ceil(math.Sqrt(float64(numWindows))))

	// Calculate rows needed
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))

	return rows, cols
}

// Arrange computes new rectangles for windows inside area. Grid-like modes
// resize windows into slots separated by gap; cascade keeps each window's
// size and only moves it.
func Arrange(mode Mode, windows []platform.Rect, area platform.Rect, gap int) ([]platform.Rect, error) {
	n := len(windows)
	if n == 0 {
		return nil, nil
	}

	var rows, cols int
	switch mode {
	case ModeCascade:
		return cascade(windows, area, gap), nil
	case ModeGrid:
		rows, cols = CalculateGrid(n)
	case ModeVertical:
		rows, cols = n, 1
	case ModeHorizontal:
		rows, cols = 1, n
	default:
		return nil, fmt.Errorf("unsupported arrange mode: %q", mode)
	}

	// Gaps: one before each column and one after the last.
	slotWidth := (area.Width - (cols+1)*gap) / cols
	slotHeight := (area.Height - (rows+1)*gap) / rows
	if slotWidth <= 0 || slotHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for layout: area=%dx%d rows=%d cols=%d gap=%d (slot=%dx%d)",
			area.Width, area.Height, rows, cols, gap, slotWidth, slotHeight,
		)
	}

	positions := make([]platform.Rect, n)
	for i := range n {
		row := i / cols
		col := i % cols
		positions[i] = platform.Rect{
			X:      area.X + gap + col*(slotWidth+gap),
			Y:      area.Y + gap + row*(slotHeight+gap),
			Width:  slotWidth,
			Height: slotHeight,
		}
	}
	return positions, nil
}

// cascade stacks windows diagonally from the top-left of area, starting over
// whenever the next window would leave the area.
func cascade(windows []platform.Rect, area platform.Rect, gap int) []platform.Rect {
	positions := make([]platform.Rect, len(windows))
	offset := 0
	for i, w := range windows {
		x := area.X + gap + offset
		y := area.Y + gap + offset
		if offset > 0 && (x+w.Width > area.X+area.Width || y+w.Height > area.Y+area.Height) {
			offset = 0
			x, y = area.X+gap, area.Y+gap
		}
		positions[i] = platform.Rect{X: x, Y: y, Width: w.Width, Height: w.Height}
		offset += CascadeStep
	}
	return positions
}
