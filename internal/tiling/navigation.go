package tiling

import (
	"fmt"
	"strings"

	"github.com/1broseidon/relic/internal/platform"
)

// Direction is a focus movement direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection accepts up/down/left/right and the vi keys k/j/h/l.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "k":
		return DirUp, nil
	case "down", "j":
		return DirDown, nil
	case "left", "h":
		return DirLeft, nil
	case "right", "l":
		return DirRight, nil
	}
	return 0, fmt.Errorf("unsupported direction: %q", s)
}

// Neighbor returns the index of the rect nearest to rects[current] in dir,
// measured between centers. With nothing in that direction it wraps to the
// far edge, preferring rects on the same row or column. A lone rect, or an
// out-of-range current, returns current unchanged; an empty list returns -1.
func Neighbor(current int, dir Direction, rects []platform.Rect) int {
	if len(rects) == 0 {
		return -1
	}
	if current < 0 || current >= len(rects) {
		return current
	}
	cx, cy := center(rects[current])

	best, bestDist := -1, 0
	for i, r := range rects {
		if i == current {
			continue
		}
		x, y := center(r)
		var ahead bool
		switch dir {
		case DirUp:
			ahead = y < cy
		case DirDown:
			ahead = y > cy
		case DirLeft:
			ahead = x < cx
		case DirRight:
			ahead = x > cx
		}
		if !ahead {
			continue
		}
		if d := abs(x-cx) + abs(y-cy); best == -1 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best >= 0 {
		return best
	}

	// Wrap: the furthest rect on the opposite side, nearest on the cross axis.
	bestScore := 0
	for i, r := range rects {
		if i == current {
			continue
		}
		x, y := center(r)
		var score int
		switch dir {
		case DirUp:
			score = y*10000 - abs(x-cx)
		case DirDown:
			score = -y*10000 - abs(x-cx)
		case DirLeft:
			score = x*10000 - abs(y-cy)
		case DirRight:
			score = -x*10000 - abs(y-cy)
		}
		if best == -1 || score > bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 {
		return best
	}
	return current
}

func center(r platform.Rect) (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
