package tiling

import (
	"testing"

	"github.com/1broseidon/relic/internal/platform"
)

func TestNeighbor_UniformGrid(t *testing.T) {
	// [0] [1] [2]
	// [3] [4] [5]
	var rects []platform.Rect
	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			rects = append(rects, platform.Rect{X: col * 100, Y: row * 100, Width: 100, Height: 100})
		}
	}

	tests := []struct {
		name    string
		current int
		dir     Direction
		want    int
	}{
		{"right from 0", 0, DirRight, 1},
		{"down from 0", 0, DirDown, 3},
		{"left from 1", 1, DirLeft, 0},
		{"up from 3", 3, DirUp, 0},

		{"right wrap from 2", 2, DirRight, 0},
		{"left wrap from 0", 0, DirLeft, 2},
		{"down wrap from 3", 3, DirDown, 0},
		{"up wrap from 0", 0, DirUp, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Neighbor(tt.current, tt.dir, rects); got != tt.want {
				t.Errorf("Neighbor(%d, %v) = %d, want %d", tt.current, tt.dir, got, tt.want)
			}
		})
	}
}

func TestNeighbor_UnevenRows(t *testing.T) {
	// [0] [1]
	// [  2  ]
	rects := []platform.Rect{
		{X: 0, Y: 0, Width: 150, Height: 100},
		{X: 150, Y: 0, Width: 150, Height: 100},
		{X: 0, Y: 100, Width: 300, Height: 100},
	}
	tests := []struct {
		current int
		dir     Direction
		want    int
	}{
		{1, DirDown, 2},
		{0, DirDown, 2},
		{2, DirUp, 0},
		{2, DirRight, 1},
	}
	for _, tt := range tests {
		if got := Neighbor(tt.current, tt.dir, rects); got != tt.want {
			t.Errorf("Neighbor(%d, %v) = %d, want %d", tt.current, tt.dir, got, tt.want)
		}
	}
}

func TestNeighbor_Degenerate(t *testing.T) {
	one := []platform.Rect{{Width: 10, Height: 10}}
	if got := Neighbor(0, DirUp, one); got != 0 {
		t.Fatalf("lone rect should stay put, got %d", got)
	}
	if got := Neighbor(0, DirUp, nil); got != -1 {
		t.Fatalf("empty list should give -1, got %d", got)
	}
	if got := Neighbor(4, DirLeft, one); got != 4 {
		t.Fatalf("out of range current should be returned, got %d", got)
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"up", DirUp, false},
		{" Left ", DirLeft, false},
		{"j", DirDown, false},
		{"l", DirRight, false},
		{"north", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseDirection(%q) err=%v", tt.in, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("ParseDirection(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
