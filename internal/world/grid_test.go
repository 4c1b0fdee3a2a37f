package world

import (
	"errors"
	"slices"
	"testing"
)

func TestGeometry_CellIndex(t *testing.T) {
	g := Geometry{Width: 100, Height: 50, CellSize: 10, ViewRadius: 1}

	tests := []struct {
		name string
		x, z float32
		want int
	}{
		{"origin", 0, 0, 0},
		{"first row", 95, 5, 9},
		{"second row", 5, 15, 10},
		{"last cell", 99.9, 49.9, 49},
		{"negative clamped", -20, -20, 0},
		{"beyond clamped", 500, 500, 49},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.CellIndex(tt.x, tt.z); got != tt.want {
				t.Errorf("CellIndex(%v, %v) = %d, want %d", tt.x, tt.z, got, tt.want)
			}
		})
	}

	if g.Columns() != 10 || g.Rows() != 5 || g.CellCount() != 50 {
		t.Errorf("grid = %dx%d (%d), want 10x5 (50)", g.Columns(), g.Rows(), g.CellCount())
	}
}

func TestGeometry_PartialCellRoundsUp(t *testing.T) {
	g := Geometry{Width: 105, Height: 10, CellSize: 10}
	if g.Columns() != 11 {
		t.Errorf("Columns() = %d, want 11", g.Columns())
	}
}

func TestGeometry_Contains(t *testing.T) {
	g := Geometry{Width: 100, Height: 100, CellSize: 10}

	if !g.Contains(0, 0) || !g.Contains(99, 99) {
		t.Error("Contains() = false for points on the map")
	}
	if g.Contains(100, 0) || g.Contains(-1, 5) || g.Contains(5, 100) {
		t.Error("Contains() = true for points off the map")
	}
}

func TestGeometry_Validate(t *testing.T) {
	bad := []Geometry{
		{Width: 0, Height: 10, CellSize: 1},
		{Width: 10, Height: -1, CellSize: 1},
		{Width: 10, Height: 10, CellSize: 0},
		{Width: 10, Height: 10, CellSize: 1, ViewRadius: -1},
	}
	for _, g := range bad {
		if err := g.Validate(); !errors.Is(err, ErrMalformedTopology) {
			t.Errorf("Validate(%+v) = %v, want ErrMalformedTopology", g, err)
		}
	}
}

func TestNewGridTopology(t *testing.T) {
	topo, err := NewGridTopology(Geometry{Width: 30, Height: 30, CellSize: 10, ViewRadius: 1})
	if err != nil {
		t.Fatalf("NewGridTopology() error = %v", err)
	}

	tests := []struct {
		cell int
		want []int
	}{
		{0, []int{0, 1, 3, 4}},
		{4, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}},
		{5, []int{1, 2, 4, 5, 7, 8}},
		{8, []int{4, 5, 7, 8}},
	}
	for _, tt := range tests {
		if got := topo.Neighbors(tt.cell); !slices.Equal(got, tt.want) {
			t.Errorf("Neighbors(%d) = %v, want %v", tt.cell, got, tt.want)
		}
	}

	for a := range topo.CellCount() {
		for _, b := range topo.Neighbors(a) {
			if !topo.Adjacent(b, a) {
				t.Errorf("cell %d sees %d but not the reverse", a, b)
			}
		}
	}
}

func TestNewGridTopology_ZeroRadius(t *testing.T) {
	topo, err := NewGridTopology(Geometry{Width: 20, Height: 20, CellSize: 10})
	if err != nil {
		t.Fatalf("NewGridTopology() error = %v", err)
	}
	for i := range topo.CellCount() {
		if got := topo.Neighbors(i); !slices.Equal(got, []int{i}) {
			t.Errorf("Neighbors(%d) = %v, want only itself", i, got)
		}
	}
}

func TestNewTopology(t *testing.T) {
	topo, err := NewTopology([][]int{{1}, {0, 2}, {1, 1}})
	if err != nil {
		t.Fatalf("NewTopology() error = %v", err)
	}

	if got := topo.Neighbors(0); !slices.Equal(got, []int{0, 1}) {
		t.Errorf("Neighbors(0) = %v, want self added", got)
	}
	if got := topo.Neighbors(2); !slices.Equal(got, []int{1, 2}) {
		t.Errorf("Neighbors(2) = %v, want duplicates removed", got)
	}
}

func TestNewTopology_Malformed(t *testing.T) {
	tests := []struct {
		name string
		adj  [][]int
	}{
		{"empty", nil},
		{"out of range", [][]int{{1}, {0, 5}}},
		{"negative", [][]int{{-1}}},
		{"asymmetric", [][]int{{1}, {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTopology(tt.adj); !errors.Is(err, ErrMalformedTopology) {
				t.Errorf("NewTopology() error = %v, want ErrMalformedTopology", err)
			}
		})
	}
}

func TestIDGenerator_RangesDoNotOverlap(t *testing.T) {
	gen := NewIDGenerator()

	p, m, n, i := gen.NextPlayerID(), gen.NextMonsterID(), gen.NextNpcID(), gen.NextItemID()
	if p>>28 != 1 || m>>28 != 2 || n>>28 != 3 || i>>28 != 4 {
		t.Errorf("ids %#x %#x %#x %#x not in their ranges", p, m, n, i)
	}
	if gen.NextMonsterID() == m {
		t.Error("NextMonsterID() repeated an id")
	}
}
