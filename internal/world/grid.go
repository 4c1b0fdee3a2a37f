package world

import (
	"fmt"
	"math"
)

// Geometry describes the rectangular area of a map and how it is cut into
// square cells. X runs along columns, Z along rows.
type Geometry struct {
	Width    float32 `yaml:"width"`
	Height   float32 `yaml:"height"`
	CellSize float32 `yaml:"cell_size"`
	// ViewRadius is how many cells in every direction are visible from a
	// cell (1 = 3x3 window).
	ViewRadius int `yaml:"view_radius"`
}

// Validate reports inconsistent dimensions.
func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: map size %vx%v", ErrMalformedTopology, g.Width, g.Height)
	}
	if g.CellSize <= 0 {
		return fmt.Errorf("%w: cell size %v", ErrMalformedTopology, g.CellSize)
	}
	if g.ViewRadius < 0 {
		return fmt.Errorf("%w: view radius %d", ErrMalformedTopology, g.ViewRadius)
	}
	return nil
}

// Columns returns the number of cells along X.
func (g Geometry) Columns() int {
	return int(math.Ceil(float64(g.Width / g.CellSize)))
}

// Rows returns the number of cells along Z.
func (g Geometry) Rows() int {
	return int(math.Ceil(float64(g.Height / g.CellSize)))
}

// CellCount returns Columns * Rows.
func (g Geometry) CellCount() int {
	return g.Columns() * g.Rows()
}

// Contains reports whether (x, z) lies on the map.
func (g Geometry) Contains(x, z float32) bool {
	return x >= 0 && x < g.Width && z >= 0 && z < g.Height
}

// CellIndex converts a position to a cell index. Positions off the map are
// clamped to the border cells.
func (g Geometry) CellIndex(x, z float32) int {
	col := clamp(int(x/g.CellSize), g.Columns())
	row := clamp(int(z/g.CellSize), g.Rows())
	return row*g.Columns() + col
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
