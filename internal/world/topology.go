package world

import (
	"errors"
	"fmt"
	"slices"
)

// ErrMalformedTopology is returned when a map's grid or adjacency cannot be
// used. The map refuses to load.
var ErrMalformedTopology = errors.New("malformed topology")

// Topology is the precomputed neighbor table: for each cell index the
// sorted set of cell indices whose contents are visible from it, the cell
// itself included. Immutable after construction, read without locks.
type Topology struct {
	neighbors [][]int
}

// NewGridTopology builds the table for a rectangular grid. A cell sees
// every cell within g.ViewRadius in Chebyshev distance.
func NewGridTopology(g Geometry) (*Topology, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	cols, rows := g.Columns(), g.Rows()
	r := g.ViewRadius
	neighbors := make([][]int, cols*rows)

	for row := range rows {
		for col := range cols {
			idx := row*cols + col
			list := make([]int, 0, (2*r+1)*(2*r+1))
			for nr := max(0, row-r); nr <= min(rows-1, row+r); nr++ {
				for nc := max(0, col-r); nc <= min(cols-1, col+r); nc++ {
					list = append(list, nr*cols+nc)
				}
			}
			neighbors[idx] = list
		}
	}

	return &Topology{neighbors: neighbors}, nil
}

// NewTopology builds the table from explicit adjacency lists. Every index
// must be in range and adjacency must be symmetric; self-inclusion is
// added when missing.
func NewTopology(adj [][]int) (*Topology, error) {
	if len(adj) == 0 {
		return nil, fmt.Errorf("%w: no cells", ErrMalformedTopology)
	}

	n := len(adj)
	neighbors := make([][]int, n)
	for i, list := range adj {
		set := make([]int, 0, len(list)+1)
		set = append(set, i)
		for _, j := range list {
			if j < 0 || j >= n {
				return nil, fmt.Errorf("%w: cell %d lists neighbor %d out of range [0,%d)", ErrMalformedTopology, i, j, n)
			}
			set = append(set, j)
		}
		slices.Sort(set)
		neighbors[i] = slices.Compact(set)
	}

	for i, list := range neighbors {
		for _, j := range list {
			if _, found := slices.BinarySearch(neighbors[j], i); !found {
				return nil, fmt.Errorf("%w: cell %d sees %d but not the other way", ErrMalformedTopology, i, j)
			}
		}
	}

	return &Topology{neighbors: neighbors}, nil
}

// CellCount returns the number of cells.
func (t *Topology) CellCount() int {
	return len(t.neighbors)
}

// Neighbors returns the visible cells of idx, idx included.
// IMPORTANT: the returned slice is shared, DO NOT modify.
func (t *Topology) Neighbors(idx int) []int {
	return t.neighbors[idx]
}

// Adjacent reports whether b is visible from a.
func (t *Topology) Adjacent(a, b int) bool {
	_, found := slices.BinarySearch(t.neighbors[a], b)
	return found
}
