package geo

import (
	"math"

	"github.com/udisondev/arenaai/internal/model"
)

// Cell is a grid coordinate.
type Cell struct {
	X, Y int
}

// Grid is an obstacle layer made of solid square cells.
// Read-only after construction; safe for concurrent Blocked calls.
type Grid struct {
	cellSize float64
	solid    map[Cell]struct{}
}

// NewGrid creates an empty grid. Non-positive cell sizes fall back to 1.
func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Grid{
		cellSize: cellSize,
		solid:    make(map[Cell]struct{}),
	}
}

// Block marks a cell as solid.
func (g *Grid) Block(c Cell) {
	g.solid[c] = struct{}{}
}

// IsSolid reports whether a cell is solid.
func (g *Grid) IsSolid(c Cell) bool {
	_, ok := g.solid[c]
	return ok
}

// CellAt returns the cell containing a world point.
func (g *Grid) CellAt(p model.Vec2) Cell {
	return Cell{
		X: int(math.Floor(p.X / g.cellSize)),
		Y: int(math.Floor(p.Y / g.cellSize)),
	}
}

// Solid reports whether a world point lies in a solid cell.
func (g *Grid) Solid(p model.Vec2) bool {
	return g.IsSolid(g.CellAt(p))
}

// Len returns the number of solid cells.
func (g *Grid) Len() int {
	return len(g.solid)
}

// Blocked traces the straight line from -> to and reports whether it crosses a
// solid cell. The cells holding the endpoints are not tested.
func (g *Grid) Blocked(from, to model.Vec2) bool {
	if len(g.solid) == 0 {
		return false // No obstacles — assume clear line
	}

	start := g.CellAt(from)
	end := g.CellAt(to)
	if start == end {
		return false
	}

	it := NewLineIterator(start.X, start.Y, end.X, end.Y)
	it.Next() // Skip start cell

	for it.Next() {
		c := Cell{X: it.X(), Y: it.Y()}
		if c == end {
			return false
		}
		if g.IsSolid(c) {
			return true
		}
	}
	return false
}
