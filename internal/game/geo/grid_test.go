package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/arenaai/internal/model"
)

func TestGrid_Blocked(t *testing.T) {
	g := NewGrid(1)
	g.Block(Cell{2, 0})

	tests := []struct {
		name     string
		from, to model.Vec2
		want     bool
	}{
		{"through wall", model.NewVec2(0.5, 0.5), model.NewVec2(4.5, 0.5), true},
		{"beside wall", model.NewVec2(0.5, 1.5), model.NewVec2(4.5, 1.5), false},
		{"same cell", model.NewVec2(0.1, 0.1), model.NewVec2(0.9, 0.9), false},
		{"stops before wall", model.NewVec2(0.5, 0.5), model.NewVec2(1.5, 0.5), false},
		{"ends inside wall", model.NewVec2(0.5, 0.5), model.NewVec2(2.5, 0.5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Blocked(tt.from, tt.to))
		})
	}
}

func TestGrid_CellAt(t *testing.T) {
	g := NewGrid(2)

	assert.Equal(t, Cell{0, 0}, g.CellAt(model.NewVec2(1.9, 0.1)))
	assert.Equal(t, Cell{-1, 1}, g.CellAt(model.NewVec2(-0.1, 2.0)))
}

func TestGrid_EmptyNeverBlocks(t *testing.T) {
	g := NewGrid(0)
	assert.False(t, g.Blocked(model.NewVec2(-100, -100), model.NewVec2(100, 100)))
	assert.Zero(t, g.Len())
}
