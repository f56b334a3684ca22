package config

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/udisondev/arenaai/internal/game/geo"
	"github.com/udisondev/arenaai/internal/model"
)

// Obstacles describes the static blockers of the arena.
// Cells are solid squares of CellSize; polygons are arbitrary walls.
type Obstacles struct {
	CellSize float64        `yaml:"cell_size"`
	Cells    [][2]int       `yaml:"cells"`
	Polygons [][][2]float64 `yaml:"polygons"`
}

// Empty reports whether no obstacle is configured.
func (o Obstacles) Empty() bool {
	return len(o.Cells) == 0 && len(o.Polygons) == 0
}

func (o Obstacles) validate() error {
	var errs []error
	if len(o.Cells) > 0 && o.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: obstacles cell_size=%v must be positive", model.ErrInvalidConfiguration, o.CellSize))
	}
	for i, p := range o.Polygons {
		if len(p) < 3 {
			errs = append(errs, fmt.Errorf("%w: obstacle polygon %d has %d points, need 3", model.ErrInvalidConfiguration, i, len(p)))
		}
	}
	return errors.Join(errs...)
}

// BuildLayers turns the obstacle config into query layers.
// Returns nil for an open arena.
func (o Obstacles) BuildLayers() geo.Layers {
	if o.Empty() {
		return nil
	}

	var layers geo.Layers
	if len(o.Cells) > 0 {
		grid := geo.NewGrid(o.CellSize)
		for _, c := range o.Cells {
			grid.Block(geo.Cell{X: c[0], Y: c[1]})
		}
		layers = append(layers, grid)
	}
	if len(o.Polygons) > 0 {
		field := geo.NewField()
		for _, pts := range o.Polygons {
			ring := make(orb.Ring, 0, len(pts)+1)
			for _, p := range pts {
				ring = append(ring, orb.Point{p[0], p[1]})
			}
			field.Add(orb.Polygon{ring})
		}
		layers = append(layers, field)
	}
	return layers
}
