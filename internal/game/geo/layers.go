package geo

import "github.com/udisondev/arenaai/internal/model"

// Layer answers straight-line obstruction queries.
type Layer interface {
	Blocked(from, to model.Vec2) bool
}

// Solid is implemented by layers that can answer point queries.
type Solid interface {
	Solid(p model.Vec2) bool
}

// Layers combines several obstacle layers; a line is blocked if any layer blocks it.
type Layers []Layer

// Blocked reports whether any layer blocks the line.
func (ls Layers) Blocked(from, to model.Vec2) bool {
	for _, l := range ls {
		if l != nil && l.Blocked(from, to) {
			return true
		}
	}
	return false
}

// Solid reports whether any layer that supports point queries contains p.
func (ls Layers) Solid(p model.Vec2) bool {
	for _, l := range ls {
		if s, ok := l.(Solid); ok && s.Solid(p) {
			return true
		}
	}
	return false
}
