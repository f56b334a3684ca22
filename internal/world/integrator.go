package world

import (
	"sync"

	"github.com/udisondev/arenaai/internal/game/geo"
	"github.com/udisondev/arenaai/internal/game/locomotion"
	"github.com/udisondev/arenaai/internal/game/perception"
	"github.com/udisondev/arenaai/internal/model"
)

const (
	// impulseDrag is the fraction of an impulse lost per second.
	impulseDrag = 4.0
	// impulseEpsilon drops impulses too small to matter.
	impulseEpsilon = 1e-3
)

// Bounds is the arena rectangle [0,Width]x[0,Height]. A zero size disables clamping.
type Bounds struct {
	Width  float64
	Height float64
}

// Clamp keeps p inside the bounds.
func (b Bounds) Clamp(p model.Vec2) model.Vec2 {
	if b.Width > 0 {
		p.X = min(max(p.X, 0), b.Width)
	}
	if b.Height > 0 {
		p.Y = min(max(p.Y, 0), b.Height)
	}
	return p
}

// Integrator is the default movement executor: it integrates requested
// velocities, displacements and decaying impulses, clamps to the arena and
// refuses moves that would pass through an obstacle.
type Integrator struct {
	mu        sync.Mutex
	bounds    Bounds
	obstacles perception.Obstruction
	impulses  map[model.AgentID]model.Vec2
}

// NewIntegrator creates a movement executor. obstacles may be nil.
func NewIntegrator(bounds Bounds, obstacles perception.Obstruction) *Integrator {
	return &Integrator{
		bounds:    bounds,
		obstacles: obstacles,
		impulses:  make(map[model.AgentID]model.Vec2),
	}
}

// ApplyImpulse adds a velocity kick (units per second) that decays over time.
func (in *Integrator) ApplyImpulse(id model.AgentID, impulse model.Vec2) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.impulses[id] = in.impulses[id].Add(impulse)
}

// Impulse returns the pending impulse of an agent.
func (in *Integrator) Impulse(id model.AgentID) model.Vec2 {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.impulses[id]
}

// Move applies one tick of movement to a.
func (in *Integrator) Move(a *model.Agent, intent locomotion.Intent, dt float64) {
	if a.IsDead() {
		in.Forget(a.ID())
		return
	}

	from := a.Position()
	step := intent.Displacement.Add(intent.Velocity.Scale(dt))

	in.mu.Lock()
	if imp, ok := in.impulses[a.ID()]; ok {
		step = step.Add(imp.Scale(dt))
		imp = imp.Scale(max(0, 1-impulseDrag*dt))
		if imp.Len() < impulseEpsilon {
			delete(in.impulses, a.ID())
		} else {
			in.impulses[a.ID()] = imp
		}
	}
	in.mu.Unlock()

	if step.IsZero() {
		return
	}

	to := in.bounds.Clamp(from.Add(step))
	if perception.IsBlocked(in.obstacles, from, to, from.DistanceTo(to)) {
		return
	}
	if s, ok := in.obstacles.(geo.Solid); ok && s.Solid(to) {
		return
	}
	a.SetPosition(to)
}

// Forget drops the pending impulse of a removed agent.
func (in *Integrator) Forget(id model.AgentID) {
	in.mu.Lock()
	defer in.mu.Unlock()
	delete(in.impulses, id)
}
