// Package perception answers "who is there" questions over a tick-start snapshot.
package perception

import (
	"math"

	"github.com/udisondev/arenaai/internal/model"
)

// Obstruction is the external straight-line occlusion query.
type Obstruction interface {
	Blocked(from, to model.Vec2) bool
}

// FindTarget returns the nearest other live agent strictly closer than detectionRange.
// Ties keep the first minimum in view order.
func FindTarget(self model.Snapshot, view []model.Snapshot, detectionRange float64) (model.Snapshot, bool) {
	var best model.Snapshot
	found := false
	bestDist := math.Inf(1)

	for _, other := range view {
		if other.ID == self.ID || !other.Alive() {
			continue
		}
		dist := self.Position.DistanceTo(other.Position)
		if dist < detectionRange && dist < bestDist {
			best = other
			bestDist = dist
			found = true
		}
	}
	return best, found
}

// CountNearby counts other live agents within radius of self.
func CountNearby(self model.Snapshot, view []model.Snapshot, radius float64) int {
	radiusSq := radius * radius
	count := 0
	for _, other := range view {
		if other.ID == self.ID || !other.Alive() {
			continue
		}
		if self.Position.DistanceSquared(other.Position) <= radiusSq {
			count++
		}
	}
	return count
}

// Lookup returns the live snapshot of id, if any.
// Used to re-validate weak target references each tick.
func Lookup(view []model.Snapshot, id model.AgentID) (model.Snapshot, bool) {
	for _, s := range view {
		if s.ID == id {
			return s, s.Alive()
		}
	}
	return model.Snapshot{}, false
}

// IsBlocked reports whether the straight line between two points is occluded.
// A nil obstruction or a zero distance never blocks.
func IsBlocked(obs Obstruction, from, to model.Vec2, distance float64) bool {
	if obs == nil || distance <= 0 {
		return false
	}
	return obs.Blocked(from, to)
}
