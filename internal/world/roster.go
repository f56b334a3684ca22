// Package world holds the arena: the roster of live agents and the default
// movement executor.
package world

import (
	"errors"
	"fmt"
	"sync"

	"github.com/udisondev/arenaai/internal/model"
)

// ErrDuplicateAgent is returned when an id is already present in the roster.
var ErrDuplicateAgent = errors.New("duplicate agent")

// Roster is the set of live agents in stable insertion order.
// Iteration order is the tie-break order for perception, so it never depends
// on map iteration.
type Roster struct {
	mu     sync.RWMutex
	agents []*model.Agent
	index  map[model.AgentID]int
}

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{index: make(map[model.AgentID]int)}
}

// Add appends an agent.
func (r *Roster) Add(a *model.Agent) error {
	if a == nil {
		return fmt.Errorf("adding nil agent")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[a.ID()]; ok {
		return fmt.Errorf("adding agent %d (%s): %w", a.ID(), a.Name(), ErrDuplicateAgent)
	}
	r.index[a.ID()] = len(r.agents)
	r.agents = append(r.agents, a)
	return nil
}

// Remove deletes an agent, keeping the order of the others.
// Returns false if the id was not present.
func (r *Roster) Remove(id model.AgentID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return false
	}

	r.agents = append(r.agents[:i], r.agents[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.agents); j++ {
		r.index[r.agents[j].ID()] = j
	}
	return true
}

// Get returns the agent with the given id.
func (r *Roster) Get(id model.AgentID) (*model.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.agents[i], true
}

// Agents returns the agents in roster order.
func (r *Roster) Agents() []*model.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Agent, len(r.agents))
	copy(out, r.agents)
	return out
}

// Snapshot captures every agent in roster order.
func (r *Roster) Snapshot() []model.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Snapshot, len(r.agents))
	for i, a := range r.agents {
		out[i] = a.Snapshot()
	}
	return out
}

// Len returns the number of agents in the roster.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

// Alive returns the number of agents not yet dead.
func (r *Roster) Alive() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, a := range r.agents {
		if !a.IsDead() {
			n++
		}
	}
	return n
}
