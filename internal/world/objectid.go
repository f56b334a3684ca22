package world

import (
	"sync/atomic"

	"github.com/udisondev/arenaai/internal/model"
)

// IDGenerator hands out agent ids. 0 is reserved as "no agent".
type IDGenerator struct {
	next atomic.Uint32
}

// NewIDGenerator creates a generator whose first id is 1.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns the next unique id.
// Thread-safe via atomic increment.
func (g *IDGenerator) Next() model.AgentID {
	return model.AgentID(g.next.Add(1))
}
