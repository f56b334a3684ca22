package event

import (
	"sync"

	"github.com/udisondev/arenaai/internal/model"
)

// AgentStats is the per-agent score sheet built from events.
type AgentStats struct {
	Attacks     int
	Hits        int
	Misses      int
	DamageDealt int64
	DamageTaken int64
	Absorbed    int
	Blocks      int
	Ripostes    int
	Dodges      int
	Feints      int
	Stuns       int
	Kills       int
	Died        bool
	DiedAt      float64
}

// Tally aggregates events into AgentStats.
type Tally struct {
	mu    sync.Mutex
	stats map[model.AgentID]*AgentStats
}

// NewTally creates an empty tally.
func NewTally() *Tally {
	return &Tally{stats: make(map[model.AgentID]*AgentStats)}
}

func (t *Tally) sheet(id model.AgentID) *AgentStats {
	s, ok := t.stats[id]
	if !ok {
		s = &AgentStats{}
		t.stats[id] = s
	}
	return s
}

// Publish folds e into the score sheets.
func (t *Tally) Publish(e Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch e.Kind {
	case KindAttackStarted:
		t.sheet(e.Agent).Attacks++
	case KindAttackMissed:
		t.sheet(e.Agent).Misses++
	case KindDamageTaken:
		t.sheet(e.Agent).DamageTaken += int64(e.Damage)
		attacker := t.sheet(e.Other)
		attacker.DamageDealt += int64(e.Damage)
		attacker.Hits++
	case KindHitAbsorbed:
		t.sheet(e.Agent).Absorbed++
	case KindBlocked:
		t.sheet(e.Agent).Blocks++
	case KindRiposte:
		t.sheet(e.Agent).Ripostes++
	case KindDodged:
		t.sheet(e.Agent).Dodges++
	case KindFeint:
		t.sheet(e.Agent).Feints++
	case KindStunned:
		t.sheet(e.Other).Stuns++
	case KindDied:
		victim := t.sheet(e.Agent)
		victim.Died = true
		victim.DiedAt = e.Time
		if e.Other != 0 && e.Other != e.Agent {
			t.sheet(e.Other).Kills++
		}
	}
}

// Stats returns a copy of the score sheet of id.
func (t *Tally) Stats(id model.AgentID) AgentStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.stats[id]; ok {
		return *s
	}
	return AgentStats{}
}
