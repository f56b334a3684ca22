package db

import (
	"strings"

	"github.com/udisondev/arenaai/internal/event"
	"github.com/udisondev/arenaai/internal/model"
)

// AgentResult is one agent's line in a match.
type AgentResult struct {
	AgentID     uint32
	Name        string
	Archetype   string
	FinalHealth int32
	MaxHealth   int32
	Survived    bool
	DiedAt      float64 // simulated seconds; zero for survivors
	Kills       int
	Attacks     int
	Hits        int
	DamageDealt int64
	DamageTaken int64
	Blocks      int
	Ripostes    int
	Dodges      int
	StateTimes  map[string]float64 // lower-case state name -> seconds
}

// NewAgentResult combines an agent's final vitals with its score sheet.
func NewAgentResult(a *model.Agent, stats event.AgentStats) AgentResult {
	v := a.Vitals()

	times := a.StateTimes()
	stateTimes := make(map[string]float64, len(times))
	for s, sec := range times {
		stateTimes[strings.ToLower(s.String())] = sec
	}

	survived := !v.Dead && !stats.Died
	res := AgentResult{
		AgentID:     uint32(a.ID()),
		Name:        a.Name(),
		Archetype:   a.Archetype().Name,
		FinalHealth: v.Health,
		MaxHealth:   v.MaxHealth,
		Survived:    survived,
		Kills:       stats.Kills,
		Attacks:     stats.Attacks,
		Hits:        stats.Hits,
		DamageDealt: stats.DamageDealt,
		DamageTaken: stats.DamageTaken,
		Blocks:      stats.Blocks,
		Ripostes:    stats.Ripostes,
		Dodges:      stats.Dodges,
		StateTimes:  stateTimes,
	}
	if !survived {
		res.DiedAt = stats.DiedAt
	}
	return res
}

// CountSurvivors returns how many results survived.
func CountSurvivors(results []AgentResult) int {
	n := 0
	for _, r := range results {
		if r.Survived {
			n++
		}
	}
	return n
}
