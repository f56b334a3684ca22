package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/udisondev/arenaai/internal/ai"
	"github.com/udisondev/arenaai/internal/config"
	"github.com/udisondev/arenaai/internal/db"
	"github.com/udisondev/arenaai/internal/event"
	"github.com/udisondev/arenaai/internal/game/geo"
	"github.com/udisondev/arenaai/internal/game/perception"
	"github.com/udisondev/arenaai/internal/model"
	"github.com/udisondev/arenaai/internal/render"
	"github.com/udisondev/arenaai/internal/world"
)

const recordTimeout = 10 * time.Second

// match is one configured run: the roster, the simulation and its sinks.
type match struct {
	cfg     config.Simulation
	roster  *world.Roster
	mover   *world.Integrator
	sim     *ai.Simulation
	bus     *event.Bus
	tally   *event.Tally
	viewer  *render.Viewer
	agents  []*model.Agent // every spawned agent, dead ones included
	started time.Time
	elapsed time.Duration
}

func newMatch(cfg config.Simulation) (*match, error) {
	var obstacles perception.Obstruction
	layers := cfg.Obstacles.BuildLayers()
	if layers != nil {
		obstacles = layers
	}

	m := &match{
		cfg:    cfg,
		roster: world.NewRoster(),
		mover:  world.NewIntegrator(world.Bounds{Width: cfg.Arena.Width, Height: cfg.Arena.Height}, obstacles),
		tally:  event.NewTally(),
	}

	names := make(map[model.AgentID]string, len(cfg.Spawns))
	m.bus = event.NewBus(
		event.NewLogSink(slog.Default(), func(id model.AgentID) string { return names[id] }),
		m.tally,
	)

	parallelism := cfg.Parallelism
	if parallelism == 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	m.sim = ai.NewSimulation(m.roster, m.mover, m.bus, ai.Options{
		Seed:        cfg.Seed,
		TickRate:    float64(cfg.TickRate),
		Parallelism: parallelism,
		Obstacles:   obstacles,
	})

	ids := world.NewIDGenerator()
	for i, sp := range cfg.Spawns {
		arch, ok := cfg.Archetypes[sp.Archetype]
		if !ok {
			return nil, fmt.Errorf("%w: spawn %d uses unknown archetype %q", model.ErrInvalidConfiguration, i, sp.Archetype)
		}

		id := ids.Next()
		name := sp.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", sp.Archetype, id)
		}

		a, err := model.NewAgent(id, name, arch, model.NewVec2(sp.X, sp.Y))
		if err != nil {
			return nil, fmt.Errorf("spawning %s: %w", name, err)
		}
		if err := m.roster.Add(a); err != nil {
			return nil, fmt.Errorf("spawning %s: %w", name, err)
		}
		names[id] = name
		m.agents = append(m.agents, a)
		m.sim.Register(a)
	}

	return m, nil
}

func (m *match) attachViewer(screen tcell.Screen) {
	var solid geo.Solid
	if layers := m.cfg.Obstacles.BuildLayers(); layers != nil {
		solid = layers
	}
	m.viewer = render.NewViewer(screen, m.cfg.Arena.Width, m.cfg.Arena.Height, solid)
	m.bus.Add(m.viewer)
}

func (m *match) frame() render.Frame {
	return render.Frame{
		Time:   m.sim.Now(),
		Ticks:  m.sim.Ticks(),
		Agents: m.roster.Snapshot(),
	}
}

// simulate runs the configured duration. Hitting the duration, finishing the
// match or canceling ctx are all normal ends.
func (m *match) simulate(ctx context.Context, fast bool) error {
	m.started = time.Now()
	defer func() { m.elapsed = time.Since(m.started) }()

	var err error
	if fast {
		steps := m.cfg.Steps()
		if steps == 0 {
			steps = math.MaxInt
		}
		err = m.sim.Run(ctx, steps)
	} else {
		if m.cfg.Duration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, m.cfg.Duration)
			defer cancel()
		}
		err = m.sim.Start(ctx)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// results builds one result row per spawned agent.
func (m *match) results() []db.AgentResult {
	out := make([]db.AgentResult, 0, len(m.agents))
	for _, a := range m.agents {
		out = append(out, db.NewAgentResult(a, m.tally.Stats(a.ID())))
	}
	return out
}

func (m *match) logSummary() {
	results := m.results()
	slog.Info("match finished",
		"simTime", m.sim.Now(),
		"ticks", m.sim.Ticks(),
		"wallTime", m.elapsed,
		"survivors", db.CountSurvivors(results))

	for _, r := range results {
		slog.Info("agent result",
			"agent", r.Name,
			"archetype", r.Archetype,
			"health", r.FinalHealth,
			"survived", r.Survived,
			"kills", r.Kills,
			"attacks", r.Attacks,
			"hits", r.Hits,
			"damageDealt", r.DamageDealt,
			"damageTaken", r.DamageTaken,
			"blocks", r.Blocks,
			"dodges", r.Dodges)
	}
}

func (m *match) summary() *db.Match {
	results := m.results()
	return &db.Match{
		Seed:      m.cfg.Seed,
		TickRate:  m.cfg.TickRate,
		Ticks:     m.sim.Ticks(),
		SimTime:   m.sim.Now(),
		Survivors: db.CountSurvivors(results),
		StartedAt: m.started,
		WallTime:  m.elapsed,
		Results:   results,
	}
}

// recordMatch stores the match even after a shutdown signal.
func recordMatch(ctx context.Context, dsn string, m *match) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	database, err := db.New(ctx, dsn)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, dsn); err != nil {
		return err
	}

	_, err = db.NewMatchRepository(database.Pool()).SaveMatch(ctx, m.summary())
	return err
}
