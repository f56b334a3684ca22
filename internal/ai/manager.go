package ai

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/arenaai/internal/event"
	"github.com/udisondev/arenaai/internal/game/combat"
	"github.com/udisondev/arenaai/internal/game/locomotion"
	"github.com/udisondev/arenaai/internal/game/perception"
	"github.com/udisondev/arenaai/internal/model"
	"github.com/udisondev/arenaai/internal/rng"
)

// DefaultTickRate is used when Options.TickRate is not positive.
const DefaultTickRate = 30.0

// resolverStream is the rng stream of the combat resolver; agent ids start at 1.
const resolverStream = 0

// Roster provides the live agents each tick. The Simulation never owns
// agent lifetime beyond removing the dead.
type Roster interface {
	Agents() []*model.Agent
	Get(id model.AgentID) (*model.Agent, bool)
	Remove(id model.AgentID) bool
	Snapshot() []model.Snapshot
}

// Mover is the movement executor.
type Mover interface {
	Move(a *model.Agent, intent locomotion.Intent, dt float64)
	ApplyImpulse(id model.AgentID, impulse model.Vec2)
	Forget(id model.AgentID)
}

// Options configures a Simulation.
type Options struct {
	Seed        uint64
	TickRate    float64
	Parallelism int
	Obstacles   perception.Obstruction
}

// Simulation advances every registered agent in lock-step ticks.
//
// Each Step runs a parallel think phase over a tick-start snapshot, then a
// sequential commit phase in roster order, then drains due attack attempts.
// Given a seed and roster the run is reproducible for any Parallelism.
type Simulation struct {
	controllers     sync.Map     // map[model.AgentID]Controller
	controllerCount atomic.Int32 // cached count of controllers (O(1) access)

	roster   Roster
	mover    Mover
	sink     event.Sink
	resolver *combat.Resolver
	opts     Options

	mu    sync.Mutex // serialises Step
	now   atomic.Uint64
	ticks atomic.Uint64

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewSimulation creates a simulation over roster. sink may be nil.
func NewSimulation(roster Roster, mover Mover, sink event.Sink, opts Options) *Simulation {
	if sink == nil {
		sink = event.Discard
	}
	if opts.TickRate <= 0 {
		opts.TickRate = DefaultTickRate
	}
	opts.Parallelism = max(opts.Parallelism, 1)

	s := &Simulation{
		roster: roster,
		mover:  mover,
		sink:   sink,
		opts:   opts,
		stopCh: make(chan struct{}),
	}
	s.resolver = combat.NewResolver(roster.Get, mover, sink, rng.ForStream(opts.Seed, resolverStream))
	return s
}

// Register attaches a brain to agent, seeded from (seed, agent id).
func (s *Simulation) Register(a *model.Agent) Controller {
	brain := NewBrain(a, rng.ForStream(s.opts.Seed, uint32(a.ID())), s.opts.Obstacles)
	if _, loaded := s.controllers.Swap(a.ID(), Controller(brain)); !loaded {
		s.controllerCount.Add(1) // Update cached count
	}
	brain.Start()

	slog.Debug("AI controller registered",
		"agentID", a.ID(),
		"agent", a.Name(),
		"state", a.State())
	return brain
}

// Unregister detaches the controller of id.
func (s *Simulation) Unregister(id model.AgentID) {
	value, ok := s.controllers.LoadAndDelete(id)
	if !ok {
		return
	}

	s.controllerCount.Add(-1) // Update cached count

	controller := value.(Controller)
	controller.Stop()

	slog.Debug("AI controller unregistered", "agentID", id)
}

// Count returns number of registered controllers (O(1) cached count).
func (s *Simulation) Count() int {
	return int(s.controllerCount.Load())
}

// GetController returns the controller of id.
func (s *Simulation) GetController(id model.AgentID) (Controller, error) {
	value, ok := s.controllers.Load(id)
	if !ok {
		return nil, fmt.Errorf("controller not found for agentID %d", id)
	}
	return value.(Controller), nil
}

// Now returns the simulation time in seconds.
func (s *Simulation) Now() float64 {
	return math.Float64frombits(s.now.Load())
}

// Ticks returns the number of completed steps.
func (s *Simulation) Ticks() uint64 {
	return s.ticks.Load()
}

// TickRate returns the configured ticks per second.
func (s *Simulation) TickRate() float64 {
	return s.opts.TickRate
}

// Pending returns the number of in-flight attack attempts.
func (s *Simulation) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver.Pending()
}

// Finished reports whether at most one agent is left standing.
func (s *Simulation) Finished() bool {
	return s.Count() <= 1
}

// Step advances the simulation by dt seconds.
//
// A context canceled before Step leaves the simulation untouched. One canceled
// during the think phase leaves the clock and tick count unchanged, but the
// controllers that already ran have advanced their own agents' countdowns.
func (s *Simulation) Step(ctx context.Context, dt float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("step: %w", err)
	}
	now := s.Now() + dt

	view := s.roster.Snapshot()
	agents := s.roster.Agents()
	plans := make([]Plan, len(agents))

	// Think: each controller touches only its own agent and random source.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Parallelism)
	for i, a := range agents {
		value, ok := s.controllers.Load(a.ID())
		if !ok {
			continue
		}
		controller := value.(Controller)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			plans[i] = controller.Think(now, dt, view)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("think phase at t=%.3f: %w", now, err)
	}
	s.now.Store(math.Float64bits(now))

	// Commit in roster order.
	for i, a := range agents {
		p := plans[i]
		for _, e := range p.Events {
			s.sink.Publish(e)
		}
		if p.Order.Attack != model.AttackNone {
			s.resolver.Execute(now, a, p.Order.Target, p.Order.Attack)
		}
		s.mover.Move(a, p.Intent, dt)
	}

	s.resolver.Advance(now)

	for _, a := range agents {
		if a.IsDead() {
			s.reap(a)
		}
	}

	ticks := s.ticks.Add(1)
	if IsDebugEnabled() {
		slog.Debug("simulation tick completed",
			"tick", ticks,
			"time", now,
			"agents", s.Count(),
			"pending", s.resolver.Pending())
	}
	return nil
}

// reap removes a dead agent from the roster, its brain and the resolver queue.
func (s *Simulation) reap(a *model.Agent) {
	s.resolver.CancelInvolving(a.ID())
	s.roster.Remove(a.ID())
	s.mover.Forget(a.ID())
	s.Unregister(a.ID())

	times := a.StateTimes()
	attrs := make([]any, 0, len(times))
	for _, st := range model.States() {
		attrs = append(attrs, slog.Float64(st.String(), times[st]))
	}
	slog.Info("agent removed",
		"agent", a.Name(),
		"agentID", a.ID(),
		"time", s.Now(),
		slog.Group("stateTime", attrs...))
}

// Run performs up to steps fixed-size steps back to back.
// Returns early when the match is finished or ctx is canceled.
func (s *Simulation) Run(ctx context.Context, steps int) error {
	dt := 1 / s.opts.TickRate
	for range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Step(ctx, dt); err != nil {
			return err
		}
		if s.Finished() {
			return nil
		}
	}
	return nil
}

// Start runs the tick loop in real time (blocks until ctx is canceled,
// Stop is called, or the match is finished).
func (s *Simulation) Start(ctx context.Context) error {
	interval := time.Duration(float64(time.Second) / s.opts.TickRate)
	dt := 1 / s.opts.TickRate

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("simulation started",
		"interval", interval,
		"agents", s.Count(),
		"parallelism", s.opts.Parallelism)

	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation stopping", "time", s.Now())
			return ctx.Err()

		case <-s.stopCh:
			slog.Info("simulation stopped", "time", s.Now())
			return nil

		case <-ticker.C:
			if err := s.Step(ctx, dt); err != nil {
				return err
			}
			if s.Finished() {
				slog.Info("simulation finished", "time", s.Now(), "survivors", s.Count())
				return nil
			}
		}
	}
}

// Stop stops the tick loop. Safe to call more than once.
func (s *Simulation) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}
