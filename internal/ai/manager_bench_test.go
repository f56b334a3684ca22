package ai

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/udisondev/arenaai/internal/model"
	"github.com/udisondev/arenaai/internal/rng"
)

// BenchmarkSimulation_Step measures one full tick (think, commit, resolve, reap).
func BenchmarkSimulation_Step(b *testing.B) {
	for _, n := range []int{16, 64, 256} {
		for _, par := range []int{1, 8} {
			b.Run(fmt.Sprintf("agents=%d/parallelism=%d", n, par), func(b *testing.B) {
				SetLogLevel(slog.LevelInfo)

				spawns := make([]model.Vec2, n)
				for i := range spawns {
					spawns[i] = model.NewVec2(float64(i%16)*1.8, float64(i/16)*1.8)
				}
				ar := newArena(b, Options{Seed: 1, TickRate: 30, Parallelism: par}, spawns...)
				ctx := context.Background()

				b.ReportAllocs()
				b.ResetTimer()
				for range b.N {
					if err := ar.sim.Step(ctx, 1.0/30); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

// BenchmarkDecide measures one weighted decision.
func BenchmarkDecide(b *testing.B) {
	arch := testArchetype()
	as := Assessment{HasTarget: true, HealthRatio: 0.8, TargetHealthRatio: 0.6, Distance: 1, Allies: 2}
	src := rng.New(1)

	b.ResetTimer()
	for range b.N {
		_ = Decide(arch, as, src)
	}
}
