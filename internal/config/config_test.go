package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/arenaai/internal/model"
)

func TestDefaultSimulation_Valid(t *testing.T) {
	cfg := DefaultSimulation()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 30, cfg.TickRate)
	assert.Len(t, cfg.Spawns, 4)
	assert.Contains(t, cfg.Archetypes, "bokoblin")
	assert.Contains(t, cfg.Archetypes, "brute")
	assert.Contains(t, cfg.Archetypes, "skirmisher")
}

func TestBuiltinArchetypes_Bokoblin(t *testing.T) {
	b := BuiltinArchetypes()["bokoblin"]

	assert.Equal(t, int32(150), b.MaxHealth)
	assert.Equal(t, int32(10), b.QuickDamage)
	assert.Equal(t, 5.0, b.MoveSpeed)
	assert.Equal(t, 5.0, b.DetectionRange)
	assert.Equal(t, 1.5, b.AttackRange)
	assert.Equal(t, 2.0, b.SafeDistance)
	assert.Equal(t, 5.0, b.PatrolSpeed)
	assert.Equal(t, 1.0, b.DecisionInterval)
}

func TestBuiltinArchetypes_FreshCopies(t *testing.T) {
	a := BuiltinArchetypes()
	a["brute"].MaxHealth = 1

	b := BuiltinArchetypes()
	if b["brute"].MaxHealth == 1 {
		t.Error("BuiltinArchetypes() shares state between calls")
	}
}

func TestLoadSimulation_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadSimulation(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSimulation().Seed, cfg.Seed)
	assert.Len(t, cfg.Archetypes, 3)
}

func TestLoadSimulation_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	content := `
log_level: debug
seed: 42
tick_rate: 60
duration: 90s
arena:
  width: 40
  height: 25
archetypes:
  brute:
    max_health: 300
  scout:
    base: skirmisher
    move_speed: 9
    personality:
      aggression: 0.1
      courage: 0.2
      tactical: 1
      coordination: 1
spawns:
  - name: a
    archetype: brute
    x: 1
    y: 1
  - name: b
    archetype: scout
    x: 39
    y: 24
obstacles:
  cell_size: 2
  cells: [[5, 5], [5, 6]]
  polygons:
    - [[10, 10], [12, 10], [12, 12], [10, 12]]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadSimulation(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 60, cfg.TickRate)
	assert.Equal(t, 90*time.Second, cfg.Duration)
	assert.Equal(t, 5400, cfg.Steps())
	assert.Equal(t, Arena{Width: 40, Height: 25}, cfg.Arena)

	// Override keeps untouched keys of the built-in.
	brute := cfg.Archetypes["brute"]
	assert.Equal(t, int32(300), brute.MaxHealth)
	assert.Equal(t, BuiltinArchetypes()["brute"].HeavyDamage, brute.HeavyDamage)
	assert.Equal(t, "brute", brute.Name)

	// New archetype inherits from its base.
	scout := cfg.Archetypes["scout"]
	require.NotNil(t, scout)
	assert.Equal(t, "scout", scout.Name)
	assert.Equal(t, 9.0, scout.MoveSpeed)
	assert.Equal(t, BuiltinArchetypes()["skirmisher"].MaxHealth, scout.MaxHealth)
	assert.Equal(t, 0.1, scout.Personality.Aggression)
	assert.Equal(t, 1.0, scout.Personality.Tactical)

	// Base archetype is not modified by the child.
	assert.Equal(t, BuiltinArchetypes()["skirmisher"].MoveSpeed, cfg.Archetypes["skirmisher"].MoveSpeed)

	require.Len(t, cfg.Spawns, 2)
	assert.Equal(t, Spawn{Name: "b", Archetype: "scout", X: 39, Y: 24}, cfg.Spawns[1])

	assert.Equal(t, 2.0, cfg.Obstacles.CellSize)
	assert.Equal(t, [][2]int{{5, 5}, {5, 6}}, cfg.Obstacles.Cells)
	assert.Len(t, cfg.Obstacles.Polygons, 1)
}

func TestLoadSimulation_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: [unterminated"), 0o644))

	_, err := LoadSimulation(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestParseSimulation_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"trait out of range", "archetypes:\n  brute:\n    personality:\n      aggression: 1.5\n", "aggression"},
		{"negative cooldown", "archetypes:\n  bokoblin:\n    dodge_cooldown: -1\n", "dodge_cooldown"},
		{"min range above range", "archetypes:\n  bokoblin:\n    min_attack_range: 2\n", "min_attack_range"},
		{"unknown base", "archetypes:\n  ghost:\n    base: wraith\n", "unknown base"},
		{"unknown spawn archetype", "spawns:\n  - name: x\n    archetype: dragon\n", "unknown archetype"},
		{"spawn outside arena", "spawns:\n  - name: x\n    archetype: brute\n    x: 50\n", "outside the arena"},
		{"duplicate spawn name", "spawns:\n  - {name: x, archetype: brute}\n  - {name: x, archetype: brute}\n", "used twice"},
		{"zero tick rate", "tick_rate: 0\n", "tick_rate"},
		{"bad log level", "log_level: loud\n", "log_level"},
		{"degenerate polygon", "obstacles:\n  polygons:\n    - [[0, 0], [1, 1]]\n", "polygon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSimulation([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrInvalidConfiguration)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ReportsEveryError(t *testing.T) {
	cfg := DefaultSimulation()
	cfg.TickRate = 0
	cfg.Arena.Width = 0
	cfg.Archetypes["brute"].BlockChance = 2

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tick_rate")
	assert.Contains(t, err.Error(), "arena")
	assert.Contains(t, err.Error(), "block_chance")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"debug", "DEBUG", false},
		{"info", "INFO", false},
		{"", "INFO", false},
		{"warn", "WARN", false},
		{"error", "ERROR", false},
		{"trace", "INFO", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLogLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got.String() != tt.want {
				t.Errorf("ParseLogLevel(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestSimulation_TickInterval(t *testing.T) {
	cfg := DefaultSimulation()
	cfg.TickRate = 50
	assert.Equal(t, 20*time.Millisecond, cfg.TickInterval())

	cfg.Duration = 0
	assert.Equal(t, 0, cfg.Steps())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "arena", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5433/arena?sslmode=disable", d.DSN())
}

func TestLoadSimulation_SampleConfig(t *testing.T) {
	cfg, err := LoadSimulation(filepath.Join("..", "..", "config", "arena.yaml"))
	require.NoError(t, err)

	assert.Len(t, cfg.Spawns, 5)
	assert.Equal(t, int32(260), cfg.Archetypes["brute"].MaxHealth)
	assert.Equal(t, 0.6, cfg.Archetypes["duelist"].RiposteChance)
	assert.Len(t, cfg.Obstacles.BuildLayers(), 2)
}
