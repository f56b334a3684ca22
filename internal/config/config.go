// Package config loads the arena simulation settings from YAML.
// Every loader starts from the Default* values and overlays the file, so a
// partial file (or none at all) yields a runnable configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/arenaai/internal/model"
)

// Simulation holds everything the arena harness needs for one run.
type Simulation struct {
	LogLevel string `yaml:"log_level"`

	// Run
	Seed        uint64        `yaml:"seed"`
	TickRate    int           `yaml:"tick_rate"` // Hz
	Duration    time.Duration `yaml:"duration"`
	Parallelism int           `yaml:"parallelism"` // 0 = GOMAXPROCS

	Arena     Arena     `yaml:"arena"`
	Obstacles Obstacles `yaml:"obstacles"`

	// Results
	RecordResults bool           `yaml:"record_results"`
	Database      DatabaseConfig `yaml:"database"`

	// Archetypes by name. Filled from the file's archetypes section
	// on top of the built-in table; see LoadSimulation.
	Archetypes map[string]*model.Archetype `yaml:"-"`
	Spawns     []Spawn                     `yaml:"spawns"`
}

// Arena is the playable rectangle [0,Width]x[0,Height].
type Arena struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Spawn places one agent of a named archetype.
type Spawn struct {
	Name      string  `yaml:"name"`
	Archetype string  `yaml:"archetype"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultSimulation returns a four-agent skirmish on an open 20x20 arena.
func DefaultSimulation() Simulation {
	return Simulation{
		LogLevel:    "info",
		Seed:        1,
		TickRate:    30,
		Duration:    60 * time.Second,
		Parallelism: 0,
		Arena: Arena{
			Width:  20,
			Height: 20,
		},
		Obstacles: Obstacles{
			CellSize: 1,
		},
		RecordResults: false,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "arena",
			Password: "arena",
			DBName:   "arena",
			SSLMode:  "disable",
		},
		Archetypes: BuiltinArchetypes(),
		Spawns: []Spawn{
			{Name: "bokoblin-1", Archetype: "bokoblin", X: 4, Y: 4},
			{Name: "bokoblin-2", Archetype: "bokoblin", X: 16, Y: 16},
			{Name: "brute-1", Archetype: "brute", X: 4, Y: 16},
			{Name: "skirmisher-1", Archetype: "skirmisher", X: 16, Y: 4},
		},
	}
}

// simulationFile is the on-disk shape. Archetypes are kept as raw nodes so
// each entry can be decoded over the archetype it overrides or extends.
type simulationFile struct {
	Simulation `yaml:",inline"`
	Archetypes map[string]yaml.Node `yaml:"archetypes"`
}

type archetypeHeader struct {
	Base string `yaml:"base"`
}

// LoadSimulation loads simulation config from a YAML file.
// If the file doesn't exist, returns defaults.
//
// An archetypes entry named like an existing one overrides only the keys it
// sets. A new entry starts from zero, or from the archetype named by its
// base key.
func LoadSimulation(path string) (Simulation, error) {
	cfg := DefaultSimulation()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg, err = ParseSimulation(data)
	if err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseSimulation decodes YAML over DefaultSimulation and validates the result.
func ParseSimulation(data []byte) (Simulation, error) {
	file := simulationFile{Simulation: DefaultSimulation()}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file.Simulation, err
	}

	cfg := file.Simulation
	if err := mergeArchetypes(cfg.Archetypes, file.Archetypes); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func mergeArchetypes(dst map[string]*model.Archetype, raw map[string]yaml.Node) error {
	// Overrides of existing entries first, so a base may name an overridden archetype.
	pending := make([]string, 0, len(raw))
	for name := range raw {
		if _, ok := dst[name]; ok {
			node := raw[name]
			if err := node.Decode(dst[name]); err != nil {
				return fmt.Errorf("archetype %s: %w", name, err)
			}
			continue
		}
		pending = append(pending, name)
	}

	for _, name := range pending {
		node := raw[name]
		var hdr archetypeHeader
		if err := node.Decode(&hdr); err != nil {
			return fmt.Errorf("archetype %s: %w", name, err)
		}

		arch := &model.Archetype{}
		if hdr.Base != "" {
			base, ok := dst[hdr.Base]
			if !ok {
				return fmt.Errorf("%w: archetype %s extends unknown base %q", model.ErrInvalidConfiguration, name, hdr.Base)
			}
			clone := *base
			arch = &clone
		}
		if err := node.Decode(arch); err != nil {
			return fmt.Errorf("archetype %s: %w", name, err)
		}
		dst[name] = arch
	}

	for name, arch := range dst {
		arch.Name = name
	}
	return nil
}

// Validate reports every invalid key at once.
func (s Simulation) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{model.ErrInvalidConfiguration}, args...)...))
	}

	if _, err := ParseLogLevel(s.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if s.TickRate <= 0 {
		invalid("tick_rate=%d must be positive", s.TickRate)
	}
	if s.Duration < 0 {
		invalid("duration=%s is negative", s.Duration)
	}
	if s.Parallelism < 0 {
		invalid("parallelism=%d is negative", s.Parallelism)
	}
	if s.Arena.Width <= 0 || s.Arena.Height <= 0 {
		invalid("arena %vx%v must have positive size", s.Arena.Width, s.Arena.Height)
	}

	for _, arch := range s.Archetypes {
		if err := arch.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	names := make(map[string]struct{}, len(s.Spawns))
	for i, sp := range s.Spawns {
		if _, ok := s.Archetypes[sp.Archetype]; !ok {
			invalid("spawn %d (%s) uses unknown archetype %q", i, sp.Name, sp.Archetype)
		}
		if sp.X < 0 || sp.Y < 0 || sp.X > s.Arena.Width || sp.Y > s.Arena.Height {
			invalid("spawn %d (%s) at (%v,%v) is outside the arena", i, sp.Name, sp.X, sp.Y)
		}
		if sp.Name != "" {
			if _, dup := names[sp.Name]; dup {
				invalid("spawn name %q is used twice", sp.Name)
			}
			names[sp.Name] = struct{}{}
		}
	}

	if err := s.Obstacles.validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// TickInterval returns the wall-clock length of one tick.
func (s Simulation) TickInterval() time.Duration {
	if s.TickRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(s.TickRate)
}

// Steps returns the number of ticks that cover Duration. Zero means unbounded.
func (s Simulation) Steps() int {
	if s.Duration <= 0 || s.TickRate <= 0 {
		return 0
	}
	return int(s.Duration.Seconds() * float64(s.TickRate))
}

// ParseLogLevel converts a config log level to slog.Level.
// Empty means info.
func ParseLogLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: unknown log_level %q", model.ErrInvalidConfiguration, level)
	}
}
