package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Match is the summary of one finished simulation run.
type Match struct {
	ID        int64
	Seed      uint64
	TickRate  int
	Ticks     uint64
	SimTime   float64 // simulated seconds
	Survivors int
	StartedAt time.Time
	WallTime  time.Duration
	Results   []AgentResult
}

// MatchRepository persists matches and their per-agent results.
type MatchRepository struct {
	pool *pgxpool.Pool
}

// NewMatchRepository creates a repository on pool.
func NewMatchRepository(pool *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{pool: pool}
}

// SaveMatch inserts m and all of its results in one transaction and
// returns the new match id. m.ID is set on success.
func (r *MatchRepository) SaveMatch(ctx context.Context, m *Match) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction for match: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			slog.Error("rollback failed", "error", err)
		}
	}()

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO matches (seed, tick_rate, ticks, sim_time, survivors, started_at, wall_time)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		int64(m.Seed), m.TickRate, int64(m.Ticks), m.SimTime, m.Survivors, m.StartedAt, int64(m.WallTime),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting match: %w", err)
	}

	if err := r.saveResultsTx(ctx, tx, id, m.Results); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction for match %d: %w", id, err)
	}

	m.ID = id
	slog.Info("match saved",
		"matchID", id,
		"agents", len(m.Results),
		"survivors", m.Survivors)

	return id, nil
}

func (r *MatchRepository) saveResultsTx(ctx context.Context, tx pgx.Tx, matchID int64, results []AgentResult) error {
	if len(results) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(results))
	for _, res := range results {
		var diedAt *float64
		if !res.Survived {
			v := res.DiedAt
			diedAt = &v
		}
		stateTimes := res.StateTimes
		if stateTimes == nil {
			stateTimes = map[string]float64{}
		}
		rows = append(rows, []any{
			matchID, int32(res.AgentID), res.Name, res.Archetype,
			res.FinalHealth, res.MaxHealth, res.Survived, diedAt,
			int32(res.Kills), int32(res.Attacks), int32(res.Hits),
			res.DamageDealt, res.DamageTaken,
			int32(res.Blocks), int32(res.Ripostes), int32(res.Dodges),
			stateTimes,
		})
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"agent_results"},
		[]string{
			"match_id", "agent_id", "name", "archetype",
			"final_health", "max_health", "survived", "died_at",
			"kills", "attacks", "hits",
			"damage_dealt", "damage_taken",
			"blocks", "ripostes", "dodges",
			"state_times",
		},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("inserting results for match %d: %w", matchID, err)
	}
	return nil
}

// LoadMatch loads a match with its results ordered by agent id.
// Returns nil, nil if the match does not exist.
func (r *MatchRepository) LoadMatch(ctx context.Context, id int64) (*Match, error) {
	var (
		m        Match
		seed     int64
		ticks    int64
		wallTime int64
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, seed, tick_rate, ticks, sim_time, survivors, started_at, wall_time
		 FROM matches WHERE id = $1`, id,
	).Scan(&m.ID, &seed, &m.TickRate, &ticks, &m.SimTime, &m.Survivors, &m.StartedAt, &wallTime)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying match %d: %w", id, err)
	}
	m.Seed = uint64(seed)
	m.Ticks = uint64(ticks)
	m.WallTime = time.Duration(wallTime)

	results, err := r.loadResults(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Results = results
	return &m, nil
}

func (r *MatchRepository) loadResults(ctx context.Context, matchID int64) ([]AgentResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT agent_id, name, archetype, final_health, max_health, survived, died_at,
		        kills, attacks, hits, damage_dealt, damage_taken, blocks, ripostes, dodges, state_times
		 FROM agent_results WHERE match_id = $1 ORDER BY agent_id`, matchID)
	if err != nil {
		return nil, fmt.Errorf("querying results for match %d: %w", matchID, err)
	}
	defer rows.Close()

	var out []AgentResult
	for rows.Next() {
		var (
			res                      AgentResult
			agentID                  int32
			diedAt                   *float64
			kills, attacks, hits     int32
			blocks, ripostes, dodges int32
		)
		if err := rows.Scan(
			&agentID, &res.Name, &res.Archetype, &res.FinalHealth, &res.MaxHealth, &res.Survived, &diedAt,
			&kills, &attacks, &hits, &res.DamageDealt, &res.DamageTaken, &blocks, &ripostes, &dodges, &res.StateTimes,
		); err != nil {
			return nil, fmt.Errorf("scanning result for match %d: %w", matchID, err)
		}
		res.AgentID = uint32(agentID)
		if diedAt != nil {
			res.DiedAt = *diedAt
		}
		res.Kills = int(kills)
		res.Attacks = int(attacks)
		res.Hits = int(hits)
		res.Blocks = int(blocks)
		res.Ripostes = int(ripostes)
		res.Dodges = int(dodges)
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating results for match %d: %w", matchID, err)
	}
	return out, nil
}

// RecentMatches returns up to limit match summaries, newest first.
// Results are not loaded.
func (r *MatchRepository) RecentMatches(ctx context.Context, limit int) ([]Match, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, seed, tick_rate, ticks, sim_time, survivors, started_at, wall_time
		 FROM matches ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent matches: %w", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var (
			m                     Match
			seed, ticks, wallTime int64
		)
		if err := rows.Scan(&m.ID, &seed, &m.TickRate, &ticks, &m.SimTime, &m.Survivors, &m.StartedAt, &wallTime); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		m.Seed = uint64(seed)
		m.Ticks = uint64(ticks)
		m.WallTime = time.Duration(wallTime)
		out = append(out, m)
	}
	return out, rows.Err()
}
