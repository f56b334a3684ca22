package event

import (
	"context"
	"log/slog"

	"github.com/udisondev/arenaai/internal/model"
)

// LogSink writes events as structured log records.
// Deaths are logged at info, everything else at debug.
type LogSink struct {
	logger *slog.Logger
	names  func(id model.AgentID) string
}

// NewLogSink creates a sink over logger (slog.Default() when nil).
// names resolves agent ids to display names; nil prints ids only.
func NewLogSink(logger *slog.Logger, names func(id model.AgentID) string) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger, names: names}
}

// Publish logs e.
func (s *LogSink) Publish(e Event) {
	level := slog.LevelDebug
	if e.Kind == KindDied {
		level = slog.LevelInfo
	}
	if !s.logger.Enabled(context.Background(), level) {
		return
	}

	attrs := []slog.Attr{
		slog.Float64("t", e.Time),
		slog.Any("agentID", e.Agent),
	}
	if s.names != nil {
		attrs = append(attrs, slog.String("agent", s.names(e.Agent)))
	}

	switch e.Kind {
	case KindStateChanged:
		attrs = append(attrs, slog.String("from", e.From.String()), slog.String("to", e.To.String()))
	case KindAttackStarted, KindAttackMissed, KindRiposte:
		attrs = append(attrs, slog.String("attack", e.Attack.String()), slog.Any("targetID", e.Other))
	case KindDamageTaken:
		attrs = append(attrs,
			slog.Any("attackerID", e.Other),
			slog.Int("damage", int(e.Damage)),
			slog.Int("health", int(e.Health)))
	case KindHitAbsorbed, KindBlocked, KindStunned:
		attrs = append(attrs, slog.Any("attackerID", e.Other))
	case KindDied:
		attrs = append(attrs, slog.Any("killerID", e.Other))
	}

	s.logger.LogAttrs(context.Background(), level, e.Kind.String(), attrs...)
}
