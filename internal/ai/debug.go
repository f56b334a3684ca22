package ai

import (
	"log/slog"
	"sync/atomic"
)

// thinkLogLevel mirrors the process log level for the think and tick paths.
// The zero value is slog.LevelInfo, so hot-path debug records stay off until
// SetLogLevel is called.
var thinkLogLevel atomic.Int64

// SetLogLevel syncs the simulation's hot-path logging with the handler level.
// Call it once after the config is parsed.
func SetLogLevel(level slog.Level) {
	thinkLogLevel.Store(int64(level))
}

// LogLevel returns the level last passed to SetLogLevel.
func LogLevel() slog.Level {
	return slog.Level(thinkLogLevel.Load())
}

// IsDebugEnabled reports whether per-agent debug records should be built.
// A load and a compare; use it to guard slog.Debug calls that run every tick:
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("brain decided", "agent", a.Name(), "state", next)
//	}
func IsDebugEnabled() bool {
	return LogLevel() <= slog.LevelDebug
}
