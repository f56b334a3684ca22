package render

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/udisondev/arenaai/internal/event"
	"github.com/udisondev/arenaai/internal/game/geo"
	"github.com/udisondev/arenaai/internal/model"
)

func newSimScreen(t *testing.T) tcell.Screen {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	ss.SetSize(60, 24)
	if err := ss.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	t.Cleanup(ss.Fini)
	return ss
}

// rowText reads back a screen row as a string.
func rowText(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := range w {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func snapshot(id model.AgentID, name string, x, y float64, hp int32, state model.State) model.Snapshot {
	return model.Snapshot{
		ID:        id,
		Name:      name,
		Position:  model.Vec2{X: x, Y: y},
		Health:    hp,
		MaxHealth: 100,
		State:     state,
	}
}

func TestGlyph(t *testing.T) {
	tests := []struct {
		state model.State
		want  string
	}{
		{model.StatePatrolling, "p"},
		{model.StateChasing, "c"},
		{model.StateAttacking, "A"},
		{model.StateDefensive, "d"},
		{model.StateRecovering, "r"},
		{model.StateStunned, "✶"},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := Glyph(snapshot(1, "a", 0, 0, 50, tt.state)); got != tt.want {
				t.Errorf("Glyph(%s) = %q, want %q", tt.state, got, tt.want)
			}
		})
	}

	dead := snapshot(1, "a", 0, 0, 0, model.StateAttacking)
	if got := Glyph(dead); got != "x" {
		t.Errorf("Glyph(dead) = %q, want x", got)
	}
}

func TestHealthBar(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, "[##########]"},
		{0.5, "[#####.....]"},
		{0, "[..........]"},
		{1.7, "[##########]"},
		{-1, "[..........]"},
	}
	for _, tt := range tests {
		if got := HealthBar(tt.ratio, 10); got != tt.want {
			t.Errorf("HealthBar(%v) = %q, want %q", tt.ratio, got, tt.want)
		}
	}
}

func TestAgentLine_WideNames(t *testing.T) {
	narrow := AgentLine(snapshot(1, "bob", 0, 0, 40, model.StateChasing))
	wide := AgentLine(snapshot(2, "ボコブリン", 0, 0, 40, model.StateChasing))

	// Bars line up regardless of the display width of the name.
	if strings.Index(narrow, "[") != 15 {
		t.Errorf("narrow bar at column %d, want 15: %q", strings.Index(narrow, "["), narrow)
	}
	if !strings.Contains(wide, "[####......]  40/100 CHASING") {
		t.Errorf("unexpected line %q", wide)
	}
}

func TestViewer_DrawAgents(t *testing.T) {
	screen := newSimScreen(t)
	v := NewViewer(screen, 20, 20, nil)

	agents := []model.Snapshot{
		snapshot(1, "alpha", 0, 0, 100, model.StateAttacking),
		snapshot(2, "beta", 20, 20, 30, model.StateDefensive),
	}
	v.Draw(Frame{Time: 1.5, Ticks: 45, Agents: agents})

	vw, vh := v.viewport(len(agents))
	for _, a := range agents {
		x, y := v.toScreen(a.Position, vw, vh)
		r, _, _, _ := screen.GetContent(x, y)
		if string(r) != Glyph(a) {
			t.Errorf("cell (%d,%d) = %q, want %q", x, y, r, Glyph(a))
		}
	}

	if got := rowText(screen, vh+1); !strings.HasPrefix(got, "t=1.5s  tick 45  alive 2") {
		t.Errorf("status row = %q", got)
	}
	if got := rowText(screen, vh+2); !strings.HasPrefix(got, "alpha") || !strings.Contains(got, "ATTACKING") {
		t.Errorf("first agent row = %q", got)
	}
	if got := rowText(screen, vh+3); !strings.Contains(got, "[###.......]") {
		t.Errorf("second agent row = %q", got)
	}
}

func TestViewer_DrawObstacles(t *testing.T) {
	screen := newSimScreen(t)
	field := geo.NewField()
	field.Rect(0, 0, 20, 2)
	v := NewViewer(screen, 20, 20, geo.Layers{field})

	v.Draw(Frame{})

	r, _, _, _ := screen.GetContent(5, 0)
	if r != '#' {
		t.Errorf("top row should be a wall, got %q", r)
	}
	_, vh := v.viewport(0)
	r, _, _, _ = screen.GetContent(5, vh-1)
	if r == '#' {
		t.Error("bottom row should be open")
	}
}

func TestViewer_PublishKeepsRecentLines(t *testing.T) {
	screen := newSimScreen(t)
	v := NewViewer(screen, 20, 20, nil)
	v.Draw(Frame{Agents: []model.Snapshot{
		snapshot(1, "alpha", 1, 1, 100, model.StatePatrolling),
		snapshot(2, "beta", 2, 2, 100, model.StatePatrolling),
	}})

	v.Publish(event.Event{Kind: event.KindStunned, Time: 1, Agent: 2, Other: 1})
	v.Publish(event.Event{Kind: event.KindDamageTaken, Time: 2, Agent: 2, Other: 1})
	v.Publish(event.Event{Kind: event.KindRiposte, Time: 3, Agent: 2, Other: 1})
	v.Publish(event.Event{Kind: event.KindDied, Time: 4, Agent: 2, Other: 1})

	log := v.Log()
	if len(log) != logLines {
		t.Fatalf("log len = %d, want %d", len(log), logLines)
	}
	if !strings.Contains(log[0], "beta ripostes alpha") {
		t.Errorf("log[0] = %q", log[0])
	}
	if !strings.Contains(log[1], "beta died (alpha)") {
		t.Errorf("log[1] = %q", log[1])
	}
}

func TestViewer_RunQuitsOnKey(t *testing.T) {
	screen := newSimScreen(t)
	v := NewViewer(screen, 20, 20, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- v.Run(ctx, 10*time.Millisecond, func() Frame { return Frame{} })
	}()

	if err := screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)); err != nil {
		t.Fatalf("PostEvent: %v", err)
	}

	select {
	case err := <-done:
		if !errors.Is(err, ErrQuit) {
			t.Errorf("Run() = %v, want ErrQuit", err)
		}
	case <-ctx.Done():
		t.Fatal("Run did not return after q")
	}
}

func TestViewer_RunStopsOnCancel(t *testing.T) {
	screen := newSimScreen(t)
	v := NewViewer(screen, 20, 20, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- v.Run(ctx, 10*time.Millisecond, func() Frame { return Frame{} })
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
