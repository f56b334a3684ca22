// Package render draws a running arena on a terminal with tcell.
package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/udisondev/arenaai/internal/event"
	"github.com/udisondev/arenaai/internal/game/geo"
	"github.com/udisondev/arenaai/internal/model"
)

// ErrQuit is returned by Run when the user closes the viewer.
var ErrQuit = errors.New("viewer closed")

const (
	maxHUDAgents = 8
	logLines     = 2
	barWidth     = 10
)

// Frame is everything drawn in one refresh.
type Frame struct {
	Time   float64
	Ticks  uint64
	Agents []model.Snapshot
}

// Viewer renders frames onto a tcell screen and keeps a short log of
// notable events. It implements event.Sink.
type Viewer struct {
	screen        tcell.Screen
	width, height float64
	solid         geo.Solid

	mu   sync.Mutex
	log  []string
	name map[model.AgentID]string
}

// NewViewer creates a viewer for an arena of the given size.
// solid may be nil for an open arena.
func NewViewer(screen tcell.Screen, width, height float64, solid geo.Solid) *Viewer {
	return &Viewer{
		screen: screen,
		width:  width,
		height: height,
		solid:  solid,
		name:   make(map[model.AgentID]string),
	}
}

// Publish records deaths, stuns and ripostes for the HUD log.
func (v *Viewer) Publish(e event.Event) {
	var line string
	switch e.Kind {
	case event.KindDied:
		line = fmt.Sprintf("%6.1fs %s died", e.Time, v.agentName(e.Agent))
		if e.Other != 0 {
			line += " (" + v.agentName(e.Other) + ")"
		}
	case event.KindStunned:
		line = fmt.Sprintf("%6.1fs %s stunned by %s", e.Time, v.agentName(e.Agent), v.agentName(e.Other))
	case event.KindRiposte:
		line = fmt.Sprintf("%6.1fs %s ripostes %s", e.Time, v.agentName(e.Agent), v.agentName(e.Other))
	default:
		return
	}

	v.mu.Lock()
	v.log = append(v.log, line)
	if len(v.log) > logLines {
		v.log = v.log[len(v.log)-logLines:]
	}
	v.mu.Unlock()
}

func (v *Viewer) agentName(id model.AgentID) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if n, ok := v.name[id]; ok {
		return n
	}
	return fmt.Sprintf("#%d", id)
}

// Log returns the current HUD log lines, oldest first.
func (v *Viewer) Log() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.log...)
}

// hudHeight is the number of rows reserved under the arena.
func hudHeight(agents int) int {
	return 2 + min(agents, maxHUDAgents) + logLines
}

// viewport returns the arena drawing area in screen cells.
func (v *Viewer) viewport(agents int) (w, h int) {
	sw, sh := v.screen.Size()
	return sw, max(sh-hudHeight(agents), 1)
}

// toScreen maps an arena point to a cell of the viewport.
func (v *Viewer) toScreen(p model.Vec2, vw, vh int) (x, y int) {
	x = int(p.X / v.width * float64(vw-1))
	y = int(p.Y / v.height * float64(vh-1))
	return min(max(x, 0), vw-1), min(max(y, 0), vh-1)
}

// Draw renders one frame and shows it.
func (v *Viewer) Draw(f Frame) {
	v.mu.Lock()
	for _, a := range f.Agents {
		v.name[a.ID] = a.Name
	}
	v.mu.Unlock()

	v.screen.Clear()
	vw, vh := v.viewport(len(f.Agents))

	v.drawObstacles(vw, vh)
	for _, a := range f.Agents {
		x, y := v.toScreen(a.Position, vw, vh)
		v.putGlyph(x, y, Glyph(a), stateStyle(a))
	}
	v.drawHUD(f, vh)

	v.screen.Show()
}

func (v *Viewer) drawObstacles(vw, vh int) {
	if v.solid == nil {
		return
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for y := range vh {
		for x := range vw {
			// Sample the centre of the cell.
			p := model.Vec2{
				X: (float64(x) + 0.5) / float64(vw) * v.width,
				Y: (float64(y) + 0.5) / float64(vh) * v.height,
			}
			if v.solid.Solid(p) {
				v.screen.SetContent(x, y, '#', nil, style)
			}
		}
	}
}

func (v *Viewer) drawHUD(f Frame, top int) {
	sw, _ := v.screen.Size()

	v.drawHLine(top, sw, tcell.ColorGray)
	status := fmt.Sprintf("t=%.1fs  tick %d  alive %d", f.Time, f.Ticks, len(f.Agents))
	v.drawText(0, top+1, sw, status, tcell.StyleDefault.Foreground(tcell.ColorWhite))

	row := top + 2
	for i, a := range f.Agents {
		if i == maxHUDAgents {
			break
		}
		v.drawText(0, row, sw, AgentLine(a), stateStyle(a))
		row++
	}

	for _, line := range v.Log() {
		v.drawText(0, row, sw, line, tcell.StyleDefault.Foreground(tcell.ColorLightYellow))
		row++
	}
}

// AgentLine formats one HUD row: name, health bar, hp and state.
func AgentLine(a model.Snapshot) string {
	name := runewidth.FillRight(runewidth.Truncate(a.Name, 14, "…"), 14)
	return fmt.Sprintf("%s %s %3d/%-3d %s", name, HealthBar(a.HealthRatio(), barWidth), a.Health, a.MaxHealth, a.State)
}

// HealthBar renders ratio as a fixed-width bar.
func HealthBar(ratio float64, width int) string {
	filled := int(ratio*float64(width) + 0.5)
	filled = min(max(filled, 0), width)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// Glyph returns the map symbol of an agent.
func Glyph(a model.Snapshot) string {
	if !a.Alive() {
		return "x"
	}
	switch a.State {
	case model.StatePatrolling:
		return "p"
	case model.StateChasing:
		return "c"
	case model.StateAttacking:
		return "A"
	case model.StateDefensive:
		return "d"
	case model.StateRecovering:
		return "r"
	case model.StateStunned:
		return "✶"
	default:
		return "?"
	}
}

func stateStyle(a model.Snapshot) tcell.Style {
	style := tcell.StyleDefault
	if !a.Alive() {
		return style.Foreground(tcell.ColorDarkGray)
	}
	switch a.State {
	case model.StateAttacking:
		return style.Foreground(tcell.ColorRed)
	case model.StateChasing:
		return style.Foreground(tcell.ColorOrange)
	case model.StateDefensive:
		return style.Foreground(tcell.ColorTeal)
	case model.StateStunned, model.StateRecovering:
		return style.Foreground(tcell.ColorYellow)
	default:
		return style.Foreground(tcell.ColorGreen)
	}
}

// putGlyph draws a glyph and pads the second column of wide ones.
func (v *Viewer) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	v.screen.SetContent(x, y, runes[0], runes[1:], style)
	if runewidth.StringWidth(glyph) == 2 {
		v.screen.SetContent(x+1, y, ' ', nil, style)
	}
}

func (v *Viewer) drawHLine(y, w int, color tcell.Color) {
	style := tcell.StyleDefault.Foreground(color)
	for x := range w {
		v.screen.SetContent(x, y, '─', nil, style)
	}
}

// drawText writes text from column x, clipped to maxW columns.
func (v *Viewer) drawText(x, y, maxW int, text string, style tcell.Style) {
	col := x
	for _, ch := range runewidth.Truncate(text, maxW-x, "") {
		v.screen.SetContent(col, y, ch, nil, style)
		col += runewidth.RuneWidth(ch)
	}
}

// Run redraws frame() every interval until ctx is done or the user presses
// q or Esc. Returns ErrQuit in the latter case.
func (v *Viewer) Run(ctx context.Context, interval time.Duration, frame func() Frame) error {
	events := make(chan tcell.Event, 8)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	v.Draw(frame())
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				v.screen.Sync()
				v.Draw(frame())
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return ErrQuit
				}
			}
		case <-ticker.C:
			v.Draw(frame())
		}
	}
}
