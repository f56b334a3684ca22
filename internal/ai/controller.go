package ai

import "github.com/udisondev/arenaai/internal/model"

// Controller is the per-agent decision maker driven by the Simulation.
type Controller interface {
	// Start starts the controller
	Start()

	// Stop stops the controller; a stopped controller plans nothing
	Stop()

	// Agent returns the controlled agent
	Agent() *model.Agent

	// Target returns the current weak target reference (0 when none)
	Target() model.AgentID

	// Think runs the think phase for one tick against the tick-start view.
	// It touches only its own agent and random source.
	Think(now, dt float64, view []model.Snapshot) Plan
}
