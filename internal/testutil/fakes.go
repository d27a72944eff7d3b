// Package testutil provides lightweight fakes for the environment and agent
// boundaries so package tests never need a real simulation substrate.
package testutil

import (
	"github.com/hupe1980/agentsim/core"
)

// FakeEnv is a minimal core.Environment for tests. Neighbor queries default
// to "all other agents" regardless of radius; override NeighborsFn for
// radius-sensitive behavior.
type FakeEnv struct {
	Step        int
	AgentsList  []core.AgentHandle
	NeighborsFn func(agent core.AgentHandle, radius float64) []core.AgentHandle
}

// CurrentStep implements core.Environment.
func (e *FakeEnv) CurrentStep() int { return e.Step }

// Neighbors implements core.Environment.
func (e *FakeEnv) Neighbors(agent core.AgentHandle, radius float64) []core.AgentHandle {
	if e.NeighborsFn != nil {
		return e.NeighborsFn(agent, radius)
	}
	others := make([]core.AgentHandle, 0, len(e.AgentsList))
	for _, a := range e.AgentsList {
		if a.ID() != agent.ID() {
			others = append(others, a)
		}
	}
	return others
}

// Agents implements core.Environment.
func (e *FakeEnv) Agents() []core.AgentHandle { return e.AgentsList }

// Add registers an agent with the environment.
func (e *FakeEnv) Add(a core.AgentHandle) { e.AgentsList = append(e.AgentsList, a) }

// FakeAgent is a minimal core.AgentHandle for tests.
type FakeAgent struct {
	AgentID    string
	AgentClass string
	Pos        core.Position
	State      []string
	Mem        core.Memory
}

// ID implements core.AgentHandle.
func (a *FakeAgent) ID() string { return a.AgentID }

// Class implements core.AgentHandle.
func (a *FakeAgent) Class() string {
	if a.AgentClass == "" {
		return "Fake agent"
	}
	return a.AgentClass
}

// Position implements core.AgentHandle.
func (a *FakeAgent) Position() core.Position { return a.Pos }

// SetPosition implements core.AgentHandle.
func (a *FakeAgent) SetPosition(pos core.Position) { a.Pos = pos }

// InternalState implements core.AgentHandle.
func (a *FakeAgent) InternalState() []string { return a.State }

// Memory implements core.AgentHandle.
func (a *FakeAgent) Memory() core.Memory { return a.Mem }

// Interface compliance (compile-time assertions)
var (
	_ core.Environment = (*FakeEnv)(nil)
	_ core.AgentHandle = (*FakeAgent)(nil)
)
