package core

// Position is a coordinate in the simulation substrate. The substrate itself
// (grid topology, continuous space, spatial indexing) is an external
// collaborator; this core only carries coordinates through.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// AgentHandle is the minimal view of an agent exposed to tools and to other
// agents' observations. The concrete agent type in package agent implements
// it; tests may supply lightweight fakes.
type AgentHandle interface {
	// ID returns the agent's unique identifier.
	ID() string

	// Class returns the agent's human-readable class name, used to label
	// neighbors in observations ("Trader agent 3").
	Class() string

	// Position returns the agent's current position.
	Position() Position

	// SetPosition relocates the agent. Tools use this for movement actions.
	SetPosition(pos Position)

	// InternalState returns the agent's free-form internal state tags.
	InternalState() []string

	// Memory returns the agent's memory store. Tools use this to deliver
	// messages into recipient memories.
	Memory() Memory
}

// Environment is the spatial simulation substrate boundary. Implementations
// answer neighbor queries and expose the global step counter; everything else
// about space is out of scope for this core.
type Environment interface {
	// CurrentStep returns the monotonic simulation step counter.
	CurrentStep() int

	// Neighbors returns the agents within radius of the given agent,
	// excluding the agent itself.
	Neighbors(agent AgentHandle, radius float64) []AgentHandle

	// Agents returns all agents currently in the environment.
	Agents() []AgentHandle
}
