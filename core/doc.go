// Package core defines the shared value objects and contracts of the
// AgentSim cognitive loop: observations, plans, memory entries, the
// environment and recorder boundaries and the typed error taxonomy.
//
// The package sits at the bottom of the dependency graph and imports no
// other AgentSim package. Concrete implementations live in memory,
// tool, reasoning, agent and recording.
package core
