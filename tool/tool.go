// Package tool implements the typed capability layer of the cognitive loop:
// a registry of named, schema-described callables, a dispatcher that maps a
// plan's free-text action onto one of them, and the built-in movement and
// messaging tools.
//
// Free-text action resolution is a pluggable boundary (IntentResolver) kept
// out of the typed dispatch core so it can be swapped or mocked in tests.
package tool

import (
	"context"

	"github.com/hupe1980/agentsim/core"
	"github.com/hupe1980/agentsim/logging"
)

// Tool is a named, schema-described callable capability an agent's resolved
// action can invoke.
//
// Implementations should provide clear descriptions (shown to the model),
// define a minimal JSON schema for parameters, and be safe for concurrent
// use: a single registry instance is shared read-only across agents.
type Tool interface {
	// Name returns the unique identifier for this tool (snake_case).
	Name() string

	// Description returns a human-readable description of what this tool
	// does, provided to the LLM to guide action selection.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the tool with validated arguments. It returns a
	// human-readable confirmation string; side effects (position updates,
	// memory writes) happen through the Context.
	Call(toolCtx *Context, args map[string]any) (string, error)
}

// Context carries everything a tool invocation may touch: the invoking
// agent, the environment, the optional recorder and a logger. Tools must
// check Recorder for nil before use.
type Context struct {
	// Context is the cancellation context of the enclosing plan call.
	Context context.Context

	// Agent is the agent on whose behalf the tool runs.
	Agent core.AgentHandle

	// Env is the simulation substrate, used for neighbor lookups and the
	// step counter.
	Env core.Environment

	// Recorder is the optional event sink; nil when recording is disabled.
	Recorder core.Recorder

	// CallID correlates the dispatch with log entries.
	CallID string

	logger logging.Logger
}

// NewContext constructs a tool Context. A nil logger is replaced with a
// NoOpLogger.
func NewContext(ctx context.Context, agent core.AgentHandle, env core.Environment, recorder core.Recorder, logger logging.Logger) *Context {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Context{
		Context:  ctx,
		Agent:    agent,
		Env:      env,
		Recorder: recorder,
		logger:   logger,
	}
}

// Logger returns the context's logger, never nil.
func (c *Context) Logger() logging.Logger { return c.logger }
