// Package agentsim provides a high-level façade over the cognitive-loop
// building blocks (memory, reasoning, tool dispatch, recording) enabling
// rapid construction of LLM-driven simulated agents. Most applications
// interact with this package by:
//  1. Creating an AgentSim via New() with a generation model
//  2. Registering tools beyond the built-in movement and messaging ones
//  3. Spawning agents bound to an Environment and stepping them
//
// All defaults are safe for local development and testing; production
// deployments typically supply a provider-backed model (model/openai,
// model/anthropic), a JSONL recorder and a structured logger.
package agentsim

import (
	"github.com/hupe1980/agentsim/agent"
	"github.com/hupe1980/agentsim/core"
	"github.com/hupe1980/agentsim/logging"
	"github.com/hupe1980/agentsim/model"
	"github.com/hupe1980/agentsim/tool"
)

// Options configures the AgentSim instance.
type Options struct {
	// Resolver maps plan action text onto tool calls; defaults to the
	// LLM-backed resolver using the configured model.
	Resolver tool.IntentResolver

	// Recorder is the shared event sink passed to every spawned agent;
	// nil disables recording.
	Recorder core.Recorder

	// Logger defaults to NoOpLogger.
	Logger logging.Logger

	// RegisterBuiltins controls registration of move_to_location and
	// speak_to; enabled by default.
	RegisterBuiltins bool
}

// AgentSim aggregates the shared pieces of a simulation: the generation
// model, the read-only tool registry and the recording sink.
type AgentSim struct {
	model    model.Model
	registry *tool.Registry
	recorder core.Recorder
	logger   logging.Logger
}

// New creates an AgentSim around the given generation model.
func New(m model.Model, optFns ...func(o *Options)) (*AgentSim, error) {
	if m == nil {
		return nil, core.NewConfigurationError("agentsim", "a generation model must be provided")
	}

	opts := Options{
		Logger:           logging.NoOpLogger{},
		RegisterBuiltins: true,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Resolver == nil {
		opts.Resolver = tool.NewLLMResolver(m)
	}

	registry := tool.NewRegistry(func(o *tool.RegistryOptions) {
		o.Resolver = opts.Resolver
		o.Logger = opts.Logger
	})
	if opts.RegisterBuiltins {
		registry.Register(tool.NewMoveToLocationTool())
		registry.Register(tool.NewSpeakToTool())
	}

	return &AgentSim{
		model:    m,
		registry: registry,
		recorder: opts.Recorder,
		logger:   opts.Logger,
	}, nil
}

// RegisterTool adds a tool to the shared registry. Call during setup, before
// agents start stepping.
func (s *AgentSim) RegisterTool(t tool.Tool) { s.registry.Register(t) }

// Registry returns the shared tool registry.
func (s *AgentSim) Registry() *tool.Registry { return s.registry }

// NewAgent spawns an agent bound to env, inheriting the sim's model,
// registry, recorder and logger. Per-agent settings (vision, memory, system
// prompt) are applied via optFns.
func (s *AgentSim) NewAgent(env core.Environment, optFns ...func(o *agent.Options)) (*agent.Agent, error) {
	fns := append([]func(o *agent.Options){func(o *agent.Options) {
		o.Recorder = s.recorder
		o.Logger = s.logger
	}}, optFns...)
	return agent.New(env, s.model, s.registry, fns...)
}
