// Package agent wires the cognitive loop together for one simulated agent:
// observe the environment, plan through the reasoning engine and apply the
// resulting plan. It owns no invariants of its own beyond strict sequencing
// within a step; memory, reasoning and dispatch guarantees live in their
// packages.
package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hupe1980/agentsim/core"
	"github.com/hupe1980/agentsim/logging"
	"github.com/hupe1980/agentsim/memory"
	"github.com/hupe1980/agentsim/model"
	"github.com/hupe1980/agentsim/reasoning"
	"github.com/hupe1980/agentsim/tool"
)

// VisionAll makes an agent observe every other agent in the environment.
const VisionAll = -1

// Options configure an Agent.
type Options struct {
	// ID defaults to a generated UUID.
	ID string
	// Class labels the agent in neighbor observations ("Trader agent").
	Class string
	// SystemPrompt is surfaced in the agent's self state and carried into
	// reasoning prompts.
	SystemPrompt string
	// Vision controls neighbor visibility: a positive radius bounds the
	// neighbor query, VisionAll (-1) observes all other agents, 0 (default)
	// observes none.
	Vision float64
	// InternalState is the agent's initial free-form state tags.
	InternalState []string
	// Position is the agent's initial position.
	Position core.Position
	// Memory defaults to a base memory.Store with default capacities.
	Memory core.Memory
	// Recorder is the optional shared event sink; nil disables recording.
	Recorder core.Recorder
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Agent is one simulated agent: its identity and spatial state, its
// exclusively owned memory and reasoning engine, and the step loop tying
// them together. The tool registry passed at construction may be shared
// read-only across agents.
type Agent struct {
	id           string
	class        string
	systemPrompt string
	vision       float64

	mu            sync.RWMutex
	position      core.Position
	internalState []string

	env      core.Environment
	memory   core.Memory
	reasoner *reasoning.ReAct
	registry *tool.Registry
	recorder core.Recorder
	logger   logging.Logger
}

// New constructs an Agent bound to env, reasoning through m and acting
// through registry.
func New(env core.Environment, m model.Model, registry *tool.Registry, optFns ...func(o *Options)) (*Agent, error) {
	if env == nil {
		return nil, core.NewConfigurationError("agent", "an environment must be provided")
	}

	opts := Options{
		Class:  "LLM agent",
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Memory == nil {
		store, err := memory.NewStore()
		if err != nil {
			return nil, err
		}
		opts.Memory = store
	}

	a := &Agent{
		id:            opts.ID,
		class:         opts.Class,
		systemPrompt:  opts.SystemPrompt,
		vision:        opts.Vision,
		position:      opts.Position,
		internalState: opts.InternalState,
		env:           env,
		memory:        opts.Memory,
		registry:      registry,
		recorder:      opts.Recorder,
		logger:        opts.Logger,
	}

	reasoner, err := reasoning.NewReAct(a, env, m, registry, func(o *reasoning.Options) {
		o.Recorder = opts.Recorder
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, err
	}
	a.reasoner = reasoner

	return a, nil
}

// ID implements core.AgentHandle.
func (a *Agent) ID() string { return a.id }

// Class implements core.AgentHandle.
func (a *Agent) Class() string { return a.class }

// Position implements core.AgentHandle.
func (a *Agent) Position() core.Position {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.position
}

// SetPosition implements core.AgentHandle.
func (a *Agent) SetPosition(pos core.Position) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.position = pos
}

// InternalState implements core.AgentHandle.
func (a *Agent) InternalState() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]string, len(a.internalState))
	copy(out, a.internalState)
	return out
}

// SetInternalState replaces the agent's internal state tags.
func (a *Agent) SetInternalState(state []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.internalState = state
}

// Memory implements core.AgentHandle.
func (a *Agent) Memory() core.Memory { return a.memory }

// String labels the agent in messages and logs.
func (a *Agent) String() string { return fmt.Sprintf("%s %s", a.class, a.id) }

// GenerateObservation snapshots everything the agent can see this step,
// writes one Observation-kind memory entry and feeds the recorder hooks.
//
// Vision policy: a positive vision bounds the neighbor query by that radius;
// VisionAll returns every other agent; 0 returns no neighbors.
func (a *Agent) GenerateObservation(ctx context.Context) (core.Observation, error) {
	step := a.env.CurrentStep()

	selfState := map[string]any{
		"agent_unique_id": a.id,
		"system_prompt":   a.systemPrompt,
		"location":        a.Position(),
		"internal_state":  a.InternalState(),
	}

	localState := make(map[string]map[string]any)
	for _, neighbor := range a.visibleNeighbors() {
		key := fmt.Sprintf("%s %s", neighbor.Class(), neighbor.ID())
		localState[key] = map[string]any{
			"position":       neighbor.Position(),
			"internal_state": neighbor.InternalState(),
		}
	}

	obs := core.Observation{Step: step, SelfState: selfState, LocalState: localState}

	err := a.memory.Add(ctx, core.KindObservation,
		map[string]any{"self_state": fmt.Sprintf("%v", selfState), "local_state": fmt.Sprintf("%v", localState)},
		step, nil)
	if err != nil {
		return core.Observation{}, err
	}

	if a.recorder != nil {
		a.recorder.RecordEvent("observation",
			map[string]any{"self_state": selfState, "local_state": localState}, a.id)
		a.recorder.TrackAgentState(a.id, map[string]any{
			"location":       a.Position(),
			"internal_state": a.InternalState(),
		})
	}

	return obs, nil
}

func (a *Agent) visibleNeighbors() []core.AgentHandle {
	switch {
	case a.vision > 0:
		return a.env.Neighbors(a, a.vision)
	case a.vision == VisionAll:
		all := a.env.Agents()
		neighbors := make([]core.AgentHandle, 0, len(all))
		for _, other := range all {
			if other.ID() != a.id {
				neighbors = append(neighbors, other)
			}
		}
		return neighbors
	default:
		return nil
	}
}

// Plan invokes the reasoning engine for the given observation.
func (a *Agent) Plan(ctx context.Context, prompt string, obs core.Observation, selectedTools ...string) (core.Plan, error) {
	return a.reasoner.Plan(ctx, prompt, obs, selectedTools...)
}

// PlanAsync is the concurrent variant of Plan; see reasoning.ReAct.PlanAsync.
func (a *Agent) PlanAsync(ctx context.Context, prompt string, obs core.Observation, selectedTools ...string) (<-chan core.Plan, <-chan error) {
	return a.reasoner.PlanAsync(ctx, prompt, obs, selectedTools...)
}

// ApplyPlan commits an executed plan to memory as a Tool_Call_Action entry
// and records the action event.
func (a *Agent) ApplyPlan(ctx context.Context, plan core.Plan) error {
	err := a.memory.Add(ctx, core.KindToolCallAction,
		map[string]any{"result": plan.Result}, plan.Step, nil)
	if err != nil {
		return err
	}

	if a.recorder != nil {
		a.recorder.RecordEvent("action",
			map[string]any{"tool_call_response": plan.Result}, a.id)
	}
	return nil
}

// Step runs one full cognitive loop iteration: observation → plan → apply.
// A dispatch-stage failure does not abort the step; the plan is still
// applied (with an empty result) and the error is returned so the caller
// can decide severity. Generation and parse failures abort the step.
func (a *Agent) Step(ctx context.Context, prompt string, selectedTools ...string) (core.Plan, error) {
	obs, err := a.GenerateObservation(ctx)
	if err != nil {
		return core.Plan{}, err
	}

	plan, planErr := a.Plan(ctx, prompt, obs, selectedTools...)
	if planErr != nil && plan.Action == "" {
		// Generation or parse failure: no plan exists for this step.
		return core.Plan{}, planErr
	}

	if err := a.ApplyPlan(ctx, plan); err != nil {
		return plan, err
	}
	return plan, planErr
}

// SendMessage delivers a message to the recipients (and the sender's own
// memory), mirroring the speak_to tool for direct programmatic use.
func (a *Agent) SendMessage(ctx context.Context, message string, recipients []core.AgentHandle) (string, error) {
	step := a.env.CurrentStep()
	recipientIDs := make([]string, len(recipients))
	for i, r := range recipients {
		recipientIDs[i] = r.ID()
	}
	metadata := map[string]any{"sender": a.id, "recipients": recipientIDs}

	targets := make([]core.AgentHandle, 0, len(recipients)+1)
	targets = append(targets, recipients...)
	targets = append(targets, a)
	for _, target := range targets {
		err := target.Memory().Add(ctx, core.KindMessage,
			map[string]any{"message": message}, step, metadata)
		if err != nil {
			return "", err
		}
	}

	if a.recorder != nil {
		a.recorder.RecordEvent("message", map[string]any{"message": message}, a.id, recipientIDs...)
	}

	return fmt.Sprintf("%s → %v : %s", a, recipientIDs, message), nil
}
