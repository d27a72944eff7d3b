// Package reasoning implements the ReAct reasoning engine: it assembles a
// prompt from memory and the current observation, invokes the external
// generation service for a structured {reasoning, action} response, records
// the plan to memory and dispatches the action through the tool registry.
//
// The state progression per invocation is linear with no backtracking:
// prompt built → generated → parsed → dispatched → complete. A failure at the
// generation or parse stage aborts the attempt for that step; nothing is
// written to memory before the generation call has fully returned.
package reasoning

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentsim/core"
	"github.com/hupe1980/agentsim/logging"
	"github.com/hupe1980/agentsim/model"
	"github.com/hupe1980/agentsim/tool"
)

// noCommunication is the placeholder used when no prior message exists.
const noCommunication = "No recent communication history"

// reactOutput is the structured response contract of a planning call.
type reactOutput struct {
	Reasoning string `json:"reasoning"`
	Action    string `json:"action"`
}

var reactOutputSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"reasoning": map[string]any{"type": "string"},
		"action":    map[string]any{"type": "string"},
	},
	"required":             []string{"reasoning", "action"},
	"additionalProperties": false,
}

// Options configure a ReAct engine.
type Options struct {
	// Recorder is the optional event sink; nil disables recording.
	Recorder core.Recorder
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// ReAct drives one agent's reasoning. Each agent exclusively owns its ReAct
// instance; instances never share mutable state, so any number of agents'
// Plan or PlanAsync calls may be in flight concurrently.
type ReAct struct {
	agent    core.AgentHandle
	env      core.Environment
	model    model.Model
	registry *tool.Registry
	recorder core.Recorder
	logger   logging.Logger
}

// NewReAct constructs a ReAct engine for the given agent. The model and
// registry are required; their absence is a construction-time failure.
func NewReAct(agent core.AgentHandle, env core.Environment, m model.Model, registry *tool.Registry, optFns ...func(o *Options)) (*ReAct, error) {
	if agent == nil || env == nil {
		return nil, core.NewConfigurationError("reasoning.ReAct", "agent and environment must be provided")
	}
	if m == nil {
		return nil, core.NewConfigurationError("reasoning.ReAct", "a generation model must be provided")
	}
	if registry == nil {
		return nil, core.NewConfigurationError("reasoning.ReAct", "a tool registry must be provided")
	}

	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &ReAct{
		agent:    agent,
		env:      env,
		model:    m,
		registry: registry,
		recorder: opts.Recorder,
		logger:   opts.Logger,
	}, nil
}

// Plan produces and executes one plan for the given observation.
//
// selectedTools constrains both the advertised schema and the dispatchable
// set; when empty, every registered tool is available. The tool schema is
// advisory only: the model is instructed to describe its action in text, and
// the dispatcher resolves that text afterwards.
//
// Error surface: *core.GenerationError (provider failure) and
// *core.PlanParseError (response outside the contract) abort the attempt and
// return a zero Plan. Dispatch-stage failures (*core.UnknownToolError,
// *core.ArgumentError, resolver errors) return the populated Plan alongside
// the error so the caller decides whether a failed action is fatal to the
// step.
func (r *ReAct) Plan(ctx context.Context, prompt string, obs core.Observation, selectedTools ...string) (core.Plan, error) {
	lastCommunication := r.lastCommunication()
	systemPrompt := r.buildSystemPrompt(obs, lastCommunication)
	userPrompt := prompt + "\n\n last conversation: " + lastCommunication
	toolSchema := r.registry.SchemaFor(selectedTools...)

	rsp, err := r.model.Generate(ctx, model.Request{
		System:     systemPrompt,
		Prompt:     userPrompt,
		Tools:      toolSchema,
		ToolChoice: model.ToolChoiceNone,
		ResponseFormat: &model.ResponseFormat{
			Name:   "react_output",
			Schema: reactOutputSchema,
		},
	})
	if err != nil {
		return core.Plan{}, core.NewGenerationError("react_plan", err)
	}

	var out reactOutput
	if err := rsp.Decode(&out); err != nil {
		return core.Plan{}, &core.PlanParseError{Raw: rsp.Text, Err: err}
	}

	err = r.agent.Memory().Add(ctx, core.KindPlan,
		map[string]any{"reasoning": out.Reasoning, "action": out.Action}, obs.Step, nil)
	if err != nil {
		return core.Plan{}, err
	}

	plan := core.Plan{Step: obs.Step, Reasoning: out.Reasoning, Action: out.Action}

	toolCtx := tool.NewContext(ctx, r.agent, r.env, r.recorder, r.logger)
	result, err := r.registry.Dispatch(toolCtx, out.Action, selectedTools...)
	if err != nil {
		r.logger.Warn("react.dispatch_failed", "agent", r.agent.ID(), "error", err.Error())
		return plan, err
	}
	plan.Result = result

	if r.recorder != nil {
		r.recorder.RecordEvent("plan", map[string]any{"plan": plan.String()}, r.agent.ID())
	}
	return plan, nil
}

// PlanAsync runs Plan in its own goroutine and delivers the outcome over the
// returned channels, following the usual result/error channel convention.
// Both channels are buffered and closed after one delivery, so callers may
// select over them alongside ctx.Done() without leaking the goroutine.
func (r *ReAct) PlanAsync(ctx context.Context, prompt string, obs core.Observation, selectedTools ...string) (<-chan core.Plan, <-chan error) {
	planCh := make(chan core.Plan, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(planCh)
		defer close(errCh)

		plan, err := r.Plan(ctx, prompt, obs, selectedTools...)
		if err != nil {
			errCh <- err
			return
		}
		planCh <- plan
	}()

	return planCh, errCh
}

// lastCommunication extracts the "message" field of the most recent
// short-term entry, falling back to a fixed placeholder.
func (r *ReAct) lastCommunication() string {
	entry, ok := r.agent.Memory().LastEntry()
	if !ok {
		return noCommunication
	}
	msg, ok := entry.Message()
	if !ok {
		return noCommunication
	}
	return msg
}

// buildSystemPrompt embeds long-term memory, short-term memory, the current
// observation and the last communication into the ReAct system prompt.
func (r *ReAct) buildSystemPrompt(obs core.Observation, lastCommunication string) string {
	return fmt.Sprintf(`You are an autonomous agent in a simulation environment.
You can think about your situation and describe your plan.
Use your short-term and long-term memory to guide your behavior.
You should also use the current observation you have made of the environment to take suitable actions.
---

# Long-Term Memory
%s

---

# Short-Term Memory (Recent History) - be particularly attentive to the messages (if any).
%s

---

# Current Observation
%s

---

# Last Communication
%s

---

# Instructions
Based on the information above, think about what you should do with proper reasoning, and then decide your plan of action. Respond in the following format:
reasoning: [Your reasoning about the situation, including how your memory informs your decision]
action: [The action you decide to take - Do NOT use any tools here, just describe the action you will take]`,
		r.agent.Memory().FormatLongTerm(),
		r.agent.Memory().FormatShortTerm(),
		obs.String(),
		lastCommunication,
	)
}
