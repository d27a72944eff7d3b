package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/agentsim/core"
	"github.com/hupe1980/agentsim/model"
)

// Call is a resolved tool invocation: a registry name plus bound arguments.
type Call struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

// IntentResolver turns a plan's free-text action into a Call against the
// advertised tool schemas. It is the only place in the dispatch path where
// resolution strategy (LLM-backed or deterministic) lives; the typed registry
// core never interprets text itself.
type IntentResolver interface {
	Resolve(ctx context.Context, actionText string, tools []model.ToolDefinition) (Call, error)
}

var callSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"tool":      map[string]any{"type": "string"},
		"arguments": map[string]any{"type": "object"},
	},
	"required":             []string{"tool", "arguments"},
	"additionalProperties": false,
}

// LLMResolver resolves action text by asking the generation service to pick
// one of the advertised tools and bind its arguments.
type LLMResolver struct {
	model model.Model
}

// NewLLMResolver constructs an LLMResolver backed by m.
func NewLLMResolver(m model.Model) *LLMResolver {
	return &LLMResolver{model: m}
}

// Resolve implements IntentResolver. Provider failures and undecodable
// responses surface as *core.GenerationError.
func (r *LLMResolver) Resolve(ctx context.Context, actionText string, tools []model.ToolDefinition) (Call, error) {
	var schemas strings.Builder
	for _, t := range tools {
		params, _ := json.Marshal(t.Function.Parameters)
		fmt.Fprintf(&schemas, "- %s: %s\n  parameters: %s\n", t.Function.Name, t.Function.Description, params)
	}

	prompt := fmt.Sprintf(
		"An agent described the following action:\n%s\n\nAvailable tools:\n%s\nSelect the single tool that carries out the action and bind its arguments from the action text.",
		actionText, schemas.String(),
	)

	rsp, err := r.model.Generate(ctx, model.Request{
		System: "You translate a described action into exactly one tool call. Respond only with the structured tool call.",
		Prompt: prompt,
		ResponseFormat: &model.ResponseFormat{
			Name:   "tool_call",
			Schema: callSchema,
		},
	})
	if err != nil {
		return Call{}, core.NewGenerationError("resolve_intent", err)
	}

	var call Call
	if err := rsp.Decode(&call); err != nil {
		return Call{}, core.NewGenerationError("resolve_intent", err)
	}
	if call.Arguments == nil {
		call.Arguments = map[string]any{}
	}
	return call, nil
}

// JSONResolver resolves action text that is already a structured tool call,
// e.g. `{"tool": "move_to_location", "arguments": {"x": 1, "y": 2}}`. It
// needs no external calls, which makes it the resolver of choice for tests
// and for models instructed to emit structured actions directly.
type JSONResolver struct{}

// Resolve implements IntentResolver. Unparseable action text surfaces as
// *core.PlanParseError.
func (JSONResolver) Resolve(_ context.Context, actionText string, _ []model.ToolDefinition) (Call, error) {
	var call Call
	if err := json.Unmarshal([]byte(strings.TrimSpace(actionText)), &call); err != nil {
		return Call{}, &core.PlanParseError{Raw: actionText, Err: err}
	}
	if call.Tool == "" {
		return Call{}, &core.PlanParseError{Raw: actionText, Err: fmt.Errorf("action carries no tool name")}
	}
	if call.Arguments == nil {
		call.Arguments = map[string]any{}
	}
	return call, nil
}
