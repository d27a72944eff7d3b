package tool

import (
	"fmt"
	"strings"

	"github.com/hupe1980/agentsim/core"
)

// NewMoveToLocationTool returns the built-in relocation tool. It updates the
// invoking agent's position and returns a confirmation string.
func NewMoveToLocationTool() *FunctionTool {
	return NewFunctionTool(
		"move_to_location",
		"Move this agent to the given coordinates in the simulation space.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"x": map[string]any{"type": "number", "description": "Target x coordinate"},
				"y": map[string]any{"type": "number", "description": "Target y coordinate"},
			},
			"required": []string{"x", "y"},
		},
		func(toolCtx *Context, args map[string]any) (string, error) {
			x, okX := toFloat(args["x"])
			y, okY := toFloat(args["y"])
			if !okX || !okY {
				return "", &core.ArgumentError{Tool: "move_to_location", Message: "coordinates must be numbers"}
			}
			toolCtx.Agent.SetPosition(core.Position{X: x, Y: y})
			return fmt.Sprintf("This agent moved to (%g, %g).", x, y), nil
		},
	)
}

// NewSpeakToTool returns the built-in message-broadcast tool. It delivers the
// message into each recipient's memory and the sender's own, tagged
// kind=Message with sender/recipient metadata, then records one message
// event when a recorder is present.
func NewSpeakToTool() *FunctionTool {
	return NewFunctionTool(
		"speak_to",
		"Send a message to the listed recipient agents and commit it to their memory.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"recipients": map[string]any{
					"type":        "array",
					"description": "IDs of the agents receiving the message",
				},
				"message": map[string]any{"type": "string", "description": "The message to send"},
			},
			"required": []string{"recipients", "message"},
		},
		func(toolCtx *Context, args map[string]any) (string, error) {
			message, _ := args["message"].(string)
			recipientIDs, err := toStringSlice(args["recipients"])
			if err != nil {
				return "", &core.ArgumentError{Tool: "speak_to", Field: "recipients", Message: err.Error()}
			}

			recipients := make([]core.AgentHandle, 0, len(recipientIDs))
			for _, id := range recipientIDs {
				handle, ok := findAgent(toolCtx.Env, id)
				if !ok {
					return "", &core.ArgumentError{Tool: "speak_to", Field: "recipients",
						Message: fmt.Sprintf("no agent with id %q", id)}
				}
				recipients = append(recipients, handle)
			}

			sender := toolCtx.Agent
			step := toolCtx.Env.CurrentStep()
			metadata := map[string]any{
				"sender":     sender.ID(),
				"recipients": recipientIDs,
			}
			for _, target := range append(recipients, sender) {
				err := target.Memory().Add(toolCtx.Context, core.KindMessage,
					map[string]any{"message": message}, step, metadata)
				if err != nil {
					return "", err
				}
			}

			if toolCtx.Recorder != nil {
				toolCtx.Recorder.RecordEvent("message",
					map[string]any{"message": message}, sender.ID(), recipientIDs...)
			}

			return fmt.Sprintf("%s %s → [%s] : %s",
				sender.Class(), sender.ID(), strings.Join(recipientIDs, ", "), message), nil
		},
	)
}

func findAgent(env core.Environment, id string) (core.AgentHandle, bool) {
	for _, a := range env.Agents() {
		if a.ID() == id {
			return a, true
		}
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func toStringSlice(v any) ([]string, error) {
	switch s := v.(type) {
	case []string:
		return s, nil
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			str, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("recipient ids must be strings")
			}
			out = append(out, str)
		}
		return out, nil
	}
	return nil, fmt.Errorf("recipients must be an array of agent ids")
}
