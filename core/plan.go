package core

import "fmt"

// Plan is the result of one reasoning invocation: the model's raw reasoning
// and action text plus the confirmation returned by dispatching the action.
// It is produced once per invocation and discarded after application except
// for what is written to memory or recording.
type Plan struct {
	Step      int    `json:"step"`
	Reasoning string `json:"reasoning"`
	Action    string `json:"action"`
	// Result is the human-readable confirmation of the dispatched tool call.
	Result string `json:"result"`
}

// String renders the plan for recording and memory writes.
func (p Plan) String() string {
	return fmt.Sprintf("step %d: action=%q result=%q", p.Step, p.Action, p.Result)
}
