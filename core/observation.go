package core

import (
	"fmt"
	"sort"
	"strings"
)

// Observation is the per-step snapshot of an agent's own state and the
// visible state of its neighbors. It is a value object produced once per
// agent per step and consumed by the reasoning engine.
type Observation struct {
	Step      int                       `json:"step"`
	SelfState map[string]any            `json:"self_state"`
	LocalState map[string]map[string]any `json:"local_state"`
}

// String renders the observation for prompt inclusion. Maps are emitted with
// sorted keys so the rendering is deterministic.
func (o Observation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "step: %d\n", o.Step)
	b.WriteString("self_state:\n")
	writeSortedMap(&b, o.SelfState, "  ")
	b.WriteString("local_state:\n")
	if len(o.LocalState) == 0 {
		b.WriteString("  (no visible neighbors)\n")
		return b.String()
	}
	names := make([]string, 0, len(o.LocalState))
	for name := range o.LocalState {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  %s:\n", name)
		writeSortedMap(&b, o.LocalState[name], "    ")
	}
	return b.String()
}

func writeSortedMap(b *strings.Builder, m map[string]any, indent string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "%s%s: %v\n", indent, k, m[k])
	}
}
