package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// MemoryKind categorizes a memory entry by the part of the cognitive loop
// that produced it.
type MemoryKind string

const (
	// KindObservation marks a per-step environment snapshot.
	KindObservation MemoryKind = "Observation"
	// KindMessage marks an agent-to-agent message delivery.
	KindMessage MemoryKind = "Message"
	// KindToolCallAction marks the confirmation of an executed tool call.
	KindToolCallAction MemoryKind = "Tool_Call_Action"
	// KindPlan marks the raw parsed output of a reasoning invocation.
	KindPlan MemoryKind = "Plan"
	// KindConsolidated marks a long-term entry produced by consolidation.
	KindConsolidated MemoryKind = "Consolidated"
)

// MemoryEntry is a single immutable record in an agent's memory.
//
// Content is a structured payload; by convention plain text lives under the
// "text" key, messages under "message", plans under "reasoning"/"action".
// Importance is nil unless the entry passed through an importance grader.
type MemoryEntry struct {
	Kind       MemoryKind     `json:"kind"`
	Content    map[string]any `json:"content"`
	Step       int            `json:"step"`
	Importance *int           `json:"importance,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// String renders the entry in the canonical single-line prompt form.
// Content keys are emitted in sorted order so renderings are deterministic.
func (e MemoryEntry) String() string {
	keys := make([]string, 0, len(e.Content))
	for k := range e.Content {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "[step %d] %s:", e.Step, e.Kind)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Content[k])
	}
	if e.Importance != nil {
		fmt.Fprintf(&b, " (importance: %d)", *e.Importance)
	}
	return b.String()
}

// Message returns the "message" content field if present. Used by the
// reasoning layer to surface the most recent communication.
func (e MemoryEntry) Message() (string, bool) {
	v, ok := e.Content["message"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Memory is the per-agent store consumed by the reasoning engine. Each agent
// exclusively owns one Memory instance; implementations are still safe for
// concurrent use because tools may write into another agent's memory when
// delivering messages.
type Memory interface {
	// Add appends an entry. Implementations may evict or consolidate older
	// entries to honor their capacity bounds; they never fail on capacity.
	// ctx covers any external call an implementation makes before storing
	// (importance grading); when such a call fails or is cancelled the store
	// is left unchanged.
	Add(ctx context.Context, kind MemoryKind, content map[string]any, step int, metadata map[string]any) error

	// FormatShortTerm renders the current short-term entries in chronological
	// order for prompt inclusion.
	FormatShortTerm() string

	// FormatLongTerm renders the consolidated long-term log for prompt
	// inclusion.
	FormatLongTerm() string

	// LastEntry returns the most recently added short-term entry, if any.
	LastEntry() (MemoryEntry, bool)
}
