// Package recording implements the optional event-recording sink: an
// append-only log of simulation events and agent state snapshots shared by
// all agents' loops.
//
// Persistence is explicit: JSONLRecorder writes on every append and exposes
// Flush/Close for the caller to invoke at simulation end. There is no
// process-exit hook; the owner of the recorder owns its lifecycle.
package recording

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one recorded simulation event.
type Event struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Timestamp    time.Time      `json:"timestamp"`
	AgentID      string         `json:"agent_id"`
	Content      map[string]any `json:"content"`
	RecipientIDs []string       `json:"recipient_ids,omitempty"`
}

// StateSnapshot is one recorded agent state.
type StateSnapshot struct {
	Timestamp time.Time      `json:"timestamp"`
	AgentID   string         `json:"agent_id"`
	State     map[string]any `json:"state"`
}

// InMemoryRecorder is a volatile Recorder for tests and demos. Appends from
// concurrent agent loops are serialized by a mutex.
type InMemoryRecorder struct {
	mu     sync.Mutex
	events []Event
	states []StateSnapshot
}

// NewInMemoryRecorder constructs an empty InMemoryRecorder.
func NewInMemoryRecorder() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// RecordEvent implements core.Recorder.
func (r *InMemoryRecorder) RecordEvent(eventType string, content map[string]any, agentID string, recipientIDs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		Timestamp:    time.Now().UTC(),
		AgentID:      agentID,
		Content:      content,
		RecipientIDs: recipientIDs,
	})
}

// TrackAgentState implements core.Recorder.
func (r *InMemoryRecorder) TrackAgentState(agentID string, currentState map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, StateSnapshot{
		Timestamp: time.Now().UTC(),
		AgentID:   agentID,
		State:     currentState,
	})
}

// Events returns a copy of all recorded events in append order.
func (r *InMemoryRecorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// States returns a copy of all recorded state snapshots in append order.
func (r *InMemoryRecorder) States() []StateSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]StateSnapshot, len(r.states))
	copy(out, r.states)
	return out
}

// JSONLRecorder appends events and state snapshots as JSON lines to a file.
// A mutex serializes concurrent appends so lines never interleave. Encoding
// failures are remembered and reported by Flush/Close rather than dropped
// silently.
type JSONLRecorder struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
	err  error
}

// NewJSONLRecorder creates (or truncates) the log file at path.
func NewJSONLRecorder(path string) (*JSONLRecorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create recording file: %w", err)
	}
	return &JSONLRecorder{file: f, enc: json.NewEncoder(f)}, nil
}

type jsonlLine struct {
	Kind  string         `json:"kind"` // "event" or "state"
	Event *Event         `json:"event,omitempty"`
	State *StateSnapshot `json:"state,omitempty"`
}

// RecordEvent implements core.Recorder.
func (r *JSONLRecorder) RecordEvent(eventType string, content map[string]any, agentID string, recipientIDs ...string) {
	ev := Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		Timestamp:    time.Now().UTC(),
		AgentID:      agentID,
		Content:      content,
		RecipientIDs: recipientIDs,
	}
	r.appendLine(jsonlLine{Kind: "event", Event: &ev})
}

// TrackAgentState implements core.Recorder.
func (r *JSONLRecorder) TrackAgentState(agentID string, currentState map[string]any) {
	st := StateSnapshot{
		Timestamp: time.Now().UTC(),
		AgentID:   agentID,
		State:     currentState,
	}
	r.appendLine(jsonlLine{Kind: "state", State: &st})
}

func (r *JSONLRecorder) appendLine(line jsonlLine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}
	if err := r.enc.Encode(line); err != nil {
		r.err = err
	}
}

// Flush syncs the underlying file and returns the first append error, if any.
func (r *JSONLRecorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	return r.file.Sync()
}

// Close flushes and closes the log file. The recorder must not be used
// afterwards.
func (r *JSONLRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.file.Close(); err != nil {
		return err
	}
	return r.err
}
