package core

// Recorder is the optional event-recording sink. It is the one shared mutable
// resource in the design: implementations must tolerate concurrent appends
// from multiple agents' loops without lost updates.
//
// Core code treats a nil Recorder as "recording disabled" and must check for
// presence before calling; absence is never an error.
type Recorder interface {
	// RecordEvent appends one simulation event. recipientIDs is only set for
	// events with an audience (messages).
	RecordEvent(eventType string, content map[string]any, agentID string, recipientIDs ...string)

	// TrackAgentState records an agent's current state snapshot for
	// trajectory reconstruction.
	TrackAgentState(agentID string, currentState map[string]any)
}

// NoOpRecorder is a Recorder that discards everything. It lets callers avoid
// nil checks when recording is disabled.
type NoOpRecorder struct{}

// RecordEvent implements Recorder.
func (NoOpRecorder) RecordEvent(string, map[string]any, string, ...string) {}

// TrackAgentState implements Recorder.
func (NoOpRecorder) TrackAgentState(string, map[string]any) {}
