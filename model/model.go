// Package model defines the external generation service contract consumed by
// the memory grader, the reasoning engine and the intent resolver, plus a
// deterministic MockModel for tests. Provider adapters live in the openai and
// anthropic subpackages.
package model

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// ToolChoice controls how tool definitions advertised in a request may be
// used by the provider.
type ToolChoice string

const (
	// ToolChoiceNone advertises tools for context only; the model must not
	// emit provider-native tool calls. The ReAct protocol uses this: actions
	// are described in text and resolved by the dispatcher afterwards.
	ToolChoiceNone ToolChoice = "none"
	// ToolChoiceAuto lets the provider decide whether to call a tool.
	ToolChoiceAuto ToolChoice = "auto"
)

// FunctionDefinition describes an individual function (tool) exposed to the
// model. Parameters is a JSON Schema object (minimal subset expected).
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// ResponseFormat requests a structured completion conforming to a named JSON
// schema. Providers that support native structured output enforce it; others
// receive an equivalent prompt instruction.
type ResponseFormat struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
}

// Request captures one normalized generation call.
type Request struct {
	System         string           `json:"system"`
	Prompt         string           `json:"prompt"`
	Tools          []ToolDefinition `json:"tools,omitempty"`
	ToolChoice     ToolChoice       `json:"tool_choice,omitempty"`
	ResponseFormat *ResponseFormat  `json:"response_format,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a completed generation. When the request carried a
// ResponseFormat, Text holds the JSON document to be decoded via Decode.
type Response struct {
	Text  string      `json:"text"`
	Usage *TokenUsage `json:"usage,omitempty"`
}

// Decode unmarshals the response text into v, tolerating markdown code
// fences some providers wrap around JSON output.
func (r *Response) Decode(v any) error {
	text := strings.TrimSpace(r.Text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface the cognitive loop requires from a text
// generation provider. Generate blocks until the completion is fully
// available or ctx is cancelled; the concurrent execution mode is built on
// top of it by the reasoning engine, not inside providers.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a deterministic in-memory Model for tests and examples.
//
// Canned responses are keyed by the response-format name of the request
// ("react_output", "event_grade", ...) which is how the cognitive loop's
// call sites are distinguished. Responses registered for the same key are
// consumed in order, repeating the last one once exhausted.
type MockModel struct {
	mu        sync.Mutex
	info      Info
	responses map[string][]string
	requests  []Request
	err       error
}

// NewMockModel constructs an empty MockModel.
func NewMockModel() *MockModel {
	return &MockModel{
		info:      Info{Name: "mock-model", Provider: "mock"},
		responses: make(map[string][]string),
	}
}

// AddResponse registers a canned completion for requests whose response
// format carries the given name. Use "" for free-form requests.
func (m *MockModel) AddResponse(formatName, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[formatName] = append(m.responses[formatName], response)
}

// FailWith makes every subsequent Generate call return err.
func (m *MockModel) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Requests returns a copy of all requests seen so far, for assertions.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	key := ""
	if req.ResponseFormat != nil {
		key = req.ResponseFormat.Name
	}
	queue := m.responses[key]
	if len(queue) == 0 {
		return nil, fmt.Errorf("mock model: no response registered for format %q", key)
	}
	text := queue[0]
	if len(queue) > 1 {
		m.responses[key] = queue[1:]
	}
	return &Response{Text: text}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
