package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Interface compliance (compile-time assertions)
var _ Model = (*MockModel)(nil)

func TestResponse_Decode(t *testing.T) {
	type out struct {
		Reasoning string `json:"reasoning"`
	}

	tests := []struct {
		name string
		text string
	}{
		{"plain json", `{"reasoning": "r"}`},
		{"json fence", "```json\n{\"reasoning\": \"r\"}\n```"},
		{"bare fence", "```\n{\"reasoning\": \"r\"}\n```"},
		{"surrounding whitespace", "  {\"reasoning\": \"r\"}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rsp := &Response{Text: tt.text}
			var got out
			assert.NoError(t, rsp.Decode(&got))
			assert.Equal(t, "r", got.Reasoning)
		})
	}
}

func TestResponse_DecodeInvalid(t *testing.T) {
	rsp := &Response{Text: "not json"}
	var got map[string]any
	assert.Error(t, rsp.Decode(&got))
}

func TestMockModel_KeyedResponses(t *testing.T) {
	m := NewMockModel()
	m.AddResponse("react_output", `{"reasoning": "a"}`)
	m.AddResponse("event_grade", `{"grade": 3}`)

	rsp, err := m.Generate(context.Background(), Request{
		ResponseFormat: &ResponseFormat{Name: "event_grade"},
	})
	assert.NoError(t, err)
	assert.Equal(t, `{"grade": 3}`, rsp.Text)

	// A format with no registered response is a hard failure, not a default.
	_, err = m.Generate(context.Background(), Request{
		ResponseFormat: &ResponseFormat{Name: "tool_call"},
	})
	assert.Error(t, err)
}

func TestMockModel_QueueSemantics(t *testing.T) {
	m := NewMockModel()
	m.AddResponse("react_output", "first")
	m.AddResponse("react_output", "second")

	req := Request{ResponseFormat: &ResponseFormat{Name: "react_output"}}
	for _, want := range []string{"first", "second", "second", "second"} {
		rsp, err := m.Generate(context.Background(), req)
		assert.NoError(t, err)
		assert.Equal(t, want, rsp.Text)
	}
}

func TestMockModel_FailWith(t *testing.T) {
	m := NewMockModel()
	m.AddResponse("react_output", "ok")
	m.FailWith(errors.New("provider down"))

	_, err := m.Generate(context.Background(), Request{
		ResponseFormat: &ResponseFormat{Name: "react_output"},
	})
	assert.EqualError(t, err, "provider down")
}

func TestMockModel_ContextCancellation(t *testing.T) {
	m := NewMockModel()
	m.AddResponse("react_output", "ok")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Generate(ctx, Request{ResponseFormat: &ResponseFormat{Name: "react_output"}})
	assert.ErrorIs(t, err, context.Canceled)
	// A cancelled call is not counted as a seen request.
	assert.Empty(t, m.Requests())
}
