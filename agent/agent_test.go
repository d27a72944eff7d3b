package agent

import (
	"context"
	"testing"

	"github.com/hupe1980/agentsim/core"
	"github.com/hupe1980/agentsim/internal/testutil"
	"github.com/hupe1980/agentsim/memory"
	"github.com/hupe1980/agentsim/model"
	"github.com/hupe1980/agentsim/recording"
	"github.com/hupe1980/agentsim/tool"
	"github.com/stretchr/testify/assert"
)

// Interface compliance (compile-time assertions)
var _ core.AgentHandle = (*Agent)(nil)

func newRegistry() *tool.Registry {
	reg := tool.NewRegistry()
	reg.Register(tool.NewMoveToLocationTool())
	reg.Register(tool.NewSpeakToTool())
	return reg
}

func spawn(t *testing.T, env *testutil.FakeEnv, mock *model.MockModel, optFns ...func(o *Options)) *Agent {
	t.Helper()
	a, err := New(env, mock, newRegistry(), optFns...)
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	env.Add(a)
	return a
}

func TestNew_RequiresEnvironment(t *testing.T) {
	_, err := New(nil, model.NewMockModel(), newRegistry())
	assert.Error(t, err)

	var cfgErr *core.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestGenerateObservation_VisionAll(t *testing.T) {
	env := &testutil.FakeEnv{Step: 1}
	mock := model.NewMockModel()

	a1 := spawn(t, env, mock, func(o *Options) { o.ID = "a1"; o.Vision = VisionAll })
	spawn(t, env, mock, func(o *Options) { o.ID = "a2" })
	spawn(t, env, mock, func(o *Options) { o.ID = "a3" })

	obs, err := a1.GenerateObservation(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, obs.Step)
	// A 3-agent world yields 2 neighbors for any one agent under VisionAll.
	assert.Len(t, obs.LocalState, 2)
	assert.Equal(t, "a1", obs.SelfState["agent_unique_id"])
}

func TestGenerateObservation_VisionZero(t *testing.T) {
	env := &testutil.FakeEnv{Step: 1}
	mock := model.NewMockModel()

	a1 := spawn(t, env, mock, func(o *Options) { o.ID = "a1" }) // vision unset
	spawn(t, env, mock, func(o *Options) { o.ID = "a2" })
	spawn(t, env, mock, func(o *Options) { o.ID = "a3" })

	obs, err := a1.GenerateObservation(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, obs.LocalState, "vision 0 observes no neighbors regardless of population")
}

func TestGenerateObservation_VisionRadius(t *testing.T) {
	env := &testutil.FakeEnv{Step: 1}
	mock := model.NewMockModel()

	a1 := spawn(t, env, mock, func(o *Options) { o.ID = "a1"; o.Vision = 2.5 })
	a2 := spawn(t, env, mock, func(o *Options) { o.ID = "a2" })

	var gotRadius float64
	env.NeighborsFn = func(_ core.AgentHandle, radius float64) []core.AgentHandle {
		gotRadius = radius
		return []core.AgentHandle{a2}
	}

	obs, err := a1.GenerateObservation(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2.5, gotRadius, "positive vision bounds the neighbor query")
	assert.Len(t, obs.LocalState, 1)
	assert.Contains(t, obs.LocalState, "LLM agent a2")
}

func TestGenerateObservation_WritesMemoryAndRecords(t *testing.T) {
	env := &testutil.FakeEnv{Step: 4}
	mock := model.NewMockModel()
	recorder := recording.NewInMemoryRecorder()

	a1 := spawn(t, env, mock, func(o *Options) {
		o.ID = "a1"
		o.Recorder = recorder
		o.InternalState = []string{"hungry"}
	})

	_, err := a1.GenerateObservation(context.Background())
	assert.NoError(t, err)

	entry, ok := a1.Memory().LastEntry()
	assert.True(t, ok)
	assert.Equal(t, core.KindObservation, entry.Kind)
	assert.Equal(t, 4, entry.Step)

	events := recorder.Events()
	assert.Len(t, events, 1)
	assert.Equal(t, "observation", events[0].Type)

	states := recorder.States()
	assert.Len(t, states, 1)
	assert.Equal(t, "a1", states[0].AgentID)
	assert.Equal(t, []string{"hungry"}, states[0].State["internal_state"])
}

func TestStep_SequencesMemoryWrites(t *testing.T) {
	env := &testutil.FakeEnv{Step: 2}
	mock := model.NewMockModel()
	mock.AddResponse("react_output",
		`{"reasoning": "move on", "action": "{\"tool\": \"move_to_location\", \"arguments\": {\"x\": 1, \"y\": 1}}"}`)

	a1 := spawn(t, env, mock, func(o *Options) { o.ID = "a1" })

	plan, err := a1.Step(context.Background(), "What do you do?")
	assert.NoError(t, err)
	assert.Equal(t, "This agent moved to (1, 1).", plan.Result)

	// Observation → plan → tool-call-action, strictly in order.
	entries := a1.Memory().(*memory.Store).ShortTermEntries()
	assert.Len(t, entries, 3)
	assert.Equal(t, core.KindObservation, entries[0].Kind)
	assert.Equal(t, core.KindPlan, entries[1].Kind)
	assert.Equal(t, core.KindToolCallAction, entries[2].Kind)
	assert.Equal(t, "This agent moved to (1, 1).", entries[2].Content["result"])
}

func TestStep_DispatchFailureIsNotFatal(t *testing.T) {
	env := &testutil.FakeEnv{Step: 2}
	mock := model.NewMockModel()
	mock.AddResponse("react_output",
		`{"reasoning": "r", "action": "{\"tool\": \"teleport\", \"arguments\": {}}"}`)

	a1 := spawn(t, env, mock, func(o *Options) { o.ID = "a1" })

	plan, err := a1.Step(context.Background(), "What do you do?")
	assert.Error(t, err)

	var unknownErr *core.UnknownToolError
	assert.ErrorAs(t, err, &unknownErr)
	// The step still applied the (empty-result) plan.
	assert.Equal(t, "r", plan.Reasoning)
	entries := a1.Memory().(*memory.Store).ShortTermEntries()
	assert.Equal(t, core.KindToolCallAction, entries[len(entries)-1].Kind)
}

func TestStep_GenerationFailureAborts(t *testing.T) {
	env := &testutil.FakeEnv{Step: 2}
	mock := model.NewMockModel() // no response registered -> Generate fails

	a1 := spawn(t, env, mock, func(o *Options) { o.ID = "a1" })

	_, err := a1.Step(context.Background(), "What do you do?")
	assert.Error(t, err)

	var genErr *core.GenerationError
	assert.ErrorAs(t, err, &genErr)
	// Only the observation entry exists; no plan, no action.
	entries := a1.Memory().(*memory.Store).ShortTermEntries()
	assert.Len(t, entries, 1)
	assert.Equal(t, core.KindObservation, entries[0].Kind)
}

func TestSendMessage(t *testing.T) {
	env := &testutil.FakeEnv{Step: 5}
	mock := model.NewMockModel()
	recorder := recording.NewInMemoryRecorder()

	sender := spawn(t, env, mock, func(o *Options) { o.ID = "s"; o.Recorder = recorder })
	alice := spawn(t, env, mock, func(o *Options) { o.ID = "alice" })

	result, err := sender.SendMessage(context.Background(), "follow me", []core.AgentHandle{alice})
	assert.NoError(t, err)
	assert.Contains(t, result, "follow me")

	for _, a := range []*Agent{sender, alice} {
		entry, ok := a.Memory().LastEntry()
		assert.True(t, ok)
		assert.Equal(t, core.KindMessage, entry.Kind)
		assert.Equal(t, "follow me", entry.Content["message"])
		assert.Equal(t, "s", entry.Metadata["sender"])
	}

	events := recorder.Events()
	assert.Len(t, events, 1)
	assert.Equal(t, "message", events[0].Type)
	assert.Equal(t, []string{"alice"}, events[0].RecipientIDs)
}

func TestAgent_EpisodicMemoryIntegration(t *testing.T) {
	env := &testutil.FakeEnv{Step: 1}
	mock := model.NewMockModel()
	mock.AddResponse("event_grade", `{"grade": 3}`)

	episodic, err := memory.NewEpisodic(mock)
	assert.NoError(t, err)

	a1 := spawn(t, env, mock, func(o *Options) { o.ID = "a1"; o.Memory = episodic })

	_, err = a1.GenerateObservation(context.Background())
	assert.NoError(t, err)

	entry, ok := a1.Memory().LastEntry()
	assert.True(t, ok)
	if assert.NotNil(t, entry.Importance) {
		assert.Equal(t, 3, *entry.Importance)
	}
}
