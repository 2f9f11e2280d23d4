package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/strand"
	"github.com/spetersoncode/strand/client"
)

func snapshotEnvelope(messages string) string {
	return fmt.Sprintf(`data: {"type":"MESSAGES_SNAPSHOT","messages":[%s]}`, messages)
}

func threadFixture(backend *fakeBackend, threadID, userText string) {
	if backend.snapshots == nil {
		backend.snapshots = map[string]string{}
	}
	if backend.displayLogs == nil {
		backend.displayLogs = map[string][]client.DisplayRecord{}
	}
	backend.snapshots[threadID] = snapshotEnvelope(fmt.Sprintf(
		`{"id":"m-1","role":"user","content":%q},{"id":"m-2","role":"assistant","content":"reply"}`, userText))
	backend.displayLogs[threadID] = []client.DisplayRecord{
		{ID: "m-1", Role: "user", Content: []byte(fmt.Sprintf("%q", userText))},
		{ID: "m-2", Role: "assistant", Content: []byte(`"reply"`)},
	}
}

func TestOpen_Success(t *testing.T) {
	backend := &fakeBackend{
		snapshots: map[string]string{
			"conv-1": snapshotEnvelope(
				`{"id":"m-1","role":"user","content":"hi"},` +
					`{"id":"m-2","role":"assistant","content":"","toolCalls":[{"id":"c-1","type":"function","function":{"name":"secret_plan","arguments":"{}"}}]},` +
					`{"id":"m-3","role":"tool","content":"ok","toolCallId":"c-1"},` +
					`{"id":"m-4","role":"assistant","content":"here you go"}`),
		},
		displayLogs: map[string][]client.DisplayRecord{
			"conv-1": {
				{ID: "m-1", Role: "user", Content: []byte(`"hi"`)},
				{ID: "e-1", Role: "event", ToolCallID: "c-1", Content: []byte(`{"type":"CUSTOM","name":"secret_plan","value":{"steps":["a","b"]}}`)},
				{ID: "m-3", Role: "tool", Content: []byte(`"ok"`), ToolCallID: "c-1"},
				{ID: "m-4", Role: "assistant", Content: []byte(`"here you go"`)},
			},
		},
	}
	rec := &recorder{}
	c := NewController(backend, rec)

	require.NoError(t, c.Open(context.Background(), "conv-1"))

	assert.Equal(t, "conv-1", c.ThreadID())
	assert.Equal(t, StateIdle, c.State())

	// Canonical log keeps tool bookkeeping
	msgs := c.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, strand.RoleTool, msgs[2].Role)
	assert.Equal(t, "c-1", msgs[2].ToolCallID)
	require.Len(t, msgs[1].ToolCalls, 1)

	// Display items: tool record filtered, event record projected
	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, strand.DisplayUser, items[0].Role)
	assert.Equal(t, strand.DisplayEvent, items[1].Role)
	assert.Equal(t, []string{"a", "b"}, items[1].Event.Steps)
	assert.Equal(t, strand.DisplayAssistant, items[2].Role)

	// The transcript was re-projected from scratch
	require.NotEmpty(t, rec.renders)
	assert.Len(t, rec.last(), 3)
}

func TestOpen_DisplayFetchFails(t *testing.T) {
	backend := &fakeBackend{
		snapshots:   map[string]string{"conv-1": snapshotEnvelope(`{"id":"m-1","role":"user","content":"hi"}`)},
		displayErrs: map[string]error{"conv-1": fmt.Errorf("display log unavailable")},
	}
	c := NewController(backend, &recorder{})
	before := c.ThreadID()

	err := c.Open(context.Background(), "conv-1")
	require.Error(t, err)

	var rehydration *strand.RehydrationError
	require.ErrorAs(t, err, &rehydration)

	// No partial replace: the previous session is untouched
	assert.Equal(t, before, c.ThreadID())
	assert.Empty(t, c.Messages())
}

func TestOpen_SnapshotFetchFails(t *testing.T) {
	backend := &fakeBackend{
		snapshotErrs: map[string]error{"conv-1": &strand.NetworkError{Op: "POST /rehydrate/", Cause: fmt.Errorf("timeout")}},
		displayLogs:  map[string][]client.DisplayRecord{"conv-1": {}},
	}
	c := NewController(backend, &recorder{})
	before := c.ThreadID()

	err := c.Open(context.Background(), "conv-1")

	var rehydration *strand.RehydrationError
	require.ErrorAs(t, err, &rehydration)
	assert.Equal(t, before, c.ThreadID())
}

func TestOpen_UnexpectedEventShape(t *testing.T) {
	backend := &fakeBackend{
		snapshots:   map[string]string{"conv-1": `data: {"type":"CUSTOM","name":"secret_plan","value":[]}`},
		displayLogs: map[string][]client.DisplayRecord{"conv-1": {}},
	}
	c := NewController(backend, &recorder{})

	err := c.Open(context.Background(), "conv-1")
	require.Error(t, err)

	var shape *strand.UnexpectedEventShapeError
	require.ErrorAs(t, err, &shape)
	assert.Equal(t, "custom", shape.Got)
}

func TestOpen_MalformedEnvelope(t *testing.T) {
	backend := &fakeBackend{
		snapshots:   map[string]string{"conv-1": `data: {"type":`},
		displayLogs: map[string][]client.DisplayRecord{"conv-1": {}},
	}
	c := NewController(backend, &recorder{})
	before := c.ThreadID()

	err := c.Open(context.Background(), "conv-1")

	var rehydration *strand.RehydrationError
	require.ErrorAs(t, err, &rehydration)
	assert.Equal(t, before, c.ThreadID())
}

func TestOpen_Idempotent(t *testing.T) {
	backend := &fakeBackend{}
	threadFixture(backend, "conv-a", "first thread")
	threadFixture(backend, "conv-b", "second thread")

	c := NewController(backend, &recorder{})

	require.NoError(t, c.Open(context.Background(), "conv-a"))
	firstMsgs := c.Messages()
	firstItems := c.Items()

	require.NoError(t, c.Open(context.Background(), "conv-b"))
	assert.NotEqual(t, firstMsgs, c.Messages())

	// Rehydrating A again yields state identical to the first time
	require.NoError(t, c.Open(context.Background(), "conv-a"))
	assert.Equal(t, firstMsgs, c.Messages())
	assert.Equal(t, firstItems, c.Items())
}

func TestProjectRecords(t *testing.T) {
	records := []client.DisplayRecord{
		{Role: "user", Content: []byte(`"question"`)},
		{Role: "assistant", Content: []byte(`"answer"`)},
		{Role: "tool", Content: []byte(`"tool output"`)},
		{Role: "event", Content: []byte(`{"type":"CUSTOM","name":"secret_plan","value":["s1"]}`)},
		{Role: "event", Content: []byte(`{"type":"STATE_SNAPSHOT","snapshot":{}}`)},
		{Role: "event", Content: []byte(`{"type":"CUSTOM","name":"other_signal","value":["x"]}`)},
		{Role: "user", Content: []byte(`{"unexpected":"object"}`)},
	}

	items := ProjectRecords(records)
	require.Len(t, items, 3)

	assert.Equal(t, strand.DisplayUser, items[0].Role)
	assert.Equal(t, "question", items[0].Content)
	assert.Equal(t, strand.DisplayAssistant, items[1].Role)

	require.NotNil(t, items[2].Event)
	assert.Equal(t, strand.PlanEventName, items[2].Event.Name)
	assert.Equal(t, []string{"s1"}, items[2].Event.Steps)
}

func TestProjectCustom(t *testing.T) {
	t.Run("recognized plan", func(t *testing.T) {
		item, ok := projectCustom(strand.PlanEventName, json.RawMessage(`["a"]`))
		require.True(t, ok)
		assert.Equal(t, strand.DisplayEvent, item.Role)
	})

	t.Run("unrecognized name", func(t *testing.T) {
		_, ok := projectCustom("telemetry", json.RawMessage(`["a"]`))
		assert.False(t, ok)
	})

	t.Run("plan with bad value shape", func(t *testing.T) {
		_, ok := projectCustom(strand.PlanEventName, json.RawMessage(`{"no":"steps"}`))
		assert.False(t, ok)
	})
}
