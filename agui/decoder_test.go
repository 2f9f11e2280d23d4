package agui

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/strand"
)

func TestDecode_TextDelta(t *testing.T) {
	ev, err := Decode(`data: {"type":"TEXT_MESSAGE_CONTENT","messageId":"msg-1","delta":"Hello, "}`)
	require.NoError(t, err)

	assert.Equal(t, TypeTextDelta, ev.Type)
	assert.Equal(t, "msg-1", ev.MessageID)
	assert.Equal(t, "Hello, ", ev.Delta)
}

func TestDecode_Snapshot(t *testing.T) {
	raw := `data: {"type":"MESSAGES_SNAPSHOT","messages":[` +
		`{"id":"msg-1","role":"user","content":"hi"},` +
		`{"id":"msg-2","role":"assistant","content":"hello"}]}`

	ev, err := Decode(raw)
	require.NoError(t, err)

	require.Equal(t, TypeSnapshot, ev.Type)
	require.Len(t, ev.Messages, 2)
	assert.Equal(t, strand.RoleUser, ev.Messages[0].Role)
	assert.Equal(t, "hi", ev.Messages[0].Content)
	assert.Equal(t, strand.RoleAssistant, ev.Messages[1].Role)
	assert.Equal(t, "msg-2", ev.Messages[1].ID)
}

func TestDecode_Custom(t *testing.T) {
	ev, err := Decode(`data: {"type":"CUSTOM","name":"secret_plan","value":{"steps":["a","b"]}}`)
	require.NoError(t, err)

	require.Equal(t, TypeCustom, ev.Type)
	assert.Equal(t, "secret_plan", ev.Name)

	steps, ok := strand.DecodePlanValue(ev.Value)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, steps)
}

func TestDecode_RunLifecycle(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Type
	}{
		{"run started", `data: {"type":"RUN_STARTED","threadId":"t-1","runId":"r-1"}`, TypeRunStarted},
		{"run finished", `data: {"type":"RUN_FINISHED","threadId":"t-1","runId":"r-1"}`, TypeRunFinished},
		{"text start", `data: {"type":"TEXT_MESSAGE_START","messageId":"msg-1","role":"assistant"}`, TypeTextStart},
		{"text end", `data: {"type":"TEXT_MESSAGE_END","messageId":"msg-1"}`, TypeTextEnd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Decode(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev.Type)
		})
	}
}

func TestDecode_RunError(t *testing.T) {
	ev, err := Decode(`data: {"type":"RUN_ERROR","message":"model overloaded"}`)
	require.NoError(t, err)

	assert.Equal(t, TypeRunError, ev.Type)
	assert.Equal(t, "model overloaded", ev.ErrorMessage)
}

func TestDecode_UnrecognizedTag(t *testing.T) {
	// Well-formed but unhandled events pass through as TypeUnknown
	ev, err := Decode(`data: {"type":"STATE_SNAPSHOT","snapshot":{"does_the_user_know":true}}`)
	require.NoError(t, err)

	assert.Equal(t, TypeUnknown, ev.Type)
	assert.Equal(t, "STATE_SNAPSHOT", ev.RawType)
}

func TestDecode_WithoutFraming(t *testing.T) {
	// The rehydration envelope arrives unframed in some deployments;
	// the decoder accepts both.
	ev, err := Decode(`{"type":"TEXT_MESSAGE_CONTENT","messageId":"msg-1","delta":"x"}`)
	require.NoError(t, err)
	assert.Equal(t, TypeTextDelta, ev.Type)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"truncated json", `data: {"type":"CUSTOM",`},
		{"missing type", `data: {"delta":"hi"}`},
		{"empty payload", `data:`},
		{"blank line", ``},
		{"not an object", `data: "just a string"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			require.Error(t, err)

			var malformed *strand.MalformedEventError
			assert.ErrorAs(t, err, &malformed)
		})
	}
}

func TestDecode_CustomValueRoundTrip(t *testing.T) {
	// The value is opaque to the decoder beyond well-formedness
	ev, err := Decode(`data: {"type":"CUSTOM","name":"telemetry","value":{"nested":{"n":1}}}`)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(ev.Value, &got))
	assert.Contains(t, got, "nested")
}
