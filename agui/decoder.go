package agui

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/strand"
)

// Type identifies the kind of decoded protocol event.
type Type string

const (
	// TypeSnapshot carries a full replacement of the canonical message log.
	TypeSnapshot Type = "snapshot"

	// TypeTextStart opens a streaming assistant message.
	TypeTextStart Type = "text_start"

	// TypeTextDelta carries an incremental chunk of assistant text.
	TypeTextDelta Type = "text_delta"

	// TypeTextEnd closes a streaming assistant message.
	TypeTextEnd Type = "text_end"

	// TypeCustom carries a named out-of-band signal, e.g. a secret plan.
	TypeCustom Type = "custom"

	// TypeRunStarted marks the beginning of one request cycle.
	TypeRunStarted Type = "run_started"

	// TypeRunFinished marks the successful end of one request cycle.
	TypeRunFinished Type = "run_finished"

	// TypeRunError marks a server-side failure of the request cycle.
	TypeRunError Type = "run_error"

	// TypeUnknown is any well-formed event the client does not act on.
	// Kept for forward compatibility; callers ignore it.
	TypeUnknown Type = "unknown"
)

// Event is the decoded form of one protocol envelope. Exactly the
// fields for the decoded Type are populated.
type Event struct {
	Type Type

	// Messages is the replacement canonical log for TypeSnapshot.
	Messages []strand.Message

	// MessageID correlates text lifecycle events to one assistant message.
	MessageID string

	// Delta is the incremental text for TypeTextDelta.
	Delta string

	// Name and Value carry the payload for TypeCustom. Value is left
	// opaque beyond being well-formed JSON.
	Name  string
	Value json.RawMessage

	// ErrorMessage is the server's failure description for TypeRunError.
	ErrorMessage string

	// RawType preserves the wire tag for TypeUnknown events.
	RawType string
}

// framingPrefix is the SSE transport marker preceding each payload line.
const framingPrefix = "data:"

// Decode parses one framed protocol envelope into a typed event.
// The leading `data: ` marker, if present, is stripped before structural
// parsing. Returns *strand.MalformedEventError when the remainder is not
// a well-formed event payload. Decode has no side effects.
func Decode(raw string) (Event, error) {
	payload := strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(payload, framingPrefix); ok {
		payload = strings.TrimSpace(rest)
	}
	if payload == "" {
		return Event{}, &strand.MalformedEventError{Raw: raw, Cause: errors.New("empty payload")}
	}

	// Probe the tag before handing off to the SDK so that well-formed
	// events with unrecognized tags pass through as TypeUnknown instead
	// of being rejected.
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(payload), &probe); err != nil {
		return Event{}, &strand.MalformedEventError{Raw: raw, Cause: err}
	}
	if probe.Type == "" {
		return Event{}, &strand.MalformedEventError{Raw: raw, Cause: errors.New("missing event type")}
	}

	switch events.EventType(probe.Type) {
	case events.EventTypeMessagesSnapshot,
		events.EventTypeTextMessageStart,
		events.EventTypeTextMessageContent,
		events.EventTypeTextMessageEnd,
		events.EventTypeCustom,
		events.EventTypeRunStarted,
		events.EventTypeRunFinished,
		events.EventTypeRunError:
	default:
		return Event{Type: TypeUnknown, RawType: probe.Type}, nil
	}

	parsed, err := events.EventFromJSON([]byte(payload))
	if err != nil {
		return Event{}, &strand.MalformedEventError{Raw: raw, Cause: err}
	}

	switch ev := parsed.(type) {
	case *events.MessagesSnapshotEvent:
		return Event{Type: TypeSnapshot, Messages: ToMessages(ev.Messages)}, nil

	case *events.TextMessageStartEvent:
		return Event{Type: TypeTextStart, MessageID: ev.MessageID}, nil

	case *events.TextMessageContentEvent:
		return Event{Type: TypeTextDelta, MessageID: ev.MessageID, Delta: ev.Delta}, nil

	case *events.TextMessageEndEvent:
		return Event{Type: TypeTextEnd, MessageID: ev.MessageID}, nil

	case *events.CustomEvent:
		value, err := json.Marshal(ev.Value)
		if err != nil {
			return Event{}, &strand.MalformedEventError{Raw: raw, Cause: err}
		}
		return Event{Type: TypeCustom, Name: ev.Name, Value: value}, nil

	case *events.RunStartedEvent:
		return Event{Type: TypeRunStarted}, nil

	case *events.RunFinishedEvent:
		return Event{Type: TypeRunFinished}, nil

	case *events.RunErrorEvent:
		return Event{Type: TypeRunError, ErrorMessage: ev.Message}, nil

	default:
		return Event{Type: TypeUnknown, RawType: probe.Type}, nil
	}
}
