package strand

import "encoding/json"

// DisplayRole classifies a display item. Unlike canonical roles there is
// no tool role: tool bookkeeping is filtered out of the display log.
type DisplayRole string

const (
	DisplayUser      DisplayRole = "user"
	DisplayAssistant DisplayRole = "assistant"
	DisplayEvent     DisplayRole = "event"
)

// PlanEventName is the one custom event name the client recognizes.
// Any other custom event is silently skipped during projection.
const PlanEventName = "secret_plan"

// DisplayItem is a rendering-oriented record derived from the canonical
// log or from out-of-band custom events. Display items are never
// authoritative: an event item has no corresponding canonical message
// and must not be synthesized into one.
type DisplayItem struct {
	Role    DisplayRole
	Content string
	// Event carries the payload for DisplayEvent items; nil otherwise.
	Event *EventPayload
}

// EventPayload is the structured payload of a custom-signal display item.
type EventPayload struct {
	Name  string
	Steps []string
}

// DecodePlanValue extracts the ordered step strings from a secret_plan
// custom event value. The backend emits the value either as a bare JSON
// array of strings or as an object with a "steps" field; both shapes are
// accepted. Returns false if the value has neither shape.
func DecodePlanValue(raw json.RawMessage) ([]string, bool) {
	var steps []string
	if err := json.Unmarshal(raw, &steps); err == nil {
		return steps, true
	}
	var wrapped struct {
		Steps []string `json:"steps"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Steps != nil {
		return wrapped.Steps, true
	}
	return nil, false
}
