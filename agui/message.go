package agui

import (
	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/strand"
)

// Role constants matching the AG-UI protocol.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// ToMessages converts AG-UI wire messages to canonical messages.
func ToMessages(msgs []events.Message) []strand.Message {
	result := make([]strand.Message, 0, len(msgs))
	for _, msg := range msgs {
		result = append(result, ToMessage(msg))
	}
	return result
}

// ToMessage converts a single AG-UI wire message to a canonical message.
func ToMessage(msg events.Message) strand.Message {
	m := strand.Message{
		ID:   msg.ID,
		Role: toRole(msg.Role),
	}

	if msg.Content != nil {
		m.Content = *msg.Content
	}

	// Tool calls (assistant messages)
	if len(msg.ToolCalls) > 0 {
		m.ToolCalls = make([]strand.ToolCall, len(msg.ToolCalls))
		for i, tc := range msg.ToolCalls {
			m.ToolCalls[i] = strand.ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			}
		}
	}

	// Tool call correlation (tool result messages)
	if msg.ToolCallID != nil {
		m.ToolCallID = *msg.ToolCallID
	}

	return m
}

// FromMessages converts canonical messages to AG-UI wire messages.
func FromMessages(msgs []strand.Message) []events.Message {
	result := make([]events.Message, 0, len(msgs))
	for _, msg := range msgs {
		result = append(result, FromMessage(msg))
	}
	return result
}

// FromMessage converts a single canonical message to an AG-UI wire
// message. Canonical IDs are preserved so the backend can correlate
// resubmitted history; a missing ID is generated.
func FromMessage(msg strand.Message) events.Message {
	id := msg.ID
	if id == "" {
		id = events.GenerateMessageID()
	}

	m := events.Message{
		ID:   id,
		Role: fromRole(msg.Role),
	}

	if msg.Content != "" {
		m.Content = &msg.Content
	}

	if len(msg.ToolCalls) > 0 {
		m.ToolCalls = make([]events.ToolCall, len(msg.ToolCalls))
		for i, tc := range msg.ToolCalls {
			m.ToolCalls[i] = events.ToolCall{
				ID:   tc.ID,
				Type: "function",
				Function: events.Function{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			}
		}
	}

	if msg.ToolCallID != "" {
		m.ToolCallID = &msg.ToolCallID
	}

	return m
}

// toRole converts an AG-UI role string to a canonical Role.
func toRole(role string) strand.Role {
	switch role {
	case RoleUser:
		return strand.RoleUser
	case RoleAssistant:
		return strand.RoleAssistant
	case RoleSystem:
		return strand.RoleSystem
	case RoleTool:
		return strand.RoleTool
	default:
		return strand.RoleUser
	}
}

// fromRole converts a canonical Role to an AG-UI role string.
func fromRole(role strand.Role) string {
	switch role {
	case strand.RoleUser:
		return RoleUser
	case strand.RoleAssistant:
		return RoleAssistant
	case strand.RoleSystem:
		return RoleSystem
	case strand.RoleTool:
		return RoleTool
	default:
		return RoleUser
	}
}
