package strand

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Message represents a single canonical message in a conversation.
// The ordered canonical log is the source of truth for resuming agent
// reasoning; it is append-only during a live run and wholesale-replaced
// during rehydration.
type Message struct {
	// ID is a unique identifier for the message.
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content,omitempty"`
	// ToolCalls contains tool invocation requests from an assistant message.
	// Only populated when Role is RoleAssistant and the agent used tools.
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
	// ToolCallID matches the originating ToolCall for tool result messages.
	// Only populated when Role is RoleTool.
	ToolCallID string `json:"toolCallId,omitempty"`
}

// ToolCall represents a tool invocation recorded on an assistant message.
type ToolCall struct {
	// ID is a unique identifier for this tool call (used to match results).
	ID string `json:"id"`
	// Name is the name of the tool that was invoked.
	Name string `json:"name"`
	// Arguments is a JSON string containing the arguments passed.
	Arguments string `json:"arguments"`
}

// GenerateMessageID creates a unique message identifier.
func GenerateMessageID() string {
	return "msg-" + uuid.New().String()
}

// GenerateRunID creates a unique run identifier for one request cycle.
func GenerateRunID() string {
	return "run-" + uuid.New().String()
}

var lastThreadMilli atomic.Int64

// NewThreadID creates a client-side thread identifier for a new
// conversation. The format matches what the backend generates when no
// thread ID is supplied. Calls within the same millisecond are bumped
// forward so IDs stay unique in-process.
func NewThreadID() string {
	now := time.Now().UnixMilli()
	for {
		prev := lastThreadMilli.Load()
		if now <= prev {
			now = prev + 1
		}
		if lastThreadMilli.CompareAndSwap(prev, now) {
			return "conv-" + strconv.FormatInt(now, 10)
		}
	}
}
