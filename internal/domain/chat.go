package domain

// ToolCallRecord is one side-effecting action requested by the assistant.
// Arguments and Result are serialized JSON objects; Result is only present
// on tool_result messages.
type ToolCallRecord struct {
	FunctionName ToolName `json:"functionName"`
	Arguments    string   `json:"arguments"`
	Result       string   `json:"result,omitempty"`
}

// ChatMessage is one entry in a conversation timeline (user or assistant).
// Messages are append-only: they are never mutated or reordered after
// creation, and per-session order is insertion order.
type ChatMessage struct {
	ID        MessageID
	UserID    UserID
	SessionID SessionID // empty for messages that predate session scoping
	Text      string
	IsUser    bool
	CreatedAt Timestamp

	Type      MessageType
	ToolCalls []ToolCallRecord
	Context   string // the user text that triggered this message, if any
}

// ChatSession groups the messages of one conversation.
type ChatSession struct {
	ID        SessionID
	UserID    UserID
	Title     string // at most 80 chars
	CreatedAt Timestamp
	UpdatedAt Timestamp

	LastMessageAt      *Timestamp
	LastMessagePreview string // at most 120 chars, empty until the first turn completes
}
