package domain

import "time"

type SessionID string
type UserID string
type MessageID string
type TaskID string
type NoteID string

// MessageType distinguishes plain text from tool traffic in the chat log.
type MessageType string

const (
	MessageTypeText       MessageType = "text"
	MessageTypeToolCall   MessageType = "tool_call"
	MessageTypeToolResult MessageType = "tool_result"
)

// ToolName is the closed set of functions the assistant may request.
type ToolName string

const (
	ToolAddTask  ToolName = "addTask"
	ToolAddNote  ToolName = "addNote"
	ToolPlanTime ToolName = "planTime"
)

type Timestamp = time.Time
