package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotOwner        = errors.New("session not owned by user")
	ErrTaskNotFound    = errors.New("task not found")

	// ErrUnexpectedCompletion marks a successful completion call whose
	// response carried no usable text. Callers may substitute a friendly
	// default for it instead of the transport-failure apology.
	ErrUnexpectedCompletion = errors.New("completion response had no content")
)

// SessionStore defines chat session persistence.
type SessionStore interface {
	CreateSession(ctx context.Context, session *ChatSession) error
	// GetSessionOwnedBy returns ErrSessionNotFound when the session does not
	// exist and ErrNotOwner when it belongs to a different user.
	GetSessionOwnedBy(ctx context.Context, userID UserID, id SessionID) (*ChatSession, error)
	ListSessionsByUser(ctx context.Context, userID UserID, limit int) ([]*ChatSession, error)
	UpdateSessionMeta(ctx context.Context, id SessionID, lastMessageAt time.Time, preview string) error
	RenameSession(ctx context.Context, userID UserID, id SessionID, title string) error
	DeleteSession(ctx context.Context, userID UserID, id SessionID) error
}

// MessageStore defines chat message persistence. Messages are append-only.
type MessageStore interface {
	AppendMessage(ctx context.Context, msg *ChatMessage) error
	// ListMessagesBySession returns messages in insertion order. A positive
	// limit keeps the latest messages of the session, not the earliest.
	ListMessagesBySession(ctx context.Context, sessionID SessionID, limit int) ([]*ChatMessage, error)
	ListMessagesByUser(ctx context.Context, userID UserID, limit int) ([]*ChatMessage, error)
	DeleteMessagesBySession(ctx context.Context, sessionID SessionID) error
}

// TaskStore defines task persistence plus the incomplete-task snapshot the
// scheduler reads.
type TaskStore interface {
	CreateTask(ctx context.Context, task *Task) error
	ListTasksByUser(ctx context.Context, userID UserID) ([]*Task, error)
	ListIncompleteTasks(ctx context.Context, userID UserID) ([]*Task, error)
	CompleteTask(ctx context.Context, userID UserID, id TaskID) error
}

// NoteStore defines note persistence.
type NoteStore interface {
	CreateNote(ctx context.Context, note *Note) error
	ListNotesByUser(ctx context.Context, userID UserID, limit int) ([]*Note, error)
}

// CompletionClient is the remote text-completion collaborator used by the
// generative fallback. Enabled reports whether the client has the
// credentials it needs; when false the fallback must not attempt a call.
type CompletionClient interface {
	Enabled() bool
	Complete(ctx context.Context, systemPrompt, userText string) (string, error)
}
