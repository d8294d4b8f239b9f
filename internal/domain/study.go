package domain

import "time"

// Task is a student to-do item. The scheduler only ever reads tasks; the
// optional fields drive its ranking and are nil when the user never set them.
type Task struct {
	ID          TaskID
	UserID      UserID
	Title       string
	Description string

	DueDate         *time.Time
	EstimatedEffort *int // minutes
	Subject         string
	PriorityScore   *float64

	Completed     bool
	GeneratedByAI bool
	CreatedAt     time.Time
}

// Note is a saved piece of free-form study content.
type Note struct {
	ID      NoteID
	UserID  UserID
	Title   string
	Content string
	Subject string
	Tags    []string
	Context string // the chat message the note was extracted from, if any

	CreatedAt time.Time
	UpdatedAt time.Time
}
