package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Jemo69/umbc-hackathon/internal/domain"
)

// NoteTool creates a note from an addNote tool call.
type NoteTool struct {
	store domain.NoteStore
	now   func() time.Time
}

func NewNoteTool(store domain.NoteStore) *NoteTool {
	return &NoteTool{store: store, now: time.Now}
}

func (t *NoteTool) Name() domain.ToolName {
	return domain.ToolAddNote
}

// NoteArgs is the serialized argument object of an addNote call.
type NoteArgs struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Subject string   `json:"subject,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Context string   `json:"context,omitempty"`
}

func (t *NoteTool) Call(ctx context.Context, cctx CallContext, args json.RawMessage) (any, error) {
	if cctx.UserID == "" {
		return nil, fmt.Errorf("addNote: missing user in call context")
	}

	var in NoteArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("addNote: invalid arguments: %w", err)
	}

	title := in.Title
	if title == "" {
		title = "New Note"
	}
	content := in.Content
	if content == "" {
		content = in.Context
	}

	now := t.now()
	note := &domain.Note{
		ID:        domain.NoteID(uuid.NewString()),
		UserID:    cctx.UserID,
		Title:     title,
		Content:   content,
		Subject:   in.Subject,
		Tags:      in.Tags,
		Context:   in.Context,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := t.store.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("addNote: create failed: %w", err)
	}

	return map[string]any{"id": string(note.ID)}, nil
}
