package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jemo69/umbc-hackathon/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "edutron.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSessionRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)

	session := &domain.ChatSession{
		ID:        "s1",
		UserID:    "alice",
		Title:     "physics questions",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.CreateSession(ctx, session))

	got, err := store.GetSessionOwnedBy(ctx, "alice", "s1")
	require.NoError(t, err)
	assert.Equal(t, "physics questions", got.Title)
	assert.True(t, got.CreatedAt.Equal(now))
	assert.Nil(t, got.LastMessageAt)

	_, err = store.GetSessionOwnedBy(ctx, "bob", "s1")
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = store.GetSessionOwnedBy(ctx, "alice", "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestUpdateSessionMeta(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)

	require.NoError(t, store.CreateSession(ctx, &domain.ChatSession{
		ID: "s1", UserID: "alice", Title: "t", CreatedAt: now, UpdatedAt: now,
	}))

	at := now.Add(time.Minute)
	require.NoError(t, store.UpdateSessionMeta(ctx, "s1", at, "latest reply"))

	got, err := store.GetSessionOwnedBy(ctx, "alice", "s1")
	require.NoError(t, err)
	assert.Equal(t, "latest reply", got.LastMessagePreview)
	require.NotNil(t, got.LastMessageAt)
	assert.True(t, got.LastMessageAt.Equal(at))
	assert.True(t, got.UpdatedAt.Equal(at))

	assert.ErrorIs(t, store.UpdateSessionMeta(ctx, "missing", at, "p"), domain.ErrSessionNotFound)
}

func TestRenameAndDeleteSessionOwnership(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.CreateSession(ctx, &domain.ChatSession{
		ID: "s1", UserID: "alice", Title: "t", CreatedAt: now, UpdatedAt: now,
	}))

	assert.ErrorIs(t, store.RenameSession(ctx, "bob", "s1", "x"), domain.ErrNotOwner)
	assert.ErrorIs(t, store.RenameSession(ctx, "alice", "missing", "x"), domain.ErrSessionNotFound)
	require.NoError(t, store.RenameSession(ctx, "alice", "s1", "renamed"))

	got, err := store.GetSessionOwnedBy(ctx, "alice", "s1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)

	assert.ErrorIs(t, store.DeleteSession(ctx, "bob", "s1"), domain.ErrNotOwner)
	require.NoError(t, store.DeleteSession(ctx, "alice", "s1"))
	_, err = store.GetSessionOwnedBy(ctx, "alice", "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestMessagesRoundTripWithToolCalls(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)

	calls := []domain.ToolCallRecord{{
		FunctionName: domain.ToolAddTask,
		Arguments:    `{"title":"read"}`,
		Result:       `{"id":"t1"}`,
	}}
	require.NoError(t, store.AppendMessage(ctx, &domain.ChatMessage{
		ID: "m1", UserID: "alice", SessionID: "s1",
		Text: "hi", IsUser: true, Type: domain.MessageTypeText, CreatedAt: now,
	}))
	require.NoError(t, store.AppendMessage(ctx, &domain.ChatMessage{
		ID: "m2", UserID: "alice", SessionID: "s1",
		Text: "done", Type: domain.MessageTypeToolCall, ToolCalls: calls, CreatedAt: now,
	}))

	msgs, err := store.ListMessagesBySession(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.MessageID("m1"), msgs[0].ID)
	assert.True(t, msgs[0].IsUser)
	assert.Empty(t, msgs[0].ToolCalls)
	assert.Equal(t, calls, msgs[1].ToolCalls)
}

func TestListMessagesBySessionLimitKeepsLatest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Now().Truncate(time.Millisecond)

	for i, id := range []string{"m1", "m2", "m3"} {
		require.NoError(t, store.AppendMessage(ctx, &domain.ChatMessage{
			ID:        domain.MessageID(id),
			UserID:    "alice",
			SessionID: "s1",
			Type:      domain.MessageTypeText,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	msgs, err := store.ListMessagesBySession(ctx, "s1", 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.MessageID("m2"), msgs[0].ID)
	assert.Equal(t, domain.MessageID("m3"), msgs[1].ID)
}

func TestListMessagesByUserNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Now().Truncate(time.Millisecond)

	for i, id := range []string{"m1", "m2", "m3"} {
		require.NoError(t, store.AppendMessage(ctx, &domain.ChatMessage{
			ID:        domain.MessageID(id),
			UserID:    "alice",
			SessionID: "s1",
			Type:      domain.MessageTypeText,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	msgs, err := store.ListMessagesByUser(ctx, "alice", 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.MessageID("m3"), msgs[0].ID)
	assert.Equal(t, domain.MessageID("m2"), msgs[1].ID)
}

func TestDeleteMessagesBySession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.AppendMessage(ctx, &domain.ChatMessage{
		ID: "m1", UserID: "alice", SessionID: "s1", Type: domain.MessageTypeText, CreatedAt: now,
	}))
	require.NoError(t, store.AppendMessage(ctx, &domain.ChatMessage{
		ID: "m2", UserID: "alice", SessionID: "s2", Type: domain.MessageTypeText, CreatedAt: now,
	}))

	require.NoError(t, store.DeleteMessagesBySession(ctx, "s1"))

	gone, err := store.ListMessagesBySession(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Empty(t, gone)

	left, err := store.ListMessagesBySession(ctx, "s2", 0)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestTaskRoundTripAndCompletion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)

	due := now.Add(48 * time.Hour)
	effort := 30
	priority := 7.5
	require.NoError(t, store.CreateTask(ctx, &domain.Task{
		ID: "t1", UserID: "alice", Title: "read chapter",
		DueDate: &due, EstimatedEffort: &effort, PriorityScore: &priority,
		GeneratedByAI: true, CreatedAt: now,
	}))
	require.NoError(t, store.CreateTask(ctx, &domain.Task{
		ID: "t2", UserID: "alice", Title: "bare task", CreatedAt: now.Add(time.Second),
	}))

	tasks, err := store.ListTasksByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	first := tasks[0]
	assert.Equal(t, domain.TaskID("t1"), first.ID)
	require.NotNil(t, first.DueDate)
	assert.True(t, first.DueDate.Equal(due))
	require.NotNil(t, first.EstimatedEffort)
	assert.Equal(t, 30, *first.EstimatedEffort)
	require.NotNil(t, first.PriorityScore)
	assert.Equal(t, 7.5, *first.PriorityScore)
	assert.True(t, first.GeneratedByAI)

	second := tasks[1]
	assert.Nil(t, second.DueDate)
	assert.Nil(t, second.EstimatedEffort)
	assert.Nil(t, second.PriorityScore)

	assert.ErrorIs(t, store.CompleteTask(ctx, "bob", "t1"), domain.ErrTaskNotFound)
	require.NoError(t, store.CompleteTask(ctx, "alice", "t1"))

	open, err := store.ListIncompleteTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, domain.TaskID("t2"), open[0].ID)
}

func TestNoteRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)

	require.NoError(t, store.CreateNote(ctx, &domain.Note{
		ID: "n1", UserID: "alice", Title: "osmosis", Content: "water moves",
		Tags: []string{"biology", "exam"}, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.CreateNote(ctx, &domain.Note{
		ID: "n2", UserID: "alice", Title: "untagged", Content: "c",
		CreatedAt: now.Add(time.Second), UpdatedAt: now.Add(time.Second),
	}))

	notes, err := store.ListNotesByUser(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, domain.NoteID("n2"), notes[0].ID)
	assert.Nil(t, notes[0].Tags)
	assert.Equal(t, []string{"biology", "exam"}, notes[1].Tags)
}
