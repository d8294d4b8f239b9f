package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jemo69/umbc-hackathon/internal/domain"
)

func newSession(id domain.SessionID, user domain.UserID, updatedAt time.Time) *domain.ChatSession {
	return &domain.ChatSession{
		ID:        id,
		UserID:    user,
		Title:     "t",
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
}

func TestSessionOwnership(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.CreateSession(ctx, newSession("s1", "alice", now)))

	_, err := store.GetSessionOwnedBy(ctx, "alice", "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = store.GetSessionOwnedBy(ctx, "bob", "s1")
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	got, err := store.GetSessionOwnedBy(ctx, "alice", "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionID("s1"), got.ID)

	assert.ErrorIs(t, store.RenameSession(ctx, "bob", "s1", "x"), domain.ErrNotOwner)
	assert.ErrorIs(t, store.DeleteSession(ctx, "bob", "s1"), domain.ErrNotOwner)
}

func TestListSessionsByUserOrdering(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, store.CreateSession(ctx, newSession("old", "alice", base.Add(-time.Hour))))
	require.NoError(t, store.CreateSession(ctx, newSession("new", "alice", base)))
	require.NoError(t, store.CreateSession(ctx, newSession("other", "bob", base)))

	got, err := store.ListSessionsByUser(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.SessionID("new"), got[0].ID)
	assert.Equal(t, domain.SessionID("old"), got[1].ID)

	limited, err := store.ListSessionsByUser(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestUpdateSessionMeta(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.CreateSession(ctx, newSession("s1", "alice", time.Now())))

	at := time.Now().Add(time.Minute)
	require.NoError(t, store.UpdateSessionMeta(ctx, "s1", at, "preview"))

	got, err := store.GetSessionOwnedBy(ctx, "alice", "s1")
	require.NoError(t, err)
	assert.Equal(t, "preview", got.LastMessagePreview)
	require.NotNil(t, got.LastMessageAt)
	assert.True(t, got.LastMessageAt.Equal(at))

	assert.ErrorIs(t, store.UpdateSessionMeta(ctx, "missing", at, "p"), domain.ErrSessionNotFound)
}

func TestMessagesPreserveOrderAndCascade(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	for i, text := range []string{"first", "second", "third"} {
		require.NoError(t, store.AppendMessage(ctx, &domain.ChatMessage{
			ID:        domain.MessageID(text),
			UserID:    "alice",
			SessionID: "s1",
			Text:      text,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
			Type:      domain.MessageTypeText,
		}))
	}
	require.NoError(t, store.AppendMessage(ctx, &domain.ChatMessage{
		ID: "other", UserID: "alice", SessionID: "s2", Type: domain.MessageTypeText,
	}))

	msgs, err := store.ListMessagesBySession(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "third", msgs[2].Text)

	// A positive limit keeps the latest messages, in insertion order.
	latest, err := store.ListMessagesBySession(ctx, "s1", 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "second", latest[0].Text)
	assert.Equal(t, "third", latest[1].Text)

	recent, err := store.ListMessagesByUser(ctx, "alice", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, domain.MessageID("other"), recent[0].ID)

	require.NoError(t, store.DeleteMessagesBySession(ctx, "s1"))
	msgs, err = store.ListMessagesBySession(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	left, err := store.ListMessagesBySession(ctx, "s2", 0)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestTaskLifecycle(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.CreateTask(ctx, &domain.Task{ID: "t1", UserID: "alice", Title: "a", CreatedAt: time.Now()}))
	require.NoError(t, store.CreateTask(ctx, &domain.Task{ID: "t2", UserID: "alice", Title: "b", CreatedAt: time.Now().Add(time.Second)}))

	assert.ErrorIs(t, store.CompleteTask(ctx, "bob", "t1"), domain.ErrTaskNotFound)
	require.NoError(t, store.CompleteTask(ctx, "alice", "t1"))

	all, err := store.ListTasksByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.True(t, all[0].Completed)

	open, err := store.ListIncompleteTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, domain.TaskID("t2"), open[0].ID)
}

func TestNotesNewestFirst(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.CreateNote(ctx, &domain.Note{ID: "n1", UserID: "alice", Title: "a"}))
	require.NoError(t, store.CreateNote(ctx, &domain.Note{ID: "n2", UserID: "alice", Title: "b"}))

	notes, err := store.ListNotesByUser(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, domain.NoteID("n2"), notes[0].ID)
}

func TestCopiesDoNotAliasInternalState(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	task := &domain.Task{ID: "t1", UserID: "alice", Title: "original"}
	require.NoError(t, store.CreateTask(ctx, task))
	task.Title = "mutated"

	got, err := store.ListTasksByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "original", got[0].Title)

	got[0].Title = "mutated again"
	again, err := store.ListTasksByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Title)
}
