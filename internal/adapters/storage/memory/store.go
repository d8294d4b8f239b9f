// Package memory provides in-process implementations of the persistence
// ports, used for local development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Jemo69/umbc-hackathon/internal/domain"
)

// Store implements every persistence port over plain maps guarded by a
// single RWMutex. Values are copied on the way in and out so callers can
// never alias internal state.
type Store struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*domain.ChatSession
	messages []*domain.ChatMessage
	tasks    map[domain.TaskID]*domain.Task
	notes    []*domain.Note
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[domain.SessionID]*domain.ChatSession),
		tasks:    make(map[domain.TaskID]*domain.Task),
	}
}

func (s *Store) CreateSession(_ context.Context, session *domain.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *Store) GetSessionOwnedBy(_ context.Context, userID domain.UserID, id domain.SessionID) (*domain.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if session.UserID != userID {
		return nil, domain.ErrNotOwner
	}
	copied := *session
	return &copied, nil
}

// ListSessionsByUser returns the user's sessions most recently updated
// first.
func (s *Store) ListSessionsByUser(_ context.Context, userID domain.UserID, limit int) ([]*domain.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.ChatSession
	for _, session := range s.sessions {
		if session.UserID != userID {
			continue
		}
		copied := *session
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) UpdateSessionMeta(_ context.Context, id domain.SessionID, lastMessageAt time.Time, preview string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.LastMessageAt = &lastMessageAt
	session.LastMessagePreview = preview
	session.UpdatedAt = lastMessageAt
	return nil
}

func (s *Store) RenameSession(_ context.Context, userID domain.UserID, id domain.SessionID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if session.UserID != userID {
		return domain.ErrNotOwner
	}
	session.Title = title
	session.UpdatedAt = time.Now()
	return nil
}

func (s *Store) DeleteSession(_ context.Context, userID domain.UserID, id domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if session.UserID != userID {
		return domain.ErrNotOwner
	}
	delete(s.sessions, id)
	return nil
}

func (s *Store) AppendMessage(_ context.Context, msg *domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *msg
	copied.ToolCalls = append([]domain.ToolCallRecord(nil), msg.ToolCalls...)
	s.messages = append(s.messages, &copied)
	return nil
}

// ListMessagesBySession returns messages in insertion order.
func (s *Store) ListMessagesBySession(_ context.Context, sessionID domain.SessionID, limit int) ([]*domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.ChatMessage
	for _, msg := range s.messages {
		if msg.SessionID != sessionID {
			continue
		}
		copied := *msg
		out = append(out, &copied)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// ListMessagesByUser returns the user's most recent messages, newest first.
func (s *Store) ListMessagesByUser(_ context.Context, userID domain.UserID, limit int) ([]*domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.ChatMessage
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].UserID != userID {
			continue
		}
		copied := *s.messages[i]
		out = append(out, &copied)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) DeleteMessagesBySession(_ context.Context, sessionID domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.messages[:0]
	for _, msg := range s.messages {
		if msg.SessionID != sessionID {
			kept = append(kept, msg)
		}
	}
	s.messages = kept
	return nil
}

func (s *Store) CreateTask(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *task
	s.tasks[task.ID] = &copied
	return nil
}

func (s *Store) ListTasksByUser(_ context.Context, userID domain.UserID) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listTasks(userID, false), nil
}

func (s *Store) ListIncompleteTasks(_ context.Context, userID domain.UserID) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listTasks(userID, true), nil
}

// listTasks requires s.mu to be held.
func (s *Store) listTasks(userID domain.UserID, incompleteOnly bool) []*domain.Task {
	var out []*domain.Task
	for _, task := range s.tasks {
		if task.UserID != userID {
			continue
		}
		if incompleteOnly && task.Completed {
			continue
		}
		copied := *task
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *Store) CompleteTask(_ context.Context, userID domain.UserID, id domain.TaskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.UserID != userID {
		return domain.ErrTaskNotFound
	}
	task.Completed = true
	return nil
}

func (s *Store) CreateNote(_ context.Context, note *domain.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *note
	copied.Tags = append([]string(nil), note.Tags...)
	s.notes = append(s.notes, &copied)
	return nil
}

// ListNotesByUser returns the user's notes, newest first.
func (s *Store) ListNotesByUser(_ context.Context, userID domain.UserID, limit int) ([]*domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Note
	for i := len(s.notes) - 1; i >= 0; i-- {
		if s.notes[i].UserID != userID {
			continue
		}
		copied := *s.notes[i]
		out = append(out, &copied)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
