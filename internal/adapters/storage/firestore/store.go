package firestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Jemo69/umbc-hackathon/internal/domain"
)

// Store implements the persistence ports on Firestore. Messages live in a
// flat collection keyed by session_id so a session delete can cascade with
// one query.
type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store.
// Uses the project passed (EDUTRON_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) sessionsCol() *firestore.CollectionRef {
	return s.client.Collection("chat_sessions")
}

func (s *Store) messagesCol() *firestore.CollectionRef {
	return s.client.Collection("chat_messages")
}

func (s *Store) tasksCol() *firestore.CollectionRef {
	return s.client.Collection("tasks")
}

func (s *Store) notesCol() *firestore.CollectionRef {
	return s.client.Collection("notes")
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type sessionDoc struct {
	UserID             string     `firestore:"user_id"`
	Title              string     `firestore:"title"`
	CreatedAt          time.Time  `firestore:"created_at"`
	UpdatedAt          time.Time  `firestore:"updated_at"`
	LastMessageAt      *time.Time `firestore:"last_message_at"`
	LastMessagePreview string     `firestore:"last_message_preview"`
}

type messageDoc struct {
	UserID    string    `firestore:"user_id"`
	SessionID string    `firestore:"session_id"`
	Text      string    `firestore:"text"`
	IsUser    bool      `firestore:"is_user"`
	Type      string    `firestore:"type"`
	ToolCalls string    `firestore:"tool_calls"`
	Context   string    `firestore:"context"`
	CreatedAt time.Time `firestore:"created_at"`
}

type taskDoc struct {
	UserID          string     `firestore:"user_id"`
	Title           string     `firestore:"title"`
	Description     string     `firestore:"description"`
	DueDate         *time.Time `firestore:"due_date"`
	EstimatedEffort *int       `firestore:"estimated_effort"`
	Subject         string     `firestore:"subject"`
	PriorityScore   *float64   `firestore:"priority_score"`
	Completed       bool       `firestore:"completed"`
	GeneratedByAI   bool       `firestore:"generated_by_ai"`
	CreatedAt       time.Time  `firestore:"created_at"`
}

type noteDoc struct {
	UserID    string    `firestore:"user_id"`
	Title     string    `firestore:"title"`
	Content   string    `firestore:"content"`
	Subject   string    `firestore:"subject"`
	Tags      []string  `firestore:"tags"`
	Context   string    `firestore:"context"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

// ─────────────────────────────────────────
// SessionStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateSession(ctx context.Context, session *domain.ChatSession) error {
	doc := sessionDoc{
		UserID:             string(session.UserID),
		Title:              session.Title,
		CreatedAt:          session.CreatedAt,
		UpdatedAt:          session.UpdatedAt,
		LastMessageAt:      session.LastMessageAt,
		LastMessagePreview: session.LastMessagePreview,
	}

	_, err := s.sessionsCol().Doc(string(session.ID)).Create(ctx, doc)
	if err != nil {
		return fmt.Errorf("firestore CreateSession: %w", err)
	}
	return nil
}

func (s *Store) GetSessionOwnedBy(ctx context.Context, userID domain.UserID, id domain.SessionID) (*domain.ChatSession, error) {
	snap, err := s.sessionsCol().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("firestore GetSessionOwnedBy: %w", err)
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode sessionDoc: %w", err)
	}
	if doc.UserID != string(userID) {
		return nil, domain.ErrNotOwner
	}

	return sessionFromDoc(id, doc), nil
}

func (s *Store) ListSessionsByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.ChatSession, error) {
	q := s.sessionsCol().Where("user_id", "==", string(userID)).OrderBy("updated_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.ChatSession
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListSessionsByUser: %w", err)
		}

		var doc sessionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode sessionDoc: %w", err)
		}
		out = append(out, sessionFromDoc(domain.SessionID(snap.Ref.ID), doc))
	}
	return out, nil
}

func (s *Store) UpdateSessionMeta(ctx context.Context, id domain.SessionID, lastMessageAt time.Time, preview string) error {
	_, err := s.sessionsCol().Doc(string(id)).Update(ctx, []firestore.Update{
		{Path: "last_message_at", Value: lastMessageAt},
		{Path: "last_message_preview", Value: preview},
		{Path: "updated_at", Value: lastMessageAt},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ErrSessionNotFound
		}
		return fmt.Errorf("firestore UpdateSessionMeta: %w", err)
	}
	return nil
}

func (s *Store) RenameSession(ctx context.Context, userID domain.UserID, id domain.SessionID, title string) error {
	if _, err := s.GetSessionOwnedBy(ctx, userID, id); err != nil {
		return err
	}

	_, err := s.sessionsCol().Doc(string(id)).Update(ctx, []firestore.Update{
		{Path: "title", Value: title},
		{Path: "updated_at", Value: time.Now()},
	})
	if err != nil {
		return fmt.Errorf("firestore RenameSession: %w", err)
	}
	return nil
}

func (s *Store) DeleteSession(ctx context.Context, userID domain.UserID, id domain.SessionID) error {
	if _, err := s.GetSessionOwnedBy(ctx, userID, id); err != nil {
		return err
	}

	if _, err := s.sessionsCol().Doc(string(id)).Delete(ctx); err != nil {
		return fmt.Errorf("firestore DeleteSession: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────
// MessageStore implementation
// ─────────────────────────────────────────

func (s *Store) AppendMessage(ctx context.Context, msg *domain.ChatMessage) error {
	var toolCalls string
	if len(msg.ToolCalls) > 0 {
		payload, err := json.Marshal(msg.ToolCalls)
		if err != nil {
			return fmt.Errorf("encode tool calls: %w", err)
		}
		toolCalls = string(payload)
	}

	doc := messageDoc{
		UserID:    string(msg.UserID),
		SessionID: string(msg.SessionID),
		Text:      msg.Text,
		IsUser:    msg.IsUser,
		Type:      string(msg.Type),
		ToolCalls: toolCalls,
		Context:   msg.Context,
		CreatedAt: msg.CreatedAt,
	}

	// Create, not Set: the log is append-only, an ID collision must fail.
	_, err := s.messagesCol().Doc(string(msg.ID)).Create(ctx, doc)
	if err != nil {
		return fmt.Errorf("firestore AppendMessage: %w", err)
	}
	return nil
}

func (s *Store) ListMessagesBySession(ctx context.Context, sessionID domain.SessionID, limit int) ([]*domain.ChatMessage, error) {
	// A positive limit keeps the latest messages, still returned in
	// insertion order.
	if limit > 0 {
		q := s.messagesCol().Where("session_id", "==", string(sessionID)).
			OrderBy("created_at", firestore.Desc).Limit(limit)
		msgs, err := s.queryMessages(ctx, q)
		if err != nil {
			return nil, err
		}
		for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
			msgs[i], msgs[j] = msgs[j], msgs[i]
		}
		return msgs, nil
	}

	q := s.messagesCol().Where("session_id", "==", string(sessionID)).OrderBy("created_at", firestore.Asc)
	return s.queryMessages(ctx, q)
}

func (s *Store) ListMessagesByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.ChatMessage, error) {
	q := s.messagesCol().Where("user_id", "==", string(userID)).OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return s.queryMessages(ctx, q)
}

func (s *Store) DeleteMessagesBySession(ctx context.Context, sessionID domain.SessionID) error {
	iter := s.messagesCol().Where("session_id", "==", string(sessionID)).Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				return nil
			}
			return fmt.Errorf("firestore DeleteMessagesBySession: %w", err)
		}
		if _, err := snap.Ref.Delete(ctx); err != nil {
			return fmt.Errorf("firestore DeleteMessagesBySession: %w", err)
		}
	}
}

func (s *Store) queryMessages(ctx context.Context, q firestore.Query) ([]*domain.ChatMessage, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.ChatMessage
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore queryMessages: %w", err)
		}

		var doc messageDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode messageDoc: %w", err)
		}

		msg := &domain.ChatMessage{
			ID:        domain.MessageID(snap.Ref.ID),
			UserID:    domain.UserID(doc.UserID),
			SessionID: domain.SessionID(doc.SessionID),
			Text:      doc.Text,
			IsUser:    doc.IsUser,
			Type:      domain.MessageType(doc.Type),
			Context:   doc.Context,
			CreatedAt: doc.CreatedAt,
		}
		if doc.ToolCalls != "" {
			if err := json.Unmarshal([]byte(doc.ToolCalls), &msg.ToolCalls); err != nil {
				return nil, fmt.Errorf("decode tool calls: %w", err)
			}
		}
		out = append(out, msg)
	}
	return out, nil
}

// ─────────────────────────────────────────
// TaskStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateTask(ctx context.Context, task *domain.Task) error {
	doc := taskDoc{
		UserID:          string(task.UserID),
		Title:           task.Title,
		Description:     task.Description,
		DueDate:         task.DueDate,
		EstimatedEffort: task.EstimatedEffort,
		Subject:         task.Subject,
		PriorityScore:   task.PriorityScore,
		Completed:       task.Completed,
		GeneratedByAI:   task.GeneratedByAI,
		CreatedAt:       task.CreatedAt,
	}

	_, err := s.tasksCol().Doc(string(task.ID)).Create(ctx, doc)
	if err != nil {
		return fmt.Errorf("firestore CreateTask: %w", err)
	}
	return nil
}

func (s *Store) ListTasksByUser(ctx context.Context, userID domain.UserID) ([]*domain.Task, error) {
	q := s.tasksCol().Where("user_id", "==", string(userID)).OrderBy("created_at", firestore.Asc)
	return s.queryTasks(ctx, q)
}

func (s *Store) ListIncompleteTasks(ctx context.Context, userID domain.UserID) ([]*domain.Task, error) {
	q := s.tasksCol().
		Where("user_id", "==", string(userID)).
		Where("completed", "==", false)
	return s.queryTasks(ctx, q)
}

func (s *Store) CompleteTask(ctx context.Context, userID domain.UserID, id domain.TaskID) error {
	snap, err := s.tasksCol().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ErrTaskNotFound
		}
		return fmt.Errorf("firestore CompleteTask: %w", err)
	}

	var doc taskDoc
	if err := snap.DataTo(&doc); err != nil {
		return fmt.Errorf("decode taskDoc: %w", err)
	}
	if doc.UserID != string(userID) {
		return domain.ErrTaskNotFound
	}

	_, err = snap.Ref.Update(ctx, []firestore.Update{{Path: "completed", Value: true}})
	if err != nil {
		return fmt.Errorf("firestore CompleteTask: %w", err)
	}
	return nil
}

func (s *Store) queryTasks(ctx context.Context, q firestore.Query) ([]*domain.Task, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Task
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore queryTasks: %w", err)
		}

		var doc taskDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode taskDoc: %w", err)
		}

		out = append(out, &domain.Task{
			ID:              domain.TaskID(snap.Ref.ID),
			UserID:          domain.UserID(doc.UserID),
			Title:           doc.Title,
			Description:     doc.Description,
			DueDate:         doc.DueDate,
			EstimatedEffort: doc.EstimatedEffort,
			Subject:         doc.Subject,
			PriorityScore:   doc.PriorityScore,
			Completed:       doc.Completed,
			GeneratedByAI:   doc.GeneratedByAI,
			CreatedAt:       doc.CreatedAt,
		})
	}
	return out, nil
}

// ─────────────────────────────────────────
// NoteStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateNote(ctx context.Context, note *domain.Note) error {
	doc := noteDoc{
		UserID:    string(note.UserID),
		Title:     note.Title,
		Content:   note.Content,
		Subject:   note.Subject,
		Tags:      note.Tags,
		Context:   note.Context,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}

	_, err := s.notesCol().Doc(string(note.ID)).Create(ctx, doc)
	if err != nil {
		return fmt.Errorf("firestore CreateNote: %w", err)
	}
	return nil
}

func (s *Store) ListNotesByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Note, error) {
	q := s.notesCol().Where("user_id", "==", string(userID)).OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Note
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListNotesByUser: %w", err)
		}

		var doc noteDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode noteDoc: %w", err)
		}

		out = append(out, &domain.Note{
			ID:        domain.NoteID(snap.Ref.ID),
			UserID:    domain.UserID(doc.UserID),
			Title:     doc.Title,
			Content:   doc.Content,
			Subject:   doc.Subject,
			Tags:      doc.Tags,
			Context:   doc.Context,
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		})
	}
	return out, nil
}

func sessionFromDoc(id domain.SessionID, doc sessionDoc) *domain.ChatSession {
	return &domain.ChatSession{
		ID:                 id,
		UserID:             domain.UserID(doc.UserID),
		Title:              doc.Title,
		CreatedAt:          doc.CreatedAt,
		UpdatedAt:          doc.UpdatedAt,
		LastMessageAt:      doc.LastMessageAt,
		LastMessagePreview: doc.LastMessagePreview,
	}
}
