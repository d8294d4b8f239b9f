// Package sqlite implements the persistence ports on an embedded SQLite
// database. Timestamps are stored as epoch milliseconds.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/Jemo69/umbc-hackathon/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS chat_sessions (
	id                   TEXT PRIMARY KEY,
	user_id              TEXT NOT NULL,
	title                TEXT NOT NULL,
	created_at           INTEGER NOT NULL,
	updated_at           INTEGER NOT NULL,
	last_message_at      INTEGER,
	last_message_preview TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_chat_sessions_user ON chat_sessions(user_id, updated_at);

CREATE TABLE IF NOT EXISTS chat_messages (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	session_id TEXT NOT NULL,
	text       TEXT NOT NULL,
	is_user    INTEGER NOT NULL,
	type       TEXT NOT NULL,
	tool_calls TEXT,
	context    TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id);
CREATE INDEX IF NOT EXISTS idx_chat_messages_user ON chat_messages(user_id, created_at);

CREATE TABLE IF NOT EXISTS tasks (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL,
	title            TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	due_date         INTEGER,
	estimated_effort INTEGER,
	subject          TEXT NOT NULL DEFAULT '',
	priority         REAL,
	completed        INTEGER NOT NULL DEFAULT 0,
	generated_by_ai  INTEGER NOT NULL DEFAULT 0,
	created_at       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id, completed);

CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL,
	subject    TEXT NOT NULL DEFAULT '',
	tags       TEXT,
	context    TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_user ON notes(user_id, created_at);
`

// Store implements every persistence port on a single SQLite database.
type Store struct {
	db *sql.DB
}

func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite database")
	}
	// modernc.org/sqlite does not support concurrent writers on one
	// connection pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "apply sqlite schema")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateSession(ctx context.Context, session *domain.ChatSession) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_sessions (id, user_id, title, created_at, updated_at, last_message_at, last_message_preview)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(session.ID), string(session.UserID), session.Title,
		session.CreatedAt.UnixMilli(), session.UpdatedAt.UnixMilli(),
		msOrNil(session.LastMessageAt), session.LastMessagePreview,
	)
	return errors.Wrap(err, "insert session")
}

func (s *Store) GetSessionOwnedBy(ctx context.Context, userID domain.UserID, id domain.SessionID) (*domain.ChatSession, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, created_at, updated_at, last_message_at, last_message_preview
		 FROM chat_sessions WHERE id = ?`, string(id))

	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query session")
	}
	if session.UserID != userID {
		return nil, domain.ErrNotOwner
	}
	return session, nil
}

func (s *Store) ListSessionsByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.ChatSession, error) {
	query := `SELECT id, user_id, title, created_at, updated_at, last_message_at, last_message_preview
		 FROM chat_sessions WHERE user_id = ? ORDER BY updated_at DESC`
	args := []any{string(userID)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query sessions")
	}
	defer rows.Close()

	var out []*domain.ChatSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan session")
		}
		out = append(out, session)
	}
	return out, rows.Err()
}

func (s *Store) UpdateSessionMeta(ctx context.Context, id domain.SessionID, lastMessageAt time.Time, preview string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE chat_sessions SET last_message_at = ?, last_message_preview = ?, updated_at = ? WHERE id = ?`,
		lastMessageAt.UnixMilli(), preview, lastMessageAt.UnixMilli(), string(id))
	if err != nil {
		return errors.Wrap(err, "update session meta")
	}
	return notFoundIfZero(res, domain.ErrSessionNotFound)
}

func (s *Store) RenameSession(ctx context.Context, userID domain.UserID, id domain.SessionID, title string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE chat_sessions SET title = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		title, time.Now().UnixMilli(), string(id), string(userID))
	if err != nil {
		return errors.Wrap(err, "rename session")
	}
	return s.ownershipResult(ctx, res, id)
}

func (s *Store) DeleteSession(ctx context.Context, userID domain.UserID, id domain.SessionID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM chat_sessions WHERE id = ? AND user_id = ?`, string(id), string(userID))
	if err != nil {
		return errors.Wrap(err, "delete session")
	}
	return s.ownershipResult(ctx, res, id)
}

// ownershipResult turns a zero-row write on chat_sessions into the precise
// domain error: not found when the id is absent, not owner when it exists
// under another user.
func (s *Store) ownershipResult(ctx context.Context, res sql.Result, id domain.SessionID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n > 0 {
		return nil
	}

	var exists int
	err = s.db.QueryRowContext(ctx,
		`SELECT 1 FROM chat_sessions WHERE id = ?`, string(id)).Scan(&exists)
	if err == sql.ErrNoRows {
		return domain.ErrSessionNotFound
	}
	if err != nil {
		return errors.Wrap(err, "check session existence")
	}
	return domain.ErrNotOwner
}

func (s *Store) AppendMessage(ctx context.Context, msg *domain.ChatMessage) error {
	var toolCalls sql.NullString
	if len(msg.ToolCalls) > 0 {
		payload, err := json.Marshal(msg.ToolCalls)
		if err != nil {
			return errors.Wrap(err, "encode tool calls")
		}
		toolCalls = sql.NullString{String: string(payload), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (id, user_id, session_id, text, is_user, type, tool_calls, context, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(msg.ID), string(msg.UserID), string(msg.SessionID), msg.Text,
		boolToInt(msg.IsUser), string(msg.Type), toolCalls, msg.Context,
		msg.CreatedAt.UnixMilli(),
	)
	return errors.Wrap(err, "insert message")
}

func (s *Store) ListMessagesBySession(ctx context.Context, sessionID domain.SessionID, limit int) ([]*domain.ChatMessage, error) {
	// rowid preserves insertion order within identical timestamps. A positive
	// limit keeps the latest messages, still returned in insertion order.
	if limit > 0 {
		msgs, err := s.queryMessages(ctx,
			`SELECT id, user_id, session_id, text, is_user, type, tool_calls, context, created_at
			 FROM chat_messages WHERE session_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
			string(sessionID), limit)
		if err != nil {
			return nil, err
		}
		reverseMessages(msgs)
		return msgs, nil
	}

	return s.queryMessages(ctx,
		`SELECT id, user_id, session_id, text, is_user, type, tool_calls, context, created_at
		 FROM chat_messages WHERE session_id = ? ORDER BY created_at, rowid`,
		string(sessionID))
}

func (s *Store) ListMessagesByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.ChatMessage, error) {
	query := `SELECT id, user_id, session_id, text, is_user, type, tool_calls, context, created_at
		 FROM chat_messages WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`
	args := []any{string(userID)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryMessages(ctx, query, args...)
}

func (s *Store) DeleteMessagesBySession(ctx context.Context, sessionID domain.SessionID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM chat_messages WHERE session_id = ?`, string(sessionID))
	return errors.Wrap(err, "delete session messages")
}

func (s *Store) queryMessages(ctx context.Context, query string, args ...any) ([]*domain.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query messages")
	}
	defer rows.Close()

	var out []*domain.ChatMessage
	for rows.Next() {
		var (
			msg       domain.ChatMessage
			id        string
			userID    string
			sessionID string
			isUser    int
			msgType   string
			toolCalls sql.NullString
			createdMs int64
		)
		if err := rows.Scan(&id, &userID, &sessionID, &msg.Text, &isUser, &msgType, &toolCalls, &msg.Context, &createdMs); err != nil {
			return nil, errors.Wrap(err, "scan message")
		}
		msg.ID = domain.MessageID(id)
		msg.UserID = domain.UserID(userID)
		msg.SessionID = domain.SessionID(sessionID)
		msg.IsUser = isUser != 0
		msg.Type = domain.MessageType(msgType)
		msg.CreatedAt = time.UnixMilli(createdMs)
		if toolCalls.Valid {
			if err := json.Unmarshal([]byte(toolCalls.String), &msg.ToolCalls); err != nil {
				return nil, errors.Wrap(err, "decode tool calls")
			}
		}
		out = append(out, &msg)
	}
	return out, rows.Err()
}

func (s *Store) CreateTask(ctx context.Context, task *domain.Task) error {
	var due *int64
	if task.DueDate != nil {
		ms := task.DueDate.UnixMilli()
		due = &ms
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, user_id, title, description, due_date, estimated_effort, subject, priority, completed, generated_by_ai, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(task.ID), string(task.UserID), task.Title, task.Description,
		due, task.EstimatedEffort, task.Subject, task.PriorityScore,
		boolToInt(task.Completed), boolToInt(task.GeneratedByAI),
		task.CreatedAt.UnixMilli(),
	)
	return errors.Wrap(err, "insert task")
}

func (s *Store) ListTasksByUser(ctx context.Context, userID domain.UserID) ([]*domain.Task, error) {
	return s.queryTasks(ctx,
		`SELECT id, user_id, title, description, due_date, estimated_effort, subject, priority, completed, generated_by_ai, created_at
		 FROM tasks WHERE user_id = ? ORDER BY created_at, rowid`, string(userID))
}

func (s *Store) ListIncompleteTasks(ctx context.Context, userID domain.UserID) ([]*domain.Task, error) {
	return s.queryTasks(ctx,
		`SELECT id, user_id, title, description, due_date, estimated_effort, subject, priority, completed, generated_by_ai, created_at
		 FROM tasks WHERE user_id = ? AND completed = 0 ORDER BY created_at, rowid`, string(userID))
}

func (s *Store) CompleteTask(ctx context.Context, userID domain.UserID, id domain.TaskID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET completed = 1 WHERE id = ? AND user_id = ?`,
		string(id), string(userID))
	if err != nil {
		return errors.Wrap(err, "complete task")
	}
	return notFoundIfZero(res, domain.ErrTaskNotFound)
}

func (s *Store) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query tasks")
	}
	defer rows.Close()

	var out []*domain.Task
	for rows.Next() {
		var (
			task      domain.Task
			id        string
			userID    string
			due       sql.NullInt64
			effort    sql.NullInt64
			priority  sql.NullFloat64
			completed int
			byAI      int
			createdMs int64
		)
		if err := rows.Scan(&id, &userID, &task.Title, &task.Description, &due, &effort, &task.Subject, &priority, &completed, &byAI, &createdMs); err != nil {
			return nil, errors.Wrap(err, "scan task")
		}
		task.ID = domain.TaskID(id)
		task.UserID = domain.UserID(userID)
		task.Completed = completed != 0
		task.GeneratedByAI = byAI != 0
		task.CreatedAt = time.UnixMilli(createdMs)
		if due.Valid {
			t := time.UnixMilli(due.Int64)
			task.DueDate = &t
		}
		if effort.Valid {
			n := int(effort.Int64)
			task.EstimatedEffort = &n
		}
		if priority.Valid {
			p := priority.Float64
			task.PriorityScore = &p
		}
		out = append(out, &task)
	}
	return out, rows.Err()
}

func (s *Store) CreateNote(ctx context.Context, note *domain.Note) error {
	var tags sql.NullString
	if len(note.Tags) > 0 {
		payload, err := json.Marshal(note.Tags)
		if err != nil {
			return errors.Wrap(err, "encode tags")
		}
		tags = sql.NullString{String: string(payload), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, user_id, title, content, subject, tags, context, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(note.ID), string(note.UserID), note.Title, note.Content,
		note.Subject, tags, note.Context,
		note.CreatedAt.UnixMilli(), note.UpdatedAt.UnixMilli(),
	)
	return errors.Wrap(err, "insert note")
}

func (s *Store) ListNotesByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Note, error) {
	query := `SELECT id, user_id, title, content, subject, tags, context, created_at, updated_at
		 FROM notes WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`
	args := []any{string(userID)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query notes")
	}
	defer rows.Close()

	var out []*domain.Note
	for rows.Next() {
		var (
			note      domain.Note
			id        string
			uid       string
			tags      sql.NullString
			createdMs int64
			updatedMs int64
		)
		if err := rows.Scan(&id, &uid, &note.Title, &note.Content, &note.Subject, &tags, &note.Context, &createdMs, &updatedMs); err != nil {
			return nil, errors.Wrap(err, "scan note")
		}
		note.ID = domain.NoteID(id)
		note.UserID = domain.UserID(uid)
		note.CreatedAt = time.UnixMilli(createdMs)
		note.UpdatedAt = time.UnixMilli(updatedMs)
		if tags.Valid {
			if err := json.Unmarshal([]byte(tags.String), &note.Tags); err != nil {
				return nil, errors.Wrap(err, "decode tags")
			}
		}
		out = append(out, &note)
	}
	return out, rows.Err()
}

type sessionScanner interface {
	Scan(dest ...any) error
}

func scanSession(row sessionScanner) (*domain.ChatSession, error) {
	var (
		session   domain.ChatSession
		id        string
		userID    string
		createdMs int64
		updatedMs int64
		lastMs    sql.NullInt64
	)
	if err := row.Scan(&id, &userID, &session.Title, &createdMs, &updatedMs, &lastMs, &session.LastMessagePreview); err != nil {
		return nil, err
	}
	session.ID = domain.SessionID(id)
	session.UserID = domain.UserID(userID)
	session.CreatedAt = time.UnixMilli(createdMs)
	session.UpdatedAt = time.UnixMilli(updatedMs)
	if lastMs.Valid {
		t := time.UnixMilli(lastMs.Int64)
		session.LastMessageAt = &t
	}
	return &session, nil
}

func notFoundIfZero(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func reverseMessages(msgs []*domain.ChatMessage) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}

func msOrNil(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
