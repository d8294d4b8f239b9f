// Package study exposes direct task and note operations, the non-conversational
// path to the same stores the assistant's tools write through.
package study

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jemo69/umbc-hackathon/internal/domain"
)

type Service struct {
	tasks domain.TaskStore
	notes domain.NoteStore
	now   func() time.Time
}

func NewService(tasks domain.TaskStore, notes domain.NoteStore) *Service {
	return &Service{tasks: tasks, notes: notes, now: time.Now}
}

type CreateTaskInput struct {
	UserID        domain.UserID
	Title         string
	Description   string
	DueDate       *time.Time
	EstimatedTime *int
	Subject       string
	Priority      *float64
}

func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (*domain.Task, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("study: user id is required")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("study: task title is required")
	}
	if in.EstimatedTime != nil && *in.EstimatedTime <= 0 {
		return nil, fmt.Errorf("study: estimated time must be positive")
	}

	task := &domain.Task{
		ID:              domain.TaskID(uuid.NewString()),
		UserID:          in.UserID,
		Title:           title,
		Description:     in.Description,
		DueDate:         in.DueDate,
		EstimatedEffort: in.EstimatedTime,
		Subject:         in.Subject,
		PriorityScore:   in.Priority,
		CreatedAt:       s.now(),
	}
	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Service) ListTasks(ctx context.Context, userID domain.UserID) ([]*domain.Task, error) {
	return s.tasks.ListTasksByUser(ctx, userID)
}

func (s *Service) CompleteTask(ctx context.Context, userID domain.UserID, id domain.TaskID) error {
	return s.tasks.CompleteTask(ctx, userID, id)
}

type CreateNoteInput struct {
	UserID  domain.UserID
	Title   string
	Content string
	Subject string
	Tags    []string
}

func (s *Service) CreateNote(ctx context.Context, in CreateNoteInput) (*domain.Note, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("study: user id is required")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("study: note title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("study: note content is required")
	}

	now := s.now()
	note := &domain.Note{
		ID:        domain.NoteID(uuid.NewString()),
		UserID:    in.UserID,
		Title:     title,
		Content:   in.Content,
		Subject:   in.Subject,
		Tags:      in.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.notes.CreateNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *Service) ListNotes(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Note, error) {
	return s.notes.ListNotesByUser(ctx, userID, limit)
}
