package study

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jemo69/umbc-hackathon/internal/domain"
)

type taskStoreStub struct {
	domain.TaskStore
	created   []*domain.Task
	completed []domain.TaskID
}

func (s *taskStoreStub) CreateTask(_ context.Context, task *domain.Task) error {
	s.created = append(s.created, task)
	return nil
}

func (s *taskStoreStub) CompleteTask(_ context.Context, _ domain.UserID, id domain.TaskID) error {
	s.completed = append(s.completed, id)
	return nil
}

type noteStoreStub struct {
	domain.NoteStore
	created []*domain.Note
}

func (s *noteStoreStub) CreateNote(_ context.Context, note *domain.Note) error {
	s.created = append(s.created, note)
	return nil
}

func TestCreateTask(t *testing.T) {
	tasks := &taskStoreStub{}
	svc := NewService(tasks, &noteStoreStub{})

	due := time.Now().Add(48 * time.Hour)
	minutes := 30
	task, err := svc.CreateTask(context.Background(), CreateTaskInput{
		UserID:        "user-1",
		Title:         "  read chapter 4  ",
		DueDate:       &due,
		EstimatedTime: &minutes,
		Subject:       "biology",
	})
	require.NoError(t, err)

	assert.Equal(t, "read chapter 4", task.Title)
	assert.NotEmpty(t, task.ID)
	assert.False(t, task.GeneratedByAI)
	require.Len(t, tasks.created, 1)
}

func TestCreateTaskValidation(t *testing.T) {
	svc := NewService(&taskStoreStub{}, &noteStoreStub{})
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, CreateTaskInput{UserID: "user-1", Title: "   "})
	assert.Error(t, err)

	_, err = svc.CreateTask(ctx, CreateTaskInput{Title: "no user"})
	assert.Error(t, err)

	bad := -5
	_, err = svc.CreateTask(ctx, CreateTaskInput{UserID: "user-1", Title: "t", EstimatedTime: &bad})
	assert.Error(t, err)
}

func TestCompleteTaskDelegates(t *testing.T) {
	tasks := &taskStoreStub{}
	svc := NewService(tasks, &noteStoreStub{})

	require.NoError(t, svc.CompleteTask(context.Background(), "user-1", "task-1"))
	assert.Equal(t, []domain.TaskID{"task-1"}, tasks.completed)
}

func TestCreateNote(t *testing.T) {
	notes := &noteStoreStub{}
	svc := NewService(&taskStoreStub{}, notes)

	note, err := svc.CreateNote(context.Background(), CreateNoteInput{
		UserID:  "user-1",
		Title:   "osmosis",
		Content: "water moves across a semipermeable membrane",
		Tags:    []string{"biology"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, note.ID)
	assert.Equal(t, note.CreatedAt, note.UpdatedAt)
	require.Len(t, notes.created, 1)
}

func TestCreateNoteValidation(t *testing.T) {
	svc := NewService(&taskStoreStub{}, &noteStoreStub{})
	ctx := context.Background()

	_, err := svc.CreateNote(ctx, CreateNoteInput{UserID: "user-1", Title: "t"})
	assert.Error(t, err)

	_, err = svc.CreateNote(ctx, CreateNoteInput{UserID: "user-1", Content: "c"})
	assert.Error(t, err)
}
