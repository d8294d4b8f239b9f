package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Jemo69/umbc-hackathon/internal/domain"
)

// TaskTool creates a task from an addTask tool call.
type TaskTool struct {
	store domain.TaskStore
	now   func() time.Time
}

func NewTaskTool(store domain.TaskStore) *TaskTool {
	return &TaskTool{store: store, now: time.Now}
}

func (t *TaskTool) Name() domain.ToolName {
	return domain.ToolAddTask
}

// TaskArgs is the serialized argument object of an addTask call. DueDate is
// epoch milliseconds, matching the wire format of the chat log.
type TaskArgs struct {
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	DueDate       *int64   `json:"dueDate,omitempty"`
	EstimatedTime *int     `json:"estimatedTime,omitempty"`
	Subject       string   `json:"subject,omitempty"`
	Priority      *float64 `json:"priority,omitempty"`
	Context       string   `json:"context,omitempty"`
}

func (t *TaskTool) Call(ctx context.Context, cctx CallContext, args json.RawMessage) (any, error) {
	if cctx.UserID == "" {
		return nil, fmt.Errorf("addTask: missing user in call context")
	}

	var in TaskArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("addTask: invalid arguments: %w", err)
	}

	title := in.Title
	if title == "" {
		title = "New Task"
	}

	task := &domain.Task{
		ID:              domain.TaskID(uuid.NewString()),
		UserID:          cctx.UserID,
		Title:           title,
		Description:     in.Description,
		EstimatedEffort: in.EstimatedTime,
		Subject:         in.Subject,
		PriorityScore:   in.Priority,
		GeneratedByAI:   true,
		CreatedAt:       t.now(),
	}
	if in.DueDate != nil {
		due := time.UnixMilli(*in.DueDate)
		task.DueDate = &due
	}

	if err := t.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("addTask: create failed: %w", err)
	}

	return map[string]any{"id": string(task.ID)}, nil
}
