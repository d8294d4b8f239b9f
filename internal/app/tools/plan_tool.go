package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Jemo69/umbc-hackathon/internal/app/scheduler"
	"github.com/Jemo69/umbc-hackathon/internal/domain"
)

// PlanTool answers a planTime tool call by reading the caller's incomplete
// tasks and running the time-block scheduler over them. It never mutates
// tasks.
type PlanTool struct {
	tasks domain.TaskStore
	opts  scheduler.Options
}

func NewPlanTool(tasks domain.TaskStore, opts scheduler.Options) *PlanTool {
	return &PlanTool{tasks: tasks, opts: opts}
}

func (t *PlanTool) Name() domain.ToolName {
	return domain.ToolPlanTime
}

// PlanArgs is the serialized argument object of a planTime call. StartTime
// is epoch milliseconds.
type PlanArgs struct {
	AvailableMinutes int   `json:"availableMinutes"`
	StartTime        int64 `json:"startTime"`
}

func (t *PlanTool) Call(ctx context.Context, cctx CallContext, args json.RawMessage) (any, error) {
	if cctx.UserID == "" {
		return nil, fmt.Errorf("planTime: missing user in call context")
	}

	var in PlanArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("planTime: invalid arguments: %w", err)
	}
	if in.AvailableMinutes <= 0 {
		return nil, fmt.Errorf("planTime: availableMinutes must be positive, got %d", in.AvailableMinutes)
	}

	snapshot, err := t.tasks.ListIncompleteTasks(ctx, cctx.UserID)
	if err != nil {
		return nil, fmt.Errorf("planTime: list tasks: %w", err)
	}

	plan := scheduler.BuildPlan(t.opts, snapshot, in.AvailableMinutes, time.UnixMilli(in.StartTime))
	return plan, nil
}
