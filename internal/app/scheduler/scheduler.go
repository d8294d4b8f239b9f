// Package scheduler converts a ranked task backlog into a sequence of
// time-boxed focus and break blocks. It is a greedy heuristic, not an
// optimizer: earliest deadline first with priority and effort tie-breaks,
// linear in the number of tasks, so every schedule it emits is explainable.
package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/Jemo69/umbc-hackathon/internal/domain"
)

type BlockType string

const (
	BlockFocus BlockType = "focus"
	BlockBreak BlockType = "break"
)

// Block is one scheduled interval. Blocks are ephemeral: they are returned
// as part of a planTime tool result and never persisted.
type Block struct {
	Type    BlockType     `json:"type"`
	TaskID  domain.TaskID `json:"taskId,omitempty"`
	Title   string        `json:"title,omitempty"`
	Subject string        `json:"subject,omitempty"`
	Start   time.Time     `json:"start"`
	End     time.Time     `json:"end"`
	Minutes int           `json:"minutes"`
}

// Plan is the full output of one planTime invocation.
type Plan struct {
	Blocks           []Block `json:"blocks"`
	PlannedMinutes   int     `json:"plannedMinutes"`
	AvailableMinutes int     `json:"availableMinutes"`
	Summary          string  `json:"summary"`
}

// Options are the planner knobs. Product treats these as configuration,
// not invariants.
type Options struct {
	FocusMinutes         int // longest single focus block
	BreakMinutes         int // rest inserted between partial allocations
	MinTaskMinutes       int // lower clamp on per-task effort
	MaxTaskMinutes       int // upper clamp on per-task effort
	DefaultEffortMinutes int // effort assumed when a task has none
}

func DefaultOptions() Options {
	return Options{
		FocusMinutes:         45,
		BreakMinutes:         10,
		MinTaskMinutes:       15,
		MaxTaskMinutes:       120,
		DefaultEffortMinutes: 45,
	}
}

// rankEffortDefault is the effort assumed for ranking only; allocation uses
// Options.DefaultEffortMinutes.
const rankEffortDefault = 30

// BuildPlan greedily allocates the given incomplete tasks into focus/break
// blocks within availableMinutes, starting at start. The input slice is not
// mutated; two calls with identical inputs produce identical plans.
func BuildPlan(opts Options, tasks []*domain.Task, availableMinutes int, start time.Time) Plan {
	plan := Plan{AvailableMinutes: availableMinutes}
	// A non-positive focus size can never make progress. Config rejects it,
	// but options also arrive from callers directly.
	if availableMinutes <= 0 || opts.FocusMinutes <= 0 {
		plan.Summary = summarize(0, availableMinutes)
		return plan
	}

	ranked := rank(tasks)

	cursor := start
	minutesLeft := availableMinutes

	for _, task := range ranked {
		if minutesLeft <= 0 {
			break
		}

		remaining := opts.DefaultEffortMinutes
		if task.EstimatedEffort != nil {
			remaining = *task.EstimatedEffort
		}
		remaining = clamp(remaining, opts.MinTaskMinutes, opts.MaxTaskMinutes)

		for remaining > 0 && minutesLeft > 0 {
			size := min3(opts.FocusMinutes, remaining, minutesLeft)
			end := cursor.Add(time.Duration(size) * time.Minute)
			plan.Blocks = append(plan.Blocks, Block{
				Type:    BlockFocus,
				TaskID:  task.ID,
				Title:   task.Title,
				Subject: task.Subject,
				Start:   cursor,
				End:     end,
				Minutes: size,
			})
			cursor = end
			remaining -= size
			minutesLeft -= size

			if remaining > 0 && minutesLeft > 0 && opts.BreakMinutes > 0 {
				rest := opts.BreakMinutes
				if rest > minutesLeft {
					rest = minutesLeft
				}
				end = cursor.Add(time.Duration(rest) * time.Minute)
				plan.Blocks = append(plan.Blocks, Block{
					Type:    BlockBreak,
					Start:   cursor,
					End:     end,
					Minutes: rest,
				})
				cursor = end
				minutesLeft -= rest
			}
		}
	}

	plan.PlannedMinutes = availableMinutes - minutesLeft
	plan.Summary = summarize(plan.PlannedMinutes, availableMinutes)
	return plan
}

// rank orders tasks by ascending due date (tasks without one last), then
// descending priority (missing = 0), then descending effort (missing = 30).
// The sort is stable so input order breaks remaining ties.
func rank(tasks []*domain.Task) []*domain.Task {
	ranked := make([]*domain.Task, len(tasks))
	copy(ranked, tasks)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]

		switch {
		case a.DueDate != nil && b.DueDate == nil:
			return true
		case a.DueDate == nil && b.DueDate != nil:
			return false
		case a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		}

		pa, pb := priorityOf(a), priorityOf(b)
		if pa != pb {
			return pa > pb
		}

		return effortOf(a) > effortOf(b)
	})

	return ranked
}

func priorityOf(t *domain.Task) float64 {
	if t.PriorityScore == nil {
		return 0
	}
	return *t.PriorityScore
}

func effortOf(t *domain.Task) int {
	if t.EstimatedEffort == nil {
		return rankEffortDefault
	}
	return *t.EstimatedEffort
}

func summarize(planned, available int) string {
	return fmt.Sprintf("Planned %d of %d available minutes.", planned, available)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
