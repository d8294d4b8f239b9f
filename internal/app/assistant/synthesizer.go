package assistant

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Jemo69/umbc-hackathon/internal/app/intent"
	"github.com/Jemo69/umbc-hackathon/internal/app/tools"
	"github.com/Jemo69/umbc-hackathon/internal/domain"
)

// Synthesis is pure: no I/O, deterministic given identical text and "now",
// and exactly one tool-call descriptor per matched intent.

var taskStopWords = map[string]bool{
	"add": true, "create": true, "task": true, "remind": true,
	"me": true, "to": true, "about": true,
}

var noteStopWords = map[string]bool{
	"save": true, "note": true, "remember": true, "that": true,
}

const defaultTaskMinutes = 60

func synthesizeTask(text string, now time.Time) Response {
	// A recognized date phrase is consumed by the due-date extraction and
	// does not leak into the title.
	due, remainder := extractDueDate(text, now)

	title := strings.Join(filterWords(remainder, taskStopWords), " ")
	if title == "" {
		title = "New Task"
	}

	estimated := defaultTaskMinutes
	args := tools.TaskArgs{
		Title:         title,
		EstimatedTime: &estimated,
		Context:       text,
	}

	ack := fmt.Sprintf("I've added %q to your task list", title)
	if due != nil {
		ms := due.UnixMilli()
		args.DueDate = &ms
		ack += fmt.Sprintf(" with a due date of %s", due.Format("Jan 2, 2006"))
	}
	ack += ". Want to set a subject or priority?"

	return Response{
		Text:      ack,
		Type:      domain.MessageTypeToolCall,
		ToolCalls: []domain.ToolCallRecord{newCall(domain.ToolAddTask, args)},
		Context:   text,
	}
}

func synthesizeNote(text string) Response {
	words := filterWords(text, noteStopWords)
	if len(words) > 5 {
		words = words[:5]
	}
	title := strings.Join(words, " ")
	if title == "" {
		title = "New Note"
	}

	args := tools.NoteArgs{
		Title:   title,
		Content: text, // the whole original message, unfiltered
		Context: text,
	}

	return Response{
		Text:      fmt.Sprintf("Saved a note titled %q.", title),
		Type:      domain.MessageTypeToolCall,
		ToolCalls: []domain.ToolCallRecord{newCall(domain.ToolAddNote, args)},
		Context:   text,
	}
}

func synthesizePlan(text string, now time.Time, budgetMinutes int) Response {
	minutes, ok := intent.ParseDurationMinutes(text)
	if !ok {
		minutes = budgetMinutes
	}

	args := tools.PlanArgs{
		AvailableMinutes: minutes,
		StartTime:        now.UnixMilli(),
	}

	return Response{
		Text:      fmt.Sprintf("Let me plan %d minutes of study time for you.", minutes),
		Type:      domain.MessageTypeToolCall,
		ToolCalls: []domain.ToolCallRecord{newCall(domain.ToolPlanTime, args)},
		Context:   text,
	}
}

func newCall(name domain.ToolName, args any) domain.ToolCallRecord {
	payload, _ := json.Marshal(args)
	return domain.ToolCallRecord{
		FunctionName: name,
		Arguments:    string(payload),
	}
}

// filterWords drops every token whose lowercase form is in the stop list,
// preserving original casing and order of the rest.
func filterWords(text string, stop map[string]bool) []string {
	var kept []string
	for _, word := range strings.Fields(text) {
		if stop[strings.ToLower(word)] {
			continue
		}
		kept = append(kept, word)
	}
	return kept
}

// extractDueDate resolves a relative date phrase against now and returns the
// text with the matched phrase cut out.
func extractDueDate(text string, now time.Time) (*time.Time, string) {
	lower := strings.ToLower(text)

	if idx := strings.Index(lower, "tomorrow"); idx >= 0 {
		due := now.Add(24 * time.Hour)
		return &due, text[:idx] + text[idx+len("tomorrow"):]
	}
	if idx := strings.Index(lower, "next week"); idx >= 0 {
		due := now.Add(7 * 24 * time.Hour)
		return &due, text[:idx] + text[idx+len("next week"):]
	}
	return nil, text
}
