// Package intent maps free-text chat messages to one of a fixed set of
// assistant intents without calling the generative backend. Routing is a
// chain of ordered substring predicates, so common structured requests stay
// deterministic, auditable and testable offline.
package intent

import "strings"

type Intent string

const (
	IntentCreateTask Intent = "create_task"
	IntentCreateNote Intent = "create_note"
	IntentPlanTime   Intent = "plan_time"
	IntentGeneric    Intent = "generic"
)

// Keywords holds the trigger lists per intent. The lists are configuration:
// product owns the exact wording, the classifier only owns the ordering
// (task before note before plan before generic).
type Keywords struct {
	Task []string
	Note []string
	Plan []string
}

// DefaultKeywords returns the trigger lists shipped with the product.
func DefaultKeywords() Keywords {
	return Keywords{
		Task: []string{
			"add task", "create task", "remind me", "make a task", "new task",
			"todo", "to-do", "assignment", "homework",
		},
		Note: []string{"save", "note", "remember"},
		Plan: []string{"plan my day", "schedule", "pomodoro", "study plan", "plan time"},
	}
}

type Classifier struct {
	kw Keywords
}

func NewClassifier(kw Keywords) *Classifier {
	return &Classifier{kw: kw}
}

// Classify is total: any input maps to an intent, with IntentGeneric as the
// fallthrough. The first matching chain wins.
func (c *Classifier) Classify(text string) Intent {
	msg := strings.ToLower(text)

	if containsAny(msg, c.kw.Task) {
		return IntentCreateTask
	}
	if containsAny(msg, c.kw.Note) {
		return IntentCreateNote
	}
	if containsAny(msg, c.kw.Plan) {
		return IntentPlanTime
	}
	return IntentGeneric
}

func containsAny(msg string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}
