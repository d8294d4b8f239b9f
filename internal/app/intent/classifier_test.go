package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRoutesKeywords(t *testing.T) {
	c := NewClassifier(DefaultKeywords())

	cases := []struct {
		text string
		want Intent
	}{
		{"remind me to finish physics lab tomorrow", IntentCreateTask},
		{"Add task: buy lab goggles", IntentCreateTask},
		{"i have homework due friday", IntentCreateTask},
		{"new TODO for chem", IntentCreateTask},
		{"save this: mitosis has four phases", IntentCreateNote},
		{"please remember that the exam is cumulative", IntentCreateNote},
		{"plan my day", IntentPlanTime},
		{"give me a pomodoro schedule", IntentPlanTime},
		{"what is the capital of France?", IntentGeneric},
		{"", IntentGeneric},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, c.Classify(tc.text), "text=%q", tc.text)
	}
}

func TestClassifyTaskKeywordsWinOverNoteKeywords(t *testing.T) {
	c := NewClassifier(DefaultKeywords())

	// "remind me" (task) and "note" (note) both appear; the task chain is
	// evaluated first.
	got := c.Classify("remind me to write a note about the lecture")
	assert.Equal(t, IntentCreateTask, got)
}

func TestClassifyNoteKeywordsWinOverPlanKeywords(t *testing.T) {
	c := NewClassifier(DefaultKeywords())

	got := c.Classify("save my schedule for monday")
	assert.Equal(t, IntentCreateNote, got)
}
