package assistant

import (
	"context"
	"errors"
	"time"

	"github.com/Jemo69/umbc-hackathon/internal/app/intent"
	"github.com/Jemo69/umbc-hackathon/internal/domain"
	"github.com/Jemo69/umbc-hackathon/internal/observability"
)

// Response is the assistant's contribution to one turn, before any tool
// call is executed.
type Response struct {
	Text      string
	Type      domain.MessageType
	ToolCalls []domain.ToolCallRecord
	Context   string // the triggering user text
}

// Responder is the strategy for producing the assistant side of a turn.
// There is exactly one pipeline per strategy; variants must implement this
// interface rather than forking the turn state machine.
type Responder interface {
	Respond(ctx context.Context, text string, now time.Time) Response
}

// SystemPrompt frames every generative fallback call.
const SystemPrompt = "you are edutron, an ai study assistant. be concise and helpful. " +
	"you can suggest creating tasks or notes. keep responses student-friendly."

// Fixed user-facing strings for the failure modes of the fallback. A turn
// always ends with a displayed message, so these stand in for errors.
const (
	notConfiguredMessage = "no ai api key configured. set EDUTRON_OPENROUTER_API_KEY to enable ai responses."
	apologyMessage       = "I had trouble contacting the AI service. Please try again in a moment."
	defaultReply         = "i'm here to help with your studies!"
)

// RuleBasedResponder routes messages through the keyword classifier and
// synthesizes tool calls for matched intents; only unmatched messages reach
// the completion backend.
type RuleBasedResponder struct {
	classifier    *intent.Classifier
	completion    domain.CompletionClient
	budgetMinutes int // default planTime budget when the text has no duration
}

func NewRuleBasedResponder(classifier *intent.Classifier, completion domain.CompletionClient, budgetMinutes int) *RuleBasedResponder {
	if budgetMinutes <= 0 {
		budgetMinutes = 120
	}
	return &RuleBasedResponder{
		classifier:    classifier,
		completion:    completion,
		budgetMinutes: budgetMinutes,
	}
}

func (r *RuleBasedResponder) Respond(ctx context.Context, text string, now time.Time) Response {
	switch r.classifier.Classify(text) {
	case intent.IntentCreateTask:
		return synthesizeTask(text, now)
	case intent.IntentCreateNote:
		return synthesizeNote(text)
	case intent.IntentPlanTime:
		return synthesizePlan(text, now, r.budgetMinutes)
	default:
		return r.fallback(ctx, text)
	}
}

// fallback delegates to the completion collaborator. It never mutates state
// and never propagates an error: transport failures become a fixed apology,
// an unusable response body becomes a fixed friendly default, and a missing
// credential short-circuits before any network call.
func (r *RuleBasedResponder) fallback(ctx context.Context, text string) Response {
	if r.completion == nil || !r.completion.Enabled() {
		return Response{
			Text:    notConfiguredMessage,
			Type:    domain.MessageTypeText,
			Context: text,
		}
	}

	reply, err := r.completion.Complete(ctx, SystemPrompt, text)
	if err != nil {
		log := observability.LoggerFromContext(ctx)
		log.Warn().Err(err).Msg("completion call failed")
		if errors.Is(err, domain.ErrUnexpectedCompletion) {
			reply = defaultReply
		} else {
			reply = apologyMessage
		}
	}

	return Response{
		Text:    reply,
		Type:    domain.MessageTypeText,
		Context: text,
	}
}
