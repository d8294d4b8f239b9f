// Package assistant owns the conversational turn: it resolves the session,
// appends the user and assistant messages, executes any synthesized tool
// calls, and refreshes the session metadata. The numbered steps run strictly
// in sequence; a step failure surfaces as an error instead of a partial
// commit of later steps.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jemo69/umbc-hackathon/internal/app/intent"
	"github.com/Jemo69/umbc-hackathon/internal/app/scheduler"
	"github.com/Jemo69/umbc-hackathon/internal/app/tools"
	"github.com/Jemo69/umbc-hackathon/internal/domain"
	"github.com/Jemo69/umbc-hackathon/internal/observability"
)

const (
	sessionTitleLimit   = 60
	messagePreviewLimit = 120
	sessionTitleMax     = 80
)

// Collaborators bundles every external capability the assistant depends on.
// The core never detects what kind of storage it is talking to; it only
// sees these interfaces.
type Collaborators struct {
	Sessions   domain.SessionStore
	Messages   domain.MessageStore
	Tasks      domain.TaskStore
	Notes      domain.NoteStore
	Completion domain.CompletionClient
}

type Service struct {
	collab     Collaborators
	responder  Responder
	dispatcher *tools.Dispatcher
	now        func() time.Time
}

// NewService wires the rule-based responder and the three built-in tools.
// plannerOpts and budgetMinutes come from configuration.
func NewService(collab Collaborators, plannerOpts scheduler.Options, budgetMinutes int) *Service {
	classifier := intent.NewClassifier(intent.DefaultKeywords())

	return &Service{
		collab:    collab,
		responder: NewRuleBasedResponder(classifier, collab.Completion, budgetMinutes),
		dispatcher: tools.NewDispatcher(
			tools.NewTaskTool(collab.Tasks),
			tools.NewNoteTool(collab.Notes),
			tools.NewPlanTool(collab.Tasks, plannerOpts),
		),
		now: time.Now,
	}
}

type SendMessageInput struct {
	UserID    domain.UserID
	SessionID domain.SessionID // optional; ignored when not owned by the user
	Text      string
}

type SendMessageOutput struct {
	SessionID     domain.SessionID
	AssistantText string
	MessageType   domain.MessageType
	ToolCalls     []domain.ToolCallRecord
	AIEnabled     bool
}

// SendMessage runs one full conversational turn. Tool failures are captured
// in tool_result messages and never abort the turn; only store failures do.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("assistant: user id is required")
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, fmt.Errorf("assistant: message text is required")
	}

	log := observability.LoggerFromContext(ctx).With().
		Str("user_id", string(in.UserID)).
		Logger()

	// 1. Resolve the session. A supplied id that is missing or owned by
	// someone else is treated as "no session": the turn is forgiving and
	// starts a fresh conversation instead of raising.
	session, err := s.resolveSession(ctx, in)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve session")
		return nil, err
	}
	log = log.With().Str("session_id", string(session.ID)).Logger()

	// 2. Append the user message.
	if err := s.append(ctx, &domain.ChatMessage{
		UserID:    in.UserID,
		SessionID: session.ID,
		Text:      in.Text,
		IsUser:    true,
		Type:      domain.MessageTypeText,
	}); err != nil {
		log.Error().Err(err).Msg("failed to append user message")
		return nil, err
	}

	// 3. Produce the assistant response (rule-based tools or generative
	// fallback).
	resp := s.responder.Respond(ctx, in.Text, s.now())

	// 4. Append the assistant message, carrying any tool-call descriptors.
	if err := s.append(ctx, &domain.ChatMessage{
		UserID:    in.UserID,
		SessionID: session.ID,
		Text:      resp.Text,
		Type:      resp.Type,
		ToolCalls: resp.ToolCalls,
		Context:   resp.Context,
	}); err != nil {
		log.Error().Err(err).Msg("failed to append assistant message")
		return nil, err
	}

	// 5. Execute tool calls, one tool_result message per descriptor, in
	// descriptor order. A failed call never blocks its siblings or the
	// metadata update below.
	if resp.Type == domain.MessageTypeToolCall {
		cctx := tools.CallContext{UserID: in.UserID, SessionID: session.ID}
		for _, result := range s.dispatcher.Dispatch(ctx, cctx, resp.ToolCalls) {
			if err := s.append(ctx, &domain.ChatMessage{
				UserID:    in.UserID,
				SessionID: session.ID,
				Text:      result.Text,
				Type:      domain.MessageTypeToolResult,
				ToolCalls: []domain.ToolCallRecord{result.Record},
				Context:   resp.Context,
			}); err != nil {
				log.Error().Err(err).Msg("failed to append tool result")
				return nil, err
			}
		}
	}

	// 6. Refresh session metadata from the assistant's textual response.
	if err := s.collab.Sessions.UpdateSessionMeta(ctx, session.ID, s.now(), truncate(resp.Text, messagePreviewLimit)); err != nil {
		log.Error().Err(err).Msg("failed to update session metadata")
		return nil, err
	}

	log.Info().Str("message_type", string(resp.Type)).Msg("turn completed")

	return &SendMessageOutput{
		SessionID:     session.ID,
		AssistantText: resp.Text,
		MessageType:   resp.Type,
		ToolCalls:     resp.ToolCalls,
		AIEnabled:     s.aiEnabled(),
	}, nil
}

func (s *Service) resolveSession(ctx context.Context, in SendMessageInput) (*domain.ChatSession, error) {
	if in.SessionID != "" {
		session, err := s.collab.Sessions.GetSessionOwnedBy(ctx, in.UserID, in.SessionID)
		switch {
		case err == nil:
			return session, nil
		case isOwnershipMiss(err):
			// fall through to creation
		default:
			return nil, err
		}
	}

	now := s.now()
	session := &domain.ChatSession{
		ID:        domain.SessionID(uuid.NewString()),
		UserID:    in.UserID,
		Title:     truncate(in.Text, sessionTitleLimit),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.collab.Sessions.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Service) append(ctx context.Context, msg *domain.ChatMessage) error {
	msg.ID = domain.MessageID(uuid.NewString())
	msg.CreatedAt = s.now()
	return s.collab.Messages.AppendMessage(ctx, msg)
}

func (s *Service) aiEnabled() bool {
	return s.collab.Completion != nil && s.collab.Completion.Enabled()
}

// GetSessionTimeline returns a session owned by the user and its messages
// in insertion order.
func (s *Service) GetSessionTimeline(ctx context.Context, userID domain.UserID, id domain.SessionID, limit int) (*domain.ChatSession, []*domain.ChatMessage, error) {
	session, err := s.collab.Sessions.GetSessionOwnedBy(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := s.collab.Messages.ListMessagesBySession(ctx, id, limit)
	if err != nil {
		return nil, nil, err
	}
	return session, msgs, nil
}

func (s *Service) ListSessions(ctx context.Context, userID domain.UserID, limit int) ([]*domain.ChatSession, error) {
	return s.collab.Sessions.ListSessionsByUser(ctx, userID, limit)
}

// GetChatHistory returns all of a user's messages regardless of session.
func (s *Service) GetChatHistory(ctx context.Context, userID domain.UserID, limit int) ([]*domain.ChatMessage, error) {
	return s.collab.Messages.ListMessagesByUser(ctx, userID, limit)
}

// RenameSession is a direct user action: unlike the conversational turn it
// surfaces ownership errors instead of forgiving them.
func (s *Service) RenameSession(ctx context.Context, userID domain.UserID, id domain.SessionID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("assistant: session title is required")
	}
	return s.collab.Sessions.RenameSession(ctx, userID, id, truncate(title, sessionTitleMax))
}

// DeleteSession removes a session and cascades to its messages. Ownership
// errors surface to the caller.
func (s *Service) DeleteSession(ctx context.Context, userID domain.UserID, id domain.SessionID) error {
	if err := s.collab.Sessions.DeleteSession(ctx, userID, id); err != nil {
		return err
	}
	return s.collab.Messages.DeleteMessagesBySession(ctx, id)
}

func isOwnershipMiss(err error) bool {
	return err == domain.ErrSessionNotFound || err == domain.ErrNotOwner
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
