package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/Jemo69/umbc-hackathon/internal/app/assistant"
	"github.com/Jemo69/umbc-hackathon/internal/app/study"
	"github.com/Jemo69/umbc-hackathon/internal/domain"
)

// userIDHeader carries the caller identity. Every /api route requires it;
// there is no fallback identity.
const userIDHeader = "X-User-Id"

type Server struct {
	assistant *assistant.Service
	study     *study.Service
}

func NewServer(assistantSvc *assistant.Service, studySvc *study.Service) http.Handler {
	s := &Server{assistant: assistantSvc, study: studySvc}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.requireUser)

	api.HandleFunc("/chat/messages", s.handleSendMessage).Methods(http.MethodPost)
	api.HandleFunc("/chat/history", s.handleChatHistory).Methods(http.MethodGet)
	api.HandleFunc("/chat/sessions", s.handleListSessions).Methods(http.MethodGet)
	api.HandleFunc("/chat/sessions/{id}", s.handleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/chat/sessions/{id}", s.handleRenameSession).Methods(http.MethodPatch)
	api.HandleFunc("/chat/sessions/{id}", s.handleDeleteSession).Methods(http.MethodDelete)

	api.HandleFunc("/tasks", s.handleCreateTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks", s.handleListTasks).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}/complete", s.handleCompleteTask).Methods(http.MethodPatch)

	api.HandleFunc("/notes", s.handleCreateNote).Methods(http.MethodPost)
	api.HandleFunc("/notes", s.handleListNotes).Methods(http.MethodGet)

	return chainMiddlewares(r, withLogging, withRequestID, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type sendMessageRequest struct {
	SessionID string `json:"sessionId,omitempty"`
	Text      string `json:"text"`
}

type sendMessageResponse struct {
	SessionID string                  `json:"sessionId"`
	Text      string                  `json:"text"`
	Type      string                  `json:"type"`
	ToolCalls []domain.ToolCallRecord `json:"toolCalls,omitempty"`
	AIEnabled bool                    `json:"aiEnabled"`
}

type sessionResponse struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
	LastMessageAt      *time.Time `json:"lastMessageAt,omitempty"`
	LastMessagePreview string     `json:"lastMessagePreview,omitempty"`
}

type messageResponse struct {
	ID        string                  `json:"id"`
	SessionID string                  `json:"sessionId,omitempty"`
	Text      string                  `json:"text"`
	IsUser    bool                    `json:"isUser"`
	Type      string                  `json:"type"`
	ToolCalls []domain.ToolCallRecord `json:"toolCalls,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
}

type sessionTimelineResponse struct {
	Session  sessionResponse   `json:"session"`
	Messages []messageResponse `json:"messages"`
}

type renameSessionRequest struct {
	Title string `json:"title"`
}

type createTaskRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	DueDate       *int64   `json:"dueDate,omitempty"` // epoch ms
	EstimatedTime *int     `json:"estimatedTime,omitempty"`
	Subject       string   `json:"subject,omitempty"`
	Priority      *float64 `json:"priority,omitempty"`
}

type taskResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	DueDate       *int64   `json:"dueDate,omitempty"`
	EstimatedTime *int     `json:"estimatedTime,omitempty"`
	Subject       string   `json:"subject,omitempty"`
	Priority      *float64 `json:"priority,omitempty"`
	Completed     bool     `json:"completed"`
	GeneratedByAI bool     `json:"generatedByAI"`
	CreatedAt     int64    `json:"createdAt"`
}

type createNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Subject string   `json:"subject,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

type noteResponse struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Subject   string   `json:"subject,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	CreatedAt int64    `json:"createdAt"`
	UpdatedAt int64    `json:"updatedAt"`
}

// ─────────────────────────────────────────────
// Chat handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}

	out, err := s.assistant.SendMessage(r.Context(), assistant.SendMessageInput{
		UserID:    userFrom(r),
		SessionID: domain.SessionID(req.SessionID),
		Text:      req.Text,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sendMessageResponse{
		SessionID: string(out.SessionID),
		Text:      out.AssistantText,
		Type:      string(out.MessageType),
		ToolCalls: out.ToolCalls,
		AIEnabled: out.AIEnabled,
	})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.assistant.GetChatHistory(r.Context(), userFrom(r), limitFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMessagesResponse(msgs))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.assistant.ListSessions(r.Context(), userFrom(r), limitFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, toSessionResponse(session))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := domain.SessionID(mux.Vars(r)["id"])

	session, msgs, err := s.assistant.GetSessionTimeline(r.Context(), userFrom(r), id, limitFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionTimelineResponse{
		Session:  toSessionResponse(session),
		Messages: toMessagesResponse(msgs),
	})
}

func (s *Server) handleRenameSession(w http.ResponseWriter, r *http.Request) {
	var req renameSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		badRequest(w, "title is required")
		return
	}

	id := domain.SessionID(mux.Vars(r)["id"])
	if err := s.assistant.RenameSession(r.Context(), userFrom(r), id, req.Title); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := domain.SessionID(mux.Vars(r)["id"])
	if err := s.assistant.DeleteSession(r.Context(), userFrom(r), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─────────────────────────────────────────────
// Task handlers
// ─────────────────────────────────────────────

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		badRequest(w, "title is required")
		return
	}
	if req.EstimatedTime != nil && *req.EstimatedTime <= 0 {
		badRequest(w, "estimatedTime must be positive")
		return
	}

	in := study.CreateTaskInput{
		UserID:        userFrom(r),
		Title:         req.Title,
		Description:   req.Description,
		EstimatedTime: req.EstimatedTime,
		Subject:       req.Subject,
		Priority:      req.Priority,
	}
	if req.DueDate != nil {
		due := time.UnixMilli(*req.DueDate)
		in.DueDate = &due
	}

	task, err := s.study.CreateTask(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.study.ListTasks(r.Context(), userFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, toTaskResponse(task))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	id := domain.TaskID(mux.Vars(r)["id"])
	if err := s.study.CompleteTask(r.Context(), userFrom(r), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─────────────────────────────────────────────
// Note handlers
// ─────────────────────────────────────────────

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		badRequest(w, "title is required")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		badRequest(w, "content is required")
		return
	}

	note, err := s.study.CreateNote(r.Context(), study.CreateNoteInput{
		UserID:  userFrom(r),
		Title:   req.Title,
		Content: req.Content,
		Subject: req.Subject,
		Tags:    req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toNoteResponse(note))
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.study.ListNotes(r.Context(), userFrom(r), limitFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]noteResponse, 0, len(notes))
	for _, note := range notes {
		out = append(out, toNoteResponse(note))
	}
	writeJSON(w, http.StatusOK, out)
}

// ─────────────────────────────────────────────
// Response mapping
// ─────────────────────────────────────────────

func toSessionResponse(s *domain.ChatSession) sessionResponse {
	return sessionResponse{
		ID:                 string(s.ID),
		Title:              s.Title,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
		LastMessageAt:      s.LastMessageAt,
		LastMessagePreview: s.LastMessagePreview,
	}
}

func toMessageResponse(m *domain.ChatMessage) messageResponse {
	return messageResponse{
		ID:        string(m.ID),
		SessionID: string(m.SessionID),
		Text:      m.Text,
		IsUser:    m.IsUser,
		Type:      string(m.Type),
		ToolCalls: m.ToolCalls,
		CreatedAt: m.CreatedAt,
	}
}

func toMessagesResponse(msgs []*domain.ChatMessage) []messageResponse {
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return out
}

func toTaskResponse(t *domain.Task) taskResponse {
	resp := taskResponse{
		ID:            string(t.ID),
		Title:         t.Title,
		Description:   t.Description,
		EstimatedTime: t.EstimatedEffort,
		Subject:       t.Subject,
		Priority:      t.PriorityScore,
		Completed:     t.Completed,
		GeneratedByAI: t.GeneratedByAI,
		CreatedAt:     t.CreatedAt.UnixMilli(),
	}
	if t.DueDate != nil {
		ms := t.DueDate.UnixMilli()
		resp.DueDate = &ms
	}
	return resp
}

func toNoteResponse(n *domain.Note) noteResponse {
	return noteResponse{
		ID:        string(n.ID),
		Title:     n.Title,
		Content:   n.Content,
		Subject:   n.Subject,
		Tags:      n.Tags,
		CreatedAt: n.CreatedAt.UnixMilli(),
		UpdatedAt: n.UpdatedAt.UnixMilli(),
	}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func userFrom(r *http.Request) domain.UserID {
	return domain.UserID(r.Header.Get(userIDHeader))
}

func limitFrom(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotOwner):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrTaskNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}
