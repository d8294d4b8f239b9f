package tools

import (
	"context"
	"encoding/json"

	"github.com/Jemo69/umbc-hackathon/internal/domain"
)

// CallContext brings metadata of the call to the tool.
type CallContext struct {
	UserID    domain.UserID
	SessionID domain.SessionID
	RequestID string
}

// Tool is a named side-effecting action the assistant can request. Each tool
// parses its own argument payload, so a malformed payload fails only that
// call.
type Tool interface {
	Name() domain.ToolName
	Call(ctx context.Context, cctx CallContext, args json.RawMessage) (any, error)
}
