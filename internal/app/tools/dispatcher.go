package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Jemo69/umbc-hackathon/internal/domain"
	"github.com/Jemo69/umbc-hackathon/internal/observability"
)

// Dispatcher executes the tool calls of a single assistant turn. Each call
// runs in isolation: a parse failure or collaborator error is captured in
// that call's result and never prevents the remaining calls from running.
type Dispatcher struct {
	tools map[domain.ToolName]Tool
}

func NewDispatcher(tools ...Tool) *Dispatcher {
	byName := make(map[domain.ToolName]Tool, len(tools))
	for _, t := range tools {
		byName[t.Name()] = t
	}
	return &Dispatcher{tools: byName}
}

// Result is the outcome of one dispatched call. Record carries the original
// call with its Result field populated; Text is the user-facing line for
// the tool_result message.
type Result struct {
	Record domain.ToolCallRecord
	Text   string
	Failed bool
}

// Dispatch runs every call in order and returns one Result per call, in
// call order.
func (d *Dispatcher) Dispatch(ctx context.Context, cctx CallContext, calls []domain.ToolCallRecord) []Result {
	log := observability.LoggerFromContext(ctx)

	results := make([]Result, 0, len(calls))
	for _, call := range calls {
		results = append(results, d.dispatchOne(ctx, cctx, call))

		last := results[len(results)-1]
		if last.Failed {
			log.Warn().
				Str("tool", string(call.FunctionName)).
				Str("user_id", string(cctx.UserID)).
				Msg(last.Text)
		} else {
			log.Info().
				Str("tool", string(call.FunctionName)).
				Str("user_id", string(cctx.UserID)).
				Msg("tool call executed")
		}
	}
	return results
}

func (d *Dispatcher) dispatchOne(ctx context.Context, cctx CallContext, call domain.ToolCallRecord) Result {
	tool, ok := d.tools[call.FunctionName]
	if !ok {
		return failure(call, fmt.Errorf("unknown tool %q", call.FunctionName))
	}

	args := call.Arguments
	if args == "" {
		args = "{}"
	}

	out, err := tool.Call(ctx, cctx, json.RawMessage(args))
	if err != nil {
		return failure(call, err)
	}

	payload, err := json.Marshal(out)
	if err != nil {
		return failure(call, fmt.Errorf("encode result: %w", err))
	}

	call.Result = string(payload)
	return Result{
		Record: call,
		Text:   fmt.Sprintf("Tool %s executed successfully.", call.FunctionName),
	}
}

func failure(call domain.ToolCallRecord, err error) Result {
	call.Result = `{"error":true}`
	return Result{
		Record: call,
		Text:   fmt.Sprintf("Tool %s failed: %v", call.FunctionName, err),
		Failed: true,
	}
}
