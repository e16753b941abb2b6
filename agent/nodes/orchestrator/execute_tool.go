package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
	statex "github.com/tanpawarit/Chative-Voice-Desk/agent/state"
)

// ToolRunner executes tool calls for one assistant.
type ToolRunner interface {
	Assistant() contractx.AssistantKind
	Execute(ctx context.Context, st *statex.SessionState, req contractx.ToolRequest) contractx.ToolResult
}

func ExecuteTool(ctx context.Context, in *GraphState, runner ToolRunner) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	result := runner.Execute(ctx, in.Session, in.Request)
	in.Result = result

	event := log.Debug()
	if result.Failed() {
		event = log.Info()
	}
	event.
		Str("session_id", in.SessionID).
		Str("assistant", string(runner.Assistant())).
		Str("tool", in.Request.Tool).
		Str("failure", string(result.Failure)).
		Bool("new_session", in.Created).
		Msg("tool executed")

	return in, nil
}
