package orchestratornode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
	statex "github.com/tanpawarit/Chative-Voice-Desk/agent/state"
)

var (
	ErrInvalidSession = errors.New("session id is empty")
	ErrInvalidTool    = errors.New("tool name is empty")
)

type GraphInput struct {
	SessionID string
	Request   contractx.ToolRequest
}

type GraphOutput struct {
	Result contractx.ToolResult
}

// GraphState is threaded through every node of one tool call.
type GraphState struct {
	SessionID string
	Request   contractx.ToolRequest
	Now       time.Time

	Session *statex.SessionState
	Created bool

	Result contractx.ToolResult
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	tool := strings.TrimSpace(in.Request.Tool)
	if tool == "" {
		return nil, ErrInvalidTool
	}

	args := in.Request.Args
	if args == nil {
		args = map[string]any{}
	}

	return &GraphState{
		SessionID: sessionID,
		Request:   contractx.ToolRequest{Tool: tool, Args: args},
		Now:       nowFn().UTC(),
	}, nil
}
