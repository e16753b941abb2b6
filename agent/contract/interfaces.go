package contract

import "context"

// ToolGateway executes one tool call against one session.
type ToolGateway interface {
	Execute(ctx context.Context, sessionID string, req ToolRequest) (ToolResult, error)
}

// Notifier announces finalized records to an external system.
type Notifier interface {
	Notify(ctx context.Context, kind string, payload any) error
}
