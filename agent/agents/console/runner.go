package console

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
)

const defaultMaxSteps = 8

var (
	ErrModelInvoke  = errors.New("model invoke failed")
	ErrEmptyReply   = errors.New("model returned an empty reply")
	ErrTooManySteps = errors.New("model kept calling tools")
)

// Runner drives one assistant in text: the model picks tools, the gateway runs
// them, and results go back to the model until it answers in plain text.
type Runner struct {
	turn         compose.Runnable[[]*schema.Message, *schema.Message]
	gateway      contractx.ToolGateway
	systemPrompt string
	maxSteps     int
	allowedTools map[string]struct{}
}

type Option func(*Runner)

func WithMaxSteps(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxSteps = n
		}
	}
}

func New(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	gateway contractx.ToolGateway,
	tools []*schema.ToolInfo,
	systemPrompt string,
	opts ...Option,
) (*Runner, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if gateway == nil {
		return nil, errors.New("tool gateway is required")
	}

	toolModel, err := chatModel.WithTools(tools)
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools: %v", ErrModelInvoke, err)
	}
	turn, err := compileTurnGraph(ctx, toolModel)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]struct{}, len(tools))
	for _, t := range tools {
		if t == nil || strings.TrimSpace(t.Name) == "" {
			continue
		}
		allowed[t.Name] = struct{}{}
	}

	r := &Runner{
		turn:         turn,
		gateway:      gateway,
		systemPrompt: strings.TrimSpace(systemPrompt),
		maxSteps:     defaultMaxSteps,
		allowedTools: allowed,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Conversation is the message history of one console session.
type Conversation struct {
	SessionID string
	history   []*schema.Message
}

func (r *Runner) NewConversation(sessionID string) *Conversation {
	return &Conversation{SessionID: sessionID}
}

// Reply appends the user's text and runs model turns until a plain reply.
// A failed reply leaves the history as it was before the call.
func (r *Runner) Reply(ctx context.Context, conv *Conversation, userText string) (reply string, err error) {
	text := strings.TrimSpace(userText)
	if text == "" {
		return "", fmt.Errorf("%w: message is empty", contractx.ErrValidation)
	}

	mark := len(conv.history)
	defer func() {
		if err != nil {
			conv.history = conv.history[:mark]
		}
	}()
	conv.history = append(conv.history, schema.UserMessage(text))

	for step := 0; step < r.maxSteps; step++ {
		msg, err := r.turn.Invoke(ctx, r.messages(conv))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrModelInvoke, err)
		}
		if msg == nil {
			return "", ErrEmptyReply
		}
		conv.history = append(conv.history, msg)

		if len(msg.ToolCalls) == 0 {
			reply = strings.TrimSpace(msg.Content)
			if reply == "" {
				return "", ErrEmptyReply
			}
			return reply, nil
		}

		for _, call := range msg.ToolCalls {
			output, err := r.runToolCall(ctx, conv.SessionID, call)
			if err != nil {
				return "", err
			}
			conv.history = append(conv.history, schema.ToolMessage(output, call.ID))
		}
	}
	return "", fmt.Errorf("%w: gave up after %d steps", ErrTooManySteps, r.maxSteps)
}

func (r *Runner) messages(conv *Conversation) []*schema.Message {
	out := make([]*schema.Message, 0, len(conv.history)+1)
	if r.systemPrompt != "" {
		out = append(out, schema.SystemMessage(r.systemPrompt))
	}
	return append(out, conv.history...)
}

// runToolCall returns the text fed back to the model. Bad calls become text so
// the model can correct itself; only gateway faults abort the turn.
func (r *Runner) runToolCall(ctx context.Context, sessionID string, call schema.ToolCall) (string, error) {
	req, err := toToolRequest(call)
	if err != nil {
		return err.Error(), nil
	}
	if _, ok := r.allowedTools[req.Tool]; !ok {
		return fmt.Sprintf("Tool %s is not available.", req.Tool), nil
	}

	result, err := r.gateway.Execute(ctx, sessionID, req)
	if err != nil {
		return "", err
	}
	log.Debug().
		Str("session_id", sessionID).
		Str("tool", req.Tool).
		Str("failure", string(result.Failure)).
		Msg("console tool call")
	return result.Output, nil
}

func toToolRequest(call schema.ToolCall) (contractx.ToolRequest, error) {
	tool := strings.TrimSpace(call.Function.Name)
	if tool == "" {
		return contractx.ToolRequest{}, fmt.Errorf("%w: tool call name is empty", contractx.ErrValidation)
	}

	args := map[string]any{}
	rawArgs := strings.TrimSpace(call.Function.Arguments)
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return contractx.ToolRequest{}, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrValidation, tool, err)
		}
	}
	return contractx.ToolRequest{Tool: tool, Args: args}, nil
}
