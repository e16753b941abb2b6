package console

import (
	"context"
	"errors"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
)

type fakeToolCallingModel struct {
	responses []*schema.Message
	err       error
	idx       int
	inputs    [][]*schema.Message
	tools     []*schema.ToolInfo
}

func (f *fakeToolCallingModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	if f.idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

func (f *fakeToolCallingModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func (f *fakeToolCallingModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	f.tools = tools
	return f, nil
}

type fakeGateway struct {
	calls []contractx.ToolRequest
	err   error
}

func (f *fakeGateway) Execute(ctx context.Context, sessionID string, req contractx.ToolRequest) (contractx.ToolResult, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return contractx.ToolResult{}, f.err
	}
	return contractx.ToolResult{Tool: req.Tool, Output: "Added 2x Bread to the cart."}, nil
}

var testTools = []*schema.ToolInfo{{Name: "add_to_cart", Desc: "add"}}

func toolCallMessage(id, name, args string) *schema.Message {
	return &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{{
			ID:       id,
			Function: schema.FunctionCall{Name: name, Arguments: args},
		}},
	}
}

func TestReplyRunsToolsThenAnswers(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{responses: []*schema.Message{
		toolCallMessage("call-1", "add_to_cart", `{"item_name":"bread","quantity":2}`),
		schema.AssistantMessage("Two loaves of bread are in your cart.", nil),
	}}
	gateway := &fakeGateway{}

	r, err := New(context.Background(), model, gateway, testTools, "You are a grocery assistant.")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	conv := r.NewConversation("s1")

	reply, err := r.Reply(context.Background(), conv, "add two breads")
	if err != nil {
		t.Fatalf("Reply() error = %v", err)
	}
	if reply != "Two loaves of bread are in your cart." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if len(gateway.calls) != 1 || gateway.calls[0].Args["item_name"] != "bread" {
		t.Fatalf("unexpected gateway calls: %+v", gateway.calls)
	}
	if len(model.tools) != 1 {
		t.Fatalf("tools must be bound, got %d", len(model.tools))
	}

	second := model.inputs[1]
	if second[0].Role != schema.System {
		t.Fatalf("first message must be the system prompt, got %s", second[0].Role)
	}
	last := second[len(second)-1]
	if last.Role != schema.Tool || last.ToolCallID != "call-1" || last.Content != "Added 2x Bread to the cart." {
		t.Fatalf("unexpected tool message: %+v", last)
	}
}

func TestReplyUnknownToolIsFedBack(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{responses: []*schema.Message{
		toolCallMessage("call-1", "launch_rocket", `{}`),
		schema.AssistantMessage("I can't do that.", nil),
	}}
	gateway := &fakeGateway{}
	r, err := New(context.Background(), model, gateway, testTools, "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := r.Reply(context.Background(), r.NewConversation("s1"), "go"); err != nil {
		t.Fatalf("Reply() error = %v", err)
	}
	if len(gateway.calls) != 0 {
		t.Fatal("unknown tools must not reach the gateway")
	}
}

func TestReplyGatewayErrorAborts(t *testing.T) {
	t.Parallel()

	gatewayErr := errors.New("state store down")
	model := &fakeToolCallingModel{responses: []*schema.Message{
		toolCallMessage("call-1", "add_to_cart", `{"item_name":"bread"}`),
	}}
	r, err := New(context.Background(), model, &fakeGateway{err: gatewayErr}, testTools, "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	conv := r.NewConversation("s1")
	if _, err := r.Reply(context.Background(), conv, "go"); !errors.Is(err, gatewayErr) {
		t.Fatalf("Reply() error = %v, want %v", err, gatewayErr)
	}
	if len(conv.history) != 0 {
		t.Fatalf("failed reply must not leave history behind, got %d messages", len(conv.history))
	}
}

func TestReplyStopsAfterMaxSteps(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{responses: []*schema.Message{
		toolCallMessage("c1", "add_to_cart", `{}`),
		toolCallMessage("c2", "add_to_cart", `{}`),
	}}
	r, err := New(context.Background(), model, &fakeGateway{}, testTools, "", WithMaxSteps(2))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := r.Reply(context.Background(), r.NewConversation("s1"), "go"); !errors.Is(err, ErrTooManySteps) {
		t.Fatalf("Reply() error = %v, want ErrTooManySteps", err)
	}
}

func TestReplyRejectsEmptyMessage(t *testing.T) {
	t.Parallel()

	r, err := New(context.Background(), &fakeToolCallingModel{}, &fakeGateway{}, testTools, "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := r.Reply(context.Background(), r.NewConversation("s1"), "  "); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("Reply() error = %v, want ErrValidation", err)
	}
}

func TestToToolRequestInvalidArgs(t *testing.T) {
	t.Parallel()

	_, err := toToolRequest(schema.ToolCall{Function: schema.FunctionCall{Name: "x", Arguments: "{"}})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("toToolRequest() error = %v", err)
	}
}
