package console

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// compileTurnGraph wraps a tool-bound chat model as a runnable that takes the
// full message history and returns the next assistant message.
func compileTurnGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
) (compose.Runnable[[]*schema.Message, *schema.Message], error) {
	graph := compose.NewGraph[[]*schema.Message, *schema.Message]()
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add console model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "model"); err != nil {
		return nil, fmt.Errorf("add console edge start->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add console edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("console.turn_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile console turn graph: %w", err)
	}
	return runner, nil
}
