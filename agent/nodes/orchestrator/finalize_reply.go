package orchestratornode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	result := in.Result
	result.Output = strings.TrimSpace(result.Output)
	if result.Output == "" {
		return GraphOutput{}, fmt.Errorf("%w: tool=%s returned empty output", contractx.ErrValidation, in.Request.Tool)
	}
	if result.Tool == "" {
		result.Tool = in.Request.Tool
	}
	return GraphOutput{Result: result}, nil
}
