package orchestratornode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
	statex "github.com/tanpawarit/Chative-Voice-Desk/agent/state"
)

func LoadOrCreateState(
	ctx context.Context,
	in *GraphState,
	store statex.Store,
	assistant contractx.AssistantKind,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	st, err := store.Load(ctx, in.SessionID)
	switch {
	case err == nil:
		if err := checkAssistant(st, assistant); err != nil {
			return nil, err
		}
	case errors.Is(err, statex.ErrStateNotFound):
		st = statex.NewSessionState(in.SessionID, assistant, in.Now)
		in.Created = true
	default:
		return nil, err
	}

	in.Session = st
	return in, nil
}
