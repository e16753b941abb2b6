package orchestratornode

import (
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
	statex "github.com/tanpawarit/Chative-Voice-Desk/agent/state"
)

var ErrAssistantMismatch = errors.New("session belongs to another assistant")

// checkAssistant keeps a session bound to the assistant that created it.
// Snapshots written before the assistant was recorded are adopted.
func checkAssistant(st *statex.SessionState, assistant contractx.AssistantKind) error {
	if st.Assistant == "" {
		st.Assistant = assistant
		return nil
	}
	if st.Assistant != assistant {
		return fmt.Errorf("%w: session=%s belongs to assistant=%s, not %s",
			ErrAssistantMismatch, st.SessionID, st.Assistant, assistant)
	}
	return nil
}
