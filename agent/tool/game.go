package tool

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
	statex "github.com/tanpawarit/Chative-Voice-Desk/agent/state"
)

const defaultDifficultyClass = 15

type rollDiceArgs struct {
	SkillCheckName  string `json:"skill_check_name"`
	DifficultyClass *int   `json:"difficulty_class"`
}

// Outcome is SUCCESS iff roll >= dc.
func Outcome(roll, dc int) string {
	if roll >= dc {
		return "SUCCESS"
	}
	return "FAILURE"
}

func (e *Executor) rollDice(_ context.Context, _ *statex.SessionState, args map[string]any) (string, error) {
	in, err := decodeArgs[rollDiceArgs](args)
	if err != nil {
		return "", err
	}
	action := strings.TrimSpace(in.SkillCheckName)
	if action == "" {
		return "", fmt.Errorf("%w: skill_check_name is required", contractx.ErrValidation)
	}
	dc := defaultDifficultyClass
	if in.DifficultyClass != nil {
		dc = *in.DifficultyClass
	}

	roll := e.deps.Roll()
	return fmt.Sprintf("Action: %s | Rolled: %d vs DC %d | Result: %s", action, roll, dc, Outcome(roll, dc)), nil
}
