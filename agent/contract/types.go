package contract

import (
	"errors"
	"fmt"
)

type AssistantKind string

const (
	AssistantShopping AssistantKind = "shopping"
	AssistantGrocery  AssistantKind = "grocery"
	AssistantBarista  AssistantKind = "barista"
	AssistantSales    AssistantKind = "sales"
	AssistantGame     AssistantKind = "game"
	AssistantTutor    AssistantKind = "tutor"
)

var AllAssistants = []AssistantKind{
	AssistantShopping,
	AssistantGrocery,
	AssistantBarista,
	AssistantSales,
	AssistantGame,
	AssistantTutor,
}

func ParseAssistantKind(raw string) (AssistantKind, error) {
	for _, k := range AllAssistants {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown assistant=%q", ErrValidation, raw)
}

// FailureKind classifies a tool failure for logs and tests. It is never shown to the model.
type FailureKind string

const (
	FailureNone        FailureKind = ""
	FailureNotFound    FailureKind = "not_found"
	FailureIncomplete  FailureKind = "incomplete"
	FailureEmptyState  FailureKind = "empty_state"
	FailurePersistence FailureKind = "persistence"
	FailureValidation  FailureKind = "validation"
	FailureFinalized   FailureKind = "finalized"
	FailureUnknownTool FailureKind = "unknown_tool"
)

func ClassifyFailure(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrNotFound):
		return FailureNotFound
	case errors.Is(err, ErrIncomplete):
		return FailureIncomplete
	case errors.Is(err, ErrEmptyState):
		return FailureEmptyState
	case errors.Is(err, ErrPersistence):
		return FailurePersistence
	case errors.Is(err, ErrFinalized):
		return FailureFinalized
	case errors.Is(err, ErrUnknownTool):
		return FailureUnknownTool
	default:
		return FailureValidation
	}
}

type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult is what a tool hands back to the driving model. Output is the only
// part relayed to the model, failures included.
type ToolResult struct {
	Tool    string      `json:"tool"`
	Output  string      `json:"output"`
	Failure FailureKind `json:"failure,omitempty"`
}

func (r ToolResult) Failed() bool {
	return r.Failure != FailureNone
}
