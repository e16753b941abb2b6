package state

import (
	"errors"
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
)

// SessionState is everything one conversation owns. Tools receive it by reference
// and mutate it in place; the orchestrator snapshots it after each call.
type SessionState struct {
	SessionID string                  `json:"session_id"`
	Assistant contractx.AssistantKind `json:"assistant"`
	Version   int                     `json:"version"`

	Cart   Cart        `json:"cart"`
	Ticket OrderTicket `json:"ticket"`
	Lead   LeadProfile `json:"lead"`
	Tutor  TutorState  `json:"tutor"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrNilSessionState = errors.New("session state is nil")
	ErrInvalidSession  = errors.New("session id is empty")
	ErrStateCorrupt    = errors.New("session state corrupt")
)

func NewSessionState(sessionID string, assistant contractx.AssistantKind, now time.Time) *SessionState {
	return &SessionState{
		SessionID: sessionID,
		Assistant: assistant,
		Version:   1,
		Tutor:     NewTutorState(),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

func (s *SessionState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

func (s *SessionState) Validate() error {
	if s == nil {
		return ErrNilSessionState
	}
	if strings.TrimSpace(s.SessionID) == "" {
		return ErrInvalidSession
	}
	seen := make(map[string]struct{}, len(s.Cart.Items))
	for _, item := range s.Cart.Items {
		if item.Quantity < 1 {
			return fmt.Errorf("%w: cart line %s has quantity %d", ErrStateCorrupt, item.ItemID, item.Quantity)
		}
		if _, dup := seen[item.ItemID]; dup {
			return fmt.Errorf("%w: cart has duplicate line for %s", ErrStateCorrupt, item.ItemID)
		}
		seen[item.ItemID] = struct{}{}
	}
	if !s.Tutor.Mode.Valid() {
		return fmt.Errorf("%w: tutor mode=%q", ErrStateCorrupt, s.Tutor.Mode)
	}
	return nil
}
