package tool

import (
	"context"
	"fmt"
	"strings"

	statex "github.com/tanpawarit/Chative-Voice-Desk/agent/state"
)

type switchModeArgs struct {
	Mode    string `json:"mode"`
	TopicID string `json:"topic_id"`
}

func (e *Executor) switchMode(_ context.Context, st *statex.SessionState, args map[string]any) (string, error) {
	in, err := decodeArgs[switchModeArgs](args)
	if err != nil {
		return "", err
	}
	mode, err := statex.ParseSwitchableMode(in.Mode)
	if err != nil {
		return "", err
	}
	tr, err := st.Tutor.Switch(e.deps.Course, mode, in.TopicID)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Switched to %s mode on %s (topic_id %s). You are now %s, voice %s.\nInstructions: %s\nSay: %s",
		tr.To.Label(), tr.Topic.Title, tr.Topic.ID, tr.Persona.Name, tr.Persona.VoiceID, tr.Instructions, tr.Announcement), nil
}

func (e *Executor) listTopics(_ context.Context, _ *statex.SessionState, _ map[string]any) (string, error) {
	topics := e.deps.Course.Topics()
	if len(topics) == 0 {
		return "No topics are available yet.", nil
	}
	lines := make([]string, 0, len(topics))
	for _, t := range topics {
		lines = append(lines, fmt.Sprintf("- %s: %s", t.ID, t.Title))
	}
	return "Available topics:\n" + strings.Join(lines, "\n"), nil
}
