package state

import (
	"fmt"
	"strings"

	catalogx "github.com/tanpawarit/Chative-Voice-Desk/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
)

// Mode is the active tutor variant.
type Mode string

const (
	ModeGreeting  Mode = "greeting"
	ModeLearn     Mode = "learn"
	ModeQuiz      Mode = "quiz"
	ModeTeachBack Mode = "teach_back"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeGreeting, ModeLearn, ModeQuiz, ModeTeachBack:
		return true
	default:
		return false
	}
}

func (m Mode) Label() string {
	switch m {
	case ModeLearn:
		return "Learn"
	case ModeQuiz:
		return "Quiz"
	case ModeTeachBack:
		return "Teach-Back"
	default:
		return "Greeting"
	}
}

// ParseSwitchableMode accepts the modes a switch can target. Greeting is only
// ever the starting mode.
func ParseSwitchableMode(raw string) (Mode, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	switch Mode(normalized) {
	case ModeLearn, ModeQuiz, ModeTeachBack:
		return Mode(normalized), nil
	default:
		return "", fmt.Errorf("%w: mode %q is not one of learn, quiz, teach_back", contractx.ErrValidation, raw)
	}
}

// Persona is the voice a mode speaks with.
type Persona struct {
	Name    string `json:"name"`
	VoiceID string `json:"voice_id"`
}

var personas = map[Mode]Persona{
	ModeGreeting:  {Name: "Matthew", VoiceID: "en-US-matthew"},
	ModeLearn:     {Name: "Matthew", VoiceID: "en-US-matthew"},
	ModeQuiz:      {Name: "Alicia", VoiceID: "en-US-alicia"},
	ModeTeachBack: {Name: "Ken", VoiceID: "en-US-ken"},
}

func PersonaFor(m Mode) Persona {
	return personas[m]
}

// TutorState is the tutor's mode machine. Only the current topic is remembered
// across switches.
type TutorState struct {
	Mode    Mode   `json:"mode"`
	TopicID string `json:"topic_id,omitempty"`
	VoiceID string `json:"voice_id,omitempty"`
}

func NewTutorState() TutorState {
	return TutorState{
		Mode:    ModeGreeting,
		VoiceID: PersonaFor(ModeGreeting).VoiceID,
	}
}

// Transition describes entering a mode.
type Transition struct {
	From         Mode
	To           Mode
	Topic        catalogx.Topic
	Persona      Persona
	Instructions string
	Announcement string
}

// Switch moves the tutor into mode for a topic. The topic is the one supplied,
// else the remembered one, else the first course topic.
func (s *TutorState) Switch(course *catalogx.Course, mode Mode, topicID string) (Transition, error) {
	if mode == ModeGreeting || !mode.Valid() {
		return Transition{}, fmt.Errorf("%w: cannot switch to mode %q", contractx.ErrValidation, mode)
	}

	target := strings.TrimSpace(topicID)
	if target == "" {
		target = s.TopicID
	}
	if target == "" {
		first, ok := course.First()
		if !ok {
			return Transition{}, fmt.Errorf("%w: course has no topics", contractx.ErrNotFound)
		}
		target = first.ID
	}

	topic, ok := course.Topic(target)
	if !ok {
		return Transition{}, fmt.Errorf("%w: topic %q", contractx.ErrNotFound, target)
	}

	from := s.Mode
	if from == "" {
		from = ModeGreeting
	}
	persona := PersonaFor(mode)

	s.Mode = mode
	s.TopicID = topic.ID
	s.VoiceID = persona.VoiceID

	return Transition{
		From:         from,
		To:           mode,
		Topic:        topic,
		Persona:      persona,
		Instructions: modeInstructions(mode, persona, topic),
		Announcement: modeAnnouncement(mode, persona, topic),
	}, nil
}

func modeInstructions(mode Mode, p Persona, t catalogx.Topic) string {
	switch mode {
	case ModeLearn:
		return fmt.Sprintf("You are %s, the learn guide. Explain %s using this summary, with a small example: %s "+
			"Afterwards offer a quiz or a teach-back.", p.Name, t.Title, t.Summary)
	case ModeQuiz:
		return fmt.Sprintf("You are %s, the quiz host. Ask about %s, starting from: %s "+
			"Judge each answer and suggest teach-back once they get it right.", p.Name, t.Title, t.SampleQuestion)
	case ModeTeachBack:
		return fmt.Sprintf("You are %s, a curious student. Ask the user to explain %s to you, "+
			"react to gaps, and rate the explanation as great, good or needs improvement.", p.Name, t.Title)
	default:
		return ""
	}
}

func modeAnnouncement(mode Mode, p Persona, t catalogx.Topic) string {
	switch mode {
	case ModeLearn:
		return fmt.Sprintf("I'm %s, let's learn about %s. %s", p.Name, t.Title, t.Summary)
	case ModeQuiz:
		return fmt.Sprintf("I'm %s, ready for a quiz on %s? %s", p.Name, t.Title, t.SampleQuestion)
	case ModeTeachBack:
		return fmt.Sprintf("I'm %s. You know %s now, so teach it to me!", p.Name, t.Title)
	default:
		return ""
	}
}
