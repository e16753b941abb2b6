package catalog

import (
	"fmt"
	"strings"
)

// Topic is one unit of tutor content.
type Topic struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Summary        string `json:"summary"`
	SampleQuestion string `json:"sample_question"`
}

// Course is the immutable, ordered list of tutor topics.
type Course struct {
	topics []Topic
}

func NewCourse(topics []Topic) (*Course, error) {
	seen := make(map[string]struct{}, len(topics))
	out := make([]Topic, 0, len(topics))
	for _, t := range topics {
		id := strings.TrimSpace(t.ID)
		if id == "" {
			return nil, fmt.Errorf("course topic %q has empty id", t.Title)
		}
		key := strings.ToLower(id)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("course topic id %q is duplicated", id)
		}
		seen[key] = struct{}{}
		t.ID = id
		out = append(out, t)
	}
	return &Course{topics: out}, nil
}

func LoadCourse(path string) (*Course, error) {
	var topics []Topic
	if err := readJSONList(path, &topics); err != nil {
		return nil, fmt.Errorf("load course %s: %w", path, err)
	}
	return NewCourse(topics)
}

func (c *Course) Topics() []Topic {
	if c == nil {
		return nil
	}
	return append([]Topic(nil), c.topics...)
}

// First returns the default topic used when nothing else was chosen.
func (c *Course) First() (Topic, bool) {
	if c == nil || len(c.topics) == 0 {
		return Topic{}, false
	}
	return c.topics[0], true
}

// Topic looks a topic up by id, ignoring case.
func (c *Course) Topic(id string) (Topic, bool) {
	id = strings.TrimSpace(id)
	if c == nil || id == "" {
		return Topic{}, false
	}
	for _, t := range c.topics {
		if strings.EqualFold(t.ID, id) {
			return t, true
		}
	}
	return Topic{}, false
}

func (c *Course) Titles() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.topics))
	for _, t := range c.topics {
		out = append(out, t.Title)
	}
	return out
}
