package state

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
)

// LeadProfile is what the sales assistant learns about a prospect.
type LeadProfile struct {
	Name      string `json:"name,omitempty"`
	Company   string `json:"company,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	UseCase   string `json:"use_case,omitempty"`
	TeamSize  string `json:"team_size,omitempty"`
	Timeline  string `json:"timeline,omitempty"`
	Submitted bool   `json:"submitted,omitempty"`
}

type LeadPatch struct {
	Name     *string
	Company  *string
	Email    *string
	Role     *string
	UseCase  *string
	TeamSize *string
	Timeline *string
}

func (l *LeadProfile) Apply(p LeadPatch) error {
	if l.Submitted {
		return fmt.Errorf("%w: lead was already submitted", contractx.ErrFinalized)
	}
	mergeString(&l.Name, p.Name)
	mergeString(&l.Company, p.Company)
	mergeString(&l.Email, p.Email)
	mergeString(&l.Role, p.Role)
	mergeString(&l.UseCase, p.UseCase)
	mergeString(&l.TeamSize, p.TeamSize)
	mergeString(&l.Timeline, p.Timeline)
	return nil
}

func (l *LeadProfile) fields() []struct {
	key   string
	value string
} {
	return []struct {
		key   string
		value string
	}{
		{"name", l.Name},
		{"company", l.Company},
		{"email", l.Email},
		{"role", l.Role},
		{"use_case", l.UseCase},
		{"team_size", l.TeamSize},
		{"timeline", l.Timeline},
	}
}

// Captured lists the keys of every field set so far, in profile order.
func (l *LeadProfile) Captured() []string {
	var out []string
	for _, f := range l.fields() {
		if !blank(f.value) {
			out = append(out, f.key)
		}
	}
	return out
}

func (l *LeadProfile) Missing() []string {
	var missing []string
	if blank(l.Name) {
		missing = append(missing, "name")
	}
	if blank(l.Company) {
		missing = append(missing, "company")
	}
	if blank(l.Email) {
		missing = append(missing, "email")
	}
	return missing
}

func (l *LeadProfile) IsComplete() bool {
	return len(l.Missing()) == 0
}

func (l *LeadProfile) CheckSubmittable() error {
	if l.Submitted {
		return fmt.Errorf("%w: lead was already submitted", contractx.ErrFinalized)
	}
	if missing := l.Missing(); len(missing) > 0 {
		return &contractx.IncompleteError{Subject: "lead", Missing: missing}
	}
	return nil
}
