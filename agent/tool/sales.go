package tool

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
	ledgerx "github.com/tanpawarit/Chative-Voice-Desk/agent/ledger"
	statex "github.com/tanpawarit/Chative-Voice-Desk/agent/state"
)

const NoKnowledgeMessage = "No specific info found in the knowledge base. Ask the user to clarify or offer general help."

type lookupInfoArgs struct {
	Query string `json:"query"`
}

type updateLeadArgs struct {
	Name     *string `json:"name"`
	Company  *string `json:"company"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	UseCase  *string `json:"use_case"`
	TeamSize *string `json:"team_size"`
	Timeline *string `json:"timeline"`
}

func (e *Executor) lookupInfo(_ context.Context, _ *statex.SessionState, args map[string]any) (string, error) {
	in, err := decodeArgs[lookupInfoArgs](args)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(in.Query) == "" {
		return "", fmt.Errorf("%w: query is required", contractx.ErrValidation)
	}
	matches := e.deps.Knowledge.Lookup(in.Query)
	if len(matches) == 0 {
		return NoKnowledgeMessage, nil
	}
	return strings.Join(matches, "\n"), nil
}

func (e *Executor) updateLeadInfo(_ context.Context, st *statex.SessionState, args map[string]any) (string, error) {
	in, err := decodeArgs[updateLeadArgs](args)
	if err != nil {
		return "", err
	}
	err = st.Lead.Apply(statex.LeadPatch{
		Name:     in.Name,
		Company:  in.Company,
		Email:    in.Email,
		Role:     in.Role,
		UseCase:  in.UseCase,
		TeamSize: in.TeamSize,
		Timeline: in.Timeline,
	})
	if err != nil {
		return "", err
	}

	captured := st.Lead.Captured()
	out := "Lead info updated. Fields captured so far: "
	if len(captured) == 0 {
		out += "none"
	} else {
		out += strings.Join(captured, ", ")
	}
	if !st.Lead.IsComplete() {
		out += ". Still needed before saving: " + strings.Join(st.Lead.Missing(), ", ")
	}
	return out + ".", nil
}

func (e *Executor) submitLead(ctx context.Context, st *statex.SessionState, _ map[string]any) (string, error) {
	if err := st.Lead.CheckSubmittable(); err != nil {
		return "", err
	}

	now := e.deps.Now()
	lead := st.Lead
	rec := ledgerx.LeadRecord{
		ID:        ledgerx.NewID("LEAD", now),
		Name:      lead.Name,
		Company:   lead.Company,
		Email:     lead.Email,
		Role:      lead.Role,
		UseCase:   lead.UseCase,
		TeamSize:  lead.TeamSize,
		Timeline:  lead.Timeline,
		CreatedAt: now,
	}
	if err := e.deps.Ledger.AppendLead(ctx, rec); err != nil {
		return "", err
	}
	st.Lead.Submitted = true
	e.notify(ctx, "lead.submitted", rec)

	return fmt.Sprintf("Lead saved as %s. You may now give a friendly goodbye.", rec.ID), nil
}
