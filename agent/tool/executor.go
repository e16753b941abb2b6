package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
	"unicode"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	catalogx "github.com/tanpawarit/Chative-Voice-Desk/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
	ledgerx "github.com/tanpawarit/Chative-Voice-Desk/agent/ledger"
	statex "github.com/tanpawarit/Chative-Voice-Desk/agent/state"
	logx "github.com/tanpawarit/Chative-Voice-Desk/pkg/logger"
)

// Deps is the read-only reference data and the outbound collaborators tools use.
type Deps struct {
	Catalog   *catalogx.Catalog
	Recipes   []catalogx.Recipe
	Course    *catalogx.Course
	Knowledge *catalogx.KnowledgeBase
	Ledger    ledgerx.Ledger
	// Notifier is optional. Notification failures never undo a finalization.
	Notifier contractx.Notifier
	// Roll returns a d20 result. Defaults to a uniform draw in [1,20].
	Roll func() int
	Now  func() time.Time
}

type handlerFunc func(ctx context.Context, st *statex.SessionState, args map[string]any) (string, error)

// Executor runs one assistant's tools against a session state.
type Executor struct {
	assistant contractx.AssistantKind
	deps      Deps
	specs     []Spec
	handlers  map[string]handlerFunc
	log       zerolog.Logger
}

func BuildForAssistant(kind contractx.AssistantKind, deps Deps) ([]*schema.ToolInfo, *Executor, error) {
	executor, err := NewExecutor(kind, deps)
	if err != nil {
		return nil, nil, err
	}
	return ToolInfos(executor.specs), executor, nil
}

func NewExecutor(kind contractx.AssistantKind, deps Deps) (*Executor, error) {
	if err := deps.validate(kind); err != nil {
		return nil, err
	}
	if deps.Roll == nil {
		deps.Roll = rollD20
	}
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	if deps.Recipes == nil {
		deps.Recipes = catalogx.DefaultRecipes
	}

	e := &Executor{
		assistant: kind,
		deps:      deps,
		specs:     SpecsFor(kind),
		log:       logx.For("tool").With().Str("assistant", string(kind)).Logger(),
	}
	e.handlers = e.handlersFor(kind)
	return e, nil
}

func (d Deps) validate(kind contractx.AssistantKind) error {
	var missing []string
	switch kind {
	case contractx.AssistantShopping, contractx.AssistantGrocery:
		if d.Catalog == nil {
			missing = append(missing, "catalog")
		}
		if d.Ledger == nil {
			missing = append(missing, "ledger")
		}
	case contractx.AssistantBarista:
		if d.Ledger == nil {
			missing = append(missing, "ledger")
		}
	case contractx.AssistantSales:
		if d.Knowledge == nil {
			missing = append(missing, "knowledge base")
		}
		if d.Ledger == nil {
			missing = append(missing, "ledger")
		}
	case contractx.AssistantTutor:
		if d.Course == nil {
			missing = append(missing, "course")
		}
	case contractx.AssistantGame:
	default:
		return fmt.Errorf("%w: unknown assistant=%q", contractx.ErrValidation, kind)
	}
	if len(missing) > 0 {
		return fmt.Errorf("assistant=%s requires %s", kind, strings.Join(missing, ", "))
	}
	return nil
}

func (e *Executor) handlersFor(kind contractx.AssistantKind) map[string]handlerFunc {
	switch kind {
	case contractx.AssistantShopping:
		return map[string]handlerFunc{
			ToolListProducts: e.listProducts,
			ToolCreateOrder:  e.createOrder,
			ToolGetLastOrder: e.getLastOrder,
		}
	case contractx.AssistantGrocery:
		return map[string]handlerFunc{
			ToolAddToCart:      e.addToCart,
			ToolRemoveFromCart: e.removeFromCart,
			ToolViewCart:       e.viewCart,
			ToolAddRecipe:      e.addRecipeIngredients,
			ToolCheckout:       e.checkout,
		}
	case contractx.AssistantBarista:
		return map[string]handlerFunc{
			ToolUpdateOrderDetails: e.updateOrderDetails,
			ToolSubmitOrder:        e.submitOrder,
		}
	case contractx.AssistantSales:
		return map[string]handlerFunc{
			ToolLookupInfo:     e.lookupInfo,
			ToolUpdateLeadInfo: e.updateLeadInfo,
			ToolSubmitLead:     e.submitLead,
		}
	case contractx.AssistantGame:
		return map[string]handlerFunc{
			ToolRollDice: e.rollDice,
		}
	case contractx.AssistantTutor:
		return map[string]handlerFunc{
			ToolSwitchMode: e.switchMode,
			ToolListTopics: e.listTopics,
		}
	default:
		return nil
	}
}

func (e *Executor) Assistant() contractx.AssistantKind {
	return e.assistant
}

func (e *Executor) Specs() []Spec {
	return append([]Spec(nil), e.specs...)
}

func (e *Executor) ToolInfos() []*schema.ToolInfo {
	return ToolInfos(e.specs)
}

// Execute runs req against st. Domain failures never come back as Go errors;
// they are rendered into the result text and classified in Failure.
func (e *Executor) Execute(ctx context.Context, st *statex.SessionState, req contractx.ToolRequest) contractx.ToolResult {
	handler, ok := e.handlers[req.Tool]
	if !ok {
		err := fmt.Errorf("%w: tool=%s is unavailable for assistant=%s", contractx.ErrUnknownTool, req.Tool, e.assistant)
		return failed(req.Tool, err)
	}
	if st == nil {
		return failed(req.Tool, fmt.Errorf("%w: session state is missing", contractx.ErrValidation))
	}

	output, err := handler(ctx, st, req.Args)
	if err != nil {
		if errors.Is(err, contractx.ErrPersistence) {
			e.log.Error().Err(err).
				Str("session_id", st.SessionID).
				Str("tool", req.Tool).
				Msg("tool persistence failed")
		}
		return failed(req.Tool, err)
	}
	return contractx.ToolResult{Tool: req.Tool, Output: output}
}

func failed(tool string, err error) contractx.ToolResult {
	return contractx.ToolResult{
		Tool:    tool,
		Output:  describeFailure(err),
		Failure: contractx.ClassifyFailure(err),
	}
}

var sentinels = []error{
	contractx.ErrNotFound,
	contractx.ErrIncomplete,
	contractx.ErrEmptyState,
	contractx.ErrPersistence,
	contractx.ErrValidation,
	contractx.ErrFinalized,
	contractx.ErrUnknownTool,
}

// describeFailure renders err as a sentence the model can relay.
func describeFailure(err error) string {
	var incomplete *contractx.IncompleteError
	switch {
	case errors.As(err, &incomplete):
		return fmt.Sprintf("Cannot submit yet. The %s is missing: %s. Please ask for these.",
			incomplete.Subject, strings.Join(incomplete.Missing, ", "))
	case errors.Is(err, contractx.ErrPersistence):
		return "Sorry, saving failed, so nothing was finalized and everything is as it was. Please try again in a moment."
	}

	msg := err.Error()
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
			break
		}
	}
	return sentence(msg)
}

func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	s = string(r)
	if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "!") && !strings.HasSuffix(s, "?") {
		s += "."
	}
	return s
}

// decodeArgs converts loosely typed tool arguments into T via JSON.
func decodeArgs[T any](args map[string]any) (T, error) {
	var out T
	if len(args) == 0 {
		return out, nil
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return out, fmt.Errorf("%w: arguments are not valid JSON: %v", contractx.ErrValidation, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%w: arguments have the wrong shape: %v", contractx.ErrValidation, err)
	}
	return out, nil
}

func quantityOrDefault(q *int) (int, error) {
	if q == nil {
		return 1, nil
	}
	if *q < 1 {
		return 0, fmt.Errorf("%w: quantity must be at least 1", contractx.ErrValidation)
	}
	return *q, nil
}

func money(amount float64, currency string) string {
	return catalogx.FormatPrice(amount) + " " + currency
}

func rollD20() int {
	return rand.IntN(20) + 1
}

// notify publishes a finalized record. It only logs on failure.
func (e *Executor) notify(ctx context.Context, kind string, payload any) {
	if e.deps.Notifier == nil {
		return
	}
	if err := e.deps.Notifier.Notify(ctx, kind, payload); err != nil {
		e.log.Warn().Err(err).Str("kind", kind).Msg("notification failed")
	}
}
