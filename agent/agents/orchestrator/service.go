package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/prometheus/client_golang/prometheus"

	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
	nodex "github.com/tanpawarit/Chative-Voice-Desk/agent/nodes/orchestrator"
	statex "github.com/tanpawarit/Chative-Voice-Desk/agent/state"
	toolx "github.com/tanpawarit/Chative-Voice-Desk/agent/tool"
	metricsx "github.com/tanpawarit/Chative-Voice-Desk/pkg/metrics"
)

var (
	ErrInvalidSession    = nodex.ErrInvalidSession
	ErrInvalidTool       = nodex.ErrInvalidTool
	ErrAssistantMismatch = nodex.ErrAssistantMismatch
)

// Orchestrator routes tool calls for one assistant to the right session state.
// Calls for the same session run one at a time; different sessions run in parallel.
type Orchestrator struct {
	store    statex.Store
	tools    nodex.ToolRunner
	executor *toolx.Executor

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
	locks       *sessionLocks

	now func() time.Time
}

var _ contractx.ToolGateway = (*Orchestrator)(nil)

func New(store statex.Store, executor *toolx.Executor) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if executor == nil {
		return nil, errors.New("tool executor is required")
	}
	return newOrchestrator(store, executor, executor)
}

func newOrchestrator(store statex.Store, tools nodex.ToolRunner, executor *toolx.Executor) (*Orchestrator, error) {
	o := &Orchestrator{
		store:    statex.NewBufferedStore(store),
		tools:    tools,
		executor: executor,
		locks:    newSessionLocks(metricsx.ActiveSessions.WithLabelValues(string(tools.Assistant()))),
		now:      time.Now,
	}

	graphRunner, err := o.compileExecuteToolGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

func (o *Orchestrator) Assistant() contractx.AssistantKind {
	return o.tools.Assistant()
}

// ToolInfos describes the assistant's tools for a chat model.
func (o *Orchestrator) ToolInfos() []*schema.ToolInfo {
	if o.executor == nil {
		return nil
	}
	return o.executor.ToolInfos()
}

func (o *Orchestrator) Specs() []toolx.Spec {
	if o.executor == nil {
		return nil
	}
	return o.executor.Specs()
}

// Execute runs one tool call. Tool-level failures are in the result; the error
// is only set when the request is invalid or the session could not be loaded.
// A snapshot the store rejects is held in process, so the caller still gets the
// tool text for work already recorded in the ledger.
func (o *Orchestrator) Execute(ctx context.Context, sessionID string, req contractx.ToolRequest) (contractx.ToolResult, error) {
	assistant := string(o.tools.Assistant())
	tool := strings.TrimSpace(req.Tool)
	start := time.Now()

	unlock := o.locks.lock(strings.TrimSpace(sessionID))
	defer unlock()

	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Request:   req,
	})
	metricsx.ToolCallDuration.WithLabelValues(assistant, tool).Observe(time.Since(start).Seconds())
	if err != nil {
		metricsx.ToolCalls.WithLabelValues(assistant, tool, metricsx.OutcomeError).Inc()
		return contractx.ToolResult{}, err
	}

	outcome := metricsx.OutcomeOK
	if out.Result.Failed() {
		outcome = string(out.Result.Failure)
	}
	metricsx.ToolCalls.WithLabelValues(assistant, tool, outcome).Inc()
	return out.Result, nil
}

// Session returns the stored snapshot for a session.
func (o *Orchestrator) Session(ctx context.Context, sessionID string) (*statex.SessionState, error) {
	return o.store.Load(ctx, sessionID)
}

// EndSession drops the session snapshot.
func (o *Orchestrator) EndSession(ctx context.Context, sessionID string) error {
	unlock := o.locks.lock(strings.TrimSpace(sessionID))
	defer unlock()
	return o.store.Delete(ctx, sessionID)
}

// sessionLocks hands out one mutex per active session id and forgets it once
// nobody holds or waits for it.
type sessionLocks struct {
	mu      sync.Mutex
	entries map[string]*sessionLock
	active  prometheus.Gauge
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks(active prometheus.Gauge) *sessionLocks {
	return &sessionLocks{entries: make(map[string]*sessionLock), active: active}
}

func (l *sessionLocks) lock(sessionID string) func() {
	l.mu.Lock()
	entry, ok := l.entries[sessionID]
	if !ok {
		entry = &sessionLock{}
		l.entries[sessionID] = entry
		l.active.Inc()
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, sessionID)
			l.active.Dec()
		}
		l.mu.Unlock()
	}
}
