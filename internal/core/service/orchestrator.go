package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/agents"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/core/domain"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/core/ports"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/pkg/types"
	"github.com/google/uuid"
)

// ErrPipelineBusy rejects a submission while another run is in flight.
// Single-flight is enforced here, not left to the caller.
var ErrPipelineBusy = errors.New("a workflow is already active")

const interactionWindow = time.Hour

// Orchestrator drives a trigger through the monitor, contextualize and
// personalize phases, maintaining agent status and the message log as side
// effects. Bus, generator and search index are optional collaborators.
type Orchestrator struct {
	roster *agents.Registry
	bus    ports.EventBus
	gen    ports.Generator
	search ports.SearchIndex

	history *domain.TriggerHistory
	msgLog  *domain.MessageLog

	phaseTimeout time.Duration

	prefMu sync.RWMutex
	prefs  map[string]string

	trailMu sync.Mutex
	trail   []types.WorkflowResult

	inflight  atomic.Bool
	active    atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

func NewOrchestrator(roster *agents.Registry, bus ports.EventBus, gen ports.Generator, search ports.SearchIndex, phaseTimeout time.Duration) *Orchestrator {
	if phaseTimeout <= 0 {
		phaseTimeout = 30 * time.Second
	}
	return &Orchestrator{
		roster:       roster,
		bus:          bus,
		gen:          gen,
		search:       search,
		history:      domain.NewTriggerHistory(),
		msgLog:       domain.NewMessageLog(),
		phaseTimeout: phaseTimeout,
		prefs:        map[string]string{},
	}
}

// SubmitTrigger runs the full pipeline for one trigger and returns exactly one
// terminal result. Elapsed time is measured end to end regardless of outcome.
func (o *Orchestrator) SubmitTrigger(ctx context.Context, trigger types.WorkflowTrigger) (types.WorkflowResult, error) {
	if !o.inflight.CompareAndSwap(false, true) {
		return types.WorkflowResult{}, ErrPipelineBusy
	}
	defer o.inflight.Store(false)

	started := time.Now()
	o.active.Add(1)
	defer o.active.Add(-1)

	if trigger.ID == "" {
		trigger.ID = types.TriggerID(uuid.New().String())
	}
	if trigger.Priority == "" {
		trigger.Priority = types.PriorityNormal
	}
	if trigger.CreatedAt.IsZero() {
		trigger.CreatedAt = started
	}

	// Snapshot before this run's own messages enter the log, so history
	// reflects prior interactions only.
	prior := o.msgLog.All()

	o.history.Push(trigger)
	requester := types.AgentID(trigger.Source)
	o.msgLog.Append(domain.NewRequestMessage(requester, agents.CoordinatorID, trigger))

	if err := o.roster.SetStatus(agents.WorkflowID, types.StatusProcessing); err != nil {
		log.Printf("set workflow agent status: %v", err)
	}

	result, response := o.run(ctx, trigger, prior)
	result.Elapsed = time.Since(started)

	if result.Success {
		o.completed.Add(1)
		_ = o.roster.SetStatus(agents.WorkflowID, types.StatusSuccess)
	} else {
		o.failed.Add(1)
		_ = o.roster.SetStatus(agents.WorkflowID, types.StatusError)
	}

	o.msgLog.Append(domain.NewCompleteMessage(agents.WorkflowID, requester, trigger.ID, result, response))

	if o.bus != nil {
		event := types.ResultEvent{TriggerID: trigger.ID, Result: result, FinishedAt: time.Now()}
		if err := o.bus.PublishResult(ctx, event); err != nil {
			log.Printf("publish result: %v", err)
		}
	}

	return result, nil
}

// run executes the three phases strictly in sequence. A failure in any phase
// aborts the pipeline and is reported with the phase that actually failed.
func (o *Orchestrator) run(ctx context.Context, trigger types.WorkflowTrigger, prior []types.Message) (types.WorkflowResult, string) {
	o.resetTrail()

	// Monitor
	o.beginPhase(ctx, trigger.ID, types.PhaseMonitor)
	if err := domain.ValidateTriggerData(trigger.Data); err != nil {
		return o.record(failure(types.PhaseMonitor, err)), ""
	}
	o.record(types.WorkflowResult{
		Phase:      types.PhaseMonitor,
		Success:    true,
		Payload:    domain.MonitorPayload(trigger),
		Confidence: domain.MonitorConfidence,
		NextPhase:  types.PhaseMonitor.Next(),
	})

	// Contextualize
	o.beginPhase(ctx, trigger.ID, types.PhaseContextualize)
	wctx := domain.BuildContext(trigger, prior, o.roster.List(), o.preferences())

	snippets := domain.FallbackSnippets(trigger.Type)
	if o.search != nil {
		phaseCtx, cancel := context.WithTimeout(ctx, o.phaseTimeout)
		found, err := o.search.Search(phaseCtx, trigger.Type, 3)
		cancel()
		if err != nil {
			return o.record(failure(types.PhaseContextualize, err)), ""
		}
		snippets = found
	}

	enr := domain.Enrichment{
		Snippets:           snippets,
		InteractionSummary: domain.InteractionSummary(wctx.User.RecentMessages, interactionWindow),
		Relevance:          domain.RelevanceScore(wctx.User.HasHistory(), trigger.Priority),
	}
	o.record(types.WorkflowResult{
		Phase:      types.PhaseContextualize,
		Success:    true,
		Payload:    domain.ContextualizePayload(enr),
		Confidence: domain.ContextualizeConfidence,
		NextPhase:  types.PhaseContextualize.Next(),
	})

	// Personalize
	o.beginPhase(ctx, trigger.ID, types.PhasePersonalize)
	response := domain.ComposeResponse(wctx, enr)
	if o.gen != nil {
		phaseCtx, cancel := context.WithTimeout(ctx, o.phaseTimeout)
		gen, err := o.gen.Generate(phaseCtx, []ports.ChatMessage{
			{Role: "system", Content: "You are the Adaptive Agent Nexus assistant."},
			{Role: "user", Content: domain.GeneratorPrompt(wctx, enr)},
		})
		cancel()
		if err != nil {
			return o.record(failure(types.PhasePersonalize, err)), ""
		}
		response = gen.Content
	}

	return o.record(types.WorkflowResult{
		Phase:      types.PhasePersonalize,
		Success:    true,
		Payload:    domain.PersonalizePayload(response, enr),
		Confidence: domain.PersonalizeConfidence,
	}), response
}

func (o *Orchestrator) resetTrail() {
	o.trailMu.Lock()
	defer o.trailMu.Unlock()
	o.trail = o.trail[:0]
}

func (o *Orchestrator) record(result types.WorkflowResult) types.WorkflowResult {
	o.trailMu.Lock()
	defer o.trailMu.Unlock()
	o.trail = append(o.trail, result)
	return result
}

// PhaseTrail returns the per-phase results of the most recent run.
func (o *Orchestrator) PhaseTrail() []types.WorkflowResult {
	o.trailMu.Lock()
	defer o.trailMu.Unlock()

	out := make([]types.WorkflowResult, len(o.trail))
	copy(out, o.trail)
	return out
}

// beginPhase logs the transition addressed to the coordinator and mirrors it
// on the bus for dashboards.
func (o *Orchestrator) beginPhase(ctx context.Context, triggerID types.TriggerID, phase types.Phase) {
	o.msgLog.Append(domain.NewTransitionMessage(agents.WorkflowID, agents.CoordinatorID, triggerID, phase))

	if o.bus != nil {
		event := types.PhaseEvent{TriggerID: triggerID, Phase: phase, StartedAt: time.Now()}
		if err := o.bus.PublishPhase(ctx, event); err != nil {
			log.Printf("publish phase %s: %v", phase, err)
		}
	}
}

func failure(phase types.Phase, err error) types.WorkflowResult {
	return types.WorkflowResult{
		Phase:      phase,
		Success:    false,
		Confidence: 0,
		Error:      err.Error(),
	}
}

// Stats returns a snapshot of the workflow counters.
func (o *Orchestrator) Stats() types.WorkflowStats {
	return types.WorkflowStats{
		ActiveWorkflows:    o.active.Load(),
		CompletedWorkflows: o.completed.Load(),
		FailedWorkflows:    o.failed.Load(),
	}
}

// RecentTriggers returns the bounded history, newest first.
func (o *Orchestrator) RecentTriggers() []types.WorkflowTrigger {
	return o.history.Recent()
}

// Messages returns the session log in insertion order.
func (o *Orchestrator) Messages() []types.Message {
	return o.msgLog.All()
}

// MessagesFrom returns the log entries sent by one agent.
func (o *Orchestrator) MessagesFrom(id types.AgentID) []types.Message {
	return o.msgLog.From(id)
}

// AppendMessage adds an externally produced message to the session log.
func (o *Orchestrator) AppendMessage(msg types.Message) {
	o.msgLog.Append(msg)
}

// SetPreference records a user preference hint for the personalize phase.
func (o *Orchestrator) SetPreference(key, value string) {
	o.prefMu.Lock()
	defer o.prefMu.Unlock()
	o.prefs[key] = value
}

func (o *Orchestrator) preferences() map[string]string {
	o.prefMu.RLock()
	defer o.prefMu.RUnlock()

	out := make(map[string]string, len(o.prefs))
	for k, v := range o.prefs {
		out[k] = v
	}
	return out
}
