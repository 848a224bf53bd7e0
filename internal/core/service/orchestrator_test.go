package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/agents"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/core/domain"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/core/ports"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBus struct {
	mu      sync.Mutex
	phases  []types.PhaseEvent
	results []types.ResultEvent
}

func (b *fakeBus) PublishTrigger(ctx context.Context, event types.TriggerSubmittedEvent) error {
	return nil
}

func (b *fakeBus) PublishPhase(ctx context.Context, event types.PhaseEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.phases = append(b.phases, event)
	return nil
}

func (b *fakeBus) PublishResult(ctx context.Context, event types.ResultEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.results = append(b.results, event)
	return nil
}

func (b *fakeBus) SubscribeTriggers(ctx context.Context, handler ports.TriggerHandler) error {
	return nil
}

func (b *fakeBus) Close() error { return nil }

func (b *fakeBus) phaseOrder() []types.Phase {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]types.Phase, len(b.phases))
	for i, e := range b.phases {
		out[i] = e.Phase
	}
	return out
}

type fakeGen struct {
	content string
	err     error
	block   chan struct{} // when set, Generate waits until closed
	started chan struct{} // closed on first call
	once    sync.Once
}

func (g *fakeGen) Generate(ctx context.Context, messages []ports.ChatMessage) (*ports.Generation, error) {
	if g.started != nil {
		g.once.Do(func() { close(g.started) })
	}
	if g.block != nil {
		<-g.block
	}
	if g.err != nil {
		return nil, g.err
	}
	return &ports.Generation{Content: g.content, Model: "fake", FinishReason: "stop"}, nil
}

type fakeSearch struct {
	snippets []domain.Snippet
	err      error
}

func (s *fakeSearch) Search(ctx context.Context, query string, limit int) ([]domain.Snippet, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snippets, nil
}

func validTrigger(priority types.Priority) types.WorkflowTrigger {
	return types.WorkflowTrigger{
		Type:     "user_input",
		Source:   "console",
		Priority: priority,
		Data:     types.Data(`{"text":"explain the pipeline"}`),
	}
}

func newTestOrchestrator(bus ports.EventBus, gen ports.Generator, search ports.SearchIndex) *Orchestrator {
	roster := agents.NewRegistry(agents.DefaultRoster())
	return NewOrchestrator(roster, bus, gen, search, time.Second)
}

func TestSubmitTriggerSuccess(t *testing.T) {
	bus := &fakeBus{}
	o := newTestOrchestrator(bus, nil, nil)

	result, err := o.SubmitTrigger(context.Background(), validTrigger(types.PriorityHigh))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, types.PhasePersonalize, result.Phase)
	assert.InDelta(t, domain.PersonalizeConfidence, result.Confidence, 1e-9)
	assert.Greater(t, result.Elapsed, time.Duration(0))

	// Phases ran strictly in order.
	assert.Equal(t, []types.Phase{types.PhaseMonitor, types.PhaseContextualize, types.PhasePersonalize}, bus.phaseOrder())

	// Per-phase confidences match the contract.
	trail := o.PhaseTrail()
	require.Len(t, trail, 3)
	assert.InDelta(t, domain.MonitorConfidence, trail[0].Confidence, 1e-9)
	assert.InDelta(t, domain.ContextualizeConfidence, trail[1].Confidence, 1e-9)
	assert.InDelta(t, domain.PersonalizeConfidence, trail[2].Confidence, 1e-9)
	assert.Equal(t, types.PhaseContextualize, trail[0].NextPhase)
	assert.Equal(t, types.PhasePersonalize, trail[1].NextPhase)

	// First run has no prior history; high priority alone gives 0.7.
	assert.Contains(t, string(trail[1].Payload), `"relevance":0.7`)

	stats := o.Stats()
	assert.Equal(t, int64(0), stats.ActiveWorkflows)
	assert.Equal(t, int64(1), stats.CompletedWorkflows)
	assert.Equal(t, int64(0), stats.FailedWorkflows)

	// Workflow agent landed on success.
	agent, ok := o.roster.Get(agents.WorkflowID)
	require.True(t, ok)
	assert.Equal(t, types.StatusSuccess, agent.Status)

	require.Len(t, bus.results, 1)
	assert.True(t, bus.results[0].Result.Success)
}

func TestSubmitTriggerUnstructuredData(t *testing.T) {
	for _, data := range []string{`null`, ``, `"just a string"`, `7`} {
		t.Run(fmt.Sprintf("data=%q", data), func(t *testing.T) {
			o := newTestOrchestrator(nil, nil, nil)

			trigger := validTrigger(types.PriorityNormal)
			trigger.Data = types.Data(data)

			result, err := o.SubmitTrigger(context.Background(), trigger)
			require.NoError(t, err)

			assert.False(t, result.Success)
			assert.Equal(t, types.PhaseMonitor, result.Phase)
			assert.Zero(t, result.Confidence)
			assert.NotEmpty(t, result.Error)
			assert.Greater(t, result.Elapsed, time.Duration(0))

			stats := o.Stats()
			assert.Equal(t, int64(1), stats.FailedWorkflows)
			assert.Equal(t, int64(0), stats.CompletedWorkflows)
			assert.Equal(t, int64(0), stats.ActiveWorkflows)

			agent, _ := o.roster.Get(agents.WorkflowID)
			assert.Equal(t, types.StatusError, agent.Status)
		})
	}
}

func TestSubmitTriggerSearchFailureReportsTruePhase(t *testing.T) {
	o := newTestOrchestrator(nil, nil, &fakeSearch{err: errors.New("index down")})

	result, err := o.SubmitTrigger(context.Background(), validTrigger(types.PriorityNormal))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, types.PhaseContextualize, result.Phase)
	assert.Zero(t, result.Confidence)
	assert.Contains(t, result.Error, "index down")
	assert.Equal(t, int64(1), o.Stats().FailedWorkflows)
}

func TestSubmitTriggerGeneratorFailureReportsTruePhase(t *testing.T) {
	o := newTestOrchestrator(nil, &fakeGen{err: errors.New("model unavailable")}, nil)

	result, err := o.SubmitTrigger(context.Background(), validTrigger(types.PriorityNormal))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, types.PhasePersonalize, result.Phase)
	assert.Contains(t, result.Error, "model unavailable")
}

func TestSubmitTriggerUsesGeneratorResponse(t *testing.T) {
	o := newTestOrchestrator(nil, &fakeGen{content: "generated reply"}, nil)

	result, err := o.SubmitTrigger(context.Background(), validTrigger(types.PriorityNormal))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Contains(t, string(result.Payload), "generated reply")

	// The outbound completion message carries the response.
	msgs := o.Messages()
	last := msgs[len(msgs)-1]
	require.Equal(t, types.KindWorkflowComplete, last.Kind)
	assert.Equal(t, "generated reply", last.Complete.Response)
	assert.Equal(t, types.AgentID("console"), last.To)
}

func TestSingleFlight(t *testing.T) {
	gen := &fakeGen{
		content: "slow reply",
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	o := newTestOrchestrator(nil, gen, nil)

	done := make(chan types.WorkflowResult, 1)
	go func() {
		result, err := o.SubmitTrigger(context.Background(), validTrigger(types.PriorityNormal))
		if err == nil {
			done <- result
		}
		close(done)
	}()

	<-gen.started

	// Second submission while the first is inside personalize.
	_, err := o.SubmitTrigger(context.Background(), validTrigger(types.PriorityNormal))
	assert.ErrorIs(t, err, ErrPipelineBusy)
	assert.Equal(t, int64(1), o.Stats().ActiveWorkflows)

	close(gen.block)
	result, ok := <-done
	require.True(t, ok)
	assert.True(t, result.Success)
	assert.Equal(t, int64(0), o.Stats().ActiveWorkflows)
}

func TestRecentTriggerHistoryBound(t *testing.T) {
	o := newTestOrchestrator(nil, nil, nil)

	var lastID types.TriggerID
	for i := 0; i < 12; i++ {
		trigger := validTrigger(types.PriorityNormal)
		trigger.ID = types.TriggerID(fmt.Sprintf("trigger-%d", i))
		lastID = trigger.ID
		_, err := o.SubmitTrigger(context.Background(), trigger)
		require.NoError(t, err)
	}

	recent := o.RecentTriggers()
	require.Len(t, recent, domain.HistorySize)
	assert.Equal(t, lastID, recent[0].ID)
}

func TestIdempotentResubmission(t *testing.T) {
	o := newTestOrchestrator(nil, nil, nil)

	trigger := validTrigger(types.PriorityNormal)

	first, err := o.SubmitTrigger(context.Background(), trigger)
	require.NoError(t, err)
	second, err := o.SubmitTrigger(context.Background(), trigger)
	require.NoError(t, err)

	// Two independent runs: no caching, no deduplication.
	assert.True(t, first.Success)
	assert.True(t, second.Success)
	assert.Equal(t, int64(2), o.Stats().CompletedWorkflows)

	recent := o.RecentTriggers()
	require.Len(t, recent, 2)
	assert.NotEqual(t, recent[0].ID, recent[1].ID, "each submission gets its own id")
}

func TestSecondRunSeesHistory(t *testing.T) {
	o := newTestOrchestrator(nil, nil, nil)

	_, err := o.SubmitTrigger(context.Background(), validTrigger(types.PriorityHigh))
	require.NoError(t, err)

	_, err = o.SubmitTrigger(context.Background(), validTrigger(types.PriorityHigh))
	require.NoError(t, err)

	// History plus elevated priority: 0.5 + 0.2 + 0.2.
	trail := o.PhaseTrail()
	require.Len(t, trail, 3)
	assert.Contains(t, string(trail[1].Payload), `"relevance":0.9`)
}

func TestPhaseTransitionMessages(t *testing.T) {
	o := newTestOrchestrator(nil, nil, nil)

	_, err := o.SubmitTrigger(context.Background(), validTrigger(types.PriorityNormal))
	require.NoError(t, err)

	var transitions []types.Phase
	for _, m := range o.Messages() {
		if m.Kind == types.KindPhaseTransition {
			assert.Equal(t, agents.CoordinatorID, m.To)
			transitions = append(transitions, m.Transition.Phase)
		}
	}
	assert.Equal(t, []types.Phase{types.PhaseMonitor, types.PhaseContextualize, types.PhasePersonalize}, transitions)
}
