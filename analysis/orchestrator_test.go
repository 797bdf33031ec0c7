package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oratiolabs/oratio/llm"
)

// scriptedCaller replays queued results per provider and records the
// call order.
type scriptedCaller struct {
	mu      sync.Mutex
	results map[string][]callResult
	calls   []string
}

type callResult struct {
	raw string
	err error
}

func (s *scriptedCaller) Generate(_ context.Context, ep llm.Endpoint, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, ep.Provider)
	queue := s.results[ep.Provider]
	if len(queue) == 0 {
		return "", fmt.Errorf("unexpected call to %s", ep.Provider)
	}
	next := queue[0]
	s.results[ep.Provider] = queue[1:]
	return next.raw, next.err
}

func ok(sentence string) callResult {
	return callResult{raw: fmt.Sprintf(`{"sentences":[{"sentence":%q,"biased_spans":[],"suggestion":%q}]}`, sentence, sentence)}
}

func quotaErr() callResult {
	return callResult{err: llm.NewQuotaError(errors.New("quota exceeded for requests"))}
}

func transientErr() callResult {
	return callResult{err: errors.New("model overloaded")}
}

var (
	primaryEP   = llm.Endpoint{Provider: "gemini", Model: "gemini-2.0-flash", APIKey: "pk"}
	secondaryEP = llm.Endpoint{Provider: "openai", Model: "gpt-4o-mini", APIKey: "sk"}
	noEP        = llm.Endpoint{}
)

func newTestOrchestrator(caller Caller, primary, secondary llm.Endpoint, active ActiveProvider) *Orchestrator {
	o := NewOrchestrator(caller, primary, secondary)
	o.state.setActive(active)
	return o
}

func TestOrchestrator_PrimaryHappyPath(t *testing.T) {
	caller := &scriptedCaller{results: map[string][]callResult{
		"gemini": {ok("A"), ok("B")},
	}}
	o := newTestOrchestrator(caller, primaryEP, secondaryEP, ProviderPrimary)

	report, err := o.Analyze(context.Background(), "A. B.")
	require.NoError(t, err)

	assert.Len(t, report.Sentences, 2)
	assert.Equal(t, []string{"gemini", "gemini"}, caller.calls)
	assert.Equal(t, ProviderPrimary, o.State().ActiveProvider)
}

func TestOrchestrator_QuotaSwitchesPermanently(t *testing.T) {
	caller := &scriptedCaller{results: map[string][]callResult{
		"gemini": {quotaErr()},
		"openai": {ok("A"), ok("B")},
	}}
	o := newTestOrchestrator(caller, primaryEP, secondaryEP, ProviderPrimary)

	report, err := o.Analyze(context.Background(), "A. B.")
	require.NoError(t, err)
	assert.Len(t, report.Sentences, 2)

	// The same unit is retried against the secondary, and subsequent
	// units go straight there.
	assert.Equal(t, []string{"gemini", "openai", "openai"}, caller.calls)

	snapshot := o.State()
	assert.Equal(t, ProviderSecondary, snapshot.ActiveProvider)
	assert.True(t, snapshot.PrimaryQuotaExceeded)
}

func TestOrchestrator_TransientErrorDoesNotSwitch(t *testing.T) {
	caller := &scriptedCaller{results: map[string][]callResult{
		"gemini": {transientErr(), ok("B")},
		"openai": {ok("A")},
	}}
	o := newTestOrchestrator(caller, primaryEP, secondaryEP, ProviderPrimary)

	report, err := o.Analyze(context.Background(), "A. B.")
	require.NoError(t, err)
	assert.Len(t, report.Sentences, 2)

	// Unit A fails over for one call only; unit B returns to the primary.
	assert.Equal(t, []string{"gemini", "openai", "gemini"}, caller.calls)

	snapshot := o.State()
	assert.Equal(t, ProviderPrimary, snapshot.ActiveProvider)
	assert.False(t, snapshot.PrimaryQuotaExceeded)
}

func TestOrchestrator_SecondaryStickyAfterPrimaryRecovers(t *testing.T) {
	caller := &scriptedCaller{results: map[string][]callResult{
		"openai": {transientErr(), ok("B")},
		"gemini": {ok("A")},
	}}
	o := newTestOrchestrator(caller, primaryEP, secondaryEP, ProviderSecondary)

	report, err := o.Analyze(context.Background(), "A. B.")
	require.NoError(t, err)
	assert.Len(t, report.Sentences, 2)

	// Secondary fails unit A, primary rescues it, but routing stays on
	// the secondary for unit B.
	assert.Equal(t, []string{"openai", "gemini", "openai"}, caller.calls)
	assert.Equal(t, ProviderSecondary, o.State().ActiveProvider)
}

func TestOrchestrator_BothFailFailsRequest(t *testing.T) {
	caller := &scriptedCaller{results: map[string][]callResult{
		"gemini": {transientErr()},
		"openai": {transientErr()},
	}}
	o := newTestOrchestrator(caller, primaryEP, secondaryEP, ProviderPrimary)

	_, err := o.Analyze(context.Background(), "A.")
	assert.ErrorIs(t, err, ErrAllProvidersUnavailable)
}

func TestOrchestrator_QuotaWithoutSecondaryFailsRequest(t *testing.T) {
	caller := &scriptedCaller{results: map[string][]callResult{
		"gemini": {quotaErr()},
	}}
	o := newTestOrchestrator(caller, primaryEP, noEP, ProviderPrimary)

	_, err := o.Analyze(context.Background(), "A. B.")
	assert.ErrorIs(t, err, ErrAllProvidersUnavailable)

	// With no secondary, quota exhaustion leaves no active provider.
	snapshot := o.State()
	assert.Equal(t, ProviderNone, snapshot.ActiveProvider)
	assert.True(t, snapshot.PrimaryQuotaExceeded)
}

func TestOrchestrator_NoProvidersConfigured(t *testing.T) {
	caller := &scriptedCaller{results: map[string][]callResult{}}
	o := NewOrchestrator(caller, noEP, noEP)
	o.Probe(context.Background())

	_, err := o.Analyze(context.Background(), "A.")
	assert.ErrorIs(t, err, ErrAllProvidersUnavailable)
	assert.Equal(t, ProviderNone, o.State().ActiveProvider)
	assert.Empty(t, caller.calls)
}

func TestOrchestrator_EmptyInput(t *testing.T) {
	caller := &scriptedCaller{results: map[string][]callResult{}}
	o := newTestOrchestrator(caller, primaryEP, secondaryEP, ProviderPrimary)

	_, err := o.Analyze(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Empty(t, caller.calls)
}

func TestOrchestrator_Probe(t *testing.T) {
	t.Run("primary healthy", func(t *testing.T) {
		caller := &scriptedCaller{results: map[string][]callResult{
			"gemini": {ok("OK")},
		}}
		o := NewOrchestrator(caller, primaryEP, secondaryEP)
		o.Probe(context.Background())

		assert.Equal(t, ProviderPrimary, o.State().ActiveProvider)
	})

	t.Run("primary quota exhausted", func(t *testing.T) {
		caller := &scriptedCaller{results: map[string][]callResult{
			"gemini": {quotaErr()},
		}}
		o := NewOrchestrator(caller, primaryEP, secondaryEP)
		o.Probe(context.Background())

		snapshot := o.State()
		assert.Equal(t, ProviderSecondary, snapshot.ActiveProvider)
		assert.True(t, snapshot.PrimaryQuotaExceeded)
	})

	t.Run("primary unreachable", func(t *testing.T) {
		caller := &scriptedCaller{results: map[string][]callResult{
			"gemini": {{err: llm.NewUnavailableError(errors.New("connection refused"))}},
		}}
		o := NewOrchestrator(caller, primaryEP, secondaryEP)
		o.Probe(context.Background())

		snapshot := o.State()
		assert.Equal(t, ProviderSecondary, snapshot.ActiveProvider)
		assert.False(t, snapshot.PrimaryQuotaExceeded)
	})

	t.Run("only secondary configured", func(t *testing.T) {
		caller := &scriptedCaller{results: map[string][]callResult{}}
		o := NewOrchestrator(caller, noEP, secondaryEP)
		o.Probe(context.Background())

		assert.Equal(t, ProviderSecondary, o.State().ActiveProvider)
	})
}

func TestOrchestrator_ReportInvariants(t *testing.T) {
	biased := callResult{raw: `{"sentences":[{"sentence":"A","biased_spans":[{"text":"A","start":0,"end":1,"type":"toxic"}],"suggestion":"a"}]}`}
	caller := &scriptedCaller{results: map[string][]callResult{
		"gemini": {biased, ok("B")},
	}}
	o := newTestOrchestrator(caller, primaryEP, secondaryEP, ProviderPrimary)

	report, err := o.Analyze(context.Background(), "A. B.")
	require.NoError(t, err)

	total := 0
	for _, s := range report.Sentences {
		total += len(s.BiasedSpans)
	}
	assert.Equal(t, total, report.Summary.BiasedCount)
	assert.Equal(t, 0.5, report.Summary.Score)
}
