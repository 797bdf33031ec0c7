package analysis

import (
	"context"
	"log/slog"

	"github.com/oratiolabs/oratio/llm"
)

// Caller executes a single prompt against a provider endpoint. Satisfied
// by *llm.Client; narrowed to an interface so tests can stub providers.
type Caller interface {
	Generate(ctx context.Context, ep llm.Endpoint, prompt string) (string, error)
}

// Orchestrator routes sentence units to providers, interprets adapter
// failures, switches providers on quota exhaustion, and aggregates
// per-unit results. It is the only stateful piece of the pipeline; the
// shared ProviderState makes failover sticky across requests.
type Orchestrator struct {
	client    Caller
	primary   llm.Endpoint
	secondary llm.Endpoint
	state     *ProviderState
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// NewOrchestrator creates an orchestrator over the two provider
// endpoints. Either endpoint may be unconfigured; call Probe to
// establish the initial routing state before serving requests.
func NewOrchestrator(client Caller, primary, secondary llm.Endpoint, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:    client,
		primary:   primary,
		secondary: secondary,
		state:     NewProviderState(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Probe establishes the initial routing state with a lightweight call to
// each configured provider. Primary is preferred when it responds
// without a quota error; otherwise Secondary when configured; otherwise
// no provider is active.
func (o *Orchestrator) Probe(ctx context.Context) {
	active := ProviderNone

	if o.primary.Configured() {
		_, err := o.generate(ctx, ProviderPrimary, probePrompt)
		switch {
		case err == nil:
			active = ProviderPrimary
		case llm.IsQuota(err):
			o.logger.Warn("Primary provider quota exhausted at startup",
				"provider", o.primary.Provider, "error", err)
			o.state.markPrimaryQuota(o.secondary.Configured())
		case llm.IsUnavailable(err):
			o.logger.Warn("Primary provider unreachable at startup",
				"provider", o.primary.Provider, "error", err)
		default:
			// A generic error still counts as responding; transient
			// trouble does not demote the primary.
			active = ProviderPrimary
		}
	}

	if active == ProviderNone && o.secondary.Configured() {
		active = ProviderSecondary
	}

	if active != ProviderNone {
		o.state.setActive(active)
	}

	snapshot := o.State()
	o.logger.Info("Provider routing initialized",
		"active", snapshot.ActiveProvider,
		"primary_quota_exceeded", snapshot.PrimaryQuotaExceeded)
}

// State returns a snapshot of the routing state for status reporting.
func (o *Orchestrator) State() StateSnapshot {
	active, quota := o.state.route()
	return StateSnapshot{
		ActiveProvider:       active,
		PrimaryQuotaExceeded: quota,
		PrimaryConfigured:    o.primary.Configured(),
		SecondaryConfigured:  o.secondary.Configured(),
	}
}

// Analyze segments the text and analyzes each unit in order. Units are
// processed sequentially: a quota transition discovered on one unit must
// affect routing for the next. A unit that exhausts both providers fails
// the whole request; only normalization failures degrade to neutral
// records.
func (o *Orchestrator) Analyze(ctx context.Context, text string) (*Report, error) {
	units, err := Segment(text)
	if err != nil {
		analyzeRequests.WithLabelValues("empty_input").Inc()
		return nil, err
	}

	analyses := make([]SentenceAnalysis, 0, len(units))
	for _, unit := range units {
		record, err := o.analyzeUnit(ctx, unit)
		if err != nil {
			analyzeRequests.WithLabelValues("unavailable").Inc()
			return nil, err
		}
		analyses = append(analyses, record)
	}

	analyzeRequests.WithLabelValues("ok").Inc()
	return Aggregate(text, analyses), nil
}

// analyzeUnit dispatches one sentence unit, applying the failover rules.
// Each unit gets at most two provider attempts, issued strictly one
// after another.
func (o *Orchestrator) analyzeUnit(ctx context.Context, unit string) (SentenceAnalysis, error) {
	prompt := buildPrompt(unit)
	active, primaryQuota := o.state.route()

	switch active {
	case ProviderPrimary:
		raw, err := o.generate(ctx, ProviderPrimary, prompt)
		if err == nil {
			return Normalize(raw, unit), nil
		}

		if llm.IsQuota(err) {
			// Quota exhaustion is long-lived: switch permanently and
			// retry this unit once against the secondary.
			o.logger.Warn("Primary provider quota exhausted, switching",
				"provider", o.primary.Provider, "error", err)
			o.state.markPrimaryQuota(o.secondary.Configured())
			providerFailovers.Inc()
		} else {
			// A transient failure is unit-local: try the secondary for
			// this unit only, keeping the primary preferred.
			o.logger.Warn("Primary provider call failed",
				"provider", o.primary.Provider, "error", err)
		}

		if o.secondary.Configured() {
			raw, retryErr := o.generate(ctx, ProviderSecondary, prompt)
			if retryErr == nil {
				return Normalize(raw, unit), nil
			}
			o.logger.Warn("Secondary provider call failed",
				"provider", o.secondary.Provider, "error", retryErr)
		}
		return SentenceAnalysis{}, ErrAllProvidersUnavailable

	case ProviderSecondary:
		raw, err := o.generate(ctx, ProviderSecondary, prompt)
		if err == nil {
			return Normalize(raw, unit), nil
		}
		o.logger.Warn("Secondary provider call failed",
			"provider", o.secondary.Provider, "error", err)

		// Fall back to the primary for this unit only. The secondary
		// stays active: a mid-process quota reset is not tracked.
		if !primaryQuota && o.primary.Configured() {
			raw, retryErr := o.generate(ctx, ProviderPrimary, prompt)
			if retryErr == nil {
				return Normalize(raw, unit), nil
			}
			if llm.IsQuota(retryErr) {
				o.state.markPrimaryQuota(o.secondary.Configured())
			}
			o.logger.Warn("Primary provider call failed",
				"provider", o.primary.Provider, "error", retryErr)
		}
		return SentenceAnalysis{}, ErrAllProvidersUnavailable

	default:
		return SentenceAnalysis{}, ErrAllProvidersUnavailable
	}
}

// generate performs one adapter call and records metrics.
func (o *Orchestrator) generate(ctx context.Context, which ActiveProvider, prompt string) (string, error) {
	ep := o.primary
	if which == ProviderSecondary {
		ep = o.secondary
	}

	raw, err := o.client.Generate(ctx, ep, prompt)
	providerCalls.WithLabelValues(ep.Provider, callOutcome(err, llm.IsQuota(err), llm.IsUnavailable(err))).Inc()
	return raw, err
}
