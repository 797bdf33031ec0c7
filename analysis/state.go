package analysis

import "sync"

// ActiveProvider identifies which provider the orchestrator routes to.
type ActiveProvider string

// Provider routing states.
const (
	ProviderPrimary   ActiveProvider = "primary"
	ProviderSecondary ActiveProvider = "secondary"
	ProviderNone      ActiveProvider = "none"
)

// ProviderState holds the process-wide routing state shared by all
// requests. One mutex guards both fields: a quota transition discovered
// by one request must be visible to the next, and concurrent writers
// must never un-set the quota flag from a stale read.
type ProviderState struct {
	mu                   sync.Mutex
	active               ActiveProvider
	primaryQuotaExceeded bool
}

// NewProviderState creates state with no active provider. The
// orchestrator's startup probe establishes the initial routing.
func NewProviderState() *ProviderState {
	return &ProviderState{active: ProviderNone}
}

// route returns the current routing decision.
func (s *ProviderState) route() (ActiveProvider, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.primaryQuotaExceeded
}

// setActive establishes the active provider without touching the quota
// flag. Used by the startup probe.
func (s *ProviderState) setActive(p ActiveProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = p
}

// markPrimaryQuota records quota exhaustion on the primary provider and
// switches routing. Quota exhaustion is long-lived for the life of the
// process: the flag is only ever set, never cleared.
func (s *ProviderState) markPrimaryQuota(secondaryConfigured bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.primaryQuotaExceeded = true
	if secondaryConfigured {
		s.active = ProviderSecondary
	} else {
		s.active = ProviderNone
	}
}

// StateSnapshot is a read-only view of the routing state for status
// reporting.
type StateSnapshot struct {
	ActiveProvider       ActiveProvider `json:"active_provider"`
	PrimaryQuotaExceeded bool           `json:"primary_quota_exceeded"`
	PrimaryConfigured    bool           `json:"primary_configured"`
	SecondaryConfigured  bool           `json:"secondary_configured"`
}
