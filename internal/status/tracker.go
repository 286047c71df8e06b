package status

import (
	"sync"
	"time"

	"github.com/stacklok/rre-dashboard/internal/dashboard"
)

// trackedKinds are reported even before their first refresh
var trackedKinds = append([]dashboard.ListKind{dashboard.KindData}, dashboard.ListKinds...)

// Tracker keeps the latest RefreshStatus per list kind in memory.
// Topic and query group fetches run per parent, so their status reflects the
// most recent fetch of any parent.
type Tracker struct {
	mu       sync.RWMutex
	statuses map[dashboard.ListKind]*RefreshStatus
	now      func() time.Time
}

// NewTracker creates a tracker with every kind in the Pending phase
func NewTracker() *Tracker {
	t := &Tracker{
		statuses: make(map[dashboard.ListKind]*RefreshStatus, len(trackedKinds)),
		now:      time.Now,
	}
	for _, kind := range trackedKinds {
		t.statuses[kind] = &RefreshStatus{Kind: kind, Phase: RefreshPhasePending}
	}
	return t
}

// Start marks a fetch for kind as in flight
func (t *Tracker) Start(kind dashboard.ListKind) {
	t.update(kind, func(s *RefreshStatus, now time.Time) {
		s.Phase = RefreshPhaseRefreshing
		s.LastAttempt = &now
	})
}

// Succeed records a successful fetch and the resulting list size
func (t *Tracker) Succeed(kind dashboard.ListKind, itemCount int, hash string) {
	t.update(kind, func(s *RefreshStatus, now time.Time) {
		s.Phase = RefreshPhaseComplete
		s.Message = "Refresh completed successfully"
		s.LastSuccess = &now
		s.FailureCount = 0
		s.ItemCount = itemCount
		if hash != "" {
			s.LastHash = hash
		}
	})
}

// Fail records a failed fetch. The item count is left as it was.
func (t *Tracker) Fail(kind dashboard.ListKind, err error) {
	t.update(kind, func(s *RefreshStatus, _ time.Time) {
		s.Phase = RefreshPhaseFailed
		s.Message = "Refresh failed"
		s.FailureCount++
		if err != nil {
			s.LastError = err.Error()
		}
	})
}

// Discard records that a fetch result was dropped by the generation check.
// Counters and timestamps of the last success are kept.
func (t *Tracker) Discard(kind dashboard.ListKind) {
	t.update(kind, func(s *RefreshStatus, _ time.Time) {
		s.Phase = RefreshPhaseDiscarded
		s.Message = "Result discarded by a newer refresh cycle"
	})
}

// Get returns a copy of the status for kind
func (t *Tracker) Get(kind dashboard.ListKind) RefreshStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if s, ok := t.statuses[kind]; ok {
		return *s
	}
	return RefreshStatus{Kind: kind, Phase: RefreshPhasePending}
}

// All returns a copy of every status in a stable order, data first
func (t *Tracker) All() []RefreshStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]RefreshStatus, 0, len(trackedKinds))
	for _, kind := range trackedKinds {
		out = append(out, *t.statuses[kind])
	}
	return out
}

func (t *Tracker) update(kind dashboard.ListKind, fn func(*RefreshStatus, time.Time)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.statuses[kind]
	if !ok {
		s = &RefreshStatus{Kind: kind, Phase: RefreshPhasePending}
		t.statuses[kind] = s
	}
	fn(s, t.now())
}
