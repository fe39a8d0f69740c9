package regulator

import (
	"sync"
)

// BackPressureRegulator tracks protocol-churn pressure (protocols created
// per event dispatched) and reports Limit()==true once pressure crosses a
// threshold. Like RateLimiter, this is advisory only at the ResourceManager
// call site (SPEC_FULL.md §4.11/§4.8) - it never blocks rule evaluation.
type BackPressureRegulator struct {
	mu sync.RWMutex

	maxChurnPerEvent float64
	currentPressure  float64
	metrics          *Metrics
}

// NewBackPressureRegulator constructs a regulator that considers churn
// "full pressure" once protocolsCreated/eventsExecuted reaches
// maxChurnPerEvent.
func NewBackPressureRegulator(maxChurnPerEvent float64) *BackPressureRegulator {
	return &BackPressureRegulator{maxChurnPerEvent: maxChurnPerEvent}
}

// Observe records metrics and recomputes current pressure.
func (bp *BackPressureRegulator) Observe(metrics *Metrics) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	bp.metrics = metrics
	bp.updatePressure()
}

// Limit reports true once pressure has reached or exceeded 80% of the
// configured ceiling.
func (bp *BackPressureRegulator) Limit() bool {
	bp.mu.RLock()
	defer bp.mu.RUnlock()
	return bp.currentPressure >= 0.8
}

// Renormalize relaxes pressure toward zero when the latest observation
// shows churn back under half the ceiling.
func (bp *BackPressureRegulator) Renormalize() {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.metrics == nil {
		return
	}
	if bp.churnRate() < bp.maxChurnPerEvent/2 {
		bp.currentPressure = maxFloat(0, bp.currentPressure-0.1)
	}
}

// GetPressure returns the current pressure level in [0,1].
func (bp *BackPressureRegulator) GetPressure() float64 {
	bp.mu.RLock()
	defer bp.mu.RUnlock()
	return bp.currentPressure
}

func (bp *BackPressureRegulator) churnRate() float64 {
	if bp.metrics == nil || bp.metrics.EventsExecuted == 0 {
		return 0
	}
	return float64(bp.metrics.ProtocolsCreated) / float64(bp.metrics.EventsExecuted)
}

func (bp *BackPressureRegulator) updatePressure() {
	if bp.maxChurnPerEvent <= 0 {
		return
	}
	bp.currentPressure = minFloat(1, maxFloat(0, bp.churnRate()/bp.maxChurnPerEvent))
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

var _ Regulator = (*BackPressureRegulator)(nil)
