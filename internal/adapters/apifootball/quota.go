package apifootball

import (
	"sync"
	"time"
)

const quotaWindow = 60 * time.Second

type quotaState struct {
	count       int
	windowStart time.Time
}

// QuotaTracker cuenta requests por proveedor en ventanas de 60s.
// La ventana se reinicia cuando now − windowStart > 60s.
type QuotaTracker struct {
	now    func() time.Time
	mu     sync.Mutex
	limits map[string]int
	state  map[string]*quotaState
}

// NewQuotaTracker crea un tracker con los límites por minuto de cada proveedor.
func NewQuotaTracker(limits map[string]int) *QuotaTracker {
	return NewQuotaTrackerWithClock(limits, time.Now)
}

// NewQuotaTrackerWithClock permite inyectar el reloj en tests.
func NewQuotaTrackerWithClock(limits map[string]int, now func() time.Time) *QuotaTracker {
	l := make(map[string]int, len(limits))
	for k, v := range limits {
		l[k] = v
	}
	return &QuotaTracker{
		now:    now,
		limits: l,
		state:  make(map[string]*quotaState),
	}
}

// Allow consume un request del proveedor si queda cupo en la ventana actual.
// Un proveedor sin límite registrado nunca es permitido.
func (q *QuotaTracker) Allow(provider string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	limit, ok := q.limits[provider]
	if !ok {
		return false
	}

	now := q.now()
	st, ok := q.state[provider]
	if !ok {
		st = &quotaState{windowStart: now}
		q.state[provider] = st
	}
	if now.Sub(st.windowStart) > quotaWindow {
		st.count = 0
		st.windowStart = now
	}
	if st.count >= limit {
		return false
	}
	st.count++
	return true
}

// Counts devuelve los requests consumidos en la ventana actual de cada proveedor.
func (q *QuotaTracker) Counts() map[string]int {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	out := make(map[string]int, len(q.limits))
	for name := range q.limits {
		st, ok := q.state[name]
		if !ok || now.Sub(st.windowStart) > quotaWindow {
			out[name] = 0
			continue
		}
		out[name] = st.count
	}
	return out
}
