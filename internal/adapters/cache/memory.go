package cache

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Key serializa (provider, endpoint, params) de forma estable.
// url.Values.Encode ordena por clave, así que el orden de inserción no importa.
func Key(provider, endpoint string, params url.Values) string {
	var sb strings.Builder
	sb.WriteString(provider)
	sb.WriteByte('|')
	sb.WriteString(endpoint)
	sb.WriteByte('|')
	sb.WriteString(params.Encode())
	return sb.String()
}

type entry struct {
	capturedAt time.Time
	payload    []byte
}

// Memory es una cache TTL en memoria, segura para uso concurrente.
type Memory struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]entry
}

// NewMemory crea una cache con el TTL dado.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// NewMemoryWithClock crea una cache con un reloj inyectado, para tests.
func NewMemoryWithClock(ttl time.Duration, now func() time.Time) *Memory {
	m := NewMemory(ttl)
	m.now = now
	return m
}

// Get devuelve el payload si la entrada existe y now − capturedAt < ttl.
// Las entradas expiradas no se borran aquí; eso lo hace PurgeExpired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || !m.fresh(e) {
		return nil, false
	}
	return e.payload, true
}

// Put guarda el payload con el instante actual.
func (m *Memory) Put(_ context.Context, key string, payload []byte) {
	m.mu.Lock()
	m.entries[key] = entry{capturedAt: m.now(), payload: payload}
	m.mu.Unlock()
}

// PurgeExpired elimina las entradas expiradas.
func (m *Memory) PurgeExpired(_ context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for k, e := range m.entries {
		if !m.fresh(e) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

// Len devuelve el número de entradas, incluidas las expiradas aún no purgadas.
func (m *Memory) Len(_ context.Context) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) fresh(e entry) bool {
	return m.now().Sub(e.capturedAt) < m.ttl
}
