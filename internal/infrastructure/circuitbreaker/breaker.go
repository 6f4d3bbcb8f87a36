package circuitbreaker

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Settings configures the breakers created by a Manager.
type Settings struct {
	// MaxRequests is the number of requests allowed through while half-open.
	MaxRequests uint32
	// Interval is the cyclic period of the closed state after which counts
	// are cleared.
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// FailureThreshold is the number of consecutive failures that trips the breaker.
	FailureThreshold uint32
}

// DefaultSettings returns default circuit breaker settings
func DefaultSettings() Settings {
	return Settings{
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// IsRejected reports whether err was produced by a breaker refusing the call.
func IsRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// Manager owns one breaker per external API.
type Manager struct {
	settings Settings
	breakers map[string]*gobreaker.CircuitBreaker
	mu       sync.RWMutex
	log      *zap.Logger
}

// NewManager creates a new circuit breaker manager
func NewManager(settings Settings, log *zap.Logger) *Manager {
	return &Manager{
		settings: settings,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
		log:      log,
	}
}

// Get returns the breaker for name, creating it if it doesn't exist.
func (m *Manager) Get(name string) *gobreaker.CircuitBreaker {
	m.mu.RLock()
	cb, exists := m.breakers[name]
	m.mu.RUnlock()

	if exists {
		return cb
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if cb, exists = m.breakers[name]; exists {
		return cb
	}

	threshold := m.settings.FailureThreshold
	cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: m.settings.MaxRequests,
		Interval:    m.settings.Interval,
		Timeout:     m.settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			m.log.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	m.breakers[name] = cb

	return cb
}

// BreakerStatus represents the status of a circuit breaker
type BreakerStatus struct {
	Name                string `json:"name"`
	State               string `json:"state"`
	Requests            uint32 `json:"requests"`
	ConsecutiveFailures uint32 `json:"consecutive_failures"`
}

// Status returns the status of all circuit breakers, sorted by name.
func (m *Manager) Status() []BreakerStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := make([]BreakerStatus, 0, len(m.breakers))
	for name, cb := range m.breakers {
		counts := cb.Counts()
		status = append(status, BreakerStatus{
			Name:                name,
			State:               cb.State().String(),
			Requests:            counts.Requests,
			ConsecutiveFailures: counts.ConsecutiveFailures,
		})
	}
	sort.Slice(status, func(i, j int) bool { return status[i].Name < status[j].Name })
	return status
}

// Open returns the names of the breakers currently open.
func (m *Manager) Open() []string {
	var open []string
	for _, s := range m.Status() {
		if s.State == gobreaker.StateOpen.String() {
			open = append(open, s.Name)
		}
	}
	return open
}
