package health

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// CheckResult represents the result of a health check
type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration_ms"`
	Timestamp time.Time     `json:"timestamp"`
}

// HealthResponse represents the overall health response
type HealthResponse struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse represents the readiness response
type ReadyResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Checker defines a health check function
type Checker func(ctx context.Context) CheckResult

// Pinger is satisfied by ports.Cache.
type Pinger interface {
	Ping() error
}

// BreakerLister reports the circuit breakers currently open.
type BreakerLister interface {
	Open() []string
}

// Service handles health checks
type Service struct {
	cache     Pinger
	breakers  BreakerLister
	critical  map[string]bool
	startTime time.Time
	version   string
	checkers  map[string]Checker
	log       *zap.Logger
	mu        sync.RWMutex
}

// Config holds health service configuration
type Config struct {
	Version  string
	Cache    Pinger
	Breakers BreakerLister
	// Critical names the breakers whose open state takes the service out of
	// rotation. Any other open breaker only degrades readiness.
	Critical []string
}

// NewService creates a new health service
func NewService(config *Config, log *zap.Logger) *Service {
	s := &Service{
		cache:     config.Cache,
		breakers:  config.Breakers,
		startTime: time.Now(),
		version:   config.Version,
		critical:  make(map[string]bool, len(config.Critical)),
		checkers:  make(map[string]Checker),
		log:       log,
	}
	for _, name := range config.Critical {
		s.critical[name] = true
	}

	if config.Cache != nil {
		s.RegisterChecker("cache", s.checkCache)
	}
	if config.Breakers != nil {
		s.RegisterChecker("upstreams", s.checkUpstreams)
	}

	return s
}

// RegisterChecker registers a custom health checker
func (s *Service) RegisterChecker(name string, checker Checker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers[name] = checker
	s.log.Info("Registered health checker", zap.String("name", name))
}

// Health performs a basic liveness check
func (s *Service) Health(ctx context.Context) *HealthResponse {
	return &HealthResponse{
		Status:    StatusHealthy,
		Version:   s.version,
		Uptime:    time.Since(s.startTime).String(),
		Timestamp: time.Now(),
	}
}

// Ready runs every checker concurrently. Degraded checks keep the service
// ready; a single unhealthy check does not.
func (s *Service) Ready(ctx context.Context) *ReadyResponse {
	s.mu.RLock()
	checkers := make(map[string]Checker, len(s.checkers))
	for k, v := range s.checkers {
		checkers[k] = v
	}
	s.mu.RUnlock()

	results := make(map[string]CheckResult)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, checker := range checkers {
		wg.Add(1)
		go func(name string, checker Checker) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			result := checker(checkCtx)

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, checker)
	}

	wg.Wait()

	overallStatus := StatusHealthy
	allReady := true

	for _, result := range results {
		if result.Status == StatusUnhealthy {
			overallStatus = StatusUnhealthy
			allReady = false
		} else if result.Status == StatusDegraded && overallStatus != StatusUnhealthy {
			overallStatus = StatusDegraded
		}
	}

	return &ReadyResponse{
		Ready:     allReady,
		Status:    overallStatus,
		Timestamp: time.Now(),
		Checks:    results,
	}
}

func (s *Service) checkCache(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{
		Name:      "cache",
		Timestamp: start,
	}

	err := s.cache.Ping()
	result.Duration = time.Since(start)

	if err != nil {
		result.Status = StatusUnhealthy
		result.Message = fmt.Sprintf("ping failed: %v", err)
		s.log.Warn("Cache health check failed", zap.Error(err))
	} else {
		result.Status = StatusHealthy
		result.Message = "connection ok"
	}

	return result
}

// checkUpstreams degrades while any external API breaker is open and is
// unhealthy only when one of them is critical.
func (s *Service) checkUpstreams(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{
		Name:      "upstreams",
		Timestamp: start,
	}

	open := s.breakers.Open()
	result.Duration = time.Since(start)

	if len(open) > 0 {
		result.Status = StatusDegraded
		result.Message = "circuit open: " + strings.Join(open, ", ")
		for _, name := range open {
			if s.critical[name] {
				result.Status = StatusUnhealthy
				break
			}
		}
	} else {
		result.Status = StatusHealthy
		result.Message = "all circuits closed"
	}

	return result
}
