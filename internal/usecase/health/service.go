// Package health aggregates dependency probes into the /health report.
package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gigmarket/internal/logger"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names in Report.Checks.
const (
	ComponentDatabase  = "database"
	ComponentCache     = "cache"
	ComponentAssistant = "assistant"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

const (
	checkTimeout = 3 * time.Second
	// DefaultAssistantTTL spaces out provider probes, which cost an API call each.
	DefaultAssistantTTL = 30 * time.Second
)

// probe is one component. A positive ttl reuses the last result until it ages out.
type probe struct {
	name  string
	check func(context.Context) error
	ttl   time.Duration

	mu   sync.Mutex
	last CheckResult
	at   time.Time
}

func (p *probe) run(ctx context.Context, now time.Time) CheckResult {
	if p.ttl > 0 {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.last != "" && now.Sub(p.at) < p.ttl {
			return p.last
		}
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	res := CheckOK
	if err := p.check(ctx); err != nil {
		logger.FromContext(ctx).Warn("Health check failed", zap.String("component", p.name), zap.Error(err))
		res = CheckError
	}
	if p.ttl > 0 {
		p.last, p.at = res, now
	}
	return res
}

// Option adds an optional component.
type Option func(*Service)

// WithCache probes Redis. A nil pinger is ignored.
func WithCache(p Pinger) Option {
	return func(s *Service) {
		if p != nil {
			s.probes = append(s.probes, &probe{name: ComponentCache, check: p.Ping})
		}
	}
}

// WithAssistant probes the language model provider, caching the result for ttl.
// A nil checker is ignored.
func WithAssistant(c AssistantChecker, ttl time.Duration) Option {
	return func(s *Service) {
		if c != nil {
			s.probes = append(s.probes, &probe{name: ComponentAssistant, check: c.HealthCheck, ttl: ttl})
		}
	}
}

// Service runs the probes.
type Service struct {
	probes []*probe
	now    func() time.Time
}

// New creates a Service. The database is always probed.
func New(db Pinger, opts ...Option) *Service {
	s := &Service{
		probes: []*probe{{name: ComponentDatabase, check: db.Ping}},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check runs every probe concurrently. Any failure degrades the report.
func (s *Service) Check(ctx context.Context) Report {
	now := s.now()
	results := make([]CheckResult, len(s.probes))

	var wg sync.WaitGroup
	for i, p := range s.probes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = p.run(ctx, now)
		}()
	}
	wg.Wait()

	r := Report{Status: Healthy, Checks: make(map[string]CheckResult, len(s.probes))}
	for i, p := range s.probes {
		r.Checks[p.name] = results[i]
		if results[i] == CheckError {
			r.Status = Degraded
		}
	}
	return r
}
