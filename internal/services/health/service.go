// Package health reports whether the backend's dependencies are usable.
package health

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Check probes one dependency. A nil error means healthy.
type Check func(ctx context.Context) error

// Service runs the registered checks.
type Service struct {
	Timeout time.Duration

	mu     sync.RWMutex
	checks map[string]Check
}

// Report is the health payload.
type Report struct {
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{Timeout: 2 * time.Second, checks: map[string]Check{}}
}

// Register adds a named check, replacing any check with the same name.
func (s *Service) Register(name string, check Check) {
	if check == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check
}

// Status runs every check concurrently and reports each result.
func (s *Service) Status(ctx context.Context) Report {
	s.mu.RLock()
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	checks := make([]Check, len(names))
	for i, name := range names {
		checks[i] = s.checks[name]
	}
	s.mu.RUnlock()

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	results := make([]string, len(checks))
	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func(i int, check Check) {
			defer wg.Done()
			if err := check(ctx); err != nil {
				results[i] = err.Error()
				return
			}
			results[i] = "ok"
		}(i, check)
	}
	wg.Wait()

	report := Report{OK: true}
	if len(names) > 0 {
		report.Checks = make(map[string]string, len(names))
	}
	for i, name := range names {
		report.Checks[name] = results[i]
		if results[i] != "ok" {
			report.OK = false
		}
	}
	return report
}
