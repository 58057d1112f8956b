// Package lock provides short-lived exclusive keys used to keep one
// generate or deploy in flight per caller.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrHeld is returned by Acquire when another holder owns the key.
var ErrHeld = errors.New("lock held")

// Locker grants exclusive ownership of a key until release or ttl expiry.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// Memory is a process-local Locker.
type Memory struct {
	mu    sync.Mutex
	held  map[string]time.Time
	now   func() time.Time
	token uint64
	owner map[string]uint64
}

// NewMemory creates an empty in-process locker.
func NewMemory() *Memory {
	return &Memory{
		held:  make(map[string]time.Time),
		owner: make(map[string]uint64),
		now:   time.Now,
	}
}

func (m *Memory) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if exp, ok := m.held[key]; ok && now.Before(exp) {
		return nil, ErrHeld
	}
	m.token++
	tok := m.token
	m.held[key] = now.Add(ttl)
	m.owner[key] = tok

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.owner[key] == tok {
			delete(m.held, key)
			delete(m.owner, key)
		}
	}, nil
}
