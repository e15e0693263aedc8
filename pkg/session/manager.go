package session

import (
	"context"
	"fmt"
	"sync"

	"ai-storefront/internal/repository/contract"
	"ai-storefront/pkg/store"
)

// Manager serializes work per session: one request at a time may load,
// mutate and save a given session.
type Manager struct {
	sessionRepo contract.SessionRepository

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewManager(sessionRepo contract.SessionRepository) *Manager {
	return &Manager{
		sessionRepo: sessionRepo,
		locks:       make(map[string]*sessionLock),
	}
}

// With loads (or creates) the session, runs fn and saves the result. The
// session is saved even when fn fails so recorded turns are never lost.
func (m *Manager) With(ctx context.Context, id string, fn func(*store.Session) error) error {
	unlock := m.lock(id)
	defer unlock()

	s, err := m.loadOrCreate(ctx, id)
	if err != nil {
		return err
	}

	fnErr := fn(s)
	if err := m.sessionRepo.Save(ctx, s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return fnErr
}

func (m *Manager) loadOrCreate(ctx context.Context, id string) (*store.Session, error) {
	s, found, err := m.sessionRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !found {
		s = store.NewSession(id)
	}
	return s, nil
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

// View runs fn on the session under its lock without saving it. A missing
// session is handed to fn fresh. fn must not mutate the session.
func (m *Manager) View(ctx context.Context, id string, fn func(*store.Session) error) error {
	unlock := m.lock(id)
	defer unlock()

	s, err := m.loadOrCreate(ctx, id)
	if err != nil {
		return err
	}
	return fn(s)
}
