package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type entry struct {
	ctrl     *Controller
	lastSeen time.Time
}

// Store keeps one Controller per browser session in memory.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry

	factory func() *Controller
	ttl     time.Duration
	now     func() time.Time
	log     *logrus.Entry
}

func NewStore(ttl time.Duration, factory func() *Controller, log *logrus.Entry) *Store {
	return &Store{
		sessions: map[string]*entry{},
		factory:  factory,
		ttl:      ttl,
		now:      time.Now,
		log:      log.WithField("component", "session.store"),
	}
}

// Get returns the session for id and refreshes its idle timer.
func (s *Store) Get(id string) (*Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.now()
	return e.ctrl, true
}

func (s *Store) Create() (string, *Controller) {
	id := uuid.New().String()
	ctrl := s.factory()
	s.mu.Lock()
	s.sessions[id] = &entry{ctrl: ctrl, lastSeen: s.now()}
	s.mu.Unlock()
	s.log.WithField("session_id", id).Debug("session created")
	return id, ctrl
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle longer than the TTL. Sessions with a call in
// flight are kept until it resolves.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, e := range s.sessions {
		if e.lastSeen.After(cutoff) || e.ctrl.Snapshot().Processing {
			continue
		}
		delete(s.sessions, id)
		removed++
	}
	if removed > 0 {
		s.log.WithField("removed", removed).Info("expired sessions swept")
	}
	return removed
}

// Run sweeps on every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep()
		}
	}
}

// Wait blocks until every in-flight analysis has resolved.
func (s *Store) Wait() {
	s.mu.Lock()
	ctrls := make([]*Controller, 0, len(s.sessions))
	for _, e := range s.sessions {
		ctrls = append(ctrls, e.ctrl)
	}
	s.mu.Unlock()
	for _, c := range ctrls {
		c.Wait()
	}
}
