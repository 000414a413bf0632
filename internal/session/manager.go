package session

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Antoink/SDRV3/internal/dataset"
	"github.com/Antoink/SDRV3/internal/logging"
)

// LoadFunc produces a fresh dataset snapshot for a new session.
type LoadFunc func() (*dataset.Dataset, error)

// Manager keeps one independent Session per client. Idle sessions expire after ttl.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	load     LoadFunc
	ttl      time.Duration
	now      func() time.Time
	log      *logrus.Entry
}

type entry struct {
	s        *Session
	lastSeen time.Time
}

// NewManager returns a manager. load may be nil, in which case sessions start empty.
func NewManager(load LoadFunc, ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*entry),
		load:     load,
		ttl:      ttl,
		now:      time.Now,
		log:      logging.For("sessions"),
	}
}

// Get returns the live session id and refreshes its idle timer.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictLocked()
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = m.now()
	return e.s, true
}

// Create starts a session with its own dataset snapshot. A failing loader yields an empty
// session rather than an error so that a later upload can still succeed.
func (m *Manager) Create() *Session {
	s := New("")
	if m.load != nil {
		ds, err := m.load()
		if err != nil {
			m.log.WithError(err).Warn("initial dataset unavailable")
		} else {
			s.Reload(ds)
		}
	}
	m.mu.Lock()
	m.sessions[s.ID] = &entry{s: s, lastSeen: m.now()}
	m.mu.Unlock()
	m.log.WithField("session", s.ID).Debug("session created")
	return s
}

// GetOrCreate returns the session id, or a new one when it is unknown or expired.
func (m *Manager) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s, false
		}
	}
	return m.Create(), true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictLocked()
	return len(m.sessions)
}

func (m *Manager) evictLocked() {
	if m.ttl <= 0 {
		return
	}
	cutoff := m.now().Add(-m.ttl)
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			m.log.WithField("session", id).Debug("session expired")
		}
	}
}
