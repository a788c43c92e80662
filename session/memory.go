package session

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

var ErrSessionNotFound = errors.New("session not found")

type InMemorySessionStore struct {
	mutex    sync.Mutex
	sessions map[string]Object
}

func NewInMemorySessionStore() Store {
	return &InMemorySessionStore{
		sessions: make(map[string]Object),
	}
}

// All returns a copy of the store as a key/value map
func (m *InMemorySessionStore) All() map[string]Object {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	all := make(map[string]Object, len(m.sessions))
	for k, v := range m.sessions {
		all[k] = v
	}
	return all
}

// SetSession creates or replaces the session for the supplied key
func (m *InMemorySessionStore) SetSession(key string, value Object) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[key] = value
	return nil
}

// GetSession returns the session object for the supplied key, or error if it doesn't exist
func (m *InMemorySessionStore) GetSession(key string) (Object, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if v, ok := m.sessions[key]; !ok {
		return Object{}, errors.Wrapf(ErrSessionNotFound, "session %v", key)
	} else {
		return v, nil
	}
}

// InvalidateSession deletes an existing session & hands back what was stored
func (m *InMemorySessionStore) InvalidateSession(key string) (Object, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	v, ok := m.sessions[key]
	delete(m.sessions, key)
	return v, ok
}

func (m *InMemorySessionStore) Len() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.sessions)
}

// ExtendSession moves the expiry of an existing session, false if there is none
func (m *InMemorySessionStore) ExtendSession(key string, expiresAt time.Time) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	v, ok := m.sessions[key]
	if !ok {
		return false
	}
	v.ExpiresAt = expiresAt
	m.sessions[key] = v
	return true
}
