package session

import (
	"io"
	"net/http"
	"time"

	"github.com/esiddiqui/agriwell/config"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type OptsFunc func(*Manager)

type Manager struct {
	store         Store
	cookieManager *CookieManager
	idle          time.Duration
	now           func() time.Time
}

// builder

// WithStore add session store to the sessionManager
func WithStore(store Store) OptsFunc {
	return func(manager *Manager) {
		manager.store = store
	}
}

// WithCookieManager add cookieManager to the sessionManager
func WithCookieManager(cookieManager *CookieManager) OptsFunc {
	return func(manager *Manager) {
		manager.cookieManager = cookieManager
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) OptsFunc {
	return func(manager *Manager) {
		manager.now = now
	}
}

// NewSessionManager create & return a new SessionManager with the supplied options
func NewSessionManager(cfg *config.SessionConfig, opts ...OptsFunc) (*Manager, error) {

	cookieCfg := cfg.Cookie
	cookies := NewCookieManager(cookieCfg.Name)
	cookies.Secure = cookieCfg.Secure

	sess := &Manager{
		cookieManager: &cookies,
		idle:          cfg.IdleTimeout(),
		now:           time.Now,
	}

	if cfg.Type == config.SessionTypeMemory || cfg.Type == "" {
		sess.store = NewInMemorySessionStore()
	} else {
		return nil, errors.Errorf("session store type %v not supported", cfg.Type)
	}

	// apply opts to override any settings
	for _, opt := range opts {
		opt(sess)
	}

	return sess, nil
}

// NewSessionToken returns a fresh random session token
func NewSessionToken() string {
	return uuid.NewString()
}

// methods

// Get returns the token & object stored in the session for this request.
// An expired session is torn down & reported as not found.
func (m *Manager) Get(r *http.Request) (string, Object, error) {
	token, err := m.cookieManager.getCookieValue(r)
	if err != nil {
		return "", Object{}, errors.Wrap(ErrSessionNotFound, err.Error())
	}

	obj, err := m.store.GetSession(token)
	if err != nil {
		return token, Object{}, err
	}

	if obj.Expired(m.now()) {
		log.WithField("session", token).Debug("session expired")
		m.Invalidate(token)
		return token, Object{}, errors.Wrapf(ErrSessionNotFound, "session %v expired", token)
	}
	return token, obj, nil
}

// Set stores value under token, replacing (& closing) anything stored before,
// then adds the Set-Cookie header to the response
func (m *Manager) Set(w http.ResponseWriter, token string, value any) error {

	now := m.now()
	obj := Object{
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(m.idle),
	}

	previous, replaced := m.store.InvalidateSession(token)
	if err := m.store.SetSession(token, obj); err != nil {
		return err
	}
	if replaced && previous.Value != value {
		closeValue(token, previous)
	}

	m.cookieManager.setCookieValue(w, token, m.cookieManager.MaxAge)
	return nil
}

// Touch pushes the expiry of a live session one idle period out
func (m *Manager) Touch(token string) {
	m.store.ExtendSession(token, m.now().Add(m.idle))
}

// Invalidate removes the session for token & closes its value
func (m *Manager) Invalidate(token string) {
	if obj, ok := m.store.InvalidateSession(token); ok {
		closeValue(token, obj)
	}
}

// Sweep invalidates every expired session & returns how many went away
func (m *Manager) Sweep() int {
	now := m.now()
	swept := 0
	for token, obj := range m.store.All() {
		if !obj.Expired(now) {
			continue
		}
		// it may have been touched since the snapshot
		if current, err := m.store.GetSession(token); err != nil || !current.Expired(now) {
			continue
		}
		m.Invalidate(token)
		swept++
	}
	if swept > 0 {
		log.WithFields(log.Fields{
			"swept": swept,
			"live":  m.store.Len(),
		}).Debug("swept expired sessions")
	}
	return swept
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	return m.store.Len()
}

// Close invalidates all sessions
func (m *Manager) Close() {
	for token := range m.store.All() {
		m.Invalidate(token)
	}
}

func closeValue(token string, obj Object) {
	closer, ok := obj.Value.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		log.WithField("session", token).WithError(err).Warn("error closing session value")
	}
}

// http handlers

// GetSessionWrapperHandler returns an http.HandlerFunc, which checks for a live
// session & if it exists, calls the yesHandler with the session attached to
// the response writer, & if not the noHandler.
func (m *Manager) GetSessionWrapperHandler(yesHandler, noHandler http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, sess, err := m.Get(r)
		if err != nil {
			noHandler(w, r)
			return
		}
		m.Touch(token)
		yesHandler(NewResponseWriterWithSessionInfo(w, token, &sess), r)
	})
}
