package bootstrap

import (
	"context"
	"io"
	"sync"

	"github.com/esiddiqui/agriwell/identity"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	ErrTokenSignInFailed     = errors.New("sign-in with bootstrap token failed")
	ErrAnonymousSignInFailed = errors.New("anonymous sign-in failed")
	ErrSignOutFailed         = errors.New("sign-out failed")
)

type Options struct {
	// Token is the bootstrap token handed over by the hosting environment, if any
	Token string
	// Logger defaults to the standard logrus logger
	Logger *log.Entry
}

// State is a snapshot of a page instance's local ui state
type State struct {
	Loading bool              `json:"loading"`
	Session *identity.Session `json:"session,omitempty"`
}

func (s State) SignedIn() bool {
	return s.Session != nil
}

// Bootstrapper resolves the initial session of a page instance & keeps its
// local state in step with whatever the provider broadcasts.
type Bootstrapper struct {
	provider identity.Provider
	token    string
	log      *log.Entry

	mutex       sync.Mutex
	loading     bool
	session     *identity.Session
	closed      bool
	unsubscribe func()
	cancel      context.CancelFunc

	ready     chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
}

// New returns a Bootstrapper for provider; nothing happens until Start
func New(provider identity.Provider, opts Options) *Bootstrapper {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Bootstrapper{
		provider: provider,
		token:    opts.Token,
		log:      logger,
		loading:  true,
		ready:    make(chan struct{}),
	}
}

// Start subscribes to the provider & kicks off the one sign-in attempt in
// the background. Loading stays set until that attempt settles, which is
// signalled by closing Ready(). Only the first call does anything.
func (b *Bootstrapper) Start(ctx context.Context) {
	b.startOnce.Do(func() {
		b.mutex.Lock()
		if b.closed {
			b.mutex.Unlock()
			close(b.ready)
			return
		}
		ctx, b.cancel = context.WithCancel(ctx)
		b.mutex.Unlock()

		// subscribe without holding the lock, providers may call back right away
		unsubscribe := b.provider.OnStateChange(b.onStateChange)

		b.mutex.Lock()
		if b.closed {
			b.mutex.Unlock()
			unsubscribe()
			b.cancel()
			close(b.ready)
			return
		}
		b.unsubscribe = unsubscribe
		b.mutex.Unlock()

		go b.signIn(ctx)
	})
}

// Ready is closed once the initial sign-in attempt has settled
func (b *Bootstrapper) Ready() <-chan struct{} {
	return b.ready
}

// State returns a snapshot of the local state
func (b *Bootstrapper) State() State {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return State{Loading: b.loading, Session: b.session}
}

// Login signs in anonymously on the user's request. Loading is held for the
// duration of the call; while the start attempt is still running it owns the
// flag & Login leaves it alone.
func (b *Bootstrapper) Login(ctx context.Context) error {
	if b.settled() {
		b.setLoading(true)
		defer b.setLoading(false)
	}

	if err := b.provider.SignInAnonymously(ctx); err != nil {
		b.log.WithError(err).Error("error signing in anonymously")
		return errors.Wrap(ErrAnonymousSignInFailed, err.Error())
	}
	return nil
}

// Logout signs out on the user's request. Local state follows the next
// broadcast, on failure that is usually no change at all.
func (b *Bootstrapper) Logout(ctx context.Context) error {
	if err := b.provider.SignOut(ctx); err != nil {
		b.log.WithError(err).Error("error signing out")
		return errors.Wrap(ErrSignOutFailed, err.Error())
	}
	return nil
}

// Close tears the page instance down: the subscription is released, an
// in-flight start attempt is cancelled & later broadcasts are ignored.
func (b *Bootstrapper) Close() error {
	var err error
	b.closeOnce.Do(func() {
		b.mutex.Lock()
		b.closed = true
		unsubscribe, cancel := b.unsubscribe, b.cancel
		b.unsubscribe = nil
		b.mutex.Unlock()

		if unsubscribe != nil {
			unsubscribe()
		}
		if cancel != nil {
			cancel()
		}
		if closer, ok := b.provider.(io.Closer); ok {
			err = closer.Close()
		}
	})
	return err
}

// onStateChange is the one provider listener; it is the only writer of the session
func (b *Bootstrapper) onStateChange(sess *identity.Session) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.closed {
		return
	}
	b.session = sess

	if sess != nil {
		b.log.WithFields(log.Fields{
			"identity":  sess.IdentityID,
			"anonymous": sess.IsAnonymous,
		}).Debug("signed in")
	} else {
		b.log.Debug("signed out")
	}
}

// signIn makes the single start-up attempt: bootstrap token first, anonymous
// when there is no token or the token was refused
func (b *Bootstrapper) signIn(ctx context.Context) {
	defer b.settle()

	if b.token != "" {
		err := b.provider.SignInWithToken(ctx, b.token)
		if err == nil {
			return
		}
		b.log.WithError(errors.Wrap(ErrTokenSignInFailed, err.Error())).Error("error signing in with custom token")
	}

	if err := b.provider.SignInAnonymously(ctx); err != nil {
		b.log.WithError(errors.Wrap(ErrAnonymousSignInFailed, err.Error())).Error("error signing in anonymously")
	}
}

// settle clears loading after the start attempt, exactly once
func (b *Bootstrapper) settle() {
	b.mutex.Lock()
	if !b.closed {
		b.loading = false
	}
	b.mutex.Unlock()
	close(b.ready)
}

func (b *Bootstrapper) settled() bool {
	select {
	case <-b.ready:
		return true
	default:
		return false
	}
}

func (b *Bootstrapper) setLoading(loading bool) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if !b.closed {
		b.loading = loading
	}
}
