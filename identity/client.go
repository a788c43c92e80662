package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/esiddiqui/agriwell/config"
	"github.com/esiddiqui/agriwell/types"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	endpointSignUp                = "accounts:signUp"
	endpointSignInWithCustomToken = "accounts:signInWithCustomToken"
)

type OptsFunc func(*Client)

// Client is a Provider speaking the identity toolkit rest api. It keeps the
// signed-in session of a single page instance & broadcasts every change of it.
//
// State change callbacks are delivered one at a time & must not call back
// into the Client.
type Client struct {
	cfg        config.ProviderConfig
	httpClient *http.Client
	verifier   *Verifier
	publisher  *Publisher[*Session]

	mutex      sync.Mutex
	current    *Session
	generation uint64
	expiry     *time.Timer
	closed     bool
}

// WithHttpClient sets the http client used for the rest calls
func WithHttpClient(httpClient *http.Client) OptsFunc {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithVerifier shares an id token verifier, & with it the cached key set,
// between clients
func WithVerifier(verifier *Verifier) OptsFunc {
	return func(c *Client) {
		c.verifier = verifier
	}
}

// NewClient creates & returns a Client with the supplied options
func NewClient(cfg config.ProviderConfig, opts ...OptsFunc) (*Client, error) {

	if cfg.BaseUrl == "" {
		return nil, errors.Errorf("invalid provider config: no baseUrl")
	}

	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout()},
		publisher:  NewPublisher[*Session](),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.verifier == nil {
		client.verifier = NewVerifier(cfg.JwksUrl, cfg.ProjectId)
	}
	return client, nil
}

// NewFactory returns a Factory building clients that share one verifier
func NewFactory(cfg config.ProviderConfig, opts ...OptsFunc) Factory {
	verifier := NewVerifier(cfg.JwksUrl, cfg.ProjectId)
	opts = append([]OptsFunc{WithVerifier(verifier)}, opts...)
	return func() (Provider, error) {
		return NewClient(cfg, opts...)
	}
}

// SignInAnonymously signs up a new anonymous principal
func (c *Client) SignInAnonymously(ctx context.Context) error {
	return c.signIn(ctx, endpointSignUp, types.SignInRequest{ReturnSecureToken: true}, true)
}

// SignInWithToken exchanges a custom token for a session
func (c *Client) SignInWithToken(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("empty custom token")
	}
	req := types.SignInRequest{Token: token, ReturnSecureToken: true}
	return c.signIn(ctx, endpointSignInWithCustomToken, req, false)
}

// SignOut drops the current session. Sign-out is local to the client, the
// only way for it to fail is a done context or a closed client.
func (c *Client) SignOut(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	c.setSessionLocked(nil, 0)
	return nil
}

// OnStateChange registers fn & calls it right away with the current session,
// mirroring the provider semantics of reporting the initial state.
func (c *Client) OnStateChange(fn func(*Session)) (unsubscribe func()) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	unsubscribe = c.publisher.Subscribe(fn)
	if !c.closed {
		fn(c.current)
	}
	return unsubscribe
}

// Current returns the signed-in session, nil if there is none
func (c *Client) Current() *Session {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.current
}

// Close stops the expiry timer & drops all subscribers
func (c *Client) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.stopExpiryLocked()
	c.publisher.Close()
	return nil
}

func (c *Client) signIn(ctx context.Context, endpoint string, body types.SignInRequest, anonymous bool) error {

	c.mutex.Lock()
	closed := c.closed
	c.mutex.Unlock()
	if closed {
		return ErrClientClosed
	}

	resp, err := c.post(ctx, endpoint, body)
	if err != nil {
		return err
	}

	sess, err := c.verifier.ParseSession(ctx, resp.IdToken)
	if err != nil {
		return err
	}
	if sess.IdentityID == "" {
		sess.IdentityID = resp.LocalId
	}
	if sess.IdentityID == "" {
		return ErrNoIdentity
	}
	if anonymous {
		sess.IsAnonymous = true
	}

	var ttl time.Duration
	if secs, err := strconv.Atoi(resp.ExpiresIn); err == nil && secs > 0 {
		ttl = time.Duration(secs) * time.Second
	}

	log.WithFields(log.Fields{
		"identity":  sess.IdentityID,
		"anonymous": sess.IsAnonymous,
		"newUser":   resp.IsNewUser,
		"expiresIn": ttl,
	}).Debug("signed in")

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	c.setSessionLocked(sess, ttl)
	return nil
}

// post sends body to the toolkit endpoint & decodes the reply
func (c *Client) post(ctx context.Context, endpoint string, body types.SignInRequest) (*types.SignInResponse, error) {

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%v/%v?key=%v", strings.TrimSuffix(c.cfg.BaseUrl, "/"), endpoint, url.QueryEscape(c.cfg.ApiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "calling %v", endpoint)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %v response", endpoint)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		envelope := types.ErrorResponse{}
		if json.Unmarshal(raw, &envelope) == nil && envelope.Error.Message != "" {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
			if len(envelope.Error.Errors) > 0 {
				apiErr.Reason = envelope.Error.Errors[0].Reason
			}
		}
		log.WithFields(log.Fields{
			"endpoint": endpoint,
			"status":   apiErr.Status,
			"reason":   apiErr.Reason,
		}).Debug("identity provider refused the call")
		return nil, apiErr
	}

	out := &types.SignInResponse{}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, errors.Wrapf(err, "decoding %v response", endpoint)
	}
	if out.IdToken == "" {
		return nil, errors.Errorf("%v response carries no idToken", endpoint)
	}
	return out, nil
}

// setSessionLocked swaps the current session, re-arms the expiry timer &
// broadcasts the new value. c.mutex must be held.
func (c *Client) setSessionLocked(sess *Session, ttl time.Duration) {
	c.stopExpiryLocked()
	c.generation++
	c.current = sess

	if sess != nil && ttl > 0 {
		generation := c.generation
		c.expiry = time.AfterFunc(ttl, func() { c.expire(generation) })
	}
	c.publisher.Publish(sess)
}

func (c *Client) stopExpiryLocked() {
	if c.expiry != nil {
		c.expiry.Stop()
		c.expiry = nil
	}
}

// expire drops the session once its id token runs out, unless it was
// replaced in the meantime
func (c *Client) expire(generation uint64) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed || generation != c.generation {
		return
	}
	log.WithField("identity", c.current.IdentityID).Debug("session expired")
	c.expiry = nil
	c.generation++
	c.current = nil
	c.publisher.Publish(nil)
}
