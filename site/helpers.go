package site

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/esiddiqui/agriwell/bootstrap"
	"github.com/esiddiqui/agriwell/session"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type stateResponse struct {
	Loading     bool   `json:"loading"`
	SignedIn    bool   `json:"signedIn"`
	IdentityId  string `json:"identityId,omitempty"`
	IsAnonymous bool   `json:"isAnonymous"`
}

func newStateResponse(state bootstrap.State) stateResponse {
	resp := stateResponse{Loading: state.Loading, SignedIn: state.SignedIn()}
	if state.Session != nil {
		resp.IdentityId = state.Session.IdentityID
		resp.IsAnonymous = state.Session.IsAnonymous
	}
	return resp
}

// pageInstance returns the visitor's page instance, starting a new one when
// there is none or the stored value is not usable
func (p *HttpServer) pageInstance(w http.ResponseWriter, r *http.Request) (*bootstrap.Bootstrapper, error) {
	token, sess, err := p.sessionMgr.Get(r)
	if err == nil {
		if b, ok := sess.Value.(*bootstrap.Bootstrapper); ok {
			p.sessionMgr.Touch(token)
			return b, nil
		}
	}
	return p.newPageInstance(w)
}

// newPageInstance builds a provider client & bootstrapper for a new visitor,
// starts it & hands the visitor the session cookie
func (p *HttpServer) newPageInstance(w http.ResponseWriter) (*bootstrap.Bootstrapper, error) {

	provider, err := p.providers()
	if err != nil {
		return nil, errors.Wrap(err, "building identity provider client")
	}

	token := session.NewSessionToken()
	b := bootstrap.New(provider, bootstrap.Options{
		Token:  p.cfg.BootstrapToken,
		Logger: log.WithField("session", token),
	})
	b.Start(p.baseCtx)

	if err := p.sessionMgr.Set(w, token, b); err != nil {
		_ = b.Close()
		return nil, err
	}

	log.WithField("session", token).Debug("page instance started")
	return b, nil
}

// waitReady gives a page instance up to readyWait to settle its start-up sign-in
func (p *HttpServer) waitReady(r *http.Request, b *bootstrap.Bootstrapper) {
	if p.readyWait <= 0 {
		return
	}
	timer := time.NewTimer(p.readyWait)
	defer timer.Stop()
	select {
	case <-b.Ready():
	case <-timer.C:
	case <-r.Context().Done():
	}
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Debug("error writing json response")
	}
}

// statusRecorder remembers the status code written through it
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// logRequests logs every request at debug level
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Debug("request served")
	})
}
