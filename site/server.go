package site

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/esiddiqui/agriwell/config"
	"github.com/esiddiqui/agriwell/identity"
	"github.com/esiddiqui/agriwell/session"
	"github.com/gorilla/csrf"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	csrfFieldName   = "csrf_token"
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

type HttpServer struct {
	cfg        *config.AgriwellConfig
	content    Content
	pages      *template.Template
	providers  identity.Factory
	sessionMgr *session.Manager
	csrfKey    []byte
	readyWait  time.Duration

	// baseCtx parents every page instance's start-up sign-in
	baseCtx context.Context
}

// NewHttpServer sets up all required pieces for the landing site, providers
// builds the identity client of each new page instance
func NewHttpServer(cfg *config.AgriwellConfig, providers identity.Factory) (*HttpServer, error) {

	if cfg == nil {
		return nil, errors.Errorf("invalid or nil config supplied to initialize HttpServer")
	}
	if providers == nil {
		return nil, errors.Errorf("no identity provider factory supplied")
	}

	// initialize session manager
	sessionMgr, err := session.NewSessionManager(&cfg.Session)
	if err != nil {
		return nil, err
	}

	pages, err := parseTemplates()
	if err != nil {
		return nil, errors.Wrap(err, "parsing page templates")
	}

	csrfKey, err := parseCsrfKey(cfg.Server.CsrfKey)
	if err != nil {
		return nil, err
	}

	content := DefaultContent()
	content.FormRelayUrl = cfg.Site.FormRelayUrl
	content.MapEmbedUrl = cfg.Site.MapEmbedUrl

	return &HttpServer{
		cfg:        cfg,
		content:    content,
		pages:      pages,
		providers:  providers,
		sessionMgr: sessionMgr,
		csrfKey:    csrfKey,
		readyWait:  cfg.Server.ReadyWaitDuration(),
		baseCtx:    context.Background(),
	}, nil
}

// Handler returns the site's routes wrapped in csrf protection & request logging
func (p *HttpServer) Handler() http.Handler {

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", p.landingPageHandler)

	// auth endpoints, a visitor without a page instance gets a fresh one
	mux.HandleFunc("POST /auth/login", p.sessionMgr.GetSessionWrapperHandler(p.loginHandler, p.landOnNewPageInstance))
	mux.HandleFunc("POST /auth/logout", p.sessionMgr.GetSessionWrapperHandler(p.logoutHandler, p.redirectHome))
	mux.HandleFunc("GET /auth/state", p.sessionMgr.GetSessionWrapperHandler(p.stateHandler, p.noStateHandler))

	mux.HandleFunc("GET /healthz", p.healthHandler)
	mux.Handle("GET /static/", http.FileServerFS(staticFiles()))

	return logRequests(p.csrfProtect(mux))
}

// csrfProtect guards the login & logout forms. Without secure cookies the
// site is assumed to be served over plain http.
func (p *HttpServer) csrfProtect(next http.Handler) http.Handler {
	secure := p.cfg.Session.Cookie.Secure
	protect := csrf.Protect(p.csrfKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.FieldName(csrfFieldName),
		csrf.ErrorHandler(http.HandlerFunc(p.csrfFailureHandler)),
	)(next)

	if secure {
		return protect
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		protect.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

// ListenAndServe serves the site until ctx is done, then shuts down & tears
// every page instance down
func (p *HttpServer) ListenAndServe(ctx context.Context) error {

	p.baseCtx = ctx
	server := &http.Server{
		Addr:              fmt.Sprintf(":%v", p.cfg.Server.Port),
		Handler:           p.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go p.sweep(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", p.cfg.Server.Port).Info("starting agriwell server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		p.sessionMgr.Close()
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down agriwell server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := server.Shutdown(shutdownCtx)
	p.sessionMgr.Close()
	return err
}

// sweep evicts idle page instances until ctx is done
func (p *HttpServer) sweep(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.sessionMgr.Sweep()
		}
	}
}

// parseCsrfKey decodes the configured hex key; without one a random key is
// used, which invalidates open forms on every restart
func parseCsrfKey(hexKey string) ([]byte, error) {
	if hexKey == "" {
		log.Warn("no csrf key configured, generating a random one")
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, errors.Wrap(err, "generating csrf key")
		}
		return key, nil
	}

	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, errors.Wrap(err, "invalid csrf key")
	}
	if len(key) != 32 {
		return nil, errors.Errorf("csrf key must be 32 bytes, got %v", len(key))
	}
	return key, nil
}
