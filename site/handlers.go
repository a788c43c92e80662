package site

import (
	"net/http"

	"github.com/esiddiqui/agriwell/bootstrap"
	"github.com/esiddiqui/agriwell/session"
	"github.com/gorilla/csrf"
	log "github.com/sirupsen/logrus"
)

// http handlers

// landingPageHandler renders the landing page for the visitor's page instance,
// starting one if the visitor has none yet. A freshly started instance gets
// readyWait to settle; until it does the loading view is served, which
// reloads itself.
func (p *HttpServer) landingPageHandler(w http.ResponseWriter, r *http.Request) {

	b, err := p.pageInstance(w, r)
	if err != nil {
		log.WithError(err).Error("error starting page instance")
		http.Error(w, "error starting page instance", http.StatusInternalServerError)
		return
	}

	p.waitReady(r, b)

	state := b.State()
	name := templatePage
	if state.Loading {
		name = templateLoading
	}

	page, err := render(p.pages, name, pageView{
		Content:   p.content,
		State:     state,
		CsrfField: csrf.TemplateField(r),
	})
	if err != nil {
		log.WithError(err).WithField("template", name).Error("error rendering page")
		http.Error(w, "error rendering page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(page)
}

// loginHandler is the POST /auth/login handler for a visitor with a page instance
func (p *HttpServer) loginHandler(w http.ResponseWriter, r *http.Request) {
	if b, ok := bootstrapperFrom(w); ok {
		// failures are logged by the bootstrapper, the page shows signed out
		_ = b.Login(r.Context())
	}
	p.redirectHome(w, r)
}

// logoutHandler is the POST /auth/logout handler for a visitor with a page instance
func (p *HttpServer) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if b, ok := bootstrapperFrom(w); ok {
		_ = b.Logout(r.Context())
	}
	p.redirectHome(w, r)
}

// landOnNewPageInstance starts a page instance, which signs in on its own, &
// sends the visitor to the landing page
func (p *HttpServer) landOnNewPageInstance(w http.ResponseWriter, r *http.Request) {
	if _, err := p.newPageInstance(w); err != nil {
		log.WithError(err).Error("error starting page instance")
		http.Error(w, "error starting page instance", http.StatusInternalServerError)
		return
	}
	p.redirectHome(w, r)
}

func (p *HttpServer) redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// stateHandler is the GET /auth/state handler, it reports the local state of
// the visitor's page instance
func (p *HttpServer) stateHandler(w http.ResponseWriter, r *http.Request) {
	b, ok := bootstrapperFrom(w)
	if !ok {
		p.noStateHandler(w, r)
		return
	}
	writeJson(w, http.StatusOK, newStateResponse(b.State()))
}

// noStateHandler reports a visitor without a page instance as signed out
func (p *HttpServer) noStateHandler(w http.ResponseWriter, r *http.Request) {
	writeJson(w, http.StatusOK, stateResponse{})
}

func (p *HttpServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJson(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": p.sessionMgr.Len(),
	})
}

func (p *HttpServer) csrfFailureHandler(w http.ResponseWriter, r *http.Request) {
	log.WithFields(log.Fields{
		"path":   r.URL.Path,
		"reason": csrf.FailureReason(r),
	}).Warn("csrf check failed")
	http.Error(w, "forbidden", http.StatusForbidden)
}

// bootstrapperFrom pulls the page instance out of a session wrapped writer
func bootstrapperFrom(w http.ResponseWriter) (*bootstrap.Bootstrapper, bool) {
	sw, ok := w.(session.ResponseWriterWithSessionInfo)
	if !ok || sw.SessionObject == nil {
		return nil, false
	}
	b, ok := sw.SessionObject.Value.(*bootstrap.Bootstrapper)
	return b, ok
}
