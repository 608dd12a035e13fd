package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"waves-server/internal/cache"
	"waves-server/internal/config"
	"waves-server/internal/render"
	"waves-server/internal/session"
)

// Request body size limits
const (
	maxBodySize = 32 * 1024 // 32KB for POST requests
)

const sessionKey contextKey = "session"

// limitBody caps request bodies at maxBytes.
func limitBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// securityHeaders adds security headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Content Security Policy
		// - img-src * data:: avatars and post images come from IPFS gateways and CDNs
		// - media-src * blob:: video and audio from Livepeer and gateways
		// - style-src 'unsafe-inline': collapsed-height styles on post bodies
		csp := "default-src 'self'; " +
			"img-src * data:; " +
			"media-src * blob:; " +
			"style-src 'self' 'unsafe-inline'; " +
			"script-src 'self'; " +
			"frame-ancestors 'self'"
		w.Header().Set("Content-Security-Policy", csp)
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// sessionMiddleware loads the browser's session, creating and persisting a new
// one when the cookie is missing or stale, and puts it in the request context.
func (a *App) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := a.loadSession(w, r)
		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *App) loadSession(w http.ResponseWriter, r *http.Request) *session.Session {
	ctx := r.Context()
	if c, err := r.Cookie(session.CookieName); err == nil && c.Value != "" {
		sess, err := a.sessions.Get(ctx, c.Value)
		if err == nil {
			return sess
		}
		if !errors.Is(err, session.ErrNotFound) {
			LoggerFromContext(ctx).Warn("session load failed", "error", err)
		}
	}

	sess := session.New(a.now())
	a.saveSession(ctx, sess)
	SetSessionCookie(w, r, session.CookieName, sess.ID, int(cache.DefaultConfig().SessionTTL.Seconds()))
	return sess
}

// saveSession persists sess. Failures are logged; the request carries on with
// the in-memory copy.
func (a *App) saveSession(ctx context.Context, sess *session.Session) {
	sess.UpdatedAt = a.now()
	if err := a.sessions.Save(ctx, sess); err != nil {
		LoggerFromContext(ctx).Error("session save failed", "session", sess.ID, "error", err)
	}
}

// sessionFrom returns the request's session. Handlers behind
// sessionMiddleware always have one.
func sessionFrom(ctx context.Context) *session.Session {
	if sess, ok := ctx.Value(sessionKey).(*session.Session); ok {
		return sess
	}
	return session.New(time.Now())
}

// signerGuard shows the switch-network prompt instead of the page when no
// wallet is bound on the configured chain. The landing page stays reachable.
func (a *App) signerGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r.Context())
		if r.URL.Path == "/" || sess.HasSigner(a.cfg.ChainID) {
			next.ServeHTTP(w, r)
			return
		}
		data := a.newPage(w, r, config.I18n("network.title"))
		a.pages.renderPage(w, r, "network", http.StatusOK, data)
	})
}

// checkCSRF validates the form's csrf_token against the session.
func (a *App) checkCSRF(r *http.Request) bool {
	sess := sessionFrom(r.Context())
	return a.csrf.Valid(sess.ID, r.FormValue("csrf_token"))
}

// newPage fills the fields every page needs.
func (a *App) newPage(w http.ResponseWriter, r *http.Request, title string) *PageData {
	sess := sessionFrom(r.Context())
	data := &PageData{
		Title:      title,
		CurrentURL: r.URL.RequestURI(),
		CSRFToken:  a.csrf.Token(sess.ID),
		NavItems:   GetNavItems(NavContext{CurrentPath: r.URL.Path}),
		Toasts:     popToasts(w, r),
		ChainID:    a.cfg.ChainID,
		ChainName:  a.cfg.ChainName(),
	}
	if theme := themeFromRequest(r); theme != "" {
		data.ThemeClass = "theme-" + theme
	}
	if sess.Authenticated {
		data.LoggedIn = true
		data.UserLabel = sess.Label()
		data.UserAvatar = render.SafeURL(sess.AvatarURI)
		if data.UserAvatar == "" {
			data.UserAvatar = render.FallbackAvatar
		}
		data.LogoutPending = sess.LogoutPending
	}
	return data
}
