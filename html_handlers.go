package main

import (
	"context"
	"encoding/base64"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"waves-server/internal/config"
	"waves-server/internal/feed"
	"waves-server/internal/lens"
	"waves-server/internal/render"
	"waves-server/internal/session"
)

func (a *App) viewer(sess *session.Session) render.Viewer {
	return render.Viewer{
		Authenticated: sess.Authenticated,
		Reactions:     sess.Reactions,
		MirrorEnabled: a.cfg.MirrorEnabled,
	}
}

// reconcileReactions folds fresh API data into the session's reaction ledger
// and saves the session when anything changed.
func (a *App) reconcileReactions(ctx context.Context, sess *session.Session, pubs ...feed.Publication) {
	if !sess.Authenticated {
		return
	}
	before := len(sess.Reactions)
	now, pendingTTL := a.now(), a.pendingReactionTTL()
	for _, p := range pubs {
		if p == nil {
			continue
		}
		content := feed.Unwrap(p)
		base := feed.BaseOf(content)
		sess.Reactions.Reconcile(base.ID, base.HasUpvoted, now, pendingTTL)
		if q, ok := content.(*feed.Quote); ok && q.QuoteOn != nil {
			qb := feed.BaseOf(q.QuoteOn)
			sess.Reactions.Reconcile(qb.ID, qb.HasUpvoted, now, pendingTTL)
		}
	}
	sess.Reactions.Prune(now, reactionMaxAge)
	if len(sess.Reactions) != before {
		a.saveSession(ctx, sess)
	}
}

// nextPageURL returns path with the cursor set, or "" when there is no next page.
func nextPageURL(path, cursor string) string {
	if cursor == "" {
		return ""
	}
	return path + "?cursor=" + url.QueryEscape(cursor)
}

// renderFeedPage renders a page of publications, or the error in its place.
func (a *App) renderFeedPage(w http.ResponseWriter, r *http.Request, data *PageData, page string, p *lens.Page, err error) {
	ctx := r.Context()
	sess := sessionFrom(ctx)
	if err != nil {
		LoggerFromContext(ctx).Warn("feed fetch failed", "page", page, "error", err)
		data.Error = config.I18n("feed.error") + " " + sanitizeErrorForUser(err)
		a.pages.renderPage(w, r, page, http.StatusOK, data)
		return
	}
	a.reconcileReactions(ctx, sess, p.Items...)
	data.Posts = a.renderer.RenderAll(ctx, p.Items, a.viewer(sess))
	data.NextURL = nextPageURL(r.URL.Path, p.Next)
	a.pages.renderPage(w, r, page, http.StatusOK, data)
}

// homeHandler renders the explore feed.
func (a *App) homeHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	data := a.newPage(w, r, config.I18n("feed.explore"))
	p, err := a.feeds.Explore(r.Context(), sess.AccessToken, r.URL.Query().Get("cursor"))
	a.renderFeedPage(w, r, data, "timeline", p, err)
}

// dashboardHandler renders the signed-in profile's following feed.
func (a *App) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if !sess.Authenticated {
		redirectWithToast(w, r, "/login", Toast{Kind: ToastError, Title: config.I18n("toast.error"), Message: config.I18n("toast.login_required")})
		return
	}
	data := a.newPage(w, r, config.I18n("feed.dashboard"))
	p, err := a.feeds.Feed(r.Context(), sess.AccessToken, sess.ProfileID, r.URL.Query().Get("cursor"))
	if errors.Is(err, lens.ErrUnauthenticated) {
		sess.ClearAuth()
		a.saveSession(r.Context(), sess)
		redirectWithToast(w, r, "/login", Toast{Kind: ToastError, Title: config.I18n("toast.error"), Message: config.I18n("toast.login_required")})
		return
	}
	a.renderFeedPage(w, r, data, "timeline", p, err)
}

// waveHandler renders a profile and its publications.
func (a *App) waveHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFrom(ctx)
	handle := chi.URLParam(r, "handle")

	profile, err := a.feeds.Profile(ctx, handle)
	if err != nil {
		data := a.newPage(w, r, config.I18n("profile.not_found"))
		status := http.StatusOK
		if errors.Is(err, lens.ErrNotFound) {
			status = http.StatusNotFound
			data.Error = config.I18n("profile.not_found")
		} else {
			LoggerFromContext(ctx).Warn("profile fetch failed", "handle", handle, "error", err)
			data.Error = config.I18n("feed.error") + " " + sanitizeErrorForUser(err)
		}
		a.pages.renderPage(w, r, "profile", status, data)
		return
	}

	card := render.AuthorCardOf(profile)
	data := a.newPage(w, r, card.Name)
	data.Profile = &card
	data.PageDescription = profile.Bio
	data.PageImage = string(card.Avatar)

	p, err := a.feeds.ProfilePublications(ctx, sess.AccessToken, profile.ID, r.URL.Query().Get("cursor"))
	a.renderFeedPage(w, r, data, "profile", p, err)
}

// postHandler renders one publication and its comments.
func (a *App) postHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFrom(ctx)
	id := chi.URLParam(r, "id")

	pub, err := a.feeds.Publication(ctx, sess.AccessToken, id)
	if err != nil {
		data := a.newPage(w, r, config.I18n("post.not_found"))
		status := http.StatusOK
		if errors.Is(err, lens.ErrNotFound) {
			status = http.StatusNotFound
			data.Error = config.I18n("post.not_found")
		} else {
			LoggerFromContext(ctx).Warn("publication fetch failed", "id", id, "error", err)
			data.Error = config.I18n("feed.error") + " " + sanitizeErrorForUser(err)
		}
		a.pages.renderPage(w, r, "thread", status, data)
		return
	}

	content := feed.Unwrap(pub)
	data := a.newPage(w, r, render.HandleOf(pub))
	data.PageDescription = truncate(feed.BodyOf(content), 160)

	comments, err := a.feeds.Comments(ctx, sess.AccessToken, content.PublicationID(), r.URL.Query().Get("cursor"))
	if err != nil {
		LoggerFromContext(ctx).Warn("comments fetch failed", "id", id, "error", err)
		data.Error = config.I18n("feed.error") + " " + sanitizeErrorForUser(err)
		comments = &lens.Page{}
	}

	a.reconcileReactions(ctx, sess, append([]feed.Publication{pub}, comments.Items...)...)
	v := a.viewer(sess)
	data.Post = a.renderer.Render(ctx, pub, v)
	data.Comments = a.renderer.RenderAll(ctx, comments.Items, v)
	data.NextURL = nextPageURL(r.URL.Path, comments.Next)
	a.pages.renderPage(w, r, "thread", http.StatusOK, data)
}

// notificationsHandler fetches one page of notifications for the signed-in
// profile and always renders the placeholder.
func (a *App) notificationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFrom(ctx)
	if sess.Authenticated {
		page, err := a.notifications.Notifications(ctx, sess.AccessToken, sess.ProfileID, notificationsPageSize, "")
		if err != nil {
			LoggerFromContext(ctx).Warn("notifications fetch failed", "profile", sess.ProfileID, "error", err)
		} else {
			LoggerFromContext(ctx).Info("notifications fetched",
				"profile", sess.ProfileID,
				"count", len(page.Items),
				"has_more", page.HasMore)
		}
	}
	data := a.newPage(w, r, config.I18n("notifications.title"))
	a.pages.renderPage(w, r, "notifications", http.StatusOK, data)
}

// walletHandler shows the bound wallet with a QR code of its address.
func (a *App) walletHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	data := a.newPage(w, r, config.I18n("wallet.title"))
	data.Wallet = &WalletView{}
	if sess.WalletAddress != "" {
		data.Wallet = &WalletView{
			Address:   sess.WalletAddress,
			ChainID:   sess.ChainID,
			ChainName: a.cfg.ChainName(),
			QRCode:    generateQRCodeDataURL(sess.WalletAddress),
		}
	}
	a.pages.renderPage(w, r, "wallet", http.StatusOK, data)
}

func generateQRCodeDataURL(content string) template.URL {
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		slog.Error("failed to generate QR code", "error", err)
		return ""
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}

// whyHandler renders the "Why Waves" page.
func (a *App) whyHandler(w http.ResponseWriter, r *http.Request) {
	data := a.newPage(w, r, config.I18n("why.title"))
	data.WhyHTML = a.whyHTML
	a.pages.renderPage(w, r, "why", http.StatusOK, data)
}

// themeHandler cycles the color scheme cookie.
func (a *App) themeHandler(w http.ResponseWriter, r *http.Request) {
	returnURL := sanitizeReturnURL(r.FormValue("return_url"), "/")
	if !a.checkCSRF(r) {
		redirectWithToast(w, r, returnURL, invalidFormToast())
		return
	}
	SetLaxCookie(w, r, themeCookie, nextTheme(themeFromRequest(r)), themeMaxAge)
	http.Redirect(w, r, returnURL, http.StatusSeeOther)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
