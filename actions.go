package main

import (
	"errors"
	"net/http"
	"strconv"

	"waves-server/internal/config"
	"waves-server/internal/lens"
	"waves-server/internal/reaction"
	"waves-server/internal/render"
)

func invalidFormToast() Toast {
	return Toast{Kind: ToastError, Title: config.I18n("toast.error"), Message: config.I18n("toast.invalid_form")}
}

func errorToast(err error) Toast {
	return Toast{
		Kind:    ToastError,
		Title:   config.I18n("toast.error"),
		Message: config.I18nf("toast.something_happened", sanitizeErrorForUser(err)),
	}
}

// actionCard rebuilds the state of a post's action controls from the
// submitted form, so a HelmJS response can swap the control in place.
func (a *App) actionCard(r *http.Request) *cardData {
	upvotes, _ := strconv.Atoi(r.FormValue("upvotes"))
	mirrors, _ := strconv.Atoi(r.FormValue("mirrors"))
	sess := sessionFrom(r.Context())
	v := render.PostView{
		ID:            r.FormValue("id"),
		Reacted:       r.FormValue("reacted") == "true",
		MirrorEnabled: a.cfg.MirrorEnabled,
	}
	v.Author.Handle = r.FormValue("author")
	v.Stats.Upvotes = upvotes
	v.Stats.Mirrors = mirrors
	return &cardData{
		Post:      v,
		CSRFToken: a.csrf.Token(sess.ID),
		ReturnURL: sanitizeReturnURL(r.FormValue("return_url"), "/"),
	}
}

func authorOrAnon(handle string) string {
	if handle == "" {
		return config.I18n("toast.anon")
	}
	return handle
}

// reactHandler toggles the viewer's like on a publication.
// Unauthenticated viewers get an error toast and nothing is sent. Otherwise
// the like flips optimistically (Pending), the API is told, and the state
// settles as Confirmed or rolls back as Rejected.
func (a *App) reactHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFrom(ctx)
	card := a.actionCard(r)
	returnURL := card.ReturnURL

	if !sess.Authenticated {
		reactionsUnauthenticated.Add(1)
		a.respondWithToast(w, r, returnURL, Toast{
			Kind:    ToastError,
			Title:   config.I18n("toast.error"),
			Message: config.I18n("toast.login_to_like"),
		}, "like-response", card)
		return
	}
	if !a.checkCSRF(r) || card.Post.ID == "" {
		a.respondWithToast(w, r, returnURL, invalidFormToast(), "like-response", card)
		return
	}

	id := card.Post.ID
	author := authorOrAnon(card.Post.Author.Handle)
	wasReacted := card.Post.Reacted

	kind := sess.Reactions.Begin(id, wasReacted, a.now())
	a.saveSession(ctx, sess)

	if err := a.reactor.React(ctx, sess.AccessToken, id, kind); err != nil {
		reactionsRejected.Add(1)
		sess.Reactions.Reject(id, a.now())
		if errors.Is(err, lens.ErrUnauthenticated) {
			sess.ClearAuth()
		}
		a.saveSession(ctx, sess)
		LoggerFromContext(ctx).Warn("reaction failed", "publication", id, "reaction", kind, "error", err)
		a.respondWithToast(w, r, returnURL, errorToast(err), "like-response", card)
		return
	}

	reactionsConfirmed.Add(1)
	sess.Reactions.Confirm(id, a.now())
	a.saveSession(ctx, sess)
	LoggerFromContext(ctx).Info("reaction sent", "publication", id, "reaction", kind)

	card.Post.Reacted = kind == reaction.Upvote
	toast := Toast{Kind: ToastInfo, Title: config.I18n("toast.liked"), Message: config.I18nf("toast.liked_body", author)}
	if kind == reaction.Upvote {
		card.Post.Stats.Upvotes++
	} else {
		if card.Post.Stats.Upvotes > 0 {
			card.Post.Stats.Upvotes--
		}
		toast = Toast{Kind: ToastInfo, Title: config.I18n("toast.unliked"), Message: config.I18nf("toast.unliked_body", author)}
	}
	a.respondWithToast(w, r, returnURL, toast, "like-response", card)
}

// mirrorHandler re-shares a publication when mirroring is enabled, and shows
// the Lens v2 upgrade notice otherwise.
func (a *App) mirrorHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFrom(ctx)
	card := a.actionCard(r)
	returnURL := card.ReturnURL

	if !sess.Authenticated {
		a.respondWithToast(w, r, returnURL, Toast{
			Kind:    ToastError,
			Title:   config.I18n("toast.error"),
			Message: config.I18n("toast.login_to_mirror"),
		}, "mirror-response", card)
		return
	}
	if !a.checkCSRF(r) || card.Post.ID == "" {
		a.respondWithToast(w, r, returnURL, invalidFormToast(), "mirror-response", card)
		return
	}
	if !a.cfg.MirrorEnabled {
		mirrorsDisabled.Add(1)
		a.respondWithToast(w, r, returnURL, Toast{
			Kind:    ToastInfo,
			Title:   config.I18n("toast.lens_upgrade"),
			Message: config.I18n("toast.lens_upgrade_body"),
		}, "mirror-response", card)
		return
	}

	id := card.Post.ID
	res, err := a.mirrorer.Mirror(ctx, sess.AccessToken, id)
	if err != nil {
		mirrorsFailed.Add(1)
		if errors.Is(err, lens.ErrUnauthenticated) {
			sess.ClearAuth()
			a.saveSession(ctx, sess)
		}
		LoggerFromContext(ctx).Warn("mirror failed", "publication", id, "error", err)
		a.respondWithToast(w, r, returnURL, errorToast(err), "mirror-response", card)
		return
	}

	mirrorsTotal.Add(1)
	LoggerFromContext(ctx).Info("mirror relayed", "publication", id, "tx_hash", res.TxHash, "tx_id", res.TxID)
	card.Post.Stats.Mirrors++
	a.respondWithToast(w, r, returnURL, Toast{
		Kind:    ToastInfo,
		Title:   config.I18n("toast.mirrored"),
		Message: config.I18nf("toast.mirrored_body", authorOrAnon(card.Post.Author.Handle)),
	}, "mirror-response", card)
}
