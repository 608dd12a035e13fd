package main

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"waves-server/internal/auth"
	"waves-server/internal/config"
	"waves-server/internal/feed"
	"waves-server/internal/render"
	"waves-server/internal/session"
)

// revokeTimeout bounds the best-effort token revocation on sign out.
const revokeTimeout = 5 * time.Second

// loginHandler shows the sign-in flow for the bound wallet: pick a managed
// profile, then sign the challenge.
func (a *App) loginHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFrom(ctx)
	if sess.Authenticated {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := a.newPage(w, r, config.I18n("login.title"))
	data.Login = &LoginView{ChallengeText: sess.ChallengeText}
	if sess.ChallengeID == "" {
		profiles, err := a.auth.ProfilesManaged(ctx, sess.WalletAddress)
		if err != nil {
			LoggerFromContext(ctx).Warn("profiles managed fetch failed", "address", sess.WalletAddress, "error", err)
			data.Error = config.I18nf("toast.something_happened", sanitizeErrorForUser(err))
		}
		for _, p := range profiles {
			data.Login.Profiles = append(data.Login.Profiles, render.AuthorCardOf(p))
		}
	}
	a.pages.renderPage(w, r, "login", http.StatusOK, data)
}

// loginSubmitHandler advances the sign-in flow. action is one of
// "challenge", "authenticate" or "cancel".
func (a *App) loginSubmitHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFrom(ctx)
	if !a.checkCSRF(r) {
		redirectWithToast(w, r, "/login", invalidFormToast())
		return
	}

	switch r.FormValue("action") {
	case "challenge":
		profileID := strings.TrimSpace(r.FormValue("profile_id"))
		if profileID == "" {
			redirectWithToast(w, r, "/login", invalidFormToast())
			return
		}
		ch, err := a.auth.Challenge(ctx, sess.WalletAddress, profileID)
		if err != nil {
			loginFailures.Add(1)
			LoggerFromContext(ctx).Warn("challenge failed", "address", sess.WalletAddress, "profile", profileID, "error", err)
			redirectWithToast(w, r, "/login", errorToast(err))
			return
		}
		sess.ChallengeID = ch.ID
		sess.ChallengeText = ch.Text
		sess.ChallengeProfileID = profileID
		a.saveSession(ctx, sess)
		http.Redirect(w, r, "/login", http.StatusSeeOther)

	case "authenticate":
		a.authenticate(w, r, sess, strings.TrimSpace(r.FormValue("signature")))

	case "cancel":
		sess.ChallengeID, sess.ChallengeText, sess.ChallengeProfileID = "", "", ""
		a.saveSession(ctx, sess)
		http.Redirect(w, r, "/login", http.StatusSeeOther)

	default:
		redirectWithToast(w, r, "/login", invalidFormToast())
	}
}

// authenticate checks that the bound wallet signed the challenge, then
// exchanges the signature for Lens tokens.
func (a *App) authenticate(w http.ResponseWriter, r *http.Request, sess *session.Session, signature string) {
	ctx := r.Context()
	if sess.ChallengeID == "" || signature == "" {
		redirectWithToast(w, r, "/login", invalidFormToast())
		return
	}
	if err := auth.VerifySigner(sess.WalletAddress, sess.ChallengeText, signature); err != nil {
		loginFailures.Add(1)
		LoggerFromContext(ctx).Warn("challenge signature rejected", "address", sess.WalletAddress, "error", err)
		redirectWithToast(w, r, "/login", errorToast(err))
		return
	}
	tokens, err := a.auth.Authenticate(ctx, sess.ChallengeID, signature)
	if err != nil {
		loginFailures.Add(1)
		LoggerFromContext(ctx).Warn("authenticate failed", "address", sess.WalletAddress, "error", err)
		redirectWithToast(w, r, "/login", errorToast(err))
		return
	}

	profileID := sess.ChallengeProfileID
	sess.ClearAuth()
	sess.Authenticated = true
	sess.ProfileID = profileID
	sess.AccessToken = tokens.AccessToken
	sess.RefreshToken = tokens.RefreshToken
	a.fillIdentity(ctx, sess)
	a.saveSession(ctx, sess)

	loginsTotal.Add(1)
	LoggerFromContext(ctx).Info("signed in", "profile", sess.ProfileID, "address", sess.WalletAddress)
	redirectWithToast(w, r, "/dashboard", Toast{
		Kind:    ToastSuccess,
		Title:   config.I18n("toast.signed_in"),
		Message: config.I18nf("toast.signed_in_body", sess.Label()),
	})
}

// fillIdentity copies the signed-in profile's handle, name and avatar into
// the session. A failed lookup leaves the profile ID as the label.
func (a *App) fillIdentity(ctx context.Context, sess *session.Session) {
	profiles, err := a.auth.ProfilesManaged(ctx, sess.WalletAddress)
	if err != nil {
		LoggerFromContext(ctx).Warn("profile lookup after sign in failed", "profile", sess.ProfileID, "error", err)
		return
	}
	for _, p := range profiles {
		if p.ID == sess.ProfileID {
			setIdentity(sess, p)
			return
		}
	}
}

func setIdentity(sess *session.Session, p feed.Profile) {
	sess.Handle = p.LocalName
	sess.FullHandle = p.FullHandle
	sess.DisplayName = p.DisplayName
	sess.AvatarURI = p.PictureURI
}

// logoutHandler revokes the Lens session (best effort) and signs out. The
// pending flag is saved first so a concurrent render shows the control disabled.
func (a *App) logoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFrom(ctx)
	if !a.checkCSRF(r) {
		redirectWithToast(w, r, "/", invalidFormToast())
		return
	}
	if !sess.Authenticated {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if sess.LogoutPending {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	sess.LogoutPending = true
	a.saveSession(ctx, sess)

	revokeCtx, cancel := context.WithTimeout(ctx, revokeTimeout)
	defer cancel()
	if err := a.auth.Revoke(revokeCtx, sess.AccessToken); err != nil {
		LoggerFromContext(ctx).Warn("token revoke failed", "profile", sess.ProfileID, "error", err)
	}

	sess.ClearAuth()
	a.saveSession(ctx, sess)
	redirectWithToast(w, r, "/", Toast{Kind: ToastInfo, Title: config.I18n("toast.signed_out")})
}

// walletConnectHandler binds a wallet address and chain to the session.
func (a *App) walletConnectHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFrom(ctx)
	returnURL := sanitizeReturnURL(r.FormValue("return_url"), "/wallet")
	if !a.checkCSRF(r) {
		redirectWithToast(w, r, returnURL, invalidFormToast())
		return
	}

	address := strings.TrimSpace(r.FormValue("address"))
	if !auth.ValidAddress(address) {
		redirectWithToast(w, r, returnURL, errorToast(auth.ErrBadAddress))
		return
	}
	chainID := a.cfg.ChainID
	if v := strings.TrimSpace(r.FormValue("chain_id")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			redirectWithToast(w, r, returnURL, invalidFormToast())
			return
		}
		chainID = id
	}

	sess.BindWallet(auth.ChecksumAddress(address), chainID)
	a.saveSession(ctx, sess)
	LoggerFromContext(ctx).Info("wallet bound", "address", sess.WalletAddress, "chain", chainID)
	redirectWithToast(w, r, returnURL, Toast{Kind: ToastSuccess, Title: config.I18n("toast.wallet_connected"), Message: sess.ShortAddress()})
}

// walletDisconnectHandler unbinds the wallet and signs out.
func (a *App) walletDisconnectHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFrom(ctx)
	if !a.checkCSRF(r) {
		redirectWithToast(w, r, "/", invalidFormToast())
		return
	}
	sess.UnbindWallet()
	a.saveSession(ctx, sess)
	redirectWithToast(w, r, "/", Toast{Kind: ToastInfo, Title: config.I18n("toast.wallet_disconnected")})
}
