package main

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// Toast cookie carries one toast across a redirect.
const toastCookie = "waves_toast"

type ToastKind string

const (
	ToastError   ToastKind = "error" // red
	ToastInfo    ToastKind = "info"  // blue
	ToastSuccess ToastKind = "success"
)

// Toast is a transient notice shown after an action.
type Toast struct {
	Kind    ToastKind `json:"k"`
	Title   string    `json:"t"`
	Message string    `json:"m"`
}

// setToast stores a toast to show on the next page render.
func setToast(w http.ResponseWriter, r *http.Request, t Toast) {
	data, err := json.Marshal(t)
	if err != nil {
		slog.Error("failed to encode toast", "error", err)
		return
	}
	SetLaxCookie(w, r, toastCookie, base64.RawURLEncoding.EncodeToString(data), 60)
}

// popToasts reads and clears the toast cookie.
// Call this once per request, early in the handler
func popToasts(w http.ResponseWriter, r *http.Request) []Toast {
	cookie, err := r.Cookie(toastCookie)
	if err != nil {
		return nil
	}
	DeleteCookie(w, r, toastCookie, "/")

	data, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var t Toast
	if err := json.Unmarshal(data, &t); err != nil || t.Title == "" {
		return nil
	}
	switch t.Kind {
	case ToastError, ToastInfo, ToastSuccess:
	default:
		t.Kind = ToastInfo
	}
	return []Toast{t}
}

// redirectWithToast redirects to a URL and sets a toast for the next page.
func redirectWithToast(w http.ResponseWriter, r *http.Request, url string, t Toast) {
	setToast(w, r, t)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// isHelmRequest reports whether the request came from HelmJS and expects a
// fragment instead of a full page.
func isHelmRequest(r *http.Request) bool {
	return r.Header.Get("H-Request") == "true"
}

// respondWithToast reports the outcome of an action.
// For HelmJS requests: the fragment template (the re-rendered control, or
// just the toast when fragment is empty) with the toast out of band.
// For regular requests: redirect back with the toast cookie.
func (a *App) respondWithToast(w http.ResponseWriter, r *http.Request, returnURL string, t Toast, fragment string, card *cardData) {
	if !isHelmRequest(r) {
		redirectWithToast(w, r, returnURL, t)
		return
	}
	if fragment == "" || card == nil {
		fragment = "toast-response"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(a.pages.renderFragment(fragment, actionResponse{Card: card, Toasts: []Toast{t}})))
}

// sanitizeReturnURL keeps redirects on this site: only absolute paths are
// accepted, anything else falls back to def.
func sanitizeReturnURL(raw, def string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return def
	}
	if strings.ContainsAny(raw, "\r\n") {
		return def
	}
	return raw
}
