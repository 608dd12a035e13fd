package main

import (
	"net/http"
	"strings"
)

// =============================================================================
// Cookie Helpers
// =============================================================================

const (
	themeCookie = "waves_theme"
	themeMaxAge = 365 * 24 * 60 * 60
)

// SetCookie sets an HTTP cookie with standard security defaults.
// Uses the request to determine if the Secure flag should be set.
func SetCookie(w http.ResponseWriter, r *http.Request, name, value, path string, maxAge int, sameSite http.SameSite) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   shouldSecureCookie(r),
		SameSite: sameSite,
	})
}

// SetSessionCookie sets a session cookie. Lax so that following a link to
// Waves from elsewhere keeps the session.
func SetSessionCookie(w http.ResponseWriter, r *http.Request, name, value string, maxAge int) {
	SetCookie(w, r, name, value, "/", maxAge, http.SameSiteLaxMode)
}

// SetLaxCookie sets a cookie with lax security (allows cross-site top-level navigation).
// Suitable for flash messages and preferences.
func SetLaxCookie(w http.ResponseWriter, r *http.Request, name, value string, maxAge int) {
	SetCookie(w, r, name, value, "/", maxAge, http.SameSiteLaxMode)
}

// DeleteCookie deletes a cookie by setting MaxAge to -1.
func DeleteCookie(w http.ResponseWriter, r *http.Request, name, path string) {
	SetCookie(w, r, name, "", path, -1, http.SameSiteLaxMode)
}

// shouldSecureCookie reports whether the request arrived over HTTPS, directly
// or through a proxy that says so.
func shouldSecureCookie(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// themeFromRequest returns "dark", "light" or "" (follow the system).
func themeFromRequest(r *http.Request) string {
	c, err := r.Cookie(themeCookie)
	if err != nil {
		return ""
	}
	switch c.Value {
	case "dark", "light":
		return c.Value
	}
	return ""
}

// nextTheme cycles system -> dark -> light -> dark.
func nextTheme(current string) string {
	if current == "dark" {
		return "light"
	}
	return "dark"
}
