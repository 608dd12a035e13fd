package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"waves-server/internal/config"
	"waves-server/internal/feed"
	"waves-server/internal/lens"
	"waves-server/internal/reaction"
	"waves-server/internal/session"
)

func TestReactUnauthenticatedRedirectsWithOneErrorToast(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.post("/react", nil, likeForm("0x01-0x02", false), false)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
	toast, cookie := toastFrom(t, rec)
	if toast.Kind != ToastError {
		t.Errorf("toast kind = %q, want error", toast.Kind)
	}
	if toast.Message != config.I18n("toast.login_to_like") {
		t.Errorf("toast message = %q", toast.Message)
	}
	if len(env.lens.reactions) != 0 {
		t.Errorf("React called %d times, want 0", len(env.lens.reactions))
	}

	page := env.get("/", nil, &http.Cookie{Name: cookie.Name, Value: cookie.Value})
	if page.Code != http.StatusOK {
		t.Fatalf("GET / status = %d", page.Code)
	}
	if n := strings.Count(page.Body.String(), `class="toast toast-error"`); n != 1 {
		t.Errorf("error toasts on page = %d, want 1", n)
	}
}

func TestReactUnauthenticatedHelmFragment(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.post("/react", nil, likeForm("0x01-0x02", false), true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if n := strings.Count(body, `class="toast toast-error"`); n != 1 {
		t.Errorf("error toasts = %d, want 1", n)
	}
	if !strings.Contains(body, config.I18n("toast.login_to_like")) {
		t.Errorf("fragment missing login message: %s", body)
	}
	if !strings.Contains(body, `id="like-0x01-0x02"`) {
		t.Errorf("fragment missing like control: %s", body)
	}
	if strings.Contains(body, "action like reacted") {
		t.Errorf("like control shown as reacted after a refused like")
	}
	if len(env.lens.reactions) != 0 {
		t.Errorf("React called %d times, want 0", len(env.lens.reactions))
	}
}

func TestReactTogglesThroughLedger(t *testing.T) {
	env := newTestEnv(t, true)
	sess := env.newSession(t, true)

	rec := env.post("/react", sess, likeForm("0x01-0x02", false), false)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if toast, _ := toastFrom(t, rec); toast.Title != config.I18n("toast.liked") || toast.Kind != ToastInfo {
		t.Errorf("toast = %+v", toast)
	}
	st := env.reload(t, sess.ID).Reactions["0x01-0x02"]
	if st.Phase != reaction.Confirmed || !st.Reacted {
		t.Errorf("ledger after like = %+v", st)
	}

	// The page may still show the old state; the ledger wins.
	rec = env.post("/react", sess, likeForm("0x01-0x02", false), false)
	if toast, _ := toastFrom(t, rec); toast.Title != config.I18n("toast.unliked") {
		t.Errorf("second toast = %+v", toast)
	}
	want := []reaction.Kind{reaction.Upvote, reaction.Downvote}
	if len(env.lens.reactions) != 2 || env.lens.reactions[0] != want[0] || env.lens.reactions[1] != want[1] {
		t.Errorf("reactions sent = %v, want %v", env.lens.reactions, want)
	}
}

func TestReactHelmSwapsLikeButton(t *testing.T) {
	env := newTestEnv(t, true)
	sess := env.newSession(t, true)

	rec := env.post("/react", sess, likeForm("0x01-0x02", false), true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "action like reacted") {
		t.Errorf("like button not shown as reacted: %s", body)
	}
	if !strings.Contains(body, `<span class="count">4</span>`) {
		t.Errorf("upvote count not bumped: %s", body)
	}
	if !strings.Contains(body, `h-oob="true"`) {
		t.Errorf("toast not sent out of band: %s", body)
	}
}

func TestReactFailureRollsBack(t *testing.T) {
	env := newTestEnv(t, true)
	env.lens.reactErr = errors.New("boom")
	sess := env.newSession(t, true)

	rec := env.post("/react", sess, likeForm("0x01-0x02", false), false)
	if toast, _ := toastFrom(t, rec); toast.Kind != ToastError {
		t.Errorf("toast = %+v, want error", toast)
	}
	st := env.reload(t, sess.ID).Reactions["0x01-0x02"]
	if st.Phase != reaction.Rejected || st.Reacted {
		t.Errorf("ledger after failure = %+v", st)
	}
}

func TestReactExpiredLensSessionSignsOut(t *testing.T) {
	env := newTestEnv(t, true)
	env.lens.reactErr = lens.ErrUnauthenticated
	sess := env.newSession(t, true)

	env.post("/react", sess, likeForm("0x01-0x02", false), false)
	got := env.reload(t, sess.ID)
	if got.Authenticated || got.AccessToken != "" {
		t.Errorf("session still signed in: %+v", got)
	}
	if got.WalletAddress == "" {
		t.Error("wallet binding dropped")
	}
}

func TestPageLoadDropsStalePendingReaction(t *testing.T) {
	env := newTestEnv(t, true)
	env.lens.explore = &lens.Page{Items: []feed.Publication{textPost("0x05-0x01", "old"), textPost("0x05-0x02", "new")}}
	sess := env.newSession(t, true)
	now := time.Now()
	sess.Reactions["0x05-0x01"] = reaction.State{Phase: reaction.Pending, Reacted: true, UpdatedAt: now.Add(-5 * time.Minute)}
	sess.Reactions["0x05-0x02"] = reaction.State{Phase: reaction.Pending, Reacted: true, UpdatedAt: now}
	env.sessions.Save(context.Background(), sess)

	body := env.get("/", sess).Body.String()
	ledger := env.reload(t, sess.ID).Reactions
	if _, ok := ledger["0x05-0x01"]; ok {
		t.Error("stale pending reaction kept")
	}
	if st, ok := ledger["0x05-0x02"]; !ok || st.Phase != reaction.Pending {
		t.Errorf("in-flight reaction dropped: %+v", st)
	}
	if n := strings.Count(body, "action like reacted"); n != 1 {
		t.Errorf("reacted like buttons = %d, want 1", n)
	}
}

func TestReactRejectsBadCSRF(t *testing.T) {
	env := newTestEnv(t, true)
	sess := env.newSession(t, true)

	form := likeForm("0x01-0x02", false)
	form.Set("csrf_token", "1.bogus")
	req := httptest.NewRequest(http.MethodPost, "/react", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sess.ID})
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if toast, _ := toastFrom(t, rec); toast.Message != config.I18n("toast.invalid_form") {
		t.Errorf("toast = %+v", toast)
	}
	if len(env.lens.reactions) != 0 {
		t.Errorf("reactions sent = %d, want 0", len(env.lens.reactions))
	}
}

func TestMirrorDisabledShowsUpgradeNotice(t *testing.T) {
	env := newTestEnv(t, false)
	sess := env.newSession(t, true)

	form := url.Values{}
	form.Set("id", "0x01-0x02")
	form.Set("return_url", "/post/0x01-0x02")
	rec := env.post("/mirror", sess, form, false)
	if loc := rec.Header().Get("Location"); loc != "/post/0x01-0x02" {
		t.Errorf("Location = %q", loc)
	}
	toast, _ := toastFrom(t, rec)
	if toast.Kind != ToastInfo || toast.Title != config.I18n("toast.lens_upgrade") {
		t.Errorf("toast = %+v", toast)
	}
	if len(env.lens.mirrors) != 0 {
		t.Errorf("Mirror called %d times, want 0", len(env.lens.mirrors))
	}
}

func TestMirrorUnauthenticated(t *testing.T) {
	env := newTestEnv(t, true)

	form := url.Values{}
	form.Set("id", "0x01-0x02")
	rec := env.post("/mirror", nil, form, false)
	toast, _ := toastFrom(t, rec)
	if toast.Kind != ToastError || toast.Message != config.I18n("toast.login_to_mirror") {
		t.Errorf("toast = %+v", toast)
	}
	if len(env.lens.mirrors) != 0 {
		t.Errorf("Mirror called %d times, want 0", len(env.lens.mirrors))
	}
}

func TestMirrorEnabledRelays(t *testing.T) {
	env := newTestEnv(t, true)
	sess := env.newSession(t, true)

	form := url.Values{}
	form.Set("id", "0x01-0x02")
	form.Set("mirrors", "2")
	rec := env.post("/mirror", sess, form, true)
	if len(env.lens.mirrors) != 1 || env.lens.mirrors[0] != "0x01-0x02" {
		t.Fatalf("mirrors = %v", env.lens.mirrors)
	}
	if !strings.Contains(rec.Body.String(), `<span class="count">3</span>`) {
		t.Errorf("mirror count not bumped: %s", rec.Body.String())
	}
}
