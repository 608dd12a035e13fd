package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"waves-server/internal/auth"
	"waves-server/internal/config"
	"waves-server/internal/feed"
	"waves-server/internal/lens"
	"waves-server/internal/reaction"
	"waves-server/internal/session"
)

const testChainID = 137

// fakeLens stands in for the Lens client in handler tests.
type fakeLens struct {
	mu sync.Mutex

	explore     *lens.Page
	exploreErr  error
	publication feed.Publication
	comments    *lens.Page
	profiles    []feed.Profile
	reactErr    error
	mirrorErr   error

	reactions       []reaction.Kind
	reactedIDs      []string
	mirrors         []string
	notificationReq []int
	challenges      int
	revoked         []string
}

func (f *fakeLens) Explore(ctx context.Context, token, cursor string) (*lens.Page, error) {
	if f.exploreErr != nil {
		return nil, f.exploreErr
	}
	if f.explore == nil {
		return &lens.Page{}, nil
	}
	return f.explore, nil
}

func (f *fakeLens) Feed(ctx context.Context, token, profileID, cursor string) (*lens.Page, error) {
	return f.Explore(ctx, token, cursor)
}

func (f *fakeLens) ProfilePublications(ctx context.Context, token, profileID, cursor string) (*lens.Page, error) {
	return f.Explore(ctx, token, cursor)
}

func (f *fakeLens) Comments(ctx context.Context, token, id, cursor string) (*lens.Page, error) {
	if f.comments == nil {
		return &lens.Page{}, nil
	}
	return f.comments, nil
}

func (f *fakeLens) Publication(ctx context.Context, token, id string) (feed.Publication, error) {
	if f.publication == nil {
		return nil, lens.ErrNotFound
	}
	return f.publication, nil
}

func (f *fakeLens) Profile(ctx context.Context, handle string) (feed.Profile, error) {
	for _, p := range f.profiles {
		if p.LocalName == handle {
			return p, nil
		}
	}
	return feed.Profile{}, lens.ErrNotFound
}

func (f *fakeLens) React(ctx context.Context, token, id string, kind reaction.Kind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, kind)
	f.reactedIDs = append(f.reactedIDs, id)
	return f.reactErr
}

func (f *fakeLens) Mirror(ctx context.Context, token, id string) (*lens.MirrorResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mirrors = append(f.mirrors, id)
	if f.mirrorErr != nil {
		return nil, f.mirrorErr
	}
	return &lens.MirrorResult{TxHash: "0xabc", TxID: "tx-1"}, nil
}

func (f *fakeLens) Notifications(ctx context.Context, token, profileID string, pageSize int, cursor string) (*lens.NotificationPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notificationReq = append(f.notificationReq, pageSize)
	return &lens.NotificationPage{}, nil
}

func (f *fakeLens) ProfilesManaged(ctx context.Context, address string) ([]feed.Profile, error) {
	return f.profiles, nil
}

func (f *fakeLens) Challenge(ctx context.Context, address, profileID string) (*lens.Challenge, error) {
	f.mu.Lock()
	f.challenges++
	f.mu.Unlock()
	return &lens.Challenge{ID: "challenge-1", Text: "Sign in with Lens\nprofile: " + profileID}, nil
}

func (f *fakeLens) Authenticate(ctx context.Context, challengeID, signature string) (*lens.Tokens, error) {
	return &lens.Tokens{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (f *fakeLens) Revoke(ctx context.Context, accessToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = append(f.revoked, accessToken)
	return nil
}

type testEnv struct {
	app      *App
	handler  http.Handler
	lens     *fakeLens
	sessions *session.MemoryStore
}

func newTestEnv(t *testing.T, mirrorEnabled bool) *testEnv {
	t.Helper()
	cfg := &config.Config{
		Port:          "0",
		LensAPIURL:    "http://lens.test",
		ChainID:       testChainID,
		MirrorEnabled: mirrorEnabled,
	}
	csrf, err := auth.NewCSRF("test-secret")
	if err != nil {
		t.Fatal(err)
	}
	fl := &fakeLens{}
	store := session.NewMemoryStore(time.Hour)
	app, err := NewApp(cfg, Deps{
		Sessions:      store,
		Feeds:         fl,
		Reactor:       fl,
		Mirrorer:      fl,
		Notifications: fl,
		Auth:          fl,
		CSRF:          csrf,
	})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return &testEnv{app: app, handler: app.Routes(), lens: fl, sessions: store}
}

// newSession stores a session bound to a wallet on the test chain,
// optionally signed in.
func (e *testEnv) newSession(t *testing.T, signedIn bool) *session.Session {
	t.Helper()
	sess := session.New(time.Now())
	sess.BindWallet("0x2c7536E3605D9C16a7a3D7b1898e529396a65c23", testChainID)
	if signedIn {
		sess.Authenticated = true
		sess.ProfileID = "0x01"
		sess.FullHandle = "lens/alice"
		sess.AccessToken = "access"
	}
	if err := e.sessions.Save(context.Background(), sess); err != nil {
		t.Fatal(err)
	}
	return sess
}

func (e *testEnv) reload(t *testing.T, id string) *session.Session {
	t.Helper()
	sess, err := e.sessions.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	return sess
}

func (e *testEnv) get(path string, sess *session.Session, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sess != nil {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sess.ID})
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) post(path string, sess *session.Session, form url.Values, helm bool) *httptest.ResponseRecorder {
	if sess != nil {
		form.Set("csrf_token", e.app.csrf.Token(sess.ID))
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if helm {
		req.Header.Set("H-Request", "true")
	}
	if sess != nil {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sess.ID})
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// toastFrom decodes the flash cookie set on a redirect.
func toastFrom(t *testing.T, rec *httptest.ResponseRecorder) (Toast, *http.Cookie) {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name != toastCookie || c.Value == "" {
			continue
		}
		data, err := base64.RawURLEncoding.DecodeString(c.Value)
		if err != nil {
			t.Fatalf("toast cookie: %v", err)
		}
		var toast Toast
		if err := json.Unmarshal(data, &toast); err != nil {
			t.Fatalf("toast cookie: %v", err)
		}
		return toast, c
	}
	t.Fatal("no toast cookie set")
	return Toast{}, nil
}

func likeForm(id string, reacted bool) url.Values {
	form := url.Values{}
	form.Set("id", id)
	form.Set("author", "stani")
	form.Set("upvotes", "3")
	form.Set("return_url", "/")
	if reacted {
		form.Set("reacted", "true")
	} else {
		form.Set("reacted", "false")
	}
	return form
}

func textPost(id, content string) *feed.Post {
	return &feed.Post{Base: feed.Base{
		ID:        id,
		CreatedAt: time.Now().Add(-time.Hour),
		By:        feed.Profile{ID: "0x05", LocalName: "stani", DisplayName: "Stani", PictureURI: "https://example.com/stani.png"},
		Metadata:  feed.TextMetadata{Content: content},
		Stats:     feed.Stats{Upvotes: 3},
	}}
}
