package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"waves-server/internal/auth"
	"waves-server/internal/config"
	"waves-server/internal/feed"
	"waves-server/internal/lens"
	"waves-server/internal/reaction"
	"waves-server/internal/render"
	"waves-server/internal/session"
	"waves-server/templates"
)

// notificationsPageSize is how many notifications the notifications page asks for.
const notificationsPageSize = 10

// reactionMaxAge bounds how long a settled reaction is remembered in a session.
const reactionMaxAge = 30 * time.Minute

// pendingReactionTTL is how long a reaction may stay pending before page
// loads drop it: twice the Lens timeout.
func (a *App) pendingReactionTTL() time.Duration {
	if a.cfg.LensTimeout > 0 {
		return 2 * a.cfg.LensTimeout
	}
	return 20 * time.Second
}

// FeedSource reads publications and profiles.
type FeedSource interface {
	Explore(ctx context.Context, token, cursor string) (*lens.Page, error)
	Feed(ctx context.Context, token, profileID, cursor string) (*lens.Page, error)
	ProfilePublications(ctx context.Context, token, profileID, cursor string) (*lens.Page, error)
	Comments(ctx context.Context, token, id, cursor string) (*lens.Page, error)
	Publication(ctx context.Context, token, id string) (feed.Publication, error)
	Profile(ctx context.Context, handle string) (feed.Profile, error)
}

// Reactor sends reactions.
type Reactor interface {
	React(ctx context.Context, token, id string, kind reaction.Kind) error
}

// Mirrorer re-shares publications.
type Mirrorer interface {
	Mirror(ctx context.Context, token, id string) (*lens.MirrorResult, error)
}

// NotificationLister pages through the viewer's notifications.
type NotificationLister interface {
	Notifications(ctx context.Context, token, profileID string, pageSize int, cursor string) (*lens.NotificationPage, error)
}

// Authenticator runs Sign in with Lens.
type Authenticator interface {
	ProfilesManaged(ctx context.Context, address string) ([]feed.Profile, error)
	Challenge(ctx context.Context, address, profileID string) (*lens.Challenge, error)
	Authenticate(ctx context.Context, challengeID, signature string) (*lens.Tokens, error)
	Revoke(ctx context.Context, accessToken string) error
}

// Deps are the collaborators an App is built from.
type Deps struct {
	Sessions      session.Store
	Feeds         FeedSource
	Reactor       Reactor
	Mirrorer      Mirrorer
	Notifications NotificationLister
	Auth          Authenticator
	Videos        render.VideoResolver // optional
	CSRF          *auth.CSRF
	Metrics       MetricsSources
}

// App holds everything the HTTP handlers need.
type App struct {
	cfg           *config.Config
	sessions      session.Store
	feeds         FeedSource
	reactor       Reactor
	mirrorer      Mirrorer
	notifications NotificationLister
	auth          Authenticator
	renderer      *render.Renderer
	csrf          *auth.CSRF
	pages         *pageTemplates
	metrics       MetricsSources
	whyHTML       template.HTML
	now           func() time.Time
}

func NewApp(cfg *config.Config, deps Deps) (*App, error) {
	if deps.Sessions == nil || deps.Feeds == nil || deps.Reactor == nil || deps.Mirrorer == nil ||
		deps.Notifications == nil || deps.Auth == nil || deps.CSRF == nil {
		return nil, errors.New("app: missing dependency")
	}
	pages, err := newPageTemplates()
	if err != nil {
		return nil, err
	}
	why, err := markdownToHTML(templates.WhyMarkdown)
	if err != nil {
		return nil, fmt.Errorf("why page: %w", err)
	}
	return &App{
		cfg:           cfg,
		sessions:      deps.Sessions,
		feeds:         deps.Feeds,
		reactor:       deps.Reactor,
		mirrorer:      deps.Mirrorer,
		notifications: deps.Notifications,
		auth:          deps.Auth,
		renderer:      render.New(deps.Videos),
		csrf:          deps.CSRF,
		pages:         pages,
		metrics:       deps.Metrics,
		whyHTML:       why,
		now:           time.Now,
	}, nil
}

// markdownToHTML renders markdown with goldmark and sanitizes the result.
func markdownToHTML(src string) (template.HTML, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(bluemonday.UGCPolicy().SanitizeBytes(buf.Bytes())), nil
}
