// Package render turns feed publications into view models for the post
// card templates.
package render

import (
	"context"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"waves-server/internal/feed"
	"waves-server/internal/media"
	"waves-server/internal/reaction"
)

// FallbackAvatar is shown for authors without a profile picture.
const FallbackAvatar = "https://gw.ipfs-lens.dev/ipfs/bafybeidkewnnnisaqmwk7ornt6fymjddlkhlou2tsfhaxxnird4w4yrebe"

// MaxQuoteDepth is how many levels of quoted publications are rendered.
const MaxQuoteDepth = 1

// VideoResolver finds a playable source for a video asset.
type VideoResolver interface {
	ResolveVideo(ctx context.Context, uri, cover string) media.Playback
}

// Viewer is what the renderer needs to know about who is looking.
type Viewer struct {
	Authenticated bool
	Reactions     reaction.Ledger
	MirrorEnabled bool
}

type BannerKind string

const (
	BannerMirrored  BannerKind = "mirrored"
	BannerCommented BannerKind = "commented"
	BannerQuoted    BannerKind = "quoted"
)

// Banner is the attribution line above a card.
type Banner struct {
	Kind BannerKind
	Text string
	Href string // empty when the target is unknown
}

// AuthorCard is the author block with its hover details.
type AuthorCard struct {
	ID         string
	Name       string
	Handle     string
	FullHandle string
	Bio        string
	Avatar     template.URL
	Followers  string
	Following  string
	Href       string
}

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
)

// Media is the single attachment rendered on a card.
type Media struct {
	Kind  MediaKind
	Src   template.URL
	Type  string // MIME type for video sources
	Cover template.URL
	Alt   string
}

// PostView is everything the post card template needs.
type PostView struct {
	// ID is the display content's publication ID, the target of every action.
	ID string
	// ItemID is the ID of the feed item as listed; it differs from ID for mirrors.
	ItemID    string
	Typename  string
	CreatedAt time.Time
	TimeAgo   string

	Banners     []Banner
	Author      AuthorCard
	Body        template.HTML
	Collapsible bool
	Media       *Media
	Quoted      *PostView
	Depth       int

	Stats         feed.Stats
	Reacted       bool
	ReactPending  bool
	MirrorEnabled bool
	Href          string
}

// Renderer builds PostViews. It is safe for concurrent use.
type Renderer struct {
	videos VideoResolver
	policy *bluemonday.Policy
	now    func() time.Time
}

func New(videos VideoResolver) *Renderer {
	return &Renderer{videos: videos, policy: BodyPolicy(), now: time.Now}
}

// RenderAll renders a page of publications. Nil entries are skipped.
func (r *Renderer) RenderAll(ctx context.Context, pubs []feed.Publication, v Viewer) []PostView {
	views := make([]PostView, 0, len(pubs))
	for _, p := range pubs {
		if p == nil {
			continue
		}
		views = append(views, r.Render(ctx, p, v))
	}
	return views
}

// Render builds the card for one feed item.
func (r *Renderer) Render(ctx context.Context, pub feed.Publication, v Viewer) PostView {
	return r.render(ctx, pub, v, 0)
}

func (r *Renderer) render(ctx context.Context, item feed.Publication, v Viewer, depth int) PostView {
	outer := feed.BaseOf(item)
	view := PostView{
		ItemID:        outer.ID,
		Typename:      feed.Typename(item),
		CreatedAt:     outer.CreatedAt,
		TimeAgo:       TimeAgo(outer.CreatedAt, r.now()),
		Depth:         depth,
		MirrorEnabled: v.MirrorEnabled,
	}

	content := item
	switch p := item.(type) {
	case *feed.Mirror:
		view.Banners = append(view.Banners, Banner{
			Kind: BannerMirrored,
			Text: handleOf(p.By) + " mirrored",
			Href: waveHref(p.By),
		})
		if p.MirrorOn != nil {
			content = p.MirrorOn
		}
	case *feed.Post, *feed.Comment, *feed.Quote:
	}

	base := feed.BaseOf(content)
	view.ID = base.ID
	view.Href = PostHref(base.ID)
	view.Author = AuthorCardOf(base.By)
	view.Stats = base.Stats

	switch p := content.(type) {
	case *feed.Comment:
		view.Banners = append(view.Banners, Banner{
			Kind: BannerCommented,
			Text: handleOf(p.By) + " Commented",
			Href: targetHref(p.CommentOn),
		})
	case *feed.Quote:
		view.Banners = append(view.Banners, Banner{
			Kind: BannerQuoted,
			Text: handleOf(p.By) + " Quoted",
			Href: targetHref(p.QuoteOn),
		})
		if p.QuoteOn != nil && depth < MaxQuoteDepth {
			q := r.render(ctx, p.QuoteOn, v, depth+1)
			view.Quoted = &q
		}
	case *feed.Post, *feed.Mirror:
	}

	body := feed.BodyOf(content)
	view.Body = SanitizedBody(r.policy, body)
	view.Collapsible = Collapsible(body)
	view.Media = r.media(ctx, base.Metadata)

	if v.Authenticated {
		view.Reacted = v.Reactions.Effective(base.ID, base.HasUpvoted)
		if st, ok := v.Reactions[base.ID]; ok && st.Phase == reaction.Pending {
			view.ReactPending = true
		}
		view.Stats.Upvotes = adjustCount(base.Stats.Upvotes, base.HasUpvoted, view.Reacted)
	}
	return view
}

// media picks the one attachment for a metadata variant.
func (r *Renderer) media(ctx context.Context, md feed.Metadata) *Media {
	switch m := md.(type) {
	case feed.ImageMetadata:
		if m.ImageURI == "" {
			return nil
		}
		return &Media{Kind: MediaImage, Src: SafeURL(m.ImageURI), Alt: altText(m.Content)}
	case feed.VideoMetadata:
		if m.VideoURI == "" {
			return nil
		}
		pb := media.Playback{Src: m.VideoURI, Type: media.TypeMP4, Poster: m.CoverURI}
		if r.videos != nil {
			pb = r.videos.ResolveVideo(ctx, m.VideoURI, m.CoverURI)
		}
		return &Media{Kind: MediaVideo, Src: SafeURL(pb.Src), Type: pb.Type, Cover: SafeURL(pb.Poster)}
	case feed.AudioMetadata:
		if m.AudioURI == "" {
			return nil
		}
		return &Media{Kind: MediaAudio, Src: SafeURL(m.AudioURI), Cover: SafeURL(m.CoverURI)}
	case feed.TextMetadata, nil:
	}
	return nil
}

// AuthorCardOf builds the author block for a profile.
func AuthorCardOf(p feed.Profile) AuthorCard {
	avatar := SafeURL(p.PictureURI)
	if avatar == "" {
		avatar = template.URL(FallbackAvatar)
	}
	return AuthorCard{
		ID:         p.ID,
		Name:       firstNonEmpty(p.DisplayName, p.LocalName, "Anon"),
		Handle:     p.LocalName,
		FullHandle: p.FullHandle,
		Bio:        p.Bio,
		Avatar:     avatar,
		Followers:  strconv.Itoa(p.Followers),
		Following:  strconv.Itoa(p.Following),
		Href:       waveHref(p),
	}
}

// handleOf is the name used in banners and toasts.
func handleOf(p feed.Profile) string {
	return firstNonEmpty(p.LocalName, p.DisplayName, "Anon")
}

// HandleOf is the author name for a publication's display content, used in
// toast messages.
func HandleOf(pub feed.Publication) string {
	if pub == nil {
		return "Anon"
	}
	return handleOf(feed.Unwrap(pub).Author())
}

// PostHref is the link to a publication page.
func PostHref(id string) string {
	if id == "" {
		return ""
	}
	return "/post/" + id
}

// WaveHref is the link to a profile page.
func WaveHref(handle string) string {
	if handle == "" {
		return ""
	}
	return "/wave/" + handle
}

func waveHref(p feed.Profile) string {
	return WaveHref(p.LocalName)
}

func targetHref(p feed.Publication) string {
	if p == nil {
		return ""
	}
	return PostHref(p.PublicationID())
}

// adjustCount shifts the server's upvote count by the optimistic state.
func adjustCount(n int, server, believed bool) int {
	switch {
	case believed && !server:
		n++
	case !believed && server:
		n--
	}
	if n < 0 {
		return 0
	}
	return n
}

// SafeURL passes through http(s), ipfs and ar URIs and drops everything else,
// so the template can use the value unescaped in src attributes.
func SafeURL(u string) template.URL {
	u = strings.TrimSpace(u)
	for _, scheme := range []string{"https://", "http://", "ipfs://", "ar://"} {
		if strings.HasPrefix(strings.ToLower(u), scheme) {
			return template.URL(u)
		}
	}
	return ""
}

func altText(content string) string {
	content = strings.TrimSpace(content)
	if r := []rune(content); len(r) > 120 {
		return string(r[:120])
	}
	return content
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// TimeAgo formats t relative to now: "now", "5m", "3h", "2d", then a date.
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return strconv.Itoa(int(d.Minutes())) + "m"
	case d < 24*time.Hour:
		return strconv.Itoa(int(d.Hours())) + "h"
	case d < 7*24*time.Hour:
		return strconv.Itoa(int(d.Hours()/24)) + "d"
	case t.Year() == now.Year():
		return t.Format("Jan 2")
	}
	return t.Format("Jan 2, 2006")
}
