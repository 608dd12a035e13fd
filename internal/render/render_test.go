package render

import (
	"context"
	"strings"
	"testing"
	"time"

	"waves-server/internal/feed"
	"waves-server/internal/media"
	"waves-server/internal/reaction"
)

type fakeVideos struct{ calls int }

func (f *fakeVideos) ResolveVideo(ctx context.Context, uri, cover string) media.Playback {
	f.calls++
	return media.Playback{Src: "https://cdn/" + strings.TrimPrefix(uri, "ipfs://") + ".mp4", Type: media.TypeMP4, Poster: "https://cdn/cover.png"}
}

func alice() feed.Profile {
	return feed.Profile{ID: "0x01", LocalName: "alice", FullHandle: "lens/alice", DisplayName: "Alice", PictureURI: "https://img/alice.png", Followers: 7}
}

func bob() feed.Profile {
	return feed.Profile{ID: "0x02", LocalName: "bob"}
}

func textPost(id, content string) *feed.Post {
	return &feed.Post{Base: feed.Base{ID: id, By: alice(), Metadata: feed.TextMetadata{Content: content}, Stats: feed.Stats{Comments: 1, Mirrors: 2, Upvotes: 3, Collects: 4}}}
}

func TestFallbackAvatar(t *testing.T) {
	r := New(nil)
	p := &feed.Post{Base: feed.Base{ID: "p", By: feed.Profile{LocalName: "nopic"}}}
	v := r.Render(context.Background(), p, Viewer{})
	if string(v.Author.Avatar) != FallbackAvatar {
		t.Errorf("avatar = %q", v.Author.Avatar)
	}
	if v.Author.Followers != "0" || v.Author.Following != "0" {
		t.Errorf("counts = %q/%q, want 0/0", v.Author.Followers, v.Author.Following)
	}

	// unsafe schemes fall back too
	p.By.PictureURI = "javascript:alert(1)"
	if v := r.Render(context.Background(), p, Viewer{}); string(v.Author.Avatar) != FallbackAvatar {
		t.Errorf("javascript avatar = %q", v.Author.Avatar)
	}
}

func TestMirrorBannerAndContent(t *testing.T) {
	r := New(nil)
	inner := textPost("0x01-0x01", "original words")
	m := &feed.Mirror{Base: feed.Base{ID: "0x02-0x05", By: bob()}, MirrorOn: inner}

	v := r.Render(context.Background(), m, Viewer{})
	if len(v.Banners) != 1 {
		t.Fatalf("banners = %+v", v.Banners)
	}
	if v.Banners[0].Text != "bob mirrored" || v.Banners[0].Href != "/wave/bob" {
		t.Errorf("banner = %+v", v.Banners[0])
	}
	if !strings.Contains(string(v.Body), "original words") {
		t.Errorf("body = %q", v.Body)
	}
	if v.Author.Handle != "alice" {
		t.Errorf("author = %q, want the mirrored author", v.Author.Handle)
	}
	if v.ID != "0x01-0x01" || v.ItemID != "0x02-0x05" {
		t.Errorf("ids = %s / %s", v.ID, v.ItemID)
	}
	if v.Stats.Upvotes != 3 {
		t.Errorf("stats should come from the mirrored content, got %+v", v.Stats)
	}
}

func TestCommentAndQuoteBanners(t *testing.T) {
	r := New(nil)
	target := textPost("0x01-0x01", "target")

	c := &feed.Comment{Base: feed.Base{ID: "c", By: bob()}, CommentOn: target}
	v := r.Render(context.Background(), c, Viewer{})
	if len(v.Banners) != 1 || v.Banners[0].Text != "bob Commented" || v.Banners[0].Href != "/post/0x01-0x01" {
		t.Errorf("comment banner = %+v", v.Banners)
	}

	q := &feed.Quote{Base: feed.Base{ID: "q", By: bob()}, QuoteOn: target}
	v = r.Render(context.Background(), q, Viewer{})
	if len(v.Banners) != 1 || v.Banners[0].Text != "bob Quoted" || v.Banners[0].Href != "/post/0x01-0x01" {
		t.Errorf("quote banner = %+v", v.Banners)
	}
	if v.Quoted == nil || v.Quoted.ID != "0x01-0x01" || v.Quoted.Depth != 1 {
		t.Fatalf("quoted = %+v", v.Quoted)
	}

	// a comment without a known target still renders
	orphan := &feed.Comment{Base: feed.Base{ID: "o", By: bob()}}
	if v := r.Render(context.Background(), orphan, Viewer{}); v.Banners[0].Href != "" {
		t.Errorf("orphan href = %q", v.Banners[0].Href)
	}
}

func TestQuoteRecursionStopsAtOneLevel(t *testing.T) {
	r := New(nil)
	q := &feed.Quote{Base: feed.Base{ID: "self", By: alice(), Metadata: feed.TextMetadata{Content: "me again"}}}
	q.QuoteOn = q

	v := r.Render(context.Background(), q, Viewer{})
	if v.Quoted == nil {
		t.Fatal("first level should render")
	}
	if v.Quoted.Quoted != nil {
		t.Fatal("second level must not render")
	}
}

func TestImageScenario(t *testing.T) {
	r := New(&fakeVideos{})
	p := &feed.Post{Base: feed.Base{ID: "p", Metadata: feed.ImageMetadata{ImageURI: "ipfs://X"}}}
	v := r.Render(context.Background(), p, Viewer{})
	if v.Media == nil || v.Media.Kind != MediaImage {
		t.Fatalf("media = %+v", v.Media)
	}
	if string(v.Media.Src) != "ipfs://X" {
		t.Errorf("src = %q, want ipfs://X", v.Media.Src)
	}
}

func TestVideoAndAudioMedia(t *testing.T) {
	videos := &fakeVideos{}
	r := New(videos)

	vid := &feed.Post{Base: feed.Base{ID: "v", Metadata: feed.VideoMetadata{VideoURI: "ipfs://vid", CoverURI: "ipfs://cov"}}}
	v := r.Render(context.Background(), vid, Viewer{})
	if v.Media == nil || v.Media.Kind != MediaVideo || string(v.Media.Src) != "https://cdn/vid.mp4" || v.Media.Type != media.TypeMP4 {
		t.Errorf("video media = %+v", v.Media)
	}
	if videos.calls != 1 {
		t.Errorf("resolver calls = %d", videos.calls)
	}

	aud := &feed.Post{Base: feed.Base{ID: "a", Metadata: feed.AudioMetadata{AudioURI: "https://a/song.mp3", CoverURI: "https://a/cover.jpg"}}}
	v = r.Render(context.Background(), aud, Viewer{})
	if v.Media == nil || v.Media.Kind != MediaAudio || string(v.Media.Cover) != "https://a/cover.jpg" {
		t.Errorf("audio media = %+v", v.Media)
	}

	txt := textPost("t", "just words")
	if v := r.Render(context.Background(), txt, Viewer{}); v.Media != nil {
		t.Errorf("text post has media %+v", v.Media)
	}
}

func TestMissingFieldsDegrade(t *testing.T) {
	r := New(nil)
	for _, pub := range []feed.Publication{
		&feed.Post{},
		&feed.Comment{},
		&feed.Quote{},
		&feed.Mirror{},
		&feed.Post{Base: feed.Base{Metadata: feed.ImageMetadata{}}},
	} {
		v := r.Render(context.Background(), pub, Viewer{Authenticated: true})
		if v.Body != "" || v.Media != nil || v.Stats != (feed.Stats{}) {
			t.Errorf("%T: expected empty card, got %+v", pub, v)
		}
		if v.Author.Name != "Anon" {
			t.Errorf("%T: author name = %q", pub, v.Author.Name)
		}
	}
}

func TestReactedStateAndCount(t *testing.T) {
	r := New(nil)
	p := textPost("p", "hi")
	ledger := reaction.NewLedger()

	v := r.Render(context.Background(), p, Viewer{Authenticated: true, Reactions: ledger})
	if v.Reacted || v.Stats.Upvotes != 3 {
		t.Fatalf("initial: reacted=%v upvotes=%d", v.Reacted, v.Stats.Upvotes)
	}

	ledger.Begin("p", false, time.Now())
	v = r.Render(context.Background(), p, Viewer{Authenticated: true, Reactions: ledger})
	if !v.Reacted || !v.ReactPending || v.Stats.Upvotes != 4 {
		t.Errorf("optimistic: reacted=%v pending=%v upvotes=%d", v.Reacted, v.ReactPending, v.Stats.Upvotes)
	}

	// anonymous viewers never see a reacted state
	p.HasUpvoted = true
	if v := r.Render(context.Background(), p, Viewer{}); v.Reacted {
		t.Error("anonymous viewer shown as reacted")
	}
}

func TestActionsTargetDisplayContent(t *testing.T) {
	r := New(nil)
	m := &feed.Mirror{Base: feed.Base{ID: "outer", By: bob()}, MirrorOn: textPost("inner", "x")}
	ledger := reaction.Ledger{"inner": {Phase: reaction.Confirmed, Reacted: true}}
	v := r.Render(context.Background(), m, Viewer{Authenticated: true, Reactions: ledger})
	if !v.Reacted || v.Href != "/post/inner" {
		t.Errorf("reacted=%v href=%q", v.Reacted, v.Href)
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Time{}, ""},
		{now.Add(-10 * time.Second), "now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-50 * time.Hour), "2d"},
		{time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), "Jan 3"},
		{time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC), "Jan 3, 2022"},
	}
	for _, tc := range tests {
		if got := TimeAgo(tc.t, now); got != tc.want {
			t.Errorf("TimeAgo(%v) = %q, want %q", tc.t, got, tc.want)
		}
	}
}
