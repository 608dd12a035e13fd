package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"waves-server/internal/cache"
)

const playbackInfo = `{
  "type": "vod",
  "meta": {
    "source": [
      {"hrn": "HLS (TS)", "type": "html5/application/vnd.apple.mpegurl", "url": "https://cdn/hls/index.m3u8"},
      {"hrn": "MP4", "type": "html5/video/mp4", "url": "https://cdn/static/720p.mp4"}
    ]
  }
}`

func TestParsePlayback(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Playback
		wantErr bool
	}{
		{"prefers mp4", playbackInfo, Playback{Src: "https://cdn/static/720p.mp4", Type: TypeMP4}, false},
		{"hls only", `{"meta":{"source":[{"hrn":"HLS (TS)","url":"https://cdn/x.m3u8"}]}}`, Playback{Src: "https://cdn/x.m3u8", Type: TypeHLS}, false},
		{"unknown hrn", `{"meta":{"source":[{"hrn":"WebRTC","url":"https://cdn/a.m3u8"}]}}`, Playback{Src: "https://cdn/a.m3u8", Type: TypeHLS}, false},
		{"no sources", `{"meta":{}}`, Playback{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parsePlayback([]byte(tc.body))
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v", err)
			}
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestPlaybackID(t *testing.T) {
	tests := map[string]string{
		"ipfs://bafyvideo":                    "bafyvideo",
		"ar://txid":                           "txid",
		"https://gw.ipfs-lens.dev/ipfs/bafyx": "bafyx",
		"https://cdn.example/video.mp4":       "",
		"":                                    "",
	}
	for in, want := range tests {
		if got := PlaybackID(in); got != want {
			t.Errorf("PlaybackID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveVideoUsesLivepeerAndCaches(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/playback/bafyvideo" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("missing API key")
		}
		w.Write([]byte(playbackInfo))
	}))
	defer srv.Close()

	lp := NewLivepeer(Options{APIURL: srv.URL, APIKey: "key", IPFSGateway: "https://gw/ipfs",
		Cache: cache.NewMemory(10, 0), TTL: cache.DefaultConfig()})
	ctx := context.Background()

	pb := lp.ResolveVideo(ctx, "ipfs://bafyvideo", "ipfs://bafycover")
	if pb.Src != "https://cdn/static/720p.mp4" || pb.Poster != "https://gw/ipfs/bafycover" {
		t.Fatalf("playback = %+v", pb)
	}
	lp.ResolveVideo(ctx, "ipfs://bafyvideo", "")
	if hits.Load() != 1 {
		t.Errorf("livepeer hit %d times, want 1", hits.Load())
	}
}

func TestResolveVideoFallsBackToGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	lp := NewLivepeer(Options{APIURL: srv.URL, IPFSGateway: "https://gw/ipfs", Timeout: time.Second})
	pb := lp.ResolveVideo(context.Background(), "ipfs://bafymissing", "")
	if pb.Src != "https://gw/ipfs/bafymissing" || pb.Type != TypeMP4 {
		t.Errorf("fallback = %+v", pb)
	}
	if _, fails := lp.Counts(); fails != 1 {
		t.Errorf("fails = %d", fails)
	}

	// plain https videos never hit livepeer
	pb = lp.ResolveVideo(context.Background(), "https://cdn/v.mp4", "")
	if pb.Src != "https://cdn/v.mp4" {
		t.Errorf("https passthrough = %+v", pb)
	}
}

func TestGatewayURL(t *testing.T) {
	lp := NewLivepeer(Options{IPFSGateway: "https://gw/ipfs/"})
	tests := map[string]string{
		"ipfs://cid/file.png": "https://gw/ipfs/cid/file.png",
		"ar://tx":             "https://arweave.net/tx",
		"https://x/y.png":     "https://x/y.png",
		"":                    "",
	}
	for in, want := range tests {
		if got := lp.GatewayURL(in); got != want {
			t.Errorf("GatewayURL(%q) = %q, want %q", in, got, want)
		}
	}
}
