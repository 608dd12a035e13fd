// Package media resolves publication media URIs into something a browser
// can play. Videos go through Livepeer playback info; decentralized storage
// URIs fall back to public gateways.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"waves-server/internal/cache"
)

// MIME types the player template understands.
const (
	TypeMP4 = "video/mp4"
	TypeHLS = "application/x-mpegURL"
)

var ErrNoPlayback = errors.New("no playable source")

// Playback is a resolved video source.
type Playback struct {
	Src    string `json:"src"`
	Type   string `json:"type"`
	Poster string `json:"poster,omitempty"`
}

// Options configures a Livepeer client.
type Options struct {
	APIURL      string // e.g. https://livepeer.studio/api
	APIKey      string
	IPFSGateway string // e.g. https://gw.ipfs-lens.dev/ipfs
	Timeout     time.Duration
	Cache       cache.Backend
	TTL         cache.Config
}

// Livepeer looks up playback info for IPFS/Arweave-hosted videos.
type Livepeer struct {
	http    *retryablehttp.Client
	opts    Options
	lookups atomic.Int64
	fails   atomic.Int64
}

func NewLivepeer(opts Options) *Livepeer {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	opts.APIURL = strings.TrimRight(opts.APIURL, "/")
	opts.IPFSGateway = strings.TrimRight(opts.IPFSGateway, "/")

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 2
	client.HTTPClient.Timeout = opts.Timeout
	return &Livepeer{http: client, opts: opts}
}

// Counts returns lookups made and lookups that failed.
func (l *Livepeer) Counts() (lookups, fails int64) {
	return l.lookups.Load(), l.fails.Load()
}

// ResolveVideo returns a playable source for a video URI. It never fails:
// when Livepeer has nothing, the gateway URL of the file itself is used.
func (l *Livepeer) ResolveVideo(ctx context.Context, uri, cover string) Playback {
	fallback := Playback{Src: l.GatewayURL(uri), Type: TypeMP4, Poster: l.GatewayURL(cover)}
	id := PlaybackID(uri)
	if id == "" || l.opts.APIURL == "" {
		return fallback
	}

	key := "playback:" + id
	if l.opts.Cache != nil {
		if pb, ok := cache.GetJSON[Playback](ctx, l.opts.Cache, key); ok {
			if pb.Src == "" {
				return fallback
			}
			pb.Poster = fallback.Poster
			return pb
		}
	}

	pb, err := l.lookup(ctx, id)
	if err != nil {
		l.fails.Add(1)
		slog.Debug("livepeer lookup failed", "id", id, "error", err)
		if l.opts.Cache != nil {
			// negative entry so a broken video doesn't cost a lookup per render
			cache.SetJSON(ctx, l.opts.Cache, key, Playback{}, l.opts.TTL.PlaybackFailTTL)
		}
		return fallback
	}
	if l.opts.Cache != nil {
		cache.SetJSON(ctx, l.opts.Cache, key, pb, l.opts.TTL.PlaybackTTL)
	}
	pb.Poster = fallback.Poster
	return pb
}

func (l *Livepeer) lookup(ctx context.Context, id string) (Playback, error) {
	l.lookups.Add(1)
	ctx, cancel := context.WithTimeout(ctx, l.opts.Timeout)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, l.opts.APIURL+"/playback/"+url.PathEscape(id), nil)
	if err != nil {
		return Playback{}, err
	}
	if l.opts.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+l.opts.APIKey)
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return Playback{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Playback{}, fmt.Errorf("livepeer playback %s: status %d", id, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Playback{}, err
	}
	return parsePlayback(body)
}

// parsePlayback picks a source from a playback info document, preferring a
// progressive MP4 rendition over HLS.
func parsePlayback(body []byte) (Playback, error) {
	sources := gjson.GetBytes(body, "meta.source")
	if !sources.IsArray() {
		return Playback{}, ErrNoPlayback
	}
	if mp4 := sources.Get(`#(hrn=="MP4").url`); mp4.String() != "" {
		return Playback{Src: mp4.String(), Type: TypeMP4}, nil
	}
	if hls := sources.Get(`#(hrn%"HLS*").url`); hls.String() != "" {
		return Playback{Src: hls.String(), Type: TypeHLS}, nil
	}
	if first := sources.Get("0.url"); first.String() != "" {
		typ := TypeMP4
		if strings.HasSuffix(first.String(), ".m3u8") {
			typ = TypeHLS
		}
		return Playback{Src: first.String(), Type: typ}, nil
	}
	return Playback{}, ErrNoPlayback
}

// PlaybackID extracts the identifier Livepeer accepts for decentralized
// storage: the IPFS CID (with any path) or the Arweave transaction ID.
func PlaybackID(uri string) string {
	switch {
	case strings.HasPrefix(uri, "ipfs://"):
		return strings.TrimPrefix(uri, "ipfs://")
	case strings.HasPrefix(uri, "ar://"):
		return strings.TrimPrefix(uri, "ar://")
	}
	if i := strings.Index(uri, "/ipfs/"); i >= 0 && strings.HasPrefix(uri, "http") {
		return uri[i+len("/ipfs/"):]
	}
	return ""
}

// GatewayURL rewrites ipfs:// and ar:// URIs to public HTTP gateways. Other
// URIs are returned unchanged.
func (l *Livepeer) GatewayURL(uri string) string {
	switch {
	case uri == "":
		return ""
	case strings.HasPrefix(uri, "ipfs://") && l.opts.IPFSGateway != "":
		return l.opts.IPFSGateway + "/" + strings.TrimPrefix(uri, "ipfs://")
	case strings.HasPrefix(uri, "ar://"):
		return "https://arweave.net/" + strings.TrimPrefix(uri, "ar://")
	}
	return uri
}
