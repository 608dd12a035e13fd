// Package lens is a small client for the Lens Protocol v2 GraphQL API:
// feeds, profiles, sign-in and the reaction and mirror mutations.
package lens

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/machinebox/graphql"
	"golang.org/x/sync/singleflight"

	"waves-server/internal/cache"
	"waves-server/internal/feed"
)

var (
	ErrUnauthenticated = errors.New("lens: not authenticated")
	ErrNotFound        = errors.New("lens: not found")
)

// Options configures a Client.
type Options struct {
	Endpoint string
	Timeout  time.Duration
	Cache    cache.Backend // optional
	TTL      cache.Config
}

// Client talks to the Lens API. Reads retry transient transport failures and
// anonymous reads are cached and collapsed; mutations are sent exactly once.
type Client struct {
	query   *graphql.Client
	mutate  *graphql.Client
	timeout time.Duration
	cache   cache.Backend
	ttl     cache.Config
	group   singleflight.Group

	stats counters
}

type counters struct {
	calls     atomic.Int64
	errors    atomic.Int64
	cacheHits atomic.Int64
	shared    atomic.Int64
}

// Stats is a snapshot of client activity for the metrics endpoint.
type Stats struct {
	Calls     int64
	Errors    int64
	CacheHits int64
	Shared    int64
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	reads := retryablehttp.NewClient()
	reads.Logger = nil
	reads.RetryMax = 3
	reads.RetryWaitMin = 200 * time.Millisecond
	reads.RetryWaitMax = 2 * time.Second

	writes := retryablehttp.NewClient()
	writes.Logger = nil
	writes.RetryMax = 0

	return &Client{
		query:   graphql.NewClient(opts.Endpoint, graphql.WithHTTPClient(reads.StandardClient())),
		mutate:  graphql.NewClient(opts.Endpoint, graphql.WithHTTPClient(writes.StandardClient())),
		timeout: opts.Timeout,
		cache:   opts.Cache,
		ttl:     opts.TTL,
	}
}

func (c *Client) Stats() Stats {
	return Stats{
		Calls:     c.stats.calls.Load(),
		Errors:    c.stats.errors.Load(),
		CacheHits: c.stats.cacheHits.Load(),
		Shared:    c.stats.shared.Load(),
	}
}

// run executes one GraphQL operation and decodes its "data" into out.
func (c *Client) run(ctx context.Context, gc *graphql.Client, name, token, q string, vars map[string]any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := graphql.NewRequest(q)
	for k, v := range vars {
		req.Var(k, v)
	}
	if token != "" {
		req.Header.Set("x-access-token", "Bearer "+token)
	}

	start := time.Now()
	c.stats.calls.Add(1)
	err := gc.Run(ctx, req, out)
	if err != nil {
		c.stats.errors.Add(1)
		err = classify(err)
		slog.Debug("lens call failed", "op", name, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return fmt.Errorf("%s: %w", name, err)
	}
	slog.Debug("lens call", "op", name, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// classify maps API error messages onto the package's sentinel errors.
// The GraphQL client drops error extensions, so only the message is available.
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "authenticat"), strings.Contains(msg, "unauthorized"), strings.Contains(msg, "forbidden"):
		return fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	case strings.Contains(msg, "not found"), strings.Contains(msg, "does not exist"):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

// Page is one page of decoded publications.
type Page struct {
	Items []feed.Publication
	Next  string
}

// rawPage is the cacheable form of a page: the undecoded items.
type rawPage struct {
	Items json.RawMessage `json:"items"`
	Next  string          `json:"next,omitempty"`
}

type pageInfo struct {
	Next *string `json:"next"`
}

func (p pageInfo) next() string {
	if p.Next == nil {
		return ""
	}
	return *p.Next
}

// cachedRead serves anonymous reads from the cache and collapses concurrent
// identical fetches. Authenticated reads carry viewer-specific fields
// (hasUpvoted) and always go to the API.
//
// A shared fetch runs detached from the caller that started it, so one
// cancelled request does not fail the others waiting on the same key. Each
// caller still stops waiting when its own context is done.
func (c *Client) cachedRead(ctx context.Context, key, token string, ttl time.Duration, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	if token != "" {
		return fetch(ctx)
	}
	if c.cache != nil {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			c.stats.cacheHits.Add(1)
			return data, nil
		}
	}
	ch := c.group.DoChan(key, func() (any, error) {
		fctx := context.WithoutCancel(ctx)
		data, err := fetch(fctx)
		if err != nil {
			return nil, err
		}
		if c.cache != nil && ttl > 0 {
			if err := c.cache.Set(fctx, key, data, ttl); err != nil {
				slog.Warn("lens cache set failed", "key", key, "error", err)
			}
		}
		return data, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			c.stats.shared.Add(1)
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// cacheKey builds a short stable key from parts.
func cacheKey(kind string, parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "lens:" + kind + ":" + hex.EncodeToString(h[:8])
}

// decodePage turns a cached raw page into publications. Items that fail to
// decode are logged and skipped.
func decodePage(op string, data []byte) (*Page, error) {
	var rp rawPage
	if err := json.Unmarshal(data, &rp); err != nil {
		return nil, fmt.Errorf("%s: decode page: %w", op, err)
	}
	page := &Page{Next: rp.Next}
	if len(rp.Items) == 0 {
		return page, nil
	}
	pubs, errs := feed.DecodeList(rp.Items)
	for _, err := range errs {
		slog.Warn("skipping publication", "op", op, "error", err)
	}
	page.Items = pubs
	return page, nil
}
