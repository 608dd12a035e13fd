package lens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"waves-server/internal/feed"
)

type pageResult struct {
	Result struct {
		Items    json.RawMessage `json:"items"`
		PageInfo pageInfo        `json:"pageInfo"`
	} `json:"result"`
}

func cursorVar(cursor string) any {
	if cursor == "" {
		return nil
	}
	return cursor
}

// fetchPage runs a paginated publication query and returns the raw page.
func (c *Client) fetchPage(ctx context.Context, op, token, q string, vars map[string]any) ([]byte, error) {
	var res pageResult
	if err := c.run(ctx, c.query, op, token, q, vars, &res); err != nil {
		return nil, err
	}
	items := res.Result.Items
	if len(items) == 0 {
		items = json.RawMessage("[]")
	}
	return json.Marshal(rawPage{Items: items, Next: res.Result.PageInfo.next()})
}

// Explore returns the latest posts and quotes across the network.
func (c *Client) Explore(ctx context.Context, token, cursor string) (*Page, error) {
	data, err := c.cachedRead(ctx, cacheKey("explore", cursor), token, c.ttl.FeedTTL, func(ctx context.Context) ([]byte, error) {
		return c.fetchPage(ctx, "explorePublications", token, queryExplore, map[string]any{"cursor": cursorVar(cursor)})
	})
	if err != nil {
		return nil, err
	}
	return decodePage("explorePublications", data)
}

// Feed returns the following feed of profileID. It requires authentication.
func (c *Client) Feed(ctx context.Context, token, profileID, cursor string) (*Page, error) {
	if token == "" {
		return nil, fmt.Errorf("feed: %w", ErrUnauthenticated)
	}
	var res struct {
		Result struct {
			Items []struct {
				Root json.RawMessage `json:"root"`
			} `json:"items"`
			PageInfo pageInfo `json:"pageInfo"`
		} `json:"result"`
	}
	vars := map[string]any{"profileId": profileID, "cursor": cursorVar(cursor)}
	if err := c.run(ctx, c.query, "feed", token, queryFeed, vars, &res); err != nil {
		return nil, err
	}
	roots := make([]json.RawMessage, 0, len(res.Result.Items))
	for _, it := range res.Result.Items {
		if len(it.Root) > 0 && string(it.Root) != "null" {
			roots = append(roots, it.Root)
		}
	}
	items, err := json.Marshal(roots)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(rawPage{Items: items, Next: res.Result.PageInfo.next()})
	if err != nil {
		return nil, err
	}
	return decodePage("feed", data)
}

// ProfilePublications returns everything profileID published, newest first.
func (c *Client) ProfilePublications(ctx context.Context, token, profileID, cursor string) (*Page, error) {
	data, err := c.cachedRead(ctx, cacheKey("from", profileID, cursor), token, c.ttl.FeedTTL, func(ctx context.Context) ([]byte, error) {
		return c.fetchPage(ctx, "publications", token, queryProfilePublications,
			map[string]any{"profileId": profileID, "cursor": cursorVar(cursor)})
	})
	if err != nil {
		return nil, err
	}
	return decodePage("publications", data)
}

// Comments returns the comments on publication id.
func (c *Client) Comments(ctx context.Context, token, id, cursor string) (*Page, error) {
	data, err := c.cachedRead(ctx, cacheKey("comments", id, cursor), token, c.ttl.PublicationTTL, func(ctx context.Context) ([]byte, error) {
		return c.fetchPage(ctx, "comments", token, queryComments, map[string]any{"id": id, "cursor": cursorVar(cursor)})
	})
	if err != nil {
		return nil, err
	}
	return decodePage("comments", data)
}

// Publication returns a single publication or ErrNotFound.
func (c *Client) Publication(ctx context.Context, token, id string) (feed.Publication, error) {
	data, err := c.cachedRead(ctx, cacheKey("publication", id), token, c.ttl.PublicationTTL, func(ctx context.Context) ([]byte, error) {
		var res struct {
			Result json.RawMessage `json:"result"`
		}
		if err := c.run(ctx, c.query, "publication", token, queryPublication, map[string]any{"id": id}, &res); err != nil {
			return nil, err
		}
		if len(res.Result) == 0 || string(res.Result) == "null" {
			return nil, fmt.Errorf("publication %s: %w", id, ErrNotFound)
		}
		return res.Result, nil
	})
	if err != nil {
		return nil, err
	}
	return feed.Decode(data)
}

// Profile looks up a profile by handle. Bare local names are assumed to be
// in the lens/ namespace.
func (c *Client) Profile(ctx context.Context, handle string) (feed.Profile, error) {
	full := handle
	if !strings.Contains(full, "/") {
		full = "lens/" + full
	}
	data, err := c.cachedRead(ctx, cacheKey("profile", full), "", c.ttl.ProfileTTL, func(ctx context.Context) ([]byte, error) {
		var res struct {
			Result json.RawMessage `json:"result"`
		}
		if err := c.run(ctx, c.query, "profile", "", queryProfile, map[string]any{"handle": full}, &res); err != nil {
			return nil, err
		}
		if len(res.Result) == 0 || string(res.Result) == "null" {
			return nil, fmt.Errorf("profile %s: %w", full, ErrNotFound)
		}
		return res.Result, nil
	})
	if err != nil {
		return feed.Profile{}, err
	}
	p, err := feed.DecodeProfile(data)
	if errors.Is(err, feed.ErrNotFound) {
		return feed.Profile{}, fmt.Errorf("profile %s: %w", full, ErrNotFound)
	}
	return p, err
}

// ProfilesManaged lists the profiles the wallet address can sign in as.
func (c *Client) ProfilesManaged(ctx context.Context, address string) ([]feed.Profile, error) {
	var res struct {
		Result struct {
			Items []json.RawMessage `json:"items"`
		} `json:"result"`
	}
	if err := c.run(ctx, c.query, "profilesManaged", "", queryProfilesManaged, map[string]any{"address": address}, &res); err != nil {
		return nil, err
	}
	profiles := make([]feed.Profile, 0, len(res.Result.Items))
	for _, raw := range res.Result.Items {
		p, err := feed.DecodeProfile(raw)
		if err != nil {
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}
