package lens

import (
	"context"
	"fmt"

	"waves-server/internal/reaction"
)

// MirrorResult is the relay outcome of a mirror.
type MirrorResult struct {
	TxHash string
	TxID   string
}

// React adds an upvote or downvote on publication id.
func (c *Client) React(ctx context.Context, token, id string, kind reaction.Kind) error {
	if token == "" {
		return fmt.Errorf("addReaction: %w", ErrUnauthenticated)
	}
	switch kind {
	case reaction.Upvote, reaction.Downvote:
	default:
		return fmt.Errorf("addReaction: unsupported reaction %q", kind)
	}
	vars := map[string]any{"id": id, "reaction": string(kind)}
	return c.run(ctx, c.mutate, "addReaction", token, mutationAddReaction, vars, nil)
}

// Mirror re-shares publication id through the profile manager relay.
func (c *Client) Mirror(ctx context.Context, token, id string) (*MirrorResult, error) {
	if token == "" {
		return nil, fmt.Errorf("mirrorOnchain: %w", ErrUnauthenticated)
	}
	var res struct {
		Result struct {
			Typename string `json:"__typename"`
			TxHash   string `json:"txHash"`
			TxID     string `json:"txId"`
			Reason   string `json:"reason"`
		} `json:"result"`
	}
	if err := c.run(ctx, c.mutate, "mirrorOnchain", token, mutationMirror, map[string]any{"id": id}, &res); err != nil {
		return nil, err
	}
	if res.Result.Typename == "LensProfileManagerRelayError" {
		return nil, fmt.Errorf("mirrorOnchain: relay error %s", res.Result.Reason)
	}
	return &MirrorResult{TxHash: res.Result.TxHash, TxID: res.Result.TxID}, nil
}
