package lens

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Challenge is the text a wallet must sign to log in.
type Challenge struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Tokens are the credentials returned by authenticate.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Challenge asks the API for a login challenge for address acting as profileID.
func (c *Client) Challenge(ctx context.Context, address, profileID string) (*Challenge, error) {
	var res struct {
		Result Challenge `json:"result"`
	}
	vars := map[string]any{"address": address}
	if profileID != "" {
		vars["profileId"] = profileID
	}
	if err := c.run(ctx, c.query, "challenge", "", queryChallenge, vars, &res); err != nil {
		return nil, err
	}
	if res.Result.ID == "" || res.Result.Text == "" {
		return nil, fmt.Errorf("challenge: empty response")
	}
	return &res.Result, nil
}

// Authenticate exchanges a signed challenge for tokens.
func (c *Client) Authenticate(ctx context.Context, challengeID, signature string) (*Tokens, error) {
	var res struct {
		Result Tokens `json:"result"`
	}
	vars := map[string]any{"id": challengeID, "signature": signature}
	if err := c.run(ctx, c.mutate, "authenticate", "", mutationAuthenticate, vars, &res); err != nil {
		return nil, err
	}
	if res.Result.AccessToken == "" {
		return nil, fmt.Errorf("authenticate: %w", ErrUnauthenticated)
	}
	return &res.Result, nil
}

// Revoke invalidates the authorization behind accessToken.
func (c *Client) Revoke(ctx context.Context, accessToken string) error {
	authID := AuthorizationID(accessToken)
	if authID == "" {
		return fmt.Errorf("revokeAuthentication: token has no authorizationId")
	}
	return c.run(ctx, c.mutate, "revokeAuthentication", accessToken, mutationRevoke,
		map[string]any{"authorizationId": authID}, nil)
}

// AuthorizationID reads the authorizationId claim from a Lens access token
// without verifying it. The API verifies the token on every call.
func AuthorizationID(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ""
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return ""
	}
	return gjson.GetBytes(payload, "authorizationId").String()
}
