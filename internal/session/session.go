// Package session holds per-browser state: the bound wallet, the Lens
// authentication and the viewer's in-flight reactions.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"waves-server/internal/reaction"
)

// CookieName is the cookie carrying the session ID.
const CookieName = "waves_session"

var ErrNotFound = errors.New("session not found")

// Session is the state of one browser session.
type Session struct {
	ID string `json:"id"`

	// Signer: the wallet bound to this session and the chain it is on.
	WalletAddress string `json:"wallet_address,omitempty"`
	ChainID       int64  `json:"chain_id,omitempty"`

	Authenticated bool   `json:"authenticated"`
	ProfileID     string `json:"profile_id,omitempty"`
	Handle        string `json:"handle,omitempty"`
	FullHandle    string `json:"full_handle,omitempty"`
	DisplayName   string `json:"display_name,omitempty"`
	AvatarURI     string `json:"avatar_uri,omitempty"`
	AccessToken   string `json:"access_token,omitempty"`
	RefreshToken  string `json:"refresh_token,omitempty"`

	LogoutPending bool `json:"logout_pending,omitempty"`

	// Outstanding Lens login challenge.
	ChallengeID        string `json:"challenge_id,omitempty"`
	ChallengeText      string `json:"challenge_text,omitempty"`
	ChallengeProfileID string `json:"challenge_profile_id,omitempty"`

	Reactions reaction.Ledger `json:"reactions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New returns an empty session with a fresh random ID.
func New(now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Reactions: reaction.NewLedger(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// init fills maps that JSON decoding leaves nil.
func (s *Session) init() {
	if s.Reactions == nil {
		s.Reactions = reaction.NewLedger()
	}
}

// HasSigner reports whether a wallet is bound on the given chain.
func (s *Session) HasSigner(chainID int64) bool {
	return s != nil && s.WalletAddress != "" && s.ChainID == chainID
}

// Label is the name shown in the identity control:
// display name, then full handle, then profile ID, then wallet address.
func (s *Session) Label() string {
	switch {
	case s.DisplayName != "":
		return s.DisplayName
	case s.FullHandle != "":
		return s.FullHandle
	case s.ProfileID != "":
		return s.ProfileID
	}
	return s.WalletAddress
}

// ShortAddress abbreviates the wallet address as 0x1234…abcd.
func (s *Session) ShortAddress() string {
	a := s.WalletAddress
	if len(a) <= 10 {
		return a
	}
	return a[:6] + "…" + a[len(a)-4:]
}

// BindWallet attaches a signer. Changing the address drops any Lens login
// made with the previous wallet.
func (s *Session) BindWallet(address string, chainID int64) {
	if !strings.EqualFold(s.WalletAddress, address) {
		s.ClearAuth()
	}
	s.WalletAddress = address
	s.ChainID = chainID
}

// UnbindWallet removes the signer and everything tied to it.
func (s *Session) UnbindWallet() {
	s.ClearAuth()
	s.WalletAddress = ""
	s.ChainID = 0
}

// ClearAuth drops the Lens login but keeps the wallet binding.
func (s *Session) ClearAuth() {
	s.Authenticated = false
	s.ProfileID = ""
	s.Handle = ""
	s.FullHandle = ""
	s.DisplayName = ""
	s.AvatarURI = ""
	s.AccessToken = ""
	s.RefreshToken = ""
	s.LogoutPending = false
	s.ChallengeID = ""
	s.ChallengeText = ""
	s.ChallengeProfileID = ""
	s.Reactions = reaction.NewLedger()
}

// Store persists sessions.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
