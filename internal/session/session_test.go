package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"waves-server/internal/reaction"
)

func TestLabelFallbacks(t *testing.T) {
	tests := []struct {
		name string
		s    Session
		want string
	}{
		{"display name", Session{DisplayName: "Alice", FullHandle: "lens/alice", ProfileID: "0x1", WalletAddress: "0xabc"}, "Alice"},
		{"full handle", Session{FullHandle: "lens/alice", ProfileID: "0x1"}, "lens/alice"},
		{"profile id", Session{ProfileID: "0x1", WalletAddress: "0xabc"}, "0x1"},
		{"address", Session{WalletAddress: "0xabc"}, "0xabc"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.s.Label(); got != tc.want {
				t.Errorf("Label() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestHasSigner(t *testing.T) {
	var nilSess *Session
	if nilSess.HasSigner(137) {
		t.Error("nil session has no signer")
	}
	s := &Session{WalletAddress: "0xabc", ChainID: 1}
	if s.HasSigner(137) {
		t.Error("wrong chain should not count as signer")
	}
	s.ChainID = 137
	if !s.HasSigner(137) {
		t.Error("bound wallet on chain should be a signer")
	}
}

func TestBindWalletClearsAuthOnChange(t *testing.T) {
	s := New(time.Now())
	s.BindWallet("0xAbC", 137)
	s.Authenticated = true
	s.AccessToken = "tok"

	s.BindWallet("0xabc", 137)
	if !s.Authenticated {
		t.Fatal("rebinding the same address should keep auth")
	}
	s.BindWallet("0xdef", 137)
	if s.Authenticated || s.AccessToken != "" {
		t.Fatal("binding a different address should clear auth")
	}
}

func TestShortAddress(t *testing.T) {
	s := Session{WalletAddress: "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"}
	if got := s.ShortAddress(); got != "0x2c75…5c23" {
		t.Errorf("ShortAddress = %q", got)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(time.Hour)

	if _, err := st.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing: err = %v", err)
	}

	s := New(time.Now())
	s.WalletAddress = "0xabc"
	s.Reactions.Begin("p1", false, time.Now())
	if err := st.Save(ctx, s); err != nil {
		t.Fatal(err)
	}

	got, err := st.Get(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.WalletAddress != "0xabc" {
		t.Errorf("WalletAddress = %q", got.WalletAddress)
	}
	if got.Reactions["p1"].Phase != reaction.Pending {
		t.Errorf("reaction state not persisted: %+v", got.Reactions["p1"])
	}

	// Mutating the loaded copy must not affect the stored one
	got.WalletAddress = "0xother"
	again, _ := st.Get(ctx, s.ID)
	if again.WalletAddress != "0xabc" {
		t.Error("store returned shared state")
	}

	st.Delete(ctx, s.ID)
	if _, err := st.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("after delete: err = %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	st := NewMemoryStore(time.Minute)
	st.now = func() time.Time { return now }

	s := New(now)
	st.Save(ctx, s)
	now = now.Add(2 * time.Minute)
	if _, err := st.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired session: err = %v", err)
	}
	if st.Len() != 0 {
		t.Error("expired session not removed")
	}
}

func TestRedisStoreKey(t *testing.T) {
	st := NewRedisStore(nil, "waves:", time.Hour)
	if got := st.key("abc"); got != "waves:session:abc" {
		t.Errorf("key = %q", got)
	}
}
