package auth

import (
	"testing"
	"time"
)

func TestCSRFRoundTrip(t *testing.T) {
	c, err := NewCSRF("secret")
	if err != nil {
		t.Fatal(err)
	}
	tok := c.Token("sess-1")
	if !c.Valid("sess-1", tok) {
		t.Fatal("fresh token rejected")
	}
	if c.Valid("sess-2", tok) {
		t.Fatal("token accepted for another session")
	}
}

func TestCSRFRejects(t *testing.T) {
	c, _ := NewCSRF("secret")
	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }
	tok := c.Token("s")

	tests := []struct {
		name  string
		token string
		at    time.Time
	}{
		{"expired", tok, now.Add(CSRFTokenMaxAge + time.Second)},
		{"from the future", tok, now.Add(-time.Minute)},
		{"no separator", "abc", now},
		{"bad timestamp", "x.sig", now},
		{"tampered signature", tok + "x", now},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			at := tc.at
			c.now = func() time.Time { return at }
			if c.Valid("s", tc.token) {
				t.Errorf("token %q accepted", tc.token)
			}
		})
	}
}

func TestCSRFRandomSecret(t *testing.T) {
	a, _ := NewCSRF("")
	b, _ := NewCSRF("")
	if b.Valid("s", a.Token("s")) {
		t.Fatal("random secrets should differ")
	}
}
