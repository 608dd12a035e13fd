package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CSRFTokenMaxAge is how long a form stays submittable after render.
const CSRFTokenMaxAge = time.Hour

// CSRF issues and checks form tokens bound to a session ID.
// Token format: unix-timestamp "." base64url(HMAC-SHA256(sessionID "." timestamp)).
type CSRF struct {
	secret []byte
	now    func() time.Time
}

// NewCSRF uses secret when non-empty and a random 32-byte key otherwise,
// in which case tokens do not survive a restart.
func NewCSRF(secret string) (*CSRF, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate CSRF secret: %w", err)
		}
	}
	return &CSRF{secret: key, now: time.Now}, nil
}

// Token returns a fresh token for sessionID.
func (c *CSRF) Token(sessionID string) string {
	ts := c.now().Unix()
	return strconv.FormatInt(ts, 10) + "." + c.sign(sessionID, ts)
}

// Valid reports whether token was issued for sessionID and has not expired.
func (c *CSRF) Valid(sessionID, token string) bool {
	tsPart, sig, ok := strings.Cut(token, ".")
	if !ok || sessionID == "" {
		return false
	}
	ts, err := strconv.ParseInt(tsPart, 10, 64)
	if err != nil {
		return false
	}
	age := c.now().Unix() - ts
	if age < 0 || age > int64(CSRFTokenMaxAge.Seconds()) {
		return false
	}
	return hmac.Equal([]byte(sig), []byte(c.sign(sessionID, ts)))
}

func (c *CSRF) sign(sessionID string, ts int64) string {
	h := hmac.New(sha256.New, c.secret)
	fmt.Fprintf(h, "%s.%d", sessionID, ts)
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
