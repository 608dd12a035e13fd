package auth

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

const (
	testPrivKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	testAddress = "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"
)

func testKey(t *testing.T) *btcec.PrivateKey {
	t.Helper()
	b, err := hex.DecodeString(testPrivKey)
	if err != nil {
		t.Fatal(err)
	}
	priv, _ := btcec.PrivKeyFromBytes(b)
	return priv
}

// personalSign produces a wallet-style r||s||v signature with v in {27,28}.
func personalSign(t *testing.T, priv *btcec.PrivateKey, message string) string {
	t.Helper()
	compact := ecdsa.SignCompact(priv, PersonalMessageHash(message), false)
	sig := make([]byte, 65)
	copy(sig, compact[1:])
	sig[64] = compact[0]
	return "0x" + hex.EncodeToString(sig)
}

func TestKeccak256Empty(t *testing.T) {
	got := hex.EncodeToString(Keccak256(nil))
	if got != "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470" {
		t.Errorf("keccak256('') = %s", got)
	}
}

func TestPersonalMessageHash(t *testing.T) {
	got := hex.EncodeToString(PersonalMessageHash("Hello World"))
	if got != "a1de988600a42c4b4ab089b619297c17d53cffae5d5120d82d8a92d0bb3b78f2" {
		t.Errorf("hash = %s", got)
	}
}

func TestAddressFromPubKey(t *testing.T) {
	if got := AddressFromPubKey(testKey(t).PubKey()); got != testAddress {
		t.Errorf("address = %s, want %s", got, testAddress)
	}
}

func TestRecoverAddress(t *testing.T) {
	priv := testKey(t)
	msg := "Sign in with Lens\nnonce: 42"
	sig := personalSign(t, priv, msg)

	got, err := RecoverAddress(msg, sig)
	if err != nil {
		t.Fatalf("RecoverAddress: %v", err)
	}
	if got != testAddress {
		t.Errorf("recovered %s, want %s", got, testAddress)
	}

	// v as 0/1 is accepted too
	raw, _ := hex.DecodeString(strings.TrimPrefix(sig, "0x"))
	raw[64] -= 27
	if got, err := RecoverAddress(msg, hex.EncodeToString(raw)); err != nil || got != testAddress {
		t.Errorf("recid form: %s, %v", got, err)
	}
}

func TestVerifySigner(t *testing.T) {
	priv := testKey(t)
	sig := personalSign(t, priv, "challenge")

	if err := VerifySigner(strings.ToLower(testAddress), "challenge", sig); err != nil {
		t.Errorf("matching signer rejected: %v", err)
	}
	if err := VerifySigner(testAddress, "different text", sig); !errors.Is(err, ErrSignerMismatch) {
		t.Errorf("tampered message: err = %v", err)
	}
	if err := VerifySigner(testAddress, "challenge", "0x1234"); !errors.Is(err, ErrBadSignature) {
		t.Errorf("short signature: err = %v", err)
	}
}

func TestChecksumAddress(t *testing.T) {
	tests := []struct{ in, want string }{
		{strings.ToLower(testAddress), testAddress},
		{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"},
		{"not-an-address", "not-an-address"},
	}
	for _, tc := range tests {
		if got := ChecksumAddress(tc.in); got != tc.want {
			t.Errorf("ChecksumAddress(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidAddress(t *testing.T) {
	if !ValidAddress(testAddress) {
		t.Error("valid address rejected")
	}
	for _, bad := range []string{"", "0x123", "2c7536E3605D9C16a7a3D7b1898e529396a65c23aa", "0xZZ7536E3605D9C16a7a3D7b1898e529396a65c23"} {
		if ValidAddress(bad) {
			t.Errorf("ValidAddress(%q) = true", bad)
		}
	}
}
