package auth

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"golang.org/x/crypto/sha3"
)

var (
	ErrBadSignature   = errors.New("malformed signature")
	ErrSignerMismatch = errors.New("signature was not made by the bound wallet")
	ErrBadAddress     = errors.New("malformed address")
)

// Keccak256 is the legacy (pre-NIST) Keccak used by Ethereum.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// PersonalMessageHash is the digest a wallet signs for personal_sign.
func PersonalMessageHash(message string) []byte {
	prefix := "\x19Ethereum Signed Message:\n" + strconv.Itoa(len(message))
	return Keccak256([]byte(prefix), []byte(message))
}

// AddressFromPubKey derives the checksummed account address for a key.
func AddressFromPubKey(pub *btcec.PublicKey) string {
	uncompressed := pub.SerializeUncompressed()
	return ChecksumAddress("0x" + hex.EncodeToString(Keccak256(uncompressed[1:])[12:]))
}

// RecoverAddress returns the address that produced sigHex, a 65-byte
// r||s||v personal_sign signature over message.
func RecoverAddress(message, sigHex string) (string, error) {
	sig, err := hex.DecodeString(strings.TrimPrefix(sigHex, "0x"))
	if err != nil || len(sig) != 65 {
		return "", ErrBadSignature
	}
	v := sig[64]
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return "", ErrBadSignature
	}

	// btcec wants [27+recid] || r || s
	compact := make([]byte, 65)
	compact[0] = 27 + v
	copy(compact[1:], sig[:64])

	pub, _, err := ecdsa.RecoverCompact(compact, PersonalMessageHash(message))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	return AddressFromPubKey(pub), nil
}

// VerifySigner checks that sigHex over message was made by address.
func VerifySigner(address, message, sigHex string) error {
	got, err := RecoverAddress(message, sigHex)
	if err != nil {
		return err
	}
	if !strings.EqualFold(got, address) {
		return ErrSignerMismatch
	}
	return nil
}

// ValidAddress reports whether s is a 0x-prefixed 20-byte hex address.
func ValidAddress(s string) bool {
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return false
	}
	_, err := hex.DecodeString(s[2:])
	return err == nil
}

// ChecksumAddress applies EIP-55 mixed-case encoding. Invalid input is
// returned unchanged.
func ChecksumAddress(addr string) string {
	if !ValidAddress(strings.ToLower(addr)) {
		return addr
	}
	lower := strings.ToLower(addr[2:])
	hash := hex.EncodeToString(Keccak256([]byte(lower)))
	out := []byte(lower)
	for i, c := range out {
		if c >= 'a' && c <= 'f' && hash[i] >= '8' {
			out[i] = c - 32
		}
	}
	return "0x" + string(out)
}
