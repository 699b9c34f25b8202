package linewebhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

var (
	// ErrInvalidSignatureFormat indicates the signature header is not valid
	// standard base64. This is a request-rejection condition, distinct from
	// a well-formed signature that simply does not match.
	ErrInvalidSignatureFormat = errors.New("invalid signature format: signature must be base64 encoded")

	// ErrInvalidKey indicates the channel secret could not be used as an
	// HMAC key. This is a configuration error, not a per-request one.
	ErrInvalidKey = errors.New("invalid channel secret key")
)

// ValidateSignature reports whether signature is a valid X-Line-Signature
// for body under channelSecret.
//
// The signature is decoded from standard padded base64, then compared in
// constant time against the HMAC-SHA256 digest of body keyed by
// channelSecret. The result is tri-state: (true, nil) on a match,
// (false, nil) on a well-formed mismatch, and a non-nil error only when the
// signature cannot be decoded (ErrInvalidSignatureFormat) or the key cannot
// be used (ErrInvalidKey). Callers must not treat a mismatch and a malformed
// signature the same way: the former is an expected adversarial outcome, the
// latter a client bug or tampering.
//
// The function is pure and safe for concurrent use from any number of
// request-handling goroutines.
func ValidateSignature(body []byte, channelSecret, signature string) (bool, error) {
	claimed, err := base64.StdEncoding.Strict().DecodeString(signature)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidSignatureFormat, err)
	}

	computed, err := computeSignature(body, channelSecret)
	if err != nil {
		return false, err
	}

	// A length mismatch is a normal negative result, not malformed input.
	if len(claimed) != len(computed) {
		return false, nil
	}

	// XOR-accumulate so comparison time does not depend on where the first
	// differing byte is.
	var diff byte
	for i := range computed {
		diff |= claimed[i] ^ computed[i]
	}

	return diff == 0, nil
}

// computeSignature returns the raw HMAC-SHA256 digest of body keyed by
// channelSecret.
func computeSignature(body []byte, channelSecret string) ([]byte, error) {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	if _, err := mac.Write(body); err != nil {
		// hash.Hash.Write is documented never to fail; kept as a distinct
		// branch so key material problems surface as configuration errors
		// rather than signature mismatches.
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return mac.Sum(nil), nil
}

// Verifier binds a channel secret to the signature validation primitive for
// handler wiring. Verification itself stays a pure function of its inputs.
type Verifier struct {
	channelSecret string
}

// NewVerifier creates a new signature verifier for the given channel secret.
func NewVerifier(channelSecret string) *Verifier {
	return &Verifier{
		channelSecret: channelSecret,
	}
}

// Verify validates the X-Line-Signature header value against the raw
// request body. See ValidateSignature for the outcome contract.
func (v *Verifier) Verify(body []byte, signature string) (bool, error) {
	return ValidateSignature(body, v.channelSecret, signature)
}

// Sign computes the base64-encoded HMAC-SHA256 signature for body, the
// value LINE would send in X-Line-Signature. Useful for building requests
// in tests and local tooling.
func (v *Verifier) Sign(body []byte) (string, error) {
	digest, err := computeSignature(body, v.channelSecret)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(digest), nil
}
