package usecase

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureHeader carries the hex HMAC of the raw webhook body
const SignatureHeader = "X-Webhook-Signature"

// Sign returns the hex HMAC-SHA256 of body keyed by secret
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook signature.
// An empty secret disables checking and always returns true.
func VerifySignature(body []byte, signature, secret string) bool {
	if secret == "" {
		return true
	}
	expected := Sign(body, secret)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}
