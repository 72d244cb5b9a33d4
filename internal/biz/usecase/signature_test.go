package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature_RoundTrip(t *testing.T) {
	payloads := [][]byte{
		[]byte(`{"event_name":"user_send_group_text"}`),
		[]byte(""),
		[]byte("kiểm tra tồn kho"),
	}
	for _, p := range payloads {
		assert.True(t, VerifySignature(p, Sign(p, "s3cret"), "s3cret"), "payload %q", p)
	}
}

func TestVerifySignature_MutatedByte(t *testing.T) {
	body := []byte(`{"message":{"text":"PNT-0001"}}`)
	sig := Sign(body, "s3cret")

	for i := range body {
		mutated := append([]byte(nil), body...)
		mutated[i] ^= 0x01
		assert.False(t, VerifySignature(mutated, sig, "s3cret"), "mutation at byte %d verified", i)
	}
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	body := []byte("hello")
	assert.False(t, VerifySignature(body, Sign(body, "a"), "b"))
}

func TestVerifySignature_EmptySecretDisablesCheck(t *testing.T) {
	assert.True(t, VerifySignature([]byte("x"), "", ""))
	assert.True(t, VerifySignature([]byte("x"), "garbage", ""))
}

func TestVerifySignature_UppercaseHex(t *testing.T) {
	body := []byte("hello")
	sig := Sign(body, "k")
	upper := []byte(sig)
	for i, c := range upper {
		if c >= 'a' && c <= 'f' {
			upper[i] = c - 32
		}
	}
	assert.True(t, VerifySignature(body, string(upper), "k"))
}
