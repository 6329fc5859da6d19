package storage

import (
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedParts(t *testing.T, signed string) (key, expires, signature string) {
	t.Helper()
	parsed, err := url.Parse(signed)
	require.NoError(t, err)
	q := parsed.Query()
	return q.Get("key"), q.Get("expires"), q.Get("signature")
}

func TestSignAndVerify(t *testing.T) {
	signer, err := NewURLSigner("secret", "http://localhost:8080")
	require.NoError(t, err)

	signed, err := signer.Sign("verified/abc.jpg", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(signed, "http://localhost:8080/api/v1/files/serve?"))

	key, expires, signature := signedParts(t, signed)
	assert.Equal(t, "verified/abc.jpg", key)
	require.NoError(t, signer.Verify(key, expires, signature))
}

func TestVerifyRejectsTamperedKey(t *testing.T) {
	signer, err := NewURLSigner("secret", "http://localhost:8080")
	require.NoError(t, err)

	signed, err := signer.Sign("verified/abc.jpg", 10*time.Minute)
	require.NoError(t, err)

	_, expires, signature := signedParts(t, signed)
	assert.Error(t, signer.Verify("certificate/other.pdf", expires, signature))
}

func TestVerifyRejectsExtendedExpiry(t *testing.T) {
	signer, err := NewURLSigner("secret", "http://localhost:8080")
	require.NoError(t, err)

	signed, err := signer.Sign("verified/abc.jpg", 10*time.Minute)
	require.NoError(t, err)

	key, _, signature := signedParts(t, signed)
	farFuture := fmt.Sprintf("%d", time.Now().Add(24*time.Hour).Unix())
	assert.Error(t, signer.Verify(key, farFuture, signature))
}

func TestVerifyRejectsExpired(t *testing.T) {
	signer, err := NewURLSigner("secret", "http://localhost:8080")
	require.NoError(t, err)

	key := "verified/abc.jpg"
	past := time.Now().Add(-time.Minute).Unix()
	signature := signer.signature(key, past)
	assert.Error(t, signer.Verify(key, fmt.Sprintf("%d", past), signature))
}

func TestSignServesRepeatCallsFromCache(t *testing.T) {
	signer, err := NewURLSigner("secret", "http://localhost:8080")
	require.NoError(t, err)

	first, err := signer.Sign("verified/abc.jpg", 10*time.Minute)
	require.NoError(t, err)
	second, err := signer.Sign("verified/abc.jpg", 10*time.Minute)
	require.NoError(t, err)

	// Identical URL, so identical expiry: served from cache.
	assert.Equal(t, first, second)
}

func TestSignerRequiresSecret(t *testing.T) {
	_, err := NewURLSigner("", "http://localhost:8080")
	require.Error(t, err)
}
