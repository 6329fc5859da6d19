package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// URLSigner mints and verifies time-limited download URLs. The signature
// is an HMAC-SHA256 over key and expiry, so possession of a URL grants
// access to exactly one object until the deadline.
type URLSigner struct {
	secret  []byte
	baseURL string

	cache      map[string]*cachedURL
	cacheMutex sync.RWMutex
}

type cachedURL struct {
	URL       string
	ExpiresAt time.Time
}

func NewURLSigner(secret, baseURL string) (*URLSigner, error) {
	if secret == "" {
		return nil, fmt.Errorf("signing secret is required")
	}

	s := &URLSigner{
		secret:  []byte(secret),
		baseURL: baseURL,
		cache:   make(map[string]*cachedURL),
	}
	s.startCacheCleanup()
	return s, nil
}

// Sign returns a signed URL for the key, valid for ttl. Repeated calls
// with the same key and ttl are served from an in-process cache until
// the cached URL itself expires; entries are tiny and self-expiring.
func (s *URLSigner) Sign(key string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", fmt.Errorf("object key is required")
	}

	cacheKey := fmt.Sprintf("%s|%d", key, int64(ttl.Seconds()))
	if cached := s.fromCache(cacheKey); cached != "" {
		return cached, nil
	}

	expires := time.Now().Add(ttl).Unix()
	signature := s.signature(key, expires)

	signed := fmt.Sprintf("%s/api/v1/files/serve?key=%s&expires=%d&signature=%s",
		s.baseURL, url.QueryEscape(key), expires, signature)

	s.cacheURL(cacheKey, signed, time.Unix(expires, 0))
	return signed, nil
}

// Verify checks a presented key/expires/signature triple. Tampering with
// either the key or the expiry invalidates the signature.
func (s *URLSigner) Verify(key string, expiresStr string, signature string) error {
	expires, err := strconv.ParseInt(expiresStr, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid expiry: %w", err)
	}
	if time.Now().Unix() > expires {
		return fmt.Errorf("signed url has expired")
	}

	expected := s.signature(key, expires)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("invalid signature")
	}
	return nil
}

func (s *URLSigner) signature(key string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%d", key, expires)
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *URLSigner) fromCache(cacheKey string) string {
	s.cacheMutex.RLock()
	defer s.cacheMutex.RUnlock()

	if cached, exists := s.cache[cacheKey]; exists {
		if time.Now().Before(cached.ExpiresAt) {
			return cached.URL
		}
	}
	return ""
}

func (s *URLSigner) cacheURL(cacheKey, signed string, expiresAt time.Time) {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()

	s.cache[cacheKey] = &cachedURL{
		URL:       signed,
		ExpiresAt: expiresAt,
	}
}

func (s *URLSigner) startCacheCleanup() {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			s.cleanupExpiredCache()
		}
	}()
}

func (s *URLSigner) cleanupExpiredCache() {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()

	now := time.Now()
	for key, cached := range s.cache {
		if now.After(cached.ExpiresAt) {
			delete(s.cache, key)
		}
	}
}
