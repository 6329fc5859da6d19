package services

import (
	"regexp"
	"sync"
	"testing"

	"municipal-portal-backend/db/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^[A-Z]{2,3}-\d{6}-[0-9a-f]{6}$`)

func TestGenerateApplicationCodeFormat(t *testing.T) {
	for _, dt := range models.AllDocumentTypes {
		code, err := GenerateApplicationCode(dt)
		require.NoError(t, err)
		assert.Regexp(t, codePattern, code, string(dt))
	}
}

func TestGenerateApplicationCodeUnknownType(t *testing.T) {
	_, err := GenerateApplicationCode(models.DocumentType("passport"))
	require.Error(t, err)
}

func TestGenerateApplicationCodeUniqueUnderConcurrency(t *testing.T) {
	const n = 1000

	var wg sync.WaitGroup
	codes := make(chan string, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := GenerateApplicationCode(models.BirthCertificate)
			if err == nil {
				codes <- code
			}
		}()
	}
	wg.Wait()
	close(codes)

	seen := make(map[string]struct{}, n)
	for code := range codes {
		_, dup := seen[code]
		require.False(t, dup, "duplicate code %s", code)
		seen[code] = struct{}{}
	}
	assert.Len(t, seen, n)
}
