package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"municipal-portal-backend/db/models"
)

// GenerateApplicationCode allocates the human-readable unique code
// {PREFIX}-{6-digit-timestamp}-{6-hex-random}. The random suffix keeps
// codes unique even when concurrent submissions of the same type land on
// the same second.
func GenerateApplicationCode(docType models.DocumentType) (string, error) {
	prefix, ok := models.CodePrefixes[docType]
	if !ok {
		return "", fmt.Errorf("unknown document type: %s", docType)
	}

	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("failed to generate code suffix: %w", err)
	}

	stamp := time.Now().Unix() % 1_000_000
	return fmt.Sprintf("%s-%06d-%s", prefix, stamp, hex.EncodeToString(suffix)), nil
}
