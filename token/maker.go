package token

import (
	"time"

	"municipal-portal-backend/db/models"
)

// Maker is a contract for anything that can create and verify tokens.
// Allows swapping token implementations without touching the rest of the
// application logic.
type Maker interface {
	CreateToken(userID string, email string, role models.Role, duration time.Duration) (string, error)

	VerifyToken(token string) (*Payload, error)
}
