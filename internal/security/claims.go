package security

import (
	"time"

	"github.com/google/uuid"
)

// Claims is the verified identity payload extracted from a token. It is
// produced once per verification and consumed read-only within the request.
type Claims struct {
	SubjectID      uuid.UUID
	Username       string
	Mail           string
	IsEmailVisible bool
	IssuedAt       time.Time
	ExpiresAt      time.Time
}
