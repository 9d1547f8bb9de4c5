package security

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/flashboard/board-service/internal/domain"
)

// TokenTTL is the fixed validity window of issued tokens.
const TokenTTL = 24 * time.Hour

// TokenGate issues and verifies HS256-signed identity tokens. The secret is
// injected at construction and read-only afterwards, so the gate is safely
// callable concurrently without synchronization.
type TokenGate struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

func NewTokenGate(secret, issuer, audience string) *TokenGate {
	return &TokenGate{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}
}

type accessClaims struct {
	UserID         string `json:"userID"`
	Username       string `json:"username"`
	Mail           string `json:"mail"`
	IsEmailVisible bool   `json:"isEmailVisible"`
	jwt.RegisteredClaims
}

// Issue signs a self-describing token carrying the user's public profile
// fields plus issuance and expiry times.
func (g *TokenGate) Issue(u domain.User) (string, error) {
	now := g.now()
	claims := accessClaims{
		UserID:         u.ID.String(),
		Username:       u.Username,
		Mail:           u.Mail,
		IsEmailVisible: u.IsEmailVisible,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Audience:  jwt.ClaimStrings{g.audience},
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(g.secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded claims
// unchanged. Defects are classified as missing, malformed, expired, or
// signature-invalid.
func (g *TokenGate) Verify(token string) (Claims, error) {
	if strings.TrimSpace(token) == "" {
		return Claims{}, domain.ErrTokenMissing()
	}

	parsed, err := jwt.ParseWithClaims(token, &accessClaims{}, func(t *jwt.Token) (any, error) {
		// prevent alg confusion
		if t.Method == nil || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, domain.ErrTokenSignatureInvalid()
		}
		return g.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, domain.ErrTokenExpired()
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, domain.ErrTokenSignatureInvalid()
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, domain.ErrTokenMalformed()
		default:
			return Claims{}, domain.ErrTokenMalformed()
		}
	}

	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid {
		return Claims{}, domain.ErrTokenMalformed()
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Claims{}, domain.ErrTokenMalformed()
	}

	out := Claims{
		SubjectID:      uid,
		Username:       claims.Username,
		Mail:           claims.Mail,
		IsEmailVisible: claims.IsEmailVisible,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
