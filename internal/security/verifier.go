package security

import "github.com/flashboard/board-service/internal/domain"

type TokenVerifier interface {
	Verify(token string) (Claims, error)
}

type TokenIssuer interface {
	Issue(u domain.User) (string, error)
}
