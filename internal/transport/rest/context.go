package rest

import (
	"context"

	"github.com/flashboard/board-service/internal/security"
)

type ctxKeyClaims struct{}

func withClaims(ctx context.Context, c security.Claims) context.Context {
	return context.WithValue(ctx, ctxKeyClaims{}, c)
}

// GetClaims returns the verified identity claims for the request, if any.
func GetClaims(ctx context.Context) (security.Claims, bool) {
	c, ok := ctx.Value(ctxKeyClaims{}).(security.Claims)
	return c, ok
}
