package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/flashboard/board-service/internal/domain"
	"github.com/flashboard/board-service/internal/security"
)

type RouterDeps struct {
	Board    *BoardHandler
	Users    *UserHandler
	Verifier security.TokenVerifier

	// Rate limiting is disabled when Cache is nil or RLLimit <= 0.
	Cache    domain.CacheRepository
	RLLimit  int
	RLWindow time.Duration
}

func NewRouter(d RouterDeps) http.Handler {
	if d.Board == nil {
		panic("rest.NewRouter: nil board handler")
	}
	if d.Users == nil {
		panic("rest.NewRouter: nil users handler")
	}
	if d.Verifier == nil {
		panic("rest.NewRouter: nil verifier")
	}

	r := chi.NewRouter()

	// Request ID + structured access log
	r.Use(RequestID)
	r.Use(HTTPLogger)

	// Panic recovery
	r.Use(middleware.Recoverer)

	// Cross-cutting
	if d.Cache != nil && d.RLLimit > 0 {
		r.Use(RateLimit(d.Cache, d.RLLimit, d.RLWindow))
	}
	r.Use(SecurityHeaders)

	// Public surface
	r.Post("/user/register", d.Users.Register)
	r.Post("/user/login", d.Users.Login)
	r.Get("/infos", d.Board.List)
	r.Get("/infos/", d.Board.List)
	r.Get("/infos/user/{id}", d.Board.ListByOwner)
	r.Get("/users", d.Users.List)
	r.Get("/user/id/{id}", d.Users.GetByID)
	r.Get("/user/name/{name}", d.Users.GetByName)

	// Token-gated surface
	r.Group(func(r chi.Router) {
		r.Use(TokenAuth(d.Verifier))

		r.Post("/infos", d.Board.Create)
		r.Post("/infos/update/{id}", d.Board.Update)
		r.Delete("/infos/delete/{id}", d.Board.Delete)

		r.Post("/infos/{id}/join", d.Board.Join)
		r.Post("/infos/{id}/leave", d.Board.Leave)
		r.Post("/infos/{id}/{votetype}", d.Board.Vote)

		r.Post("/user/update", d.Users.Update)
		r.Delete("/user/delete/", d.Users.Delete)
	})

	return r
}
