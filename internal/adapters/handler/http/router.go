package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vncsmyrnk/estate/internal/core/ports"
)

func newRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", health)
	return r
}

// NewIdentityHandler serves registration, login, the self-only profile routes
// and the token validation endpoint. resolver authenticates the profile
// routes.
func NewIdentityHandler(userHandler *UserHandler, resolver ports.CallerResolver) http.Handler {
	r := newRouter()

	r.Post("/login", userHandler.Login)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Register)
		r.Get("/validate", userHandler.Validate)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(resolver))
			r.Get("/{id}", userHandler.Get)
			r.Put("/{id}", userHandler.Update)
			r.Delete("/{id}", userHandler.Delete)
		})
	})

	return r
}

// NewListingHandler serves the property routes. Mutating routes resolve the
// caller inside the service, after the property is known to exist.
func NewListingHandler(propertyHandler *PropertyHandler) http.Handler {
	r := newRouter()

	r.Route("/properties", func(r chi.Router) {
		r.Post("/", propertyHandler.Create)
		r.Get("/", propertyHandler.List)
		r.Get("/{id}", propertyHandler.Get)
		r.Put("/{id}", propertyHandler.Update)
		r.Delete("/{id}", propertyHandler.Delete)
	})

	return r
}
