package auth

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes sets up the authentication routes
func (a *Auth) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register", a.RegisterHandler)
	r.Post("/auth/login", a.LoginHandler)
	r.Post("/auth/refresh", a.RefreshHandler)
	r.Post("/auth/logout", a.LogoutHandler)
	r.Post("/auth/request-reset-email", a.RequestResetEmailHandler)
	r.Post("/auth/reset-password", a.ResetPasswordHandler)
}
