package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"enrolinvitation/internal/delivery/http/controllers"
	"enrolinvitation/internal/delivery/http/middleware"
	"enrolinvitation/internal/domain"
)

// RouterConfig carries the cross-cutting pieces the routes are wrapped with.
type RouterConfig struct {
	Verifier       domain.TokenVerifier
	Limiter        *middleware.ClientRateLimiter
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter initializes the HTTP router with all application routes and wraps it
// with request logging and CORS.
func NewRouter(cfg RouterConfig, invitations *controllers.InvitationController) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)
	optional := middleware.OptionalAuth(cfg.Verifier, cfg.Logger)
	limited := middleware.RateLimit(cfg.Limiter)

	// Course administration
	mux.HandleFunc("GET /courses/{courseID}/invitations", auth(invitations.ListInvitations))
	mux.HandleFunc("POST /courses/{courseID}/invitations", auth(invitations.SendInvitation))
	mux.HandleFunc("POST /courses/{courseID}/invitations/{invitationID}/resend", auth(invitations.ResendInvitation))
	mux.HandleFunc("DELETE /courses/{courseID}/invitations/{invitationID}", auth(invitations.RevokeInvitation))

	// Recipient flow
	mux.HandleFunc("GET /invitations/{token}", limited(optional(invitations.ViewInvitation)))
	mux.HandleFunc("POST /invitations/{token}/accept", limited(auth(invitations.AcceptInvitation)))
	mux.HandleFunc("POST /invitations/{token}/reject", limited(optional(invitations.RejectInvitation)))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(cfg.Logger, middleware.CORS(cfg.AllowedOrigins, mux))
}
