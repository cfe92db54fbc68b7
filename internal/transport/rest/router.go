package rest

import (
	"net/http"

	"github.com/glossa-app/glossa-backend/internal/transport/middleware"
)

// Handlers bundles the endpoint handlers wired into the router.
type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Conversation *ConversationHandler
	Chat         *ChatHandler
	Language     *LanguageHandler
	Speech       *SpeechHandler
	Health       *HealthHandler
}

// RouterDeps carries the cross-cutting pieces the router needs besides the
// handlers themselves.
type RouterDeps struct {
	RateLimiter   *middleware.RateLimiter
	AuthPerMinute int
}

// NewRouter builds the HTTP routing table. The base middleware chain
// (request ID, logging, recovery, CORS, token parsing) wraps every route;
// protected routes additionally require an authenticated user and auth
// routes are rate limited per IP.
func NewRouter(h Handlers, deps RouterDeps, base middleware.Middleware) http.Handler {
	mux := http.NewServeMux()

	requireAuth := func(hf http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(hf)
	}
	limited := deps.RateLimiter.Limit(deps.AuthPerMinute)
	limitedFunc := func(hf http.HandlerFunc) http.Handler {
		return limited(hf)
	}

	// Health probes.
	mux.HandleFunc("GET /api/health", h.Health.Health)
	mux.HandleFunc("GET /api/ready", h.Health.Ready)

	// Account lifecycle. All rate limited: they either do crypto work or
	// send email.
	mux.Handle("POST /auth/register", limitedFunc(h.Auth.Register))
	mux.Handle("POST /auth/jwt/login", limitedFunc(h.Auth.Login))
	mux.Handle("POST /auth/jwt/refresh", limitedFunc(h.Auth.Refresh))
	mux.Handle("POST /auth/jwt/logout", requireAuth(h.Auth.Logout))
	mux.Handle("GET /auth/verify", limitedFunc(h.Auth.Verify))
	mux.Handle("POST /auth/verify/resend", limitedFunc(h.Auth.ResendVerification))
	mux.Handle("POST /auth/forgot-password", limitedFunc(h.Auth.ForgotPassword))
	mux.Handle("POST /auth/reset-password", limitedFunc(h.Auth.ResetPassword))

	// Profile.
	mux.Handle("GET /users/me", requireAuth(h.User.Me))
	mux.Handle("PATCH /users/me", requireAuth(h.User.UpdateMe))

	// Conversations.
	mux.Handle("POST /conversations", requireAuth(h.Conversation.Create))
	mux.Handle("GET /conversations", requireAuth(h.Conversation.List))
	mux.Handle("GET /conversations/{id}", requireAuth(h.Conversation.Get))
	mux.Handle("DELETE /conversations/{id}", requireAuth(h.Conversation.Delete))

	// Conversation turns.
	mux.Handle("POST /chat", requireAuth(h.Chat.Stream))
	mux.Handle("POST /voice-turn", requireAuth(h.Chat.VoiceTurn))

	// Translation catalog is public; the frontend needs it pre-login.
	mux.HandleFunc("GET /languages", h.Language.Languages)
	mux.HandleFunc("POST /languages/translate", h.Language.Translate)

	// Speech.
	mux.Handle("POST /stt", requireAuth(h.Speech.Transcribe))
	mux.Handle("POST /tts", requireAuth(h.Speech.Synthesize))

	return base(mux)
}
