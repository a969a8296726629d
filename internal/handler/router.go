/*
Package handler provides the HTTP and WebSocket surface of the chat service:
the chi routing table, authentication endpoints, the message CRUD endpoints
backed by the ingress pipeline, file uploads, and the live channel upgrade.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"groupchat/internal/pkg/auth/jwt"
	"groupchat/internal/pkg/limiter"
	"groupchat/internal/pkg/logx"
	"groupchat/internal/pkg/resp"
)

// Per-IP rate budgets. Account creation is expensive, sign-in and live
// connects less so.
const (
	RegisterRate  = 0.05
	RegisterBurst = 2
	LoginRate     = 0.2
	LoginBurst    = 5
	ConnectRate   = 0.5
	ConnectBurst  = 5
)

// Router assembles the routing table with CORS, request logging, identity
// extraction and per-route rate limits.
func Router(deps *AppDeps) http.Handler {
	registerLimiter := limiter.NewIPRateLimiter(rate.Limit(RegisterRate), RegisterBurst)
	loginLimiter := limiter.NewIPRateLimiter(rate.Limit(LoginRate), LoginBurst)
	connectLimiter := limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.IsDevelopment() {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: origin not allowed", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]string{
			"status":  "ok",
			"service": "groupchat",
		})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		api.Route("/auth", func(auth chi.Router) {
			auth.With(registerLimiter.Middleware).Post("/register", HandleRegister(deps))
			auth.With(loginLimiter.Middleware).Post("/login", HandleLogin(deps))
			auth.Get("/logout", HandleLogout(deps))
		})

		api.Route("/messages", func(messages chi.Router) {
			messages.Get("/", HandleListMessages(deps))
			messages.Post("/", HandleCreateMessage(deps))
			messages.Put("/{id}", HandleEditMessage(deps))
			messages.Delete("/{id}", HandleDeleteMessage(deps))
			messages.Delete("/", HandleClearOwnMessages(deps))
		})

		api.Post("/upload", HandleUpload(deps))
		api.Get("/online-users", HandleOnlineUsers(deps))
	})

	r.Get("/ws", HandleWebSocket(upgrader, connectLimiter, deps))

	return r
}
