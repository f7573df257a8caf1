package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dailyreadnest/backend/internal/middleware"
)

// RouterConfig carries everything the HTTP surface needs.
type RouterConfig struct {
	Logger         *slog.Logger
	Verifier       middleware.TokenVerifier
	Users          UserStore
	Directory      UserDirectory
	Sessions       SessionManager
	Social         SocialStore
	Blogs          BlogStore
	Images         ImageStorage
	LoginLimiter   RateLimiter
	AllowedOrigins []string
}

// NewRouter wires every endpoint onto a chi router.
func NewRouter(cfg RouterConfig) http.Handler {
	auth := AuthHandler{Users: cfg.Users, Sessions: cfg.Sessions, Limiter: cfg.LoginLimiter}
	profile := ProfileHandler{Users: cfg.Users, Directory: cfg.Directory, Images: cfg.Images}
	friends := FriendHandler{Users: cfg.Users, Social: cfg.Social}
	blogs := BlogHandler{Social: cfg.Social, Blogs: cfg.Blogs}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.Get("/healthz", HealthHandler{}.Handle)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", auth.Register)
		r.Post("/auth/login", auth.Login)
		r.Post("/auth/refresh", auth.Refresh)
		r.Post("/auth/logout", auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(cfg.Verifier))

			r.Get("/users", profile.List)
			r.Get("/users/me", profile.Me)
			r.Put("/users/me", profile.Update)
			r.Post("/users/me/photo", profile.UploadPhoto)
			r.Post("/users/me/background", profile.UploadBackground)

			r.Get("/friends", friends.List)
			r.Get("/friends/requests", friends.Requests)
			r.Post("/friends/requests/{userID}", friends.Send)
			r.Post("/friends/requests/{userID}/accept", friends.Accept)
			r.Delete("/friends/{userID}", friends.Remove)

			r.Get("/blogs", blogs.ListOwn)
			r.Post("/blogs", blogs.Create)
			r.Put("/blogs/{blogID}", blogs.Update)
			r.Delete("/blogs/{blogID}", blogs.Delete)
			r.Get("/users/{userID}/blogs", blogs.ListUser)
			r.Post("/users/{userID}/blogs/{blogID}/comments", blogs.AddComment)
		})
	})

	return r
}
