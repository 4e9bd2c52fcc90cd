package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/camden-git/mediashare/logging"
	"github.com/camden-git/mediashare/metrics"
	"github.com/camden-git/mediashare/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// HealthChecker reports whether the store is reachable.
type HealthChecker func(ctx context.Context) error

type RouterConfig struct {
	CORSAllowedOrigins []string
	RateLimitRequests  int
	RateLimitWindow    time.Duration
	RequestTimeout     time.Duration
}

type Services struct {
	Users      *services.UserService
	Invites    *services.InviteService
	Tokens     TokenParser
	Comments   *services.CommentService
	Favorites  *services.FavoriteService
	Moderation *services.ModerationService
	Albums     *services.AlbumService
	Images     *services.ImageService
	Health     HealthChecker
}

func NewRouter(cfg RouterConfig, svc Services) http.Handler {
	authHandler := NewAuthHandler(svc.Users)
	commentHandler := &CommentHandler{Comments: svc.Comments}
	favoriteHandler := &FavoriteHandler{Favorites: svc.Favorites}
	moderationHandler := &ModerationHandler{Moderation: svc.Moderation}
	albumHandler := &AlbumHandler{Albums: svc.Albums}
	imageHandler := &ImageHandler{Images: svc.Images}
	adminUserHandler := NewAdminUserHandler(svc.Users)
	adminInviteCodeHandler := NewAdminInviteCodeHandler(svc.Invites)
	permissionHandler := &PermissionHandler{}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 60 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(corsHandler.Handler)
	r.Use(metrics.Middleware)

	// mutations share one per-IP budget
	mutating := func(next http.Handler) http.Handler { return RequireSession(next) }
	if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow > 0 {
		limiter := httprate.LimitByIP(cfg.RateLimitRequests, cfg.RateLimitWindow)
		mutating = func(next http.Handler) http.Handler { return limiter(RequireSession(next)) }
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Health != nil {
			if err := svc.Health(r.Context()); err != nil {
				logging.Ctx(r.Context()).Error().Err(err).Msg("health check failed")
				WriteAPIError(w, http.StatusServiceUnavailable, "upstream_unavailable", "store unavailable")
				return
			}
		}
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(SessionMiddleware(svc.Tokens))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
			r.With(RequireSession).Get("/me", authHandler.CurrentUser)
		})

		r.Get("/users/{username}", authHandler.Profile)
		r.Get("/images/{external_id}", imageHandler.Details)

		r.Route("/comments", func(r chi.Router) {
			r.Get("/", commentHandler.List)
			r.Group(func(r chi.Router) {
				r.Use(mutating)
				r.Post("/", commentHandler.Create)
				r.Put("/{comment_id}", commentHandler.Update)
				r.Delete("/{comment_id}", commentHandler.Delete)
				r.Post("/{comment_id}/flag", commentHandler.Flag)
			})
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/state", favoriteHandler.State)
			r.Group(func(r chi.Router) {
				r.Use(RequireSession)
				r.Get("/", favoriteHandler.ListImages)
				r.Get("/albums", favoriteHandler.ListAlbums)
			})
			r.With(mutating).Post("/toggle", favoriteHandler.Toggle)
		})

		r.Route("/albums", func(r chi.Router) {
			r.With(mutating).Post("/", albumHandler.CreateAlbum)
			r.Route("/{album_id}", func(r chi.Router) {
				r.Get("/", albumHandler.GetAlbum)
				r.Group(func(r chi.Router) {
					r.Use(mutating)
					r.Put("/", albumHandler.UpdateAlbum)
					r.Delete("/", albumHandler.DeleteAlbum)
					r.Post("/media", albumHandler.AddMedia)
					r.Delete("/media/{link_id}", albumHandler.RemoveMedia)
				})
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireSession)
			r.Get("/permissions", permissionHandler.ListPermissionDefinitions)
			r.Route("/comments", func(r chi.Router) {
				r.Get("/flagged", moderationHandler.ListFlagged)
				r.Post("/{comment_id}/resolve", moderationHandler.Resolve)
				r.Delete("/{comment_id}", moderationHandler.Purge)
			})
			r.Route("/users", func(r chi.Router) {
				r.Get("/", adminUserHandler.ListUsers)
				r.Post("/", adminUserHandler.CreateUser)
				r.Delete("/{user_id}", adminUserHandler.DeleteUser)
			})
			r.Route("/invite-codes", func(r chi.Router) {
				r.Get("/", adminInviteCodeHandler.ListInviteCodes)
				r.Post("/", adminInviteCodeHandler.CreateInviteCode)
				r.Delete("/{invite_id}", adminInviteCodeHandler.DeactivateInviteCode)
			})
		})
	})

	return r
}
