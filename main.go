package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camden-git/mediashare/config"
	"github.com/camden-git/mediashare/database"
	"github.com/camden-git/mediashare/handlers"
	"github.com/camden-git/mediashare/logging"
	"github.com/camden-git/mediashare/photoapi"
	"github.com/camden-git/mediashare/repository"
	"github.com/camden-git/mediashare/services"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logging.Info().Err(err).Msg("no .env file loaded")
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to get sql.DB")
	}
	defer sqlDB.Close()

	users := repository.NewGormUserRepository(db)
	albumsRepo := repository.NewGormAlbumRepository(db)
	images := repository.NewGormImageRepository(db)
	comments := repository.NewGormCommentRepository(db)
	favorites := repository.NewGormFavoriteRepository(db)
	invites := repository.NewGormInviteCodeRepository(db)

	photos := photoapi.NewClient(photoapi.Config{
		BaseURL:       cfg.PhotoAPIBaseURL,
		APIKey:        cfg.PhotoAPIKey,
		Timeout:       cfg.PhotoAPITimeout,
		MaxRetries:    cfg.PhotoAPIMaxRetries,
		RatePerSecond: cfg.PhotoAPIRatePerSec,
	})
	if cfg.PhotoAPIKey == "" {
		logging.Warn().Msg("PHOTO_API_KEY is empty; image details will fail upstream")
	}

	tokens := services.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour)
	userService := services.NewUserService(users, invites, albumsRepo, tokens, cfg.StoreTimeout)
	commentService := services.NewCommentService(comments, users, albumsRepo, images, cfg.StoreTimeout, cfg.CommentPageSize)

	if cfg.AdminUsername != "" {
		created, err := userService.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to ensure admin account")
		}
		if created {
			logging.Info().Str("username", cfg.AdminUsername).Msg("created initial admin account")
		}
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRequests:  cfg.RateLimitRequests,
		RateLimitWindow:    cfg.RateLimitWindow,
		RequestTimeout:     60 * time.Second,
	}, handlers.Services{
		Users:      userService,
		Invites:    services.NewInviteService(invites, users, cfg.StoreTimeout),
		Tokens:     tokens,
		Comments:   commentService,
		Favorites:  services.NewFavoriteService(favorites, albumsRepo, users, cfg.StoreTimeout),
		Moderation: services.NewModerationService(commentService),
		Albums:     services.NewAlbumService(albumsRepo, users, cfg.StoreTimeout),
		Images:     services.NewImageService(photos, images, cfg.StoreTimeout),
		Health:     sqlDB.PingContext,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 70 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logging.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}
