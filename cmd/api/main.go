package main

import (
	"log"
	"os"
	"time"

	"github.com/meenatech/ghumakad-api/internal/config"
	"github.com/meenatech/ghumakad-api/internal/logging"
	"github.com/meenatech/ghumakad-api/internal/media"
	"github.com/meenatech/ghumakad-api/internal/repository/gemini"
	miniostore "github.com/meenatech/ghumakad-api/internal/repository/minio"
	"github.com/meenatech/ghumakad-api/internal/repository/postgres"
	"github.com/meenatech/ghumakad-api/internal/service"
	transporthttp "github.com/meenatech/ghumakad-api/internal/transport/http"
	"github.com/meenatech/ghumakad-api/internal/transport/mail"
	"github.com/meenatech/ghumakad-api/internal/util"
)

func main() {
	cfg := config.Load()

	if cfg.LogstashTCPAddr != "" {
		shipper := logging.NewLogstashWriter(cfg.LogstashTCPAddr, 5*time.Second)
		defer shipper.Close()
		log.SetOutput(logging.Tee(os.Stdout, shipper))
	}

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	minioClient, err := miniostore.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
	if err != nil {
		log.Fatalf("connect object storage: %v", err)
	}
	storage := miniostore.NewStorage(minioClient, cfg.MinIOEndpoint, cfg.MinIOPublicURL, cfg.MinIOUseSSL)

	sessionTTL, err := time.ParseDuration(cfg.SessionTTL)
	if err != nil {
		log.Fatalf("parse SESSION_TTL: %v", err)
	}
	resetTTL, err := time.ParseDuration(cfg.PasswordResetTTL)
	if err != nil {
		log.Fatalf("parse PASSWORD_RESET_TTL: %v", err)
	}

	userRepo := postgres.NewUserRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)
	resetRepo := postgres.NewPasswordResetRepo(db)
	profileRepo := postgres.NewProfileRepo(db)
	itineraryRepo := postgres.NewItineraryRepo(db)
	postRepo := postgres.NewPostRepo(db)
	likeRepo := postgres.NewLikeRepo(db)
	followRepo := postgres.NewFollowRepo(db)

	jwtManager := util.NewJWTManager(cfg.JWTSecret, sessionTTL)
	mailer := mail.NewSMTPMailer(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		UseTLS:   cfg.SMTPUseTLS,
	})
	processor := media.NewFFMPEGProcessor(cfg.FFmpegPath, media.DefaultMaxDimension)
	generator := gemini.NewGenerator(cfg.GeminiAPIKey, cfg.GeminiModel)

	authService := service.NewAuthService(userRepo, sessionRepo, resetRepo, jwtManager, mailer,
		cfg.GoogleAudience, resetTTL, cfg.PasswordResetOTPLength)
	plannerService := service.NewPlannerService(generator)
	itineraryService := service.NewItineraryService(itineraryRepo)
	profileService := service.NewProfileService(profileRepo, storage, processor, cfg.MinIOBucketAvatar)
	feedService := service.NewFeedService(postRepo, likeRepo, followRepo, profileRepo,
		storage, processor, cfg.MinIOBucketPosts)

	e := transporthttp.NewRouter(cfg.AllowOrigins)
	transporthttp.RegisterSwagger(e)

	requireAuth := transporthttp.RequireAuth(authService)
	optionalAuth := transporthttp.OptionalAuth(authService)

	api := e.Group("/api/v1")
	transporthttp.NewAuthHandler(authService).RegisterRoutes(api, requireAuth)
	transporthttp.NewPlannerHandler(plannerService).RegisterRoutes(api, requireAuth)
	transporthttp.NewItineraryHandler(itineraryService).RegisterRoutes(api, requireAuth)
	transporthttp.NewProfileHandler(profileService, cfg.PostImageMaxBytes).RegisterRoutes(api, requireAuth)
	transporthttp.NewFeedHandler(feedService, cfg.PostImageMaxBytes).RegisterRoutes(api, requireAuth, optionalAuth)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
