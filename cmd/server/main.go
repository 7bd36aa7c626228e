package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"everskills/coaching-app/internal/api"
	"everskills/coaching-app/internal/config"
	"everskills/coaching-app/internal/repository"
	"everskills/coaching-app/internal/repository/jsonfile"
	"everskills/coaching-app/internal/repository/mongo"
	"everskills/coaching-app/internal/service"
	"everskills/coaching-app/internal/storage"
)

// @title EVERSKILLS Coaching API
// @version 1.0
// @description Coaching requests, weekly programs and learner follow-up.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("could not load config", "error", err)
		os.Exit(1)
	}
	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)
	if cfg.JWT.Secret == "" {
		logger.Error("jwt.secret must be set (JWT_SECRET)")
		os.Exit(1)
	}
	logger.Info("starting server", "store", cfg.Store.Driver, "vocabulary", cfg.Plan.ActiveVocabulary())

	ctx := context.Background()

	repos, closeStore, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("could not open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(ctx, cfg.S3, logger)
		if err != nil {
			logger.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("s3.bucket_name not set, support uploads are disabled")
	}

	// --- Initialize Services ---
	notifier := service.NewLogNotifier(logger)
	settings := service.PlanSettings{
		Vocabulary:   cfg.Plan.ActiveVocabulary(),
		DoneStatuses: cfg.Plan.DoneStatuses,
	}
	svc := api.Services{
		Auth:     service.NewAuthService(repos.users, cfg.JWT.Secret, cfg.JWT.Expiration),
		Requests: service.NewRequestService(repos.requests, repos.users, fileStorage, notifier, logger, cfg.Plan.DefaultWeeks),
		Coach:    service.NewCoachService(repos.campaigns, repos.requests, repos.users, settings, notifier, logger),
		Learner:  service.NewLearnerService(repos.campaigns, repos.users, settings, notifier, logger),
	}

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(logger))
	api.SetupRoutes(router, cfg.JWT.Secret, svc)

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful Shutdown ---
	go func() {
		logger.Info("server listening", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	logger.Info("server exiting")
}

type repositories struct {
	users     repository.UserRepository
	requests  repository.RequestRepository
	campaigns repository.CampaignRepository
}

// openRepositories selects the store named by store.driver. The returned
// func releases it.
func openRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (repositories, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		client, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			return repositories{}, nil, err
		}
		db := client.Database(cfg.Database.Name)

		idxCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(idxCtx, db); err != nil {
			logger.Warn("index creation failed", "error", err)
		}

		closeFn := func() {
			if err := mongo.DisconnectDB(client); err != nil {
				logger.Error("failed to disconnect MongoDB", "error", err)
			}
		}
		logger.Info("connected to MongoDB", "database", cfg.Database.Name)
		return repositories{
			users:     mongo.NewMongoUserRepository(db),
			requests:  mongo.NewMongoRequestRepository(db),
			campaigns: mongo.NewMongoCampaignRepository(db),
		}, closeFn, nil

	case config.StoreDriverJSON, "":
		store, err := jsonfile.Open(cfg.Store.DataDir, logger)
		if err != nil {
			return repositories{}, nil, err
		}
		logger.Info("using JSON files", "dir", store.Dir())
		return repositories{
			users:     jsonfile.NewUserRepository(store),
			requests:  jsonfile.NewRequestRepository(store),
			campaigns: jsonfile.NewCampaignRepository(store),
		}, func() {}, nil

	default:
		return repositories{}, nil, errors.New("unknown store driver " + cfg.Store.Driver)
	}
}
