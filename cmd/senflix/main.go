package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/spf13/afero"

	"senflix/internal/config"
	"senflix/internal/database"
	"senflix/internal/handler"
	"senflix/internal/omdb"
	"senflix/internal/poster"
	"senflix/internal/repository"
	"senflix/internal/service"
)

func main() {
	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Connect to Redis (non-fatal if unavailable)
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without cache", "error", err)
	}

	// Outbound dependencies
	omdbClient := omdb.NewClient(cfg.OMDB.APIKey, cfg.OMDB.BaseURL)
	posters, err := poster.NewStore(afero.NewOsFs(), cfg.PosterDir)
	if err != nil {
		slog.Error("failed to prepare poster directory", "error", err)
		os.Exit(1)
	}

	// Initialize layers
	userRepo := repository.NewUserRepository(db)
	movieRepo := repository.NewMovieRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	metadataRepo := repository.NewMetadataRepository(db)

	userSvc := service.NewUserService(userRepo, interactionRepo)
	catalogSvc := service.NewCatalogService(movieRepo, rdb)
	interactionSvc := service.NewInteractionService(interactionRepo, userRepo, movieRepo, rdb)
	metadataSvc := service.NewMetadataService(movieRepo, metadataRepo, omdbClient, posters)

	userHandler := handler.NewUserHandler(userSvc)
	movieHandler := handler.NewMovieHandler(catalogSvc, metadataSvc, interactionSvc, posters)
	interactionHandler := handler.NewInteractionHandler(interactionSvc)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Senflix",
		ServerHeader: "Senflix",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// API routes
	api := app.Group("/api/v1")
	api.Get("/health", handler.Health)

	api.Post("/users", userHandler.CreateUser)
	api.Get("/users", userHandler.ListUsers)
	api.Get("/users/:id", userHandler.GetUser)
	api.Delete("/users/:id", userHandler.DeleteUser)
	api.Get("/users/:id/favorites", userHandler.GetFavorites)
	api.Get("/avatars", userHandler.ListAvatars)

	api.Post("/movies", movieHandler.CreateMovie)
	api.Get("/movies", movieHandler.ListMovies)
	api.Get("/movies/popular", movieHandler.Popular)
	api.Get("/movies/top-rated", movieHandler.TopRated)
	api.Get("/movies/recent-comments", movieHandler.RecentComments)
	api.Get("/movies/new-releases", movieHandler.NewReleases)
	api.Get("/movies/:id", movieHandler.GetMovie)
	api.Put("/movies/:id", movieHandler.UpdateMovie)
	api.Delete("/movies/:id", movieHandler.DeleteMovie)
	api.Get("/movies/:id/metadata", movieHandler.GetMetadata)
	api.Get("/movies/:id/rating", movieHandler.AverageRating)
	api.Get("/movies/:id/ratings", movieHandler.ListRatings)

	api.Get("/categories", movieHandler.ListCategories)
	api.Get("/categories/:id/movies", movieHandler.MoviesByCategory)
	api.Get("/platforms", movieHandler.ListPlatforms)
	api.Get("/platforms/:id/movies", movieHandler.MoviesByPlatform)

	api.Put("/users/:userId/movies/:movieId", interactionHandler.Upsert)
	api.Get("/users/:userId/movies/:movieId", interactionHandler.Get)
	api.Delete("/users/:userId/movies/:movieId", interactionHandler.Remove)
	api.Post("/users/:userId/movies/:movieId/toggle/:attribute", interactionHandler.Toggle)

	app.Get("/posters/:filename", movieHandler.GetPoster)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down senflix...")
		_ = app.Shutdown()
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting senflix", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
