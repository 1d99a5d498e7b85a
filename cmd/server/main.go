package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	config "github.com/wellbeat/awareness-api/configs"
	"github.com/wellbeat/awareness-api/internal/api/handlers"
	"github.com/wellbeat/awareness-api/internal/api/middleware"
	"github.com/wellbeat/awareness-api/internal/apperrors"
	"github.com/wellbeat/awareness-api/internal/database"
	"github.com/wellbeat/awareness-api/internal/metrics"
	"github.com/wellbeat/awareness-api/internal/queue"
	"github.com/wellbeat/awareness-api/internal/repository"
	"github.com/wellbeat/awareness-api/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogger(cfg.AppEnv)

	db, err := database.Connect(cfg.PostgresURI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer closeDB(db)

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("migrations applied")

	metrics.MustRegister(prometheus.DefaultRegisterer)
	metricsCtx, stopMetrics := context.WithCancel(context.Background())
	defer stopMetrics()
	metrics.StartServer(metricsCtx, log.Logger, cfg.MetricsAddr)

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    50 * 1024 * 1024, // data URL uploads
		ErrorHandler: errorHandler,
	})

	app.Use(fiberlogger.New())
	app.Use(middleware.Metrics())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	postRepo := repository.NewPostRepository(db)
	awayRepo := repository.NewAwayDayRepository(db)
	prefRepo := repository.NewPreferenceRepository(db)
	jokeRepo := repository.NewJokeRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	tickerRepo := repository.NewTickerRepository(db)

	notifyService := service.NewNotificationService(client)
	lateService := service.NewLateService(*cfg)
	lifecycleService := service.NewLifecycleService(*cfg, postRepo, lateService, notifyService)
	awayService := service.NewAwayService(awayRepo, postRepo, notifyService)
	captionService := service.NewCaptionService(*cfg, service.NewGeminiGenerator(cfg.Gemini.APIKey))
	storageService := service.NewStorageService(*cfg)
	prefService := service.NewPreferenceService(prefRepo)
	jokeService := service.NewJokeService(jokeRepo)
	quoteService := service.NewQuoteService(quoteRepo)
	tickerService := service.NewTickerService(tickerRepo)

	auth := handlers.NewAuthHandler(*cfg)
	app.Post("/admin/login", auth.Login)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)
	app.Use(authMiddleware.AuthMiddleware())

	post := handlers.NewPostHandler(lifecycleService)
	app.Post("/posts", post.CreatePost)
	app.Patch("/posts/edit", post.EditPost)
	app.Post("/posts/reject", post.RejectPost)
	app.Post("/posts/send-to-pending", post.SendToPending)
	app.Get("/posts/:id", post.GetPost)
	app.Put("/posts/:id", post.UpdatePost)
	app.Delete("/posts/:id", post.DeletePost)
	app.Get("/search-results", post.ListSearchResults)
	app.Get("/search-results/:id", post.GetSearchResult)
	app.Delete("/search-results/:id", post.DeleteSearchResult)

	maintenance := handlers.NewMaintenanceHandler(lifecycleService)
	app.Post("/bulk-move-to-pending", maintenance.BulkMoveToPending)
	app.Get("/sync-late-ids", maintenance.SyncLateIDs)
	app.Post("/cleanup-orphaned", maintenance.CleanupOrphaned)
	app.Get("/check-post-availability", maintenance.CheckAvailability)
	app.Post("/fix-http-urls", maintenance.FixHTTPURLs)

	away := handlers.NewAwayHandler(awayService)
	app.Get("/away-mode", away.ListAwayDays)
	app.Post("/away-mode", away.ReplaceAwayDays)
	app.Delete("/away-mode", away.ClearAwayDays)

	late := handlers.NewLateHandler(*cfg, lateService, lifecycleService, awayService)
	app.Get("/late/accounts", late.GetAccounts)
	app.Get("/late/posts", late.ListPosts)
	app.Post("/late/posts", late.SchedulePost)
	app.Get("/late/posts/:id", late.GetPost)
	app.Put("/late/posts/:id", late.UpdatePost)
	app.Get("/late/queue/next-slot", late.GetNextQueueSlot)
	app.Get("/late/queue/preview", late.GetQueuePreview)
	app.Get("/late/queue/slots", late.GetQueueSlots)
	app.Get("/late/config", late.GetConfig)
	app.Get("/late/test", late.TestConnection)

	caption := handlers.NewCaptionHandler(captionService)
	app.Post("/caption/rewrite", caption.Rewrite)
	app.Post("/caption/edit", caption.Edit)

	upload := handlers.NewUploadHandler(storageService)
	app.Post("/upload", upload.Upload)

	pref := handlers.NewPreferenceHandler(prefService)
	app.Get("/preferences", pref.ListPreferences)
	app.Put("/preferences", pref.UpsertPreference)

	content := handlers.NewContentHandler(jokeService, quoteService, tickerService)
	app.Get("/admin/jokes", content.ListJokes)
	app.Post("/admin/jokes", content.CreateJoke)
	app.Patch("/admin/jokes/:id", content.UpdateJoke)
	app.Delete("/admin/jokes/:id", content.DeleteJoke)
	app.Get("/admin/quotes", content.ListQuotes)
	app.Post("/admin/quotes", content.CreateQuote)
	app.Patch("/admin/quotes/:id", content.UpdateQuote)
	app.Delete("/admin/quotes/:id", content.DeleteQuote)
	app.Get("/admin/ticker", content.ListTickerMessages)
	app.Post("/admin/ticker", content.CreateTickerMessage)
	app.Patch("/admin/ticker/:id", content.UpdateTickerMessage)
	app.Delete("/admin/ticker/:id", content.DeleteTickerMessage)

	worker := queue.NewWorker(*cfg)
	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 5,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeNotifyEmail, worker.HandleNotifyEmailTask)

		log.Info().Msg("starting notification worker")
		if err := server.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("notification worker failed")
		}
	}()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("server is running")

	gracefulShutdown(app, stopMetrics)
}

func setupLogger(appEnv string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if appEnv == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// errorHandler maps domain errors onto HTTP statuses so handlers can
// simply return them.
func errorHandler(c *fiber.Ctx, err error) error {
	status := apperrors.StatusCode(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func closeDB(db *sql.DB) {
	log.Info().Msg("closing database connection")
	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close database")
	}
}

func gracefulShutdown(app *fiber.App, stopMetrics context.CancelFunc) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info().Msg("shutting down server")

	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("failed to shut down server")
	}

	stopMetrics()
	log.Info().Msg("server shutdown complete")
}
