package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"photoshare-backend/internal/config"
	"photoshare-backend/internal/db"
	"photoshare-backend/internal/handlers"
	"photoshare-backend/internal/logger"
	"photoshare-backend/internal/metrics"
	"photoshare-backend/internal/models"
	"photoshare-backend/internal/services"
	"photoshare-backend/internal/storage/postgres"
)

func Run() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	// Init DB
	pool, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	store := postgres.New(pool)

	// Token blacklist: Redis when configured, in-process otherwise.
	var blacklist services.TokenBlacklist
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		blacklist = services.NewRedisBlacklist(rdb)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, using in-process token blacklist")
		blacklist = services.NewMemoryBlacklist()
	}

	// Mailer: SMTP when configured, log-only otherwise.
	var mailer services.Mailer
	if cfg.SMTPHost != "" {
		mailer = services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	} else {
		mailer = &services.NoopMailer{Log: log}
	}

	// Services
	authService := services.NewAuthService(store, blacklist, mailer, log,
		cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL, cfg.BaseURL)
	userService := services.NewUserService(store)
	photoService := services.NewPhotoService(store)
	tagService := services.NewTagService(store)
	commentService := services.NewCommentService(store)
	ratingService := services.NewRatingService(store)
	qrService := services.NewQRService(store, cfg.UploadDir, cfg.BaseURL)

	// Fiber App
	app := fiber.New()

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(logger.RequestLogger(log))
	app.Use(metrics.Middleware())

	// Ensure upload dir exists and serve uploaded files
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		log.Warn().Err(err).Msg("failed to create upload dir")
	}
	app.Static("/uploads", cfg.UploadDir)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Hello! It is a PhotoShare API"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// Routes
	api := app.Group("/api")

	api.Get("/healthchecker", func(c *fiber.Ctx) error {
		if err := store.Ping(c.Context()); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Error connecting to the database"})
		}
		return c.JSON(fiber.Map{"message": "Welcome to PhotoShare!"})
	})

	// Auth
	auth := api.Group("/auth")
	auth.Post("/signup", handlers.SignupHandler(authService))
	auth.Post("/login", handlers.LoginHandler(authService))
	auth.Get("/refresh_token", handlers.RefreshHandler(authService))
	auth.Post("/logout", handlers.Protected(authService), handlers.LogoutHandler(authService))
	auth.Get("/confirmed_email/:token", handlers.ConfirmEmailHandler(authService))
	auth.Post("/request_email", handlers.RequestEmailHandler(authService))

	// Users
	users := api.Group("/users", handlers.Protected(authService))
	users.Get("/me", handlers.MeHandler(userService))
	users.Put("/", handlers.UpdateUserHandler(userService))
	users.Delete("/", handlers.DeleteUserHandler(userService))
	users.Put("/avatar", handlers.UploadAvatarHandler(userService, cfg.UploadDir, cfg.BaseURL))
	users.Patch("/:email/ban", handlers.RequireRoles(models.RoleAdministrator), handlers.BanUserHandler(userService))
	users.Patch("/:email/role", handlers.RequireRoles(models.RoleAdministrator), handlers.ChangeRoleHandler(userService))

	// Photos
	photos := api.Group("/photos", handlers.Protected(authService))
	photos.Post("/", handlers.UploadPhotoHandler(photoService, cfg.UploadDir, cfg.BaseURL))
	photos.Get("/", handlers.ListPhotosHandler(photoService))
	photos.Get("/:id", handlers.GetPhotoHandler(photoService))
	photos.Put("/:id", handlers.UpdatePhotoHandler(photoService))
	photos.Delete("/:id", handlers.DeletePhotoHandler(photoService, cfg.UploadDir))
	photos.Post("/:id/qr", handlers.QRPhotoHandler(qrService))
	photos.Post("/:id/like", handlers.LikePhotoHandler(photoService))
	photos.Delete("/:id/like", handlers.UnlikePhotoHandler(photoService))

	// Tags
	tags := api.Group("/tags", handlers.Protected(authService))
	tags.Post("/", handlers.CreateTagHandler(tagService))
	tags.Get("/my", handlers.MyTagsHandler(tagService))
	tags.Get("/all", handlers.RequireRoles(models.RoleAdministrator), handlers.AllTagsHandler(tagService))
	tags.Get("/:id", handlers.GetTagHandler(tagService))
	tags.Put("/:id", handlers.RequireRoles(models.RoleAdministrator), handlers.UpdateTagHandler(tagService))
	tags.Delete("/:id", handlers.RequireRoles(models.RoleAdministrator), handlers.DeleteTagHandler(tagService))

	// Comments
	comments := api.Group("/comments", handlers.Protected(authService))
	comments.Post("/photo/:photo_id", handlers.CreateCommentHandler(commentService))
	comments.Get("/photo/:photo_id", handlers.ListCommentsHandler(commentService))
	comments.Get("/:id", handlers.GetCommentHandler(commentService))
	comments.Put("/:id", handlers.UpdateCommentHandler(commentService))
	comments.Delete("/:id", handlers.DeleteCommentHandler(commentService))

	// Ratings
	ratings := api.Group("/ratings", handlers.Protected(authService))
	ratings.Post("/photo/:photo_id", handlers.CreateRatingHandler(ratingService))
	ratings.Get("/photo/:photo_id", handlers.ListRatingsHandler(ratingService))
	ratings.Delete("/:id", handlers.DeleteRatingHandler(ratingService))

	// Start Server
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("server started")

	// Graceful Shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c // Block until signal
	log.Info().Msg("gracefully shutting down...")
	_ = app.Shutdown()
	log.Info().Msg("server shutdown complete")
}
